package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"testing"
	"time"

	"linkbird-backend/internal/config"
	"linkbird-backend/internal/database"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for the readiness probe
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

const (
	pgUser     = "linkbird"
	pgPassword = "linkbird"
	pgDatabase = "linkbird_test"
)

// appTables are truncated between tests, children first
var appTables = []string{"leads", "campaigns"}

// postgresContainer is the single Postgres instance shared by every suite of a test binary
type postgresContainer struct {
	once     sync.Once
	err      error
	pool     *dockertest.Pool
	resource *dockertest.Resource
	db       *gorm.DB
	cfg      *config.Config
}

var shared postgresContainer

// BaseTestSuite gives a suite a migrated database that is emptied around every test
type BaseTestSuite struct {
	suite.Suite
	DB     *gorm.DB
	Config *config.Config
}

// SetupTestSuite starts the shared container on first use and returns a suite bound to it
func SetupTestSuite(t *testing.T) *BaseTestSuite {
	shared.once.Do(func() { shared.err = shared.start() })
	if shared.err != nil {
		t.Fatalf("failed to start postgres container: %v", shared.err)
	}
	return &BaseTestSuite{DB: shared.db, Config: shared.cfg}
}

// RunWithTestSuite runs fn against a clean database
func RunWithTestSuite(t *testing.T, fn func(*BaseTestSuite)) {
	s := SetupTestSuite(t)
	defer s.CleanTestDB()
	fn(s)
}

func (s *BaseTestSuite) SetupTest()    { s.CleanTestDB() }
func (s *BaseTestSuite) TearDownTest() { s.CleanTestDB() }

// CleanTestDB empties the application tables and resets their id sequences
func (s *BaseTestSuite) CleanTestDB() {
	if s.DB == nil {
		return
	}
	for _, table := range appTables {
		if s.DB.Migrator().HasTable(table) {
			s.DB.Exec(`TRUNCATE TABLE "` + table + `" RESTART IDENTITY CASCADE`)
		}
	}
}

// RunTests runs m and removes the shared container afterwards, also when
// the run is interrupted
func RunTests(m *testing.M) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		if _, ok := <-signals; ok {
			logrus.Warn("Tests interrupted, removing postgres container")
			CleanupSharedContainer()
			os.Exit(1)
		}
	}()

	code := m.Run()
	signal.Stop(signals)
	close(signals)
	CleanupSharedContainer()
	os.Exit(code)
}

// CleanupSharedContainer closes the pool and purges the container
func CleanupSharedContainer() {
	if shared.db != nil {
		_ = database.Close(shared.db)
		shared.db = nil
	}
	if shared.pool == nil || shared.resource == nil {
		return
	}
	if err := shared.pool.Purge(shared.resource); err != nil {
		logrus.WithError(err).Warn("Could not purge postgres container")
	}
	shared.pool, shared.resource = nil, nil
}

func (p *postgresContainer) start() error {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return fmt.Errorf("could not connect to docker: %w", err)
	}
	pool.MaxWait = 2 * time.Minute
	p.pool = pool

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=" + pgUser,
			"POSTGRES_PASSWORD=" + pgPassword,
			"POSTGRES_DB=" + pgDatabase,
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return fmt.Errorf("could not start postgres: %w", err)
	}
	p.resource = resource
	_ = resource.Expire(600)

	port := resource.GetPort("5432/tcp")
	dsn := fmt.Sprintf("postgres://%s:%s@127.0.0.1:%s/%s?sslmode=disable", pgUser, pgPassword, port, pgDatabase)

	if err := pool.Retry(func() error { return ping(dsn) }); err != nil {
		return fmt.Errorf("postgres did not become ready: %w", err)
	}

	db, err := database.Initialize(dsn, nil)
	if err != nil {
		return err
	}
	p.db = db
	p.cfg = &config.Config{
		DatabaseURL: dsn,
		Port:        "0",
		LogLevel:    "warn",
		Environment: "test",
		DemoUserID:  "demo-user-id",
	}

	logrus.WithField("port", port).Info("Postgres test container ready")
	return nil
}

// ping opens a throwaway database/sql connection to probe readiness
func ping(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}
