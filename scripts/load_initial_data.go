package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"linkbird-backend/internal/config"
	"linkbird-backend/internal/database"
	"linkbird-backend/internal/database/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// CampaignData is one campaign of a seed file together with its leads
type CampaignData struct {
	Name      string     `yaml:"name"`
	Status    string     `yaml:"status"`
	StartDate string     `yaml:"start_date,omitempty"`
	Leads     []LeadData `yaml:"leads"`
}

// LeadData is one seeded lead
type LeadData struct {
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Email     string `yaml:"email"`
	Company   string `yaml:"company,omitempty"`
	Position  string `yaml:"position,omitempty"`
	Status    string `yaml:"status,omitempty"`
	Notes     string `yaml:"notes,omitempty"`
}

// CampaignsFile is the top-level shape of a seed file
type CampaignsFile struct {
	Campaigns []CampaignData `yaml:"campaigns"`
}

func main() {
	log.Println("Loading demo data from YAML files...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database with retry (for dockerized Postgres startup)
	db, err := connectWithRetry(cfg.DatabaseURL, 60, time.Second)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	dataDir := "scripts/data"
	if len(os.Args) > 1 {
		dataDir = os.Args[1]
	}

	if err := loadDataFromYAMLFiles(db, dataDir, cfg.DemoUserID); err != nil {
		log.Fatalf("Failed to load data from YAML files: %v", err)
	}

	log.Println("Demo data loaded successfully")
}

func connectWithRetry(dsn string, maxAttempts int, delay time.Duration) (*gorm.DB, error) {
	opts := &database.Options{
		LogLevel: logger.Silent, // Suppress all GORM logs including "record not found"
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		db, err := database.Initialize(dsn, opts)
		if err == nil {
			return db, nil
		}
		// Only log every 10 attempts to reduce noise
		if attempt%10 == 0 || attempt == maxAttempts {
			log.Printf("Database not ready (%d/%d): %v", attempt, maxAttempts, err)
		}
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("database not ready after %d attempts", maxAttempts)
}

func loadDataFromYAMLFiles(db *gorm.DB, dataDir, userID string) error {
	campaigns, err := loadCampaigns(dataDir)
	if err != nil {
		return fmt.Errorf("failed to load campaigns: %w", err)
	}

	campaignCreated, leadCreated, leadTotal := 0, 0, 0
	for _, campaignData := range campaigns {
		campaign, created, err := createCampaign(db, campaignData, userID)
		if err != nil {
			return fmt.Errorf("failed to create campaign %s: %w", campaignData.Name, err)
		}
		if created {
			campaignCreated++
		}

		for _, leadData := range campaignData.Leads {
			leadTotal++
			created, err := createLead(db, leadData, campaign)
			if err != nil {
				return fmt.Errorf("failed to create lead %s: %w", leadData.Email, err)
			}
			if created {
				leadCreated++
			}
		}
	}
	log.Printf("Campaigns: %d created, %d total", campaignCreated, len(campaigns))
	log.Printf("Leads: %d created, %d total", leadCreated, leadTotal)

	return nil
}

// loadCampaigns reads every .yaml file under dataDir
func loadCampaigns(dataDir string) ([]CampaignData, error) {
	var all []CampaignData

	err := filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && strings.HasSuffix(path, ".yaml") {
			var file CampaignsFile
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			if err := yaml.Unmarshal(data, &file); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			for _, c := range file.Campaigns {
				if err := c.validate(); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
			}

			all = append(all, file.Campaigns...)
		}
		return nil
	})

	return all, err
}

func (c CampaignData) validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("campaign name is required")
	}
	if c.Status != "" && !models.CampaignStatus(c.Status).IsValid() {
		return fmt.Errorf("campaign %s: invalid status %q", c.Name, c.Status)
	}
	if c.StartDate != "" {
		if _, err := time.Parse("2006-01-02", c.StartDate); err != nil {
			return fmt.Errorf("campaign %s: start_date must be YYYY-MM-DD", c.Name)
		}
	}
	for _, l := range c.Leads {
		if l.FirstName == "" || l.LastName == "" || l.Email == "" {
			return fmt.Errorf("campaign %s: leads need first_name, last_name and email", c.Name)
		}
		if l.Status != "" && !models.LeadStatus(l.Status).IsValid() {
			return fmt.Errorf("lead %s: invalid status %q", l.Email, l.Status)
		}
	}
	return nil
}

func createCampaign(db *gorm.DB, campaignData CampaignData, userID string) (*models.Campaign, bool, error) {
	var campaign models.Campaign
	err := db.Where("user_id = ? AND name = ?", userID, campaignData.Name).First(&campaign).Error
	if err == nil {
		return &campaign, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to query campaign: %w", err)
	}

	campaign = models.Campaign{
		Name:   campaignData.Name,
		Status: models.CampaignStatusDraft,
		UserID: userID,
	}
	if campaignData.Status != "" {
		campaign.Status = models.CampaignStatus(campaignData.Status)
	}
	if campaignData.StartDate != "" {
		start, _ := time.Parse("2006-01-02", campaignData.StartDate)
		campaign.StartDate = &start
	}

	if err := db.Create(&campaign).Error; err != nil {
		return nil, false, fmt.Errorf("failed to create campaign: %w", err)
	}
	return &campaign, true, nil
}

func createLead(db *gorm.DB, leadData LeadData, campaign *models.Campaign) (bool, error) {
	var existing models.Lead
	err := db.Where("campaign_id = ? AND email = ?", campaign.ID, leadData.Email).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("failed to query lead: %w", err)
	}

	lead := models.Lead{
		FirstName:  leadData.FirstName,
		LastName:   leadData.LastName,
		Email:      leadData.Email,
		Company:    leadData.Company,
		Position:   leadData.Position,
		Status:     models.LeadStatusPending,
		Notes:      leadData.Notes,
		CampaignID: campaign.ID,
		UserID:     campaign.UserID,
	}
	if leadData.Status != "" {
		lead.Status = models.LeadStatus(leadData.Status)
	}

	if err := db.Omit("Campaign").Create(&lead).Error; err != nil {
		return false, fmt.Errorf("failed to create lead: %w", err)
	}
	return true, nil
}
