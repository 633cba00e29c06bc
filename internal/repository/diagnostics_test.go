//go:build integration
// +build integration

package repository

import (
	"context"
	"testing"

	"linkbird-backend/internal/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnosticsRepository(t *testing.T) {
	testutils.RunWithTestSuite(t, func(s *testutils.BaseTestSuite) {
		s.CleanTestDB()
		ctx := context.Background()
		campaign := testutils.NewCampaignFactory(owner).Create()
		require.NoError(t, NewCampaignRepository(s.DB).Create(ctx, campaign))

		repo := NewDiagnosticsRepository(s.DB)
		counts, err := repo.TableCounts(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]int64{"campaigns": 1, "leads": 0}, counts)

		stats, err := repo.PoolStats()
		require.NoError(t, err)
		assert.Equal(t, 20, stats.MaxOpen)
	})
}
