package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"marketing-insights-be/internal/entity"
	"marketing-insights-be/internal/model"
	"marketing-insights-be/internal/repository/contract"
	"marketing-insights-be/internal/repository/implementation"
	"marketing-insights-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCampaignRepositoryPostgres(t *testing.T) {
	// Load .env from root
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn, false)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(gormDB, &model.Campaign{}))

	sqlDB, _ := gormDB.DB()
	require.NoError(t, sqlDB.Ping())

	repo := implementation.NewCampaignRepository(gormDB)
	ctx := context.Background()
	name := "integration-" + uuid.NewString()

	t.Cleanup(func() {
		gormDB.Unscoped().Where("name = ?", name).Delete(&model.Campaign{})
	})

	campaign := &entity.Campaign{Id: uuid.New(), Name: name}
	require.NoError(t, repo.Create(ctx, campaign))
	assert.False(t, campaign.CreatedAt.IsZero())

	t.Run("Duplicate name is rejected", func(t *testing.T) {
		err := repo.Create(ctx, &entity.Campaign{Id: uuid.New(), Name: name})
		assert.ErrorIs(t, err, contract.ErrCampaignExists)
	})

	t.Run("Summaries round trip through jsonb", func(t *testing.T) {
		summaries := []entity.NewsSummary{{OriginalHeadline: "A", Summary: "S", URL: "https://news.example/A"}}
		require.NoError(t, repo.UpdateTrendspottingSummaries(ctx, campaign.Id, summaries))

		found, err := repo.FindByName(ctx, name)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, summaries, found.TrendspottingSummaries)
	})

	t.Run("Unknown campaign", func(t *testing.T) {
		found, err := repo.FindByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, found)

		err = repo.UpdateTrendspottingSummaries(ctx, uuid.New(), nil)
		assert.ErrorIs(t, err, contract.ErrCampaignNotFound)
	})
}
