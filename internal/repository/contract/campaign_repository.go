package contract

import (
	"context"
	"errors"

	"marketing-insights-be/internal/entity"

	"github.com/google/uuid"
)

var (
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrCampaignExists   = errors.New("campaign already exists")
)

// CampaignRepository is the cross-page campaign registry.
// Find methods return (nil, nil) when nothing matches.
type CampaignRepository interface {
	Create(ctx context.Context, campaign *entity.Campaign) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Campaign, error)
	FindByName(ctx context.Context, name string) (*entity.Campaign, error)
	FindAll(ctx context.Context) ([]*entity.Campaign, error)
	UpdateTrendspottingSummaries(ctx context.Context, id uuid.UUID, summaries []entity.NewsSummary) error
}
