package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"marketing-insights-be/internal/entity"
	"marketing-insights-be/internal/repository/contract"

	"github.com/google/uuid"
)

// CampaignRepository is the registry used when no database is configured.
type CampaignRepository struct {
	mu        sync.RWMutex
	campaigns map[uuid.UUID]*entity.Campaign
	now       func() time.Time
}

var _ contract.CampaignRepository = (*CampaignRepository)(nil)

func NewCampaignRepository() *CampaignRepository {
	return &CampaignRepository{
		campaigns: make(map[uuid.UUID]*entity.Campaign),
		now:       time.Now,
	}
}

func (r *CampaignRepository) Create(_ context.Context, campaign *entity.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.campaigns {
		if c.Name == campaign.Name {
			return fmt.Errorf("%w: %s", contract.ErrCampaignExists, campaign.Name)
		}
	}
	if campaign.Id == uuid.Nil {
		campaign.Id = uuid.New()
	}
	if campaign.CreatedAt.IsZero() {
		campaign.CreatedAt = r.now()
	}
	r.campaigns[campaign.Id] = copyCampaign(campaign)
	return nil
}

func (r *CampaignRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.campaigns[id]
	if !ok {
		return nil, nil
	}
	return copyCampaign(c), nil
}

func (r *CampaignRepository) FindByName(_ context.Context, name string) (*entity.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.campaigns {
		if c.Name == name {
			return copyCampaign(c), nil
		}
	}
	return nil, nil
}

func (r *CampaignRepository) FindAll(_ context.Context) ([]*entity.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.Campaign, 0, len(r.campaigns))
	for _, c := range r.campaigns {
		out = append(out, copyCampaign(c))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Name < out[j].Name
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *CampaignRepository) UpdateTrendspottingSummaries(_ context.Context, id uuid.UUID, summaries []entity.NewsSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.campaigns[id]
	if !ok {
		return fmt.Errorf("%w: %s", contract.ErrCampaignNotFound, id)
	}
	c.TrendspottingSummaries = append([]entity.NewsSummary(nil), summaries...)
	now := r.now()
	c.UpdatedAt = &now
	return nil
}

func copyCampaign(c *entity.Campaign) *entity.Campaign {
	cp := *c
	cp.TrendspottingSummaries = append([]entity.NewsSummary(nil), c.TrendspottingSummaries...)
	if c.UpdatedAt != nil {
		t := *c.UpdatedAt
		cp.UpdatedAt = &t
	}
	return &cp
}
