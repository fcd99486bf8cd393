package implementation

import (
	"context"
	"errors"
	"fmt"

	"marketing-insights-be/internal/entity"
	"marketing-insights-be/internal/mapper"
	"marketing-insights-be/internal/model"
	"marketing-insights-be/internal/repository/contract"
	"marketing-insights-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CampaignRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CampaignMapper
}

func NewCampaignRepository(db *gorm.DB) contract.CampaignRepository {
	return &CampaignRepositoryImpl{
		db:     db,
		mapper: mapper.NewCampaignMapper(),
	}
}

func (r *CampaignRepositoryImpl) Create(ctx context.Context, campaign *entity.Campaign) error {
	existing, err := r.FindByName(ctx, campaign.Name)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: %s", contract.ErrCampaignExists, campaign.Name)
	}

	m, err := r.mapper.ToModel(campaign)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}

	created, err := r.mapper.ToEntity(m)
	if err != nil {
		return err
	}
	*campaign = *created
	return nil
}

func (r *CampaignRepositoryImpl) findOne(ctx context.Context, specs ...specification.Specification) (*entity.Campaign, error) {
	var m model.Campaign
	query := specification.Apply(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m)
}

func (r *CampaignRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*entity.Campaign, error) {
	return r.findOne(ctx, specification.ByID{ID: id})
}

func (r *CampaignRepositoryImpl) FindByName(ctx context.Context, name string) (*entity.Campaign, error) {
	return r.findOne(ctx, specification.ByName{Name: name})
}

func (r *CampaignRepositoryImpl) FindAll(ctx context.Context) ([]*entity.Campaign, error) {
	var models []*model.Campaign
	query := specification.Apply(r.db.WithContext(ctx), specification.OrderBy{Field: "created_at"})
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	entities := make([]*entity.Campaign, 0, len(models))
	for _, m := range models {
		e, err := r.mapper.ToEntity(m)
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	return entities, nil
}

func (r *CampaignRepositoryImpl) UpdateTrendspottingSummaries(ctx context.Context, id uuid.UUID, summaries []entity.NewsSummary) error {
	raw, err := r.mapper.SummariesToJSON(summaries)
	if err != nil {
		return err
	}

	query := specification.Apply(r.db.WithContext(ctx).Model(&model.Campaign{}), specification.ByID{ID: id})
	result := query.Update("trendspotting_summaries", raw)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", contract.ErrCampaignNotFound, id)
	}
	return nil
}
