package mapper

import (
	"encoding/json"
	"time"

	"marketing-insights-be/internal/entity"
	"marketing-insights-be/internal/model"

	"gorm.io/datatypes"
)

type CampaignMapper struct{}

func NewCampaignMapper() *CampaignMapper {
	return &CampaignMapper{}
}

func (m *CampaignMapper) ToEntity(c *model.Campaign) (*entity.Campaign, error) {
	if c == nil {
		return nil, nil
	}

	var summaries []entity.NewsSummary
	if len(c.TrendspottingSummaries) > 0 {
		if err := json.Unmarshal(c.TrendspottingSummaries, &summaries); err != nil {
			return nil, err
		}
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.Campaign{
		Id:                     c.Id,
		Name:                   c.Name,
		TrendspottingSummaries: summaries,
		CreatedAt:              c.CreatedAt,
		UpdatedAt:              updatedAt,
	}, nil
}

func (m *CampaignMapper) ToModel(c *entity.Campaign) (*model.Campaign, error) {
	if c == nil {
		return nil, nil
	}

	summaries, err := m.SummariesToJSON(c.TrendspottingSummaries)
	if err != nil {
		return nil, err
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	return &model.Campaign{
		Id:                     c.Id,
		Name:                   c.Name,
		TrendspottingSummaries: summaries,
		CreatedAt:              c.CreatedAt,
		UpdatedAt:              updatedAt,
	}, nil
}

func (m *CampaignMapper) SummariesToJSON(summaries []entity.NewsSummary) (datatypes.JSON, error) {
	if summaries == nil {
		return nil, nil
	}
	raw, err := json.Marshal(summaries)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
