package dto

import (
	"time"

	"marketing-insights-be/internal/entity"

	"github.com/google/uuid"
)

type CreateCampaignRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

type CampaignResponse struct {
	Id                     uuid.UUID            `json:"id"`
	Name                   string               `json:"name"`
	TrendspottingSummaries []entity.NewsSummary `json:"trendspotting_summaries"`
	CreatedAt              time.Time            `json:"created_at"`
	UpdatedAt              *time.Time           `json:"updated_at"`
}

// CampaignSummariesLinkedMessage is the in-process bus payload sent after summaries are saved.
type CampaignSummariesLinkedMessage struct {
	CampaignId   uuid.UUID `json:"campaign_id"`
	CampaignName string    `json:"campaign_name"`
	SummaryCount int       `json:"summary_count"`
	SessionId    string    `json:"session_id"`
	LinkedAt     time.Time `json:"linked_at"`
}
