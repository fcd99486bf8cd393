package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	// TopicCampaignSummariesLinked is the in-process topic.
	TopicCampaignSummariesLinked = "campaign.summaries_linked"

	TypeCampaignSummariesLinked = "CAMPAIGN_SUMMARIES_LINKED"
)

// CampaignSummariesLinked is emitted when news summaries are saved to a campaign.
type CampaignSummariesLinked struct {
	CampaignID   uuid.UUID `json:"campaign_id"`
	CampaignName string    `json:"campaign_name"`
	SummaryCount int       `json:"summary_count"`
	SessionID    string    `json:"session_id,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func (e CampaignSummariesLinked) EventType() string {
	return TypeCampaignSummariesLinked
}

func (e CampaignSummariesLinked) Payload() map[string]interface{} {
	return map[string]interface{}{
		"campaign_id":   e.CampaignID.String(),
		"campaign_name": e.CampaignName,
		"summary_count": e.SummaryCount,
		"session_id":    e.SessionID,
		"occurred_at":   e.OccurredAt.Format(time.RFC3339),
	}
}

func (e CampaignSummariesLinked) Timestamp() time.Time {
	return e.OccurredAt
}
