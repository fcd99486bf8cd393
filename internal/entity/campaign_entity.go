package entity

import (
	"time"

	"github.com/google/uuid"
)

// NewsSummary is one summarized news article as shown on the trendspotting page.
type NewsSummary struct {
	OriginalHeadline string `json:"original_headline"`
	Summary          string `json:"summary"`
	URL              string `json:"url"`
}

type Campaign struct {
	Id                     uuid.UUID
	Name                   string
	TrendspottingSummaries []NewsSummary
	CreatedAt              time.Time
	UpdatedAt              *time.Time
}
