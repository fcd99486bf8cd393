package dto

import (
	"marketing-insights-be/internal/entity"
	"marketing-insights-be/pkg/interaction"
	"marketing-insights-be/pkg/personas"
	"marketing-insights-be/pkg/trends"
)

// PageResponse is what a form POST answers: the outcome of the submit pass and
// the view of the render pass that followed it.
type PageResponse[V any] struct {
	Outcome interaction.Outcome `json:"outcome"`
	Notice  *interaction.Notice `json:"notice,omitempty"`
	View    *V                  `json:"view"`
}

// Trendspotting

type TopTermsRequest struct {
	Date string `json:"date" validate:"required"`
}

type InterestRequest struct {
	Keyword   string `json:"keyword"`
	City      string `json:"city" validate:"required"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}

type SummarizeRequest struct {
	Keywords   []string `json:"keywords" validate:"max=10"`
	MaxRecords int      `json:"max_records" validate:"omitempty,min=1,max=20"`
}

type SaveToCampaignRequest struct {
	CampaignName string `json:"campaign_name"`
}

// TrendspottingView carries CampaignsNotice when the campaign list could not be loaded.
type TrendspottingView struct {
	TopTerms        *TopTermsView       `json:"top_terms,omitempty"`
	Interest        *InterestView       `json:"interest,omitempty"`
	Summaries       *SummariesView      `json:"summaries,omitempty"`
	Campaigns       []string            `json:"campaigns,omitempty"`
	CampaignsNotice *interaction.Notice `json:"campaigns_notice,omitempty"`
	Forms           TrendspottingForms  `json:"forms"`
}

type TopTermsView struct {
	Date    string   `json:"date"`
	Terms   []string `json:"terms"`
	Message string   `json:"message"`
}

type InterestView struct {
	URL            string                 `json:"url"`
	Series         []trends.InterestPoint `json:"series"`
	RelatedQueries []string               `json:"related_queries"`
}

type SummariesView struct {
	Keywords []string             `json:"keywords"`
	Header   string               `json:"header"`
	Items    []entity.NewsSummary `json:"items"`
}

type TrendspottingForms struct {
	TopTerms  TopTermsForm  `json:"top_terms"`
	Interest  InterestForm  `json:"interest"`
	Summaries SummariesForm `json:"summaries"`
}

type TopTermsForm struct {
	Date    string `json:"date"`
	MinDate string `json:"min_date"`
	MaxDate string `json:"max_date"`
}

type InterestForm struct {
	Keyword   string   `json:"keyword"`
	City      string   `json:"city"`
	Cities    []string `json:"cities"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	MinDate   string   `json:"min_date"`
	MaxDate   string   `json:"max_date"`
}

type SummariesForm struct {
	Keywords      []string `json:"keywords"`
	MaxRecords    int      `json:"max_records"`
	MaxRecordsMin int      `json:"max_records_min"`
	MaxRecordsMax int      `json:"max_records_max"`
}

// Campaign Performance

type DashboardRequest struct {
	Dashboard string `json:"dashboard" validate:"required"`
}

type CampaignPerformanceView struct {
	Notice     *interaction.Notice `json:"notice,omitempty"`
	Dashboards []string            `json:"dashboards"`
	Selected   string              `json:"selected,omitempty"`
	URL        string              `json:"url,omitempty"`
}

// Audiences

type InsightRequest struct {
	Question string `json:"question"`
}

type AudiencesView struct {
	Personas      *personas.Table `json:"personas,omitempty"`
	ContextPrompt string          `json:"context_prompt,omitempty"`
	TextPrompt    string          `json:"text_prompt,omitempty"`
	GeneratedText string          `json:"generated_text,omitempty"`
	Form          AudiencesForm   `json:"form"`
}

type AudiencesForm struct {
	Question string `json:"question"`
}
