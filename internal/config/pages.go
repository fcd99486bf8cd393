package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultDashboard = "Overview"

// PagesConfig holds the page content that is not code: dashboards and prompts.
type PagesConfig struct {
	CampaignPerformance CampaignPerformancePage `yaml:"campaign_performance"`
	Audiences           AudiencesPage           `yaml:"audiences"`
}

type Dashboard struct {
	Name string `yaml:"name"` // underscores, e.g. "Campaign_Overview"
	URL  string `yaml:"url"`
}

type CampaignPerformancePage struct {
	Dashboards []Dashboard `yaml:"dashboards"`
}

type AudiencesPage struct {
	// ContextPromptTemplate contains a {personas} placeholder.
	ContextPromptTemplate string   `yaml:"context_prompt_template"`
	DefaultQuestion       string   `yaml:"default_question"`
	Examples              string   `yaml:"examples"`
	SkipLines             int      `yaml:"skip_lines"`
	DropColumns           []string `yaml:"drop_columns"`
}

func DefaultPagesConfig() *PagesConfig {
	return &PagesConfig{
		CampaignPerformance: CampaignPerformancePage{
			Dashboards: []Dashboard{
				{Name: "Overview", URL: "https://lookerstudio.google.com/embed/reporting/overview"},
				{Name: "Campaign_Performance", URL: "https://lookerstudio.google.com/embed/reporting/campaign-performance"},
				{Name: "Audience_Engagement", URL: "https://lookerstudio.google.com/embed/reporting/audience-engagement"},
			},
		},
		Audiences: AudiencesPage{
			ContextPromptTemplate: "You are a marketing strategist. The following JSON lists the audience " +
				"personas of a brand, one object per segment:\n{personas}\n" +
				"Use only these personas to answer the question.",
			DefaultQuestion: "What are the main interests of each persona and how should a campaign address them?",
			Examples:        "",
			SkipLines:       12,
			DropColumns: []string{
				"Area.1", "Relevance", "Details", "Channel name", "Channel videos",
				"Channel subscribers", "Video views", "URL", "Comment",
			},
		},
	}
}

// LoadPages reads the YAML pages file on top of the defaults. A missing file yields the defaults.
func LoadPages(path string) (*PagesConfig, error) {
	cfg := DefaultPagesConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read pages config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse pages config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *PagesConfig) Validate() error {
	if !strings.Contains(c.Audiences.ContextPromptTemplate, "{personas}") {
		return fmt.Errorf("pages config: context_prompt_template must contain {personas}")
	}

	dashboards := c.CampaignPerformance.Dashboards
	if len(dashboards) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(dashboards))
	for _, d := range dashboards {
		if d.Name == "" || d.URL == "" {
			return fmt.Errorf("pages config: dashboard needs a name and a url")
		}
		if _, dup := seen[d.Name]; dup {
			return fmt.Errorf("pages config: dashboard %q listed twice", d.Name)
		}
		seen[d.Name] = struct{}{}
	}
	if _, ok := seen[DefaultDashboard]; !ok {
		return fmt.Errorf("pages config: dashboard %q is required", DefaultDashboard)
	}
	return nil
}
