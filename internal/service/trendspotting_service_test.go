package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"marketing-insights-be/internal/dto"
	"marketing-insights-be/internal/entity"
	"marketing-insights-be/internal/pkg/logger"
	"marketing-insights-be/pkg/events"
	"marketing-insights-be/pkg/interaction"
	"marketing-insights-be/pkg/news"
	"marketing-insights-be/pkg/trends"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trendspottingFixture struct {
	svc       *trendspottingService
	trends    *fakeTrends
	retriever *fakeRetriever
	campaigns *campaignService
	publisher *fakePublisher
}

func newTrendspottingFixture(t *testing.T) *trendspottingFixture {
	t.Helper()
	ft := &fakeTrends{}
	fr := &fakeRetriever{}
	campaigns, _, pub := newCampaigns()

	svc := NewTrendspottingService(newSessions(t), newInteraction(), ft, fr, &fakeSummarizer{}, campaigns, 5, logger.NewNopLogger()).(*trendspottingService)
	svc.now = func() time.Time { return fixedNow }

	return &trendspottingFixture{svc: svc, trends: ft, retriever: fr, campaigns: campaigns, publisher: pub}
}

func docs(titles ...string) []news.Document {
	out := make([]news.Document, len(titles))
	for i, title := range titles {
		out[i] = news.Document{Title: title, URL: "https://news.example/" + title, Body: "body"}
	}
	return out
}

func TestTrendspottingRenderEmptySession(t *testing.T) {
	f := newTrendspottingFixture(t)

	view, err := f.svc.Render(context.Background(), "s1")
	require.NoError(t, err)

	assert.Nil(t, view.TopTerms)
	assert.Nil(t, view.Interest)
	assert.Nil(t, view.Summaries)
	assert.Equal(t, "2026-10-15", view.Forms.TopTerms.Date)
	assert.Equal(t, "2026-09-21", view.Forms.TopTerms.MinDate)
	assert.Equal(t, "2026-07-17", view.Forms.Interest.StartDate)
	assert.Equal(t, "Coat", view.Forms.Interest.Keyword)
	assert.Equal(t, "Austin - TX", view.Forms.Interest.City)
	assert.Equal(t, []string{"fashion", "", ""}, view.Forms.Summaries.Keywords)
	assert.Equal(t, 5, view.Forms.Summaries.MaxRecords)
}

func TestTrendspottingTopTerms(t *testing.T) {
	f := newTrendspottingFixture(t)
	f.trends.terms = []string{"Coat", "Boots"}

	resp, err := f.svc.SubmitTopTerms(context.Background(), "s1", &dto.TopTermsRequest{Date: "2026-10-15"})
	require.NoError(t, err)

	assert.Equal(t, interaction.OutcomeStored, resp.Outcome)
	assert.Equal(t, "2026-10-15", f.trends.lastDate)
	require.NotNil(t, resp.View.TopTerms)
	assert.Equal(t, "Top search term for date 2026-10-15 is: Coat Boots", resp.View.TopTerms.Message)
	assert.Equal(t, "2026-10-15", resp.View.Forms.TopTerms.Date)
}

func TestTrendspottingTopTermsOutOfRange(t *testing.T) {
	f := newTrendspottingFixture(t)

	for _, date := range []string{"2026-10-16", "2026-09-20", "yesterday"} {
		resp, err := f.svc.SubmitTopTerms(context.Background(), "s1", &dto.TopTermsRequest{Date: date})
		require.NoError(t, err)
		assert.Equal(t, interaction.OutcomeInvalid, resp.Outcome, date)
		assert.Equal(t, "Select a date between 2026-09-21 and 2026-10-15.", resp.Notice.Message)
	}
	assert.Equal(t, 0, f.trends.calls)
}

func TestTrendspottingSummariesStored(t *testing.T) {
	f := newTrendspottingFixture(t)
	f.retriever.docs = docs("A", "B")

	resp, err := f.svc.SubmitSummaries(context.Background(), "s1", &dto.SummarizeRequest{
		Keywords: []string{"fashion", "", ""}, MaxRecords: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, interaction.OutcomeStored, resp.Outcome)
	assert.Nil(t, resp.Notice)
	assert.Equal(t, fixedNow.Add(-5*24*time.Hour), f.retriever.last.Start)
	assert.Equal(t, fixedNow, f.retriever.last.End)
	assert.Equal(t, 5, f.retriever.last.MaxRecords)

	require.NotNil(t, resp.View.Summaries)
	assert.Equal(t, "Summaries of news articles with the keyword(s): fashion", resp.View.Summaries.Header)
	assert.Equal(t, []entity.NewsSummary{
		{OriginalHeadline: "A", Summary: "summary of A", URL: "https://news.example/A"},
		{OriginalHeadline: "B", Summary: "summary of B", URL: "https://news.example/B"},
	}, resp.View.Summaries.Items)
	assert.Equal(t, []string{"fashion", "", ""}, resp.View.Forms.Summaries.Keywords)
}

func TestTrendspottingSummariesOverwrite(t *testing.T) {
	f := newTrendspottingFixture(t)
	ctx := context.Background()

	f.retriever.docs = docs("A", "B")
	_, err := f.svc.SubmitSummaries(ctx, "s1", &dto.SummarizeRequest{Keywords: []string{"fashion"}, MaxRecords: 5})
	require.NoError(t, err)

	f.retriever.docs = docs("C")
	resp, err := f.svc.SubmitSummaries(ctx, "s1", &dto.SummarizeRequest{Keywords: []string{"coat", "boots"}, MaxRecords: 5})
	require.NoError(t, err)

	require.Len(t, resp.View.Summaries.Items, 1)
	assert.Equal(t, "C", resp.View.Summaries.Items[0].OriginalHeadline)
	assert.Equal(t, "Summaries of news articles with the keyword(s): coat boots", resp.View.Summaries.Header)
}

func TestTrendspottingSummariesRequireKeyword(t *testing.T) {
	f := newTrendspottingFixture(t)

	resp, err := f.svc.SubmitSummaries(context.Background(), "s1", &dto.SummarizeRequest{Keywords: []string{"", " ", ""}, MaxRecords: 5})
	require.NoError(t, err)

	assert.Equal(t, interaction.OutcomeInvalid, resp.Outcome)
	assert.Equal(t, "Provide at least one keyword", resp.Notice.Message)
	assert.Equal(t, 0, f.retriever.calls)
	assert.Nil(t, resp.View.Summaries)
}

func TestTrendspottingSummariesFailureKeepsPrevious(t *testing.T) {
	f := newTrendspottingFixture(t)
	ctx := context.Background()

	f.retriever.docs = docs("A")
	_, err := f.svc.SubmitSummaries(ctx, "s1", &dto.SummarizeRequest{Keywords: []string{"fashion"}, MaxRecords: 5})
	require.NoError(t, err)

	f.retriever.err = errors.New("gdelt down")
	resp, err := f.svc.SubmitSummaries(ctx, "s1", &dto.SummarizeRequest{Keywords: []string{"zzz"}, MaxRecords: 5})
	require.NoError(t, err)

	assert.Equal(t, interaction.OutcomeFailed, resp.Outcome)
	assert.Equal(t, interaction.NoticeInfo, resp.Notice.Level)
	assert.Equal(t, "No articles found. Try different keywords.", resp.Notice.Message)
	require.NotNil(t, resp.View.Summaries)
	assert.Equal(t, "A", resp.View.Summaries.Items[0].OriginalHeadline)
	assert.Equal(t, []string{"fashion"}, resp.View.Summaries.Keywords)
}

func TestTrendspottingSummariesFailureOnEmptySession(t *testing.T) {
	f := newTrendspottingFixture(t)
	f.retriever.err = news.ErrNoArticles

	resp, err := f.svc.SubmitSummaries(context.Background(), "s1", &dto.SummarizeRequest{Keywords: []string{"fashion"}, MaxRecords: 5})
	require.NoError(t, err)

	assert.Equal(t, interaction.OutcomeFailed, resp.Outcome)
	assert.Nil(t, resp.View.Summaries)
	assert.Equal(t, []string{"fashion", "", ""}, resp.View.Forms.Summaries.Keywords)
}

func TestTrendspottingSummarizerFailureFailsWholeCall(t *testing.T) {
	f := newTrendspottingFixture(t)
	f.retriever.docs = docs("A", "B")
	f.svc.summarizer = &fakeSummarizer{err: errors.New("model overloaded")}

	resp, err := f.svc.SubmitSummaries(context.Background(), "s1", &dto.SummarizeRequest{Keywords: []string{"fashion"}, MaxRecords: 5})
	require.NoError(t, err)
	assert.Equal(t, interaction.OutcomeFailed, resp.Outcome)
	assert.Nil(t, resp.View.Summaries)
}

func TestTrendspottingInterest(t *testing.T) {
	f := newTrendspottingFixture(t)
	f.trends.interest = &trends.Interest{
		Series:         []trends.InterestPoint{{Week: "2026-09-06", Score: 40}},
		RelatedQueries: []string{"rain coat"},
		URL:            "https://trends.google.com/trends/explore?q=Coat",
	}

	resp, err := f.svc.SubmitInterest(context.Background(), "s1", &dto.InterestRequest{
		Keyword: "Coat", City: "Austin - TX", StartDate: "2026-07-17", EndDate: "2026-10-15",
	})
	require.NoError(t, err)

	assert.Equal(t, interaction.OutcomeStored, resp.Outcome)
	assert.Equal(t, 635, f.trends.lastQuery.City.DMAID)
	require.NotNil(t, resp.View.Interest)
	assert.Equal(t, "https://trends.google.com/trends/explore?q=Coat", resp.View.Interest.URL)
	assert.Equal(t, []string{"rain coat"}, resp.View.Interest.RelatedQueries)
}

func TestTrendspottingInterestEmptyURLFallsBack(t *testing.T) {
	f := newTrendspottingFixture(t)
	f.trends.interest = &trends.Interest{Series: []trends.InterestPoint{}, RelatedQueries: []string{}}

	resp, err := f.svc.SubmitInterest(context.Background(), "s1", &dto.InterestRequest{
		Keyword: "Coat", City: "Austin - TX", StartDate: "2026-07-17", EndDate: "2026-10-15",
	})
	require.NoError(t, err)
	assert.Equal(t, trends.DefaultExploreURL, resp.View.Interest.URL)
}

func TestTrendspottingInterestValidation(t *testing.T) {
	tests := []struct {
		name   string
		req    dto.InterestRequest
		notice string
	}{
		{name: "no keyword", req: dto.InterestRequest{City: "Austin - TX", StartDate: "2026-08-01", EndDate: "2026-09-01"}, notice: "Provide a search term."},
		{name: "unknown city", req: dto.InterestRequest{Keyword: "Coat", City: "Gotham - NJ", StartDate: "2026-08-01", EndDate: "2026-09-01"}, notice: "Select a city from the list."},
		{name: "start too early", req: dto.InterestRequest{Keyword: "Coat", City: "Austin - TX", StartDate: "2026-07-16", EndDate: "2026-09-01"}, notice: "Select a date between 2026-07-17 and 2026-10-15."},
		{name: "reversed", req: dto.InterestRequest{Keyword: "Coat", City: "Austin - TX", StartDate: "2026-09-01", EndDate: "2026-08-01"}, notice: "The starting date must not be after the ending date."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTrendspottingFixture(t)
			resp, err := f.svc.SubmitInterest(context.Background(), "s1", &tt.req)
			require.NoError(t, err)
			assert.Equal(t, interaction.OutcomeInvalid, resp.Outcome)
			assert.Equal(t, tt.notice, resp.Notice.Message)
			assert.Equal(t, 0, f.trends.calls)
		})
	}
}

func TestTrendspottingSaveToCampaign(t *testing.T) {
	f := newTrendspottingFixture(t)
	ctx := context.Background()

	_, err := f.campaigns.Create(ctx, &dto.CreateCampaignRequest{Name: "Spring"})
	require.NoError(t, err)

	f.retriever.docs = docs("A")
	resp, err := f.svc.SubmitSummaries(ctx, "s1", &dto.SummarizeRequest{Keywords: []string{"fashion"}, MaxRecords: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"Spring"}, resp.View.Campaigns)

	resp, err = f.svc.SubmitSaveToCampaign(ctx, "s1", &dto.SaveToCampaignRequest{CampaignName: "Spring"})
	require.NoError(t, err)

	assert.Equal(t, interaction.OutcomeStored, resp.Outcome)
	assert.Equal(t, interaction.NoticeSuccess, resp.Notice.Level)
	assert.Equal(t, "Saved to campaign Spring", resp.Notice.Message)

	all, err := f.campaigns.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "A", all[0].TrendspottingSummaries[0].OriginalHeadline)

	require.Len(t, f.publisher.messages, 1)
	assert.Equal(t, events.TopicCampaignSummariesLinked, f.publisher.messages[0].topic)
}

func TestTrendspottingSaveToUnknownCampaign(t *testing.T) {
	f := newTrendspottingFixture(t)
	ctx := context.Background()

	f.retriever.docs = docs("A")
	_, err := f.svc.SubmitSummaries(ctx, "s1", &dto.SummarizeRequest{Keywords: []string{"fashion"}, MaxRecords: 5})
	require.NoError(t, err)

	resp, err := f.svc.SubmitSaveToCampaign(ctx, "s1", &dto.SaveToCampaignRequest{CampaignName: "Nope"})
	require.NoError(t, err)
	assert.Equal(t, interaction.OutcomeFailed, resp.Outcome)
	assert.Equal(t, "Could not save the summaries to the campaign.", resp.Notice.Message)
	assert.NotNil(t, resp.View.Summaries)
}

func TestTrendspottingSaveWithoutSummaries(t *testing.T) {
	f := newTrendspottingFixture(t)

	resp, err := f.svc.SubmitSaveToCampaign(context.Background(), "s1", &dto.SaveToCampaignRequest{CampaignName: "Spring"})
	require.NoError(t, err)
	assert.Equal(t, interaction.OutcomeInvalid, resp.Outcome)
	assert.Empty(t, f.publisher.messages)
}

func TestTrendspottingSessionsAreIsolated(t *testing.T) {
	f := newTrendspottingFixture(t)
	ctx := context.Background()

	f.retriever.docs = docs("A")
	_, err := f.svc.SubmitSummaries(ctx, "s1", &dto.SummarizeRequest{Keywords: []string{"fashion"}, MaxRecords: 5})
	require.NoError(t, err)

	other, err := f.svc.Render(ctx, "s2")
	require.NoError(t, err)
	assert.Nil(t, other.Summaries)

	first, err := f.svc.Render(ctx, "s1")
	require.NoError(t, err)
	again, err := f.svc.Render(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

type failingCampaigns struct {
	ICampaignService
	err error
}

func (f failingCampaigns) Names(context.Context) ([]string, error) {
	return nil, f.err
}

func TestTrendspottingCampaignListFailureKeepsSummaries(t *testing.T) {
	fr := &fakeRetriever{docs: docs("A")}
	svc := NewTrendspottingService(newSessions(t), newInteraction(), &fakeTrends{}, fr, &fakeSummarizer{},
		failingCampaigns{err: errors.New("db down")}, 5, logger.NewNopLogger()).(*trendspottingService)
	svc.now = func() time.Time { return fixedNow }
	ctx := context.Background()

	resp, err := svc.SubmitSummaries(ctx, "s1", &dto.SummarizeRequest{Keywords: []string{"fashion", "", ""}, MaxRecords: 5})
	require.NoError(t, err)
	assert.Equal(t, interaction.OutcomeStored, resp.Outcome)
	require.NotNil(t, resp.View.Summaries)
	assert.Empty(t, resp.View.Campaigns)
	require.NotNil(t, resp.View.CampaignsNotice)
	assert.Equal(t, "Campaigns are not available right now.", resp.View.CampaignsNotice.Message)

	view, err := svc.Render(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, view.Summaries)
	assert.Equal(t, "A", view.Summaries.Items[0].OriginalHeadline)
	assert.Equal(t, 1, fr.calls)
}

func TestTrendspottingFormsRememberLastInput(t *testing.T) {
	f := newTrendspottingFixture(t)
	ctx := context.Background()
	f.trends.interest = &trends.Interest{Series: []trends.InterestPoint{}, RelatedQueries: []string{}}
	f.retriever.docs = docs("A")

	_, err := f.svc.SubmitInterest(ctx, "s1", &dto.InterestRequest{
		Keyword: "Boots", City: "Chicago - IL", StartDate: "2026-08-01", EndDate: "2026-09-30",
	})
	require.NoError(t, err)
	_, err = f.svc.SubmitSummaries(ctx, "s1", &dto.SummarizeRequest{Keywords: []string{"boots", "rain"}, MaxRecords: 12})
	require.NoError(t, err)

	// A failed submit leaves the remembered form values alone.
	f.trends.err = errors.New("quota exceeded")
	_, err = f.svc.SubmitInterest(ctx, "s1", &dto.InterestRequest{
		Keyword: "Scarf", City: "Austin - TX", StartDate: "2026-08-01", EndDate: "2026-09-30",
	})
	require.NoError(t, err)

	view, err := f.svc.Render(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Boots", view.Forms.Interest.Keyword)
	assert.Equal(t, "Chicago - IL", view.Forms.Interest.City)
	assert.Equal(t, "2026-08-01", view.Forms.Interest.StartDate)
	assert.Equal(t, "2026-09-30", view.Forms.Interest.EndDate)
	assert.Equal(t, []string{"boots", "rain"}, view.Forms.Summaries.Keywords)
	assert.Equal(t, 12, view.Forms.Summaries.MaxRecords)
}

func TestTrendspottingSummariesDefaultMaxRecords(t *testing.T) {
	f := newTrendspottingFixture(t)
	f.retriever.docs = docs("A")

	resp, err := f.svc.SubmitSummaries(context.Background(), "s1", &dto.SummarizeRequest{Keywords: []string{"fashion"}})
	require.NoError(t, err)
	assert.Equal(t, interaction.OutcomeStored, resp.Outcome)
	assert.Equal(t, 5, f.retriever.last.MaxRecords)
	assert.Equal(t, 5, resp.View.Forms.Summaries.MaxRecords)
}

func TestTrendspottingRenderIsIdempotent(t *testing.T) {
	f := newTrendspottingFixture(t)
	ctx := context.Background()
	f.trends.terms = []string{"Coat"}
	f.retriever.docs = docs("A", "B")

	_, err := f.svc.SubmitTopTerms(ctx, "s1", &dto.TopTermsRequest{Date: "2026-10-15"})
	require.NoError(t, err)
	_, err = f.svc.SubmitSummaries(ctx, "s1", &dto.SummarizeRequest{Keywords: []string{"fashion"}, MaxRecords: 5})
	require.NoError(t, err)

	before, err := f.svc.sessions.LoadOrCreate(ctx, "s1")
	require.NoError(t, err)

	first, err := f.svc.Render(ctx, "s1")
	require.NoError(t, err)
	second, err := f.svc.Render(ctx, "s1")
	require.NoError(t, err)

	after, err := f.svc.sessions.LoadOrCreate(ctx, "s1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, before, after)
	assert.Equal(t, 1, f.retriever.calls)
	assert.Equal(t, 1, f.trends.calls)
}
