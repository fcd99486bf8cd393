package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"marketing-insights-be/internal/dto"
	"marketing-insights-be/internal/entity"
	"marketing-insights-be/internal/pkg/logger"
	"marketing-insights-be/pkg/interaction"
	"marketing-insights-be/pkg/news"
	"marketing-insights-be/pkg/session"
	"marketing-insights-be/pkg/store"
	"marketing-insights-be/pkg/summarize"
	"marketing-insights-be/pkg/trends"

	"golang.org/x/sync/errgroup"
)

const (
	dateLayout = "2006-01-02"

	topTermsMinDaysAgo = 26
	interestMinDaysAgo = 92
	latestDaysAgo      = 2

	defaultInterestKeyword = "Coat"
	defaultMaxRecords      = 5
	minMaxRecords          = 1
	maxMaxRecords          = 20
	summarizeConcurrency   = 4

	noticeNoKeyword    = "Provide at least one keyword"
	noticeNoArticles   = "No articles found. Try different keywords."
	noticeTrendsFailed = "Could not query Google Trends. Try again later."
	noticeSaveFailed   = "Could not save the summaries to the campaign."
	noticeNoSummaries  = "Summarize news before saving them to a campaign."
	noticeNoCampaign   = "Select a campaign."
	noticeNoSearchTerm = "Provide a search term."
	noticeUnknownCity  = "Select a city from the list."
	noticeDateOrder    = "The starting date must not be after the ending date."
	noticeNoCampaigns  = "Campaigns are not available right now."
)

var (
	trendspottingNS = interaction.NewNamespace("Trendspotting")

	topSearchTermDateKey    = interaction.NewKey[string](trendspottingNS, "Top_Search_Term_Date")
	topSearchTermKey        = interaction.NewKey[[]string](trendspottingNS, "Top_Search_Term")
	trendsSearchInterestKey = interaction.NewKey[[]trends.InterestPoint](trendspottingNS, "Trends_Search_Interest")
	trendsSearchQueriesKey  = interaction.NewKey[[]string](trendspottingNS, "Trends_Search_Queries")
	trendsSearchURLKey      = interaction.NewKey[string](trendspottingNS, "Trends_Search_URL")
	trendsSearchFormKey     = interaction.NewKey[interestInput](trendspottingNS, "Trends_Search_Form")
	summarizationTermKey    = interaction.NewKey[[]string](trendspottingNS, "Summarization_Term")
	summarizationMaxKey     = interaction.NewKey[int](trendspottingNS, "Summarization_Max_Records")
	summariesKey            = interaction.NewKey[[]entity.NewsSummary](trendspottingNS, "Summarization_Summaries")

	defaultSummaryKeywords = []string{"fashion", "", ""}
)

type ITrendspottingService interface {
	Render(ctx context.Context, sessionID string) (*dto.TrendspottingView, error)
	SubmitTopTerms(ctx context.Context, sessionID string, req *dto.TopTermsRequest) (*dto.PageResponse[dto.TrendspottingView], error)
	SubmitInterest(ctx context.Context, sessionID string, req *dto.InterestRequest) (*dto.PageResponse[dto.TrendspottingView], error)
	SubmitSummaries(ctx context.Context, sessionID string, req *dto.SummarizeRequest) (*dto.PageResponse[dto.TrendspottingView], error)
	SubmitSaveToCampaign(ctx context.Context, sessionID string, req *dto.SaveToCampaignRequest) (*dto.PageResponse[dto.TrendspottingView], error)
}

type trendspottingService struct {
	sessions        *session.Manager
	controller      *interaction.Controller
	trends          trends.Querier
	retriever       news.Retriever
	summarizer      summarize.Summarizer
	campaignService ICampaignService
	newsWindow      time.Duration
	logger          logger.ILogger
	now             func() time.Time
}

func NewTrendspottingService(
	sessions *session.Manager,
	controller *interaction.Controller,
	trendsQuerier trends.Querier,
	retriever news.Retriever,
	summarizer summarize.Summarizer,
	campaignService ICampaignService,
	newsWindowDays int,
	log logger.ILogger,
) ITrendspottingService {
	if newsWindowDays <= 0 {
		newsWindowDays = 5
	}
	return &trendspottingService{
		sessions:        sessions,
		controller:      controller,
		trends:          trendsQuerier,
		retriever:       retriever,
		summarizer:      summarizer,
		campaignService: campaignService,
		newsWindow:      time.Duration(newsWindowDays) * 24 * time.Hour,
		logger:          log,
		now:             time.Now,
	}
}

// dateRange is an inclusive window of whole days, counted back from today.
type dateRange struct {
	min, max time.Time
}

func (s *trendspottingService) daysAgo(n int) time.Time {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return today.AddDate(0, 0, -n)
}

func (s *trendspottingService) topTermsRange() dateRange {
	return dateRange{min: s.daysAgo(topTermsMinDaysAgo), max: s.daysAgo(latestDaysAgo)}
}

func (s *trendspottingService) interestRange() dateRange {
	return dateRange{min: s.daysAgo(interestMinDaysAgo), max: s.daysAgo(latestDaysAgo)}
}

// check parses value and reports a notice when it is malformed or out of range.
func (r dateRange) check(value string) (time.Time, *interaction.Notice) {
	d, err := time.Parse(dateLayout, value)
	if err != nil || d.Before(r.min) || d.After(r.max) {
		return d, interaction.Info(fmt.Sprintf("Select a date between %s and %s.",
			r.min.Format(dateLayout), r.max.Format(dateLayout)))
	}
	return d, nil
}

// Top search terms

func (s *trendspottingService) topTermsAction() interaction.Action[string, []string] {
	return interaction.Action[string, []string]{
		Name: "trendspotting.top_terms",
		Validate: func(date string) *interaction.Notice {
			_, notice := s.topTermsRange().check(date)
			return notice
		},
		Call: func(ctx context.Context, date string) ([]string, error) {
			return s.trends.TopTerms(ctx, date)
		},
		Store: func(b *interaction.Batch, date string, terms []string) error {
			if err := topSearchTermDateKey.Put(b, date); err != nil {
				return err
			}
			return topSearchTermKey.Put(b, terms)
		},
		FailureNotice: noticeTrendsFailed,
	}
}

func (s *trendspottingService) SubmitTopTerms(ctx context.Context, sessionID string, req *dto.TopTermsRequest) (*dto.PageResponse[dto.TrendspottingView], error) {
	return s.submit(ctx, sessionID, func(sess *store.Session) interaction.Result {
		return interaction.Submit(ctx, s.controller, sess, s.topTermsAction(), strings.TrimSpace(req.Date))
	})
}

// Search interest

// interestInput is also stored as the form's last submitted value.
type interestInput struct {
	Keyword string `json:"keyword"`
	City    string `json:"city"`
	Start   string `json:"start_date"`
	End     string `json:"end_date"`
}

func (s *trendspottingService) interestAction() interaction.Action[interestInput, *trends.Interest] {
	return interaction.Action[interestInput, *trends.Interest]{
		Name: "trendspotting.interest",
		Validate: func(in interestInput) *interaction.Notice {
			if in.Keyword == "" {
				return interaction.Info(noticeNoSearchTerm)
			}
			if _, ok := trends.CityByLabel(in.City); !ok {
				return interaction.Info(noticeUnknownCity)
			}
			r := s.interestRange()
			start, notice := r.check(in.Start)
			if notice != nil {
				return notice
			}
			end, notice := r.check(in.End)
			if notice != nil {
				return notice
			}
			if start.After(end) {
				return interaction.Info(noticeDateOrder)
			}
			return nil
		},
		Call: func(ctx context.Context, in interestInput) (*trends.Interest, error) {
			city, _ := trends.CityByLabel(in.City)
			return s.trends.Interest(ctx, trends.InterestQuery{
				Keyword: in.Keyword,
				City:    city,
				Start:   in.Start,
				End:     in.End,
			})
		},
		Store: func(b *interaction.Batch, in interestInput, out *trends.Interest) error {
			if err := trendsSearchFormKey.Put(b, in); err != nil {
				return err
			}
			if err := trendsSearchInterestKey.Put(b, out.Series); err != nil {
				return err
			}
			if err := trendsSearchQueriesKey.Put(b, out.RelatedQueries); err != nil {
				return err
			}
			return trendsSearchURLKey.Put(b, out.URL)
		},
		FailureNotice: noticeTrendsFailed,
	}
}

func (s *trendspottingService) SubmitInterest(ctx context.Context, sessionID string, req *dto.InterestRequest) (*dto.PageResponse[dto.TrendspottingView], error) {
	in := interestInput{
		Keyword: strings.TrimSpace(req.Keyword),
		City:    req.City,
		Start:   strings.TrimSpace(req.StartDate),
		End:     strings.TrimSpace(req.EndDate),
	}
	return s.submit(ctx, sessionID, func(sess *store.Session) interaction.Result {
		return interaction.Submit(ctx, s.controller, sess, s.interestAction(), in)
	})
}

// News summarization

type summarizeInput struct {
	Keywords   []string
	MaxRecords int
}

func (s *trendspottingService) summariesAction() interaction.Action[summarizeInput, []entity.NewsSummary] {
	return interaction.Action[summarizeInput, []entity.NewsSummary]{
		Name: "trendspotting.summaries",
		Validate: func(in summarizeInput) *interaction.Notice {
			if len(nonEmpty(in.Keywords)) == 0 {
				return interaction.Info(noticeNoKeyword)
			}
			return nil
		},
		Call: s.summarizeNews,
		Store: func(b *interaction.Batch, in summarizeInput, out []entity.NewsSummary) error {
			if err := summarizationTermKey.Put(b, in.Keywords); err != nil {
				return err
			}
			if err := summarizationMaxKey.Put(b, in.MaxRecords); err != nil {
				return err
			}
			return summariesKey.Put(b, out)
		},
		FailureNotice: noticeNoArticles,
	}
}

// summarizeNews retrieves the recent articles and summarizes them concurrently,
// keeping the retrieval order. Any failure fails the whole call.
func (s *trendspottingService) summarizeNews(ctx context.Context, in summarizeInput) ([]entity.NewsSummary, error) {
	end := s.now()
	docs, err := s.retriever.Retrieve(ctx, news.Query{
		Keywords:   in.Keywords,
		Start:      end.Add(-s.newsWindow),
		End:        end,
		MaxRecords: in.MaxRecords,
	})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, news.ErrNoArticles
	}

	summaries := make([]entity.NewsSummary, len(docs))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(summarizeConcurrency)
	for i, doc := range docs {
		eg.Go(func() error {
			text, err := s.summarizer.Summarize(egCtx, doc)
			if err != nil {
				return fmt.Errorf("summarize %q: %w", doc.Title, err)
			}
			summaries[i] = entity.NewsSummary{
				OriginalHeadline: doc.Title,
				Summary:          text,
				URL:              doc.URL,
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (s *trendspottingService) SubmitSummaries(ctx context.Context, sessionID string, req *dto.SummarizeRequest) (*dto.PageResponse[dto.TrendspottingView], error) {
	keywords := make([]string, len(req.Keywords))
	for i, k := range req.Keywords {
		keywords[i] = strings.TrimSpace(k)
	}
	in := summarizeInput{Keywords: keywords, MaxRecords: req.MaxRecords}
	if in.MaxRecords == 0 {
		in.MaxRecords = defaultMaxRecords
	}

	return s.submit(ctx, sessionID, func(sess *store.Session) interaction.Result {
		return interaction.Submit(ctx, s.controller, sess, s.summariesAction(), in)
	})
}

// Save to campaign

type saveInput struct {
	SessionID    string
	CampaignName string
	Summaries    []entity.NewsSummary
	HasSummaries bool
}

func (s *trendspottingService) saveAction() interaction.Action[saveInput, *entity.Campaign] {
	return interaction.Action[saveInput, *entity.Campaign]{
		Name: "trendspotting.save_to_campaign",
		Validate: func(in saveInput) *interaction.Notice {
			if !in.HasSummaries {
				return interaction.Info(noticeNoSummaries)
			}
			if in.CampaignName == "" {
				return interaction.Info(noticeNoCampaign)
			}
			return nil
		},
		Call: func(ctx context.Context, in saveInput) (*entity.Campaign, error) {
			return s.campaignService.LinkSummaries(ctx, in.SessionID, in.CampaignName, in.Summaries)
		},
		FailureNotice: noticeSaveFailed,
		SuccessNotice: func(_ saveInput, c *entity.Campaign) *interaction.Notice {
			return interaction.Success("Saved to campaign " + c.Name)
		},
	}
}

func (s *trendspottingService) SubmitSaveToCampaign(ctx context.Context, sessionID string, req *dto.SaveToCampaignRequest) (*dto.PageResponse[dto.TrendspottingView], error) {
	return s.submit(ctx, sessionID, func(sess *store.Session) interaction.Result {
		summaries, ok := summariesKey.Get(sess)
		in := saveInput{
			SessionID:    sessionID,
			CampaignName: strings.TrimSpace(req.CampaignName),
			Summaries:    summaries,
			HasSummaries: ok,
		}
		return interaction.Submit(ctx, s.controller, sess, s.saveAction(), in)
	})
}

// Render

func (s *trendspottingService) Render(ctx context.Context, sessionID string) (*dto.TrendspottingView, error) {
	var view *dto.TrendspottingView
	err := s.sessions.View(ctx, sessionID, func(sess *store.Session) {
		view = s.render(ctx, sessionID, sess)
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *trendspottingService) submit(ctx context.Context, sessionID string, pass func(*store.Session) interaction.Result) (*dto.PageResponse[dto.TrendspottingView], error) {
	var resp dto.PageResponse[dto.TrendspottingView]
	err := s.sessions.Run(ctx, sessionID, func(sess *store.Session) error {
		res := pass(sess)
		logOutcome(s.logger, "Trendspotting", sessionID, res)

		resp = dto.PageResponse[dto.TrendspottingView]{Outcome: res.Outcome, Notice: res.Notice, View: s.render(ctx, sessionID, sess)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// render only reads the session. A failing campaign lookup leaves the list empty.
func (s *trendspottingService) render(ctx context.Context, sessionID string, sess interaction.Reader) *dto.TrendspottingView {
	topRange := s.topTermsRange()
	interestRange := s.interestRange()
	interestForm := trendsSearchFormKey.GetOr(sess, interestInput{
		Keyword: defaultInterestKeyword,
		City:    trends.DefaultCity,
		Start:   interestRange.min.Format(dateLayout),
		End:     interestRange.max.Format(dateLayout),
	})

	view := &dto.TrendspottingView{
		Forms: dto.TrendspottingForms{
			TopTerms: dto.TopTermsForm{
				Date:    topSearchTermDateKey.GetOr(sess, topRange.max.Format(dateLayout)),
				MinDate: topRange.min.Format(dateLayout),
				MaxDate: topRange.max.Format(dateLayout),
			},
			Interest: dto.InterestForm{
				Keyword:   interestForm.Keyword,
				City:      interestForm.City,
				Cities:    trends.CityLabels(),
				StartDate: interestForm.Start,
				EndDate:   interestForm.End,
				MinDate:   interestRange.min.Format(dateLayout),
				MaxDate:   interestRange.max.Format(dateLayout),
			},
			Summaries: dto.SummariesForm{
				Keywords:      summarizationTermKey.GetOr(sess, defaultSummaryKeywords),
				MaxRecords:    summarizationMaxKey.GetOr(sess, defaultMaxRecords),
				MaxRecordsMin: minMaxRecords,
				MaxRecordsMax: maxMaxRecords,
			},
		},
	}

	date, hasDate := topSearchTermDateKey.Get(sess)
	terms, hasTerms := topSearchTermKey.Get(sess)
	if hasDate && hasTerms {
		view.TopTerms = &dto.TopTermsView{
			Date:    date,
			Terms:   terms,
			Message: fmt.Sprintf("Top search term for date %s is: %s", date, strings.Join(terms, " ")),
		}
	}

	if interaction.AllPresent(sess, trendsSearchInterestKey, trendsSearchQueriesKey, trendsSearchURLKey) {
		url := trendsSearchURLKey.GetOr(sess, "")
		if url == "" {
			url = trends.DefaultExploreURL
		}
		view.Interest = &dto.InterestView{
			URL:            url,
			Series:         trendsSearchInterestKey.GetOr(sess, nil),
			RelatedQueries: trendsSearchQueriesKey.GetOr(sess, nil),
		}
	}

	if summaries, ok := summariesKey.Get(sess); ok {
		keywords := summarizationTermKey.GetOr(sess, nil)
		view.Summaries = &dto.SummariesView{
			Keywords: keywords,
			Header:   "Summaries of news articles with the keyword(s): " + strings.Join(nonEmpty(keywords), " "),
			Items:    summaries,
		}

		names, err := s.campaignService.Names(ctx)
		if err != nil {
			s.logger.Warn("Trendspotting", "Failed to list campaigns", map[string]interface{}{
				"session_id": sessionID,
				"error":      err.Error(),
			})
			view.CampaignsNotice = interaction.Info(noticeNoCampaigns)
		} else {
			view.Campaigns = names
		}
	}

	return view
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func logOutcome(log logger.ILogger, page, sessionID string, res interaction.Result) {
	details := map[string]interface{}{
		"session_id": sessionID,
		"action":     res.Action,
		"outcome":    string(res.Outcome),
	}
	if res.Err != nil {
		details["error"] = res.Err.Error()
		log.Warn(page, "Submit failed", details)
		return
	}
	log.Info(page, "Submit finished", details)
}
