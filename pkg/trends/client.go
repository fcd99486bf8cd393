package trends

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

const (
	topTermsTable       = "`bigquery-public-data.google_trends.top_terms`"
	topRisingTermsTable = "`bigquery-public-data.google_trends.top_rising_terms`"

	exploreURL = "https://trends.google.com/trends/explore"

	// DefaultExploreURL is shown when an interest query produced no URL.
	DefaultExploreURL = "https://trends.google.com/trends/explore?date=2023-09-04%202023-12-04&geo=US-TX-635&q=%2Fm%2F01xygc"
)

var ErrUnavailable = errors.New("trends: no BigQuery project configured")

// RowIterator is the part of *bigquery.RowIterator the client reads.
type RowIterator interface {
	Next(dst interface{}) error
}

// Runner executes one parameterized query.
type Runner interface {
	Run(ctx context.Context, sql string, params []bigquery.QueryParameter) (RowIterator, error)
}

// Querier is the trends collaborator used by the Trendspotting page.
type Querier interface {
	TopTerms(ctx context.Context, date string) ([]string, error)
	Interest(ctx context.Context, q InterestQuery) (*Interest, error)
}

type InterestQuery struct {
	Keyword string
	City    City
	Start   string
	End     string
}

type InterestPoint struct {
	Week  string  `json:"week"`
	Score float64 `json:"score"`
}

type Interest struct {
	Series         []InterestPoint
	RelatedQueries []string
	URL            string
}

type Client struct {
	runner        Runner
	topTermsLimit int
	relatedLimit  int
}

var _ Querier = (*Client)(nil)

func NewClient(runner Runner, topTermsLimit, relatedLimit int) *Client {
	if topTermsLimit <= 0 {
		topTermsLimit = 1
	}
	if relatedLimit <= 0 {
		relatedLimit = 10
	}
	return &Client{runner: runner, topTermsLimit: topTermsLimit, relatedLimit: relatedLimit}
}

type topTermRow struct {
	Term string `bigquery:"term"`
}

// TopTerms returns the highest ranked terms of the most recent week refreshed on date.
func (c *Client) TopTerms(ctx context.Context, date string) ([]string, error) {
	sql := `SELECT term
FROM ` + topTermsTable + `
WHERE refresh_date = CAST(@refresh_date AS DATE)
  AND week = (
    SELECT MAX(week) FROM ` + topTermsTable + `
    WHERE refresh_date = CAST(@refresh_date AS DATE))
GROUP BY term, rank
ORDER BY rank
LIMIT @limit`

	it, err := c.runner.Run(ctx, sql, []bigquery.QueryParameter{
		{Name: "refresh_date", Value: date},
		{Name: "limit", Value: c.topTermsLimit},
	})
	if err != nil {
		return nil, fmt.Errorf("top terms query: %w", err)
	}

	terms := make([]string, 0, c.topTermsLimit)
	for {
		var row topTermRow
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read top terms: %w", err)
		}
		terms = append(terms, row.Term)
	}
	return terms, nil
}

type interestRow struct {
	Week  string  `bigquery:"week"`
	Score float64 `bigquery:"score"`
}

type relatedRow struct {
	Term string `bigquery:"term"`
}

// Interest returns the weekly search interest of a keyword in one DMA, its rising
// related queries and the matching Google Trends explore URL.
func (c *Client) Interest(ctx context.Context, q InterestQuery) (*Interest, error) {
	params := []bigquery.QueryParameter{
		{Name: "keyword", Value: q.Keyword},
		{Name: "dma_id", Value: q.City.DMAID},
		{Name: "start_date", Value: q.Start},
		{Name: "end_date", Value: q.End},
	}

	seriesSQL := `SELECT FORMAT_DATE('%Y-%m-%d', week) AS week, AVG(score) AS score
FROM ` + topTermsTable + `
WHERE LOWER(term) = LOWER(@keyword)
  AND dma_id = @dma_id
  AND week BETWEEN CAST(@start_date AS DATE) AND CAST(@end_date AS DATE)
  AND score IS NOT NULL
GROUP BY week
ORDER BY week`

	it, err := c.runner.Run(ctx, seriesSQL, params)
	if err != nil {
		return nil, fmt.Errorf("interest query: %w", err)
	}
	out := &Interest{Series: []InterestPoint{}, RelatedQueries: []string{}}
	for {
		var row interestRow
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read interest: %w", err)
		}
		out.Series = append(out.Series, InterestPoint{Week: row.Week, Score: row.Score})
	}

	relatedSQL := `SELECT term
FROM ` + topRisingTermsTable + `
WHERE dma_id = @dma_id
  AND week BETWEEN CAST(@start_date AS DATE) AND CAST(@end_date AS DATE)
  AND STRPOS(LOWER(term), LOWER(@keyword)) > 0
  AND LOWER(term) != LOWER(@keyword)
GROUP BY term
ORDER BY MAX(percent_gain) DESC
LIMIT @limit`

	it, err = c.runner.Run(ctx, relatedSQL, append(params, bigquery.QueryParameter{Name: "limit", Value: c.relatedLimit}))
	if err != nil {
		return nil, fmt.Errorf("related queries query: %w", err)
	}
	for {
		var row relatedRow
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read related queries: %w", err)
		}
		out.RelatedQueries = append(out.RelatedQueries, row.Term)
	}

	out.URL = ExploreURL(q)
	return out, nil
}

// ExploreURL builds the Google Trends explore link for an interest query.
func ExploreURL(q InterestQuery) string {
	if strings.TrimSpace(q.Keyword) == "" {
		return ""
	}
	return fmt.Sprintf("%s?date=%s%%20%s&geo=%s&q=%s",
		exploreURL, q.Start, q.End, q.City.Geo(), url.QueryEscape(q.Keyword))
}

type bigQueryRunner struct {
	client *bigquery.Client
}

// NewBigQueryRunner adapts a BigQuery client to Runner.
func NewBigQueryRunner(client *bigquery.Client) Runner {
	return &bigQueryRunner{client: client}
}

func (r *bigQueryRunner) Run(ctx context.Context, sql string, params []bigquery.QueryParameter) (RowIterator, error) {
	q := r.client.Query(sql)
	q.Parameters = params
	return q.Read(ctx)
}

// Unavailable answers every query with ErrUnavailable.
type Unavailable struct{}

func (Unavailable) TopTerms(context.Context, string) ([]string, error) {
	return nil, ErrUnavailable
}

func (Unavailable) Interest(context.Context, InterestQuery) (*Interest, error) {
	return nil, ErrUnavailable
}
