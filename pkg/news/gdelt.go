package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

const (
	DefaultBaseURL = "https://api.gdeltproject.org/api/v2/doc/doc"

	gdeltTimeLayout = "20060102150405"
	maxBodyBytes    = 2 << 20
)

var ErrNoArticles = errors.New("news: no articles found")

// Query selects articles mentioning any of Keywords between Start and End.
type Query struct {
	Keywords   []string
	Start      time.Time
	End        time.Time
	MaxRecords int
}

type Document struct {
	Title string
	URL   string
	Body  string
}

// Retriever returns the documents matching a query.
type Retriever interface {
	Retrieve(ctx context.Context, q Query) ([]Document, error)
}

type GDELTRetriever struct {
	baseURL      string
	httpClient   *http.Client
	policy       *bluemonday.Policy
	maxBodyChars int
}

var _ Retriever = (*GDELTRetriever)(nil)

func NewGDELTRetriever(baseURL string, timeout time.Duration, maxBodyChars int) *GDELTRetriever {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &GDELTRetriever{
		baseURL:      baseURL,
		httpClient:   &http.Client{Timeout: timeout},
		policy:       bluemonday.StrictPolicy(),
		maxBodyChars: maxBodyChars,
	}
}

type gdeltResponse struct {
	Articles []gdeltArticle `json:"articles"`
}

type gdeltArticle struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	SeenDate string `json:"seendate"`
	Domain   string `json:"domain"`
	Language string `json:"language"`
}

// Retrieve lists matching articles and fetches each article body. A body that
// cannot be fetched falls back to the article title.
func (g *GDELTRetriever) Retrieve(ctx context.Context, q Query) ([]Document, error) {
	query := BuildQuery(q.Keywords)
	if query == "" {
		return nil, fmt.Errorf("gdelt: %w", ErrNoArticles)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("mode", "artlist")
	params.Set("format", "json")
	params.Set("sort", "datedesc")
	params.Set("maxrecords", strconv.Itoa(q.MaxRecords))
	params.Set("startdatetime", q.Start.UTC().Format(gdeltTimeLayout))
	params.Set("enddatetime", q.End.UTC().Format(gdeltTimeLayout))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("gdelt request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gdelt fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("gdelt read: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gdelt error: status %d, body: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var raw gdeltResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		// GDELT answers query syntax problems with a plain text message.
		return nil, fmt.Errorf("gdelt decode: %s: %w", strings.TrimSpace(string(body)), err)
	}
	if len(raw.Articles) == 0 {
		return nil, ErrNoArticles
	}

	docs := make([]Document, 0, len(raw.Articles))
	for _, a := range raw.Articles {
		text, err := g.fetchText(ctx, a.URL)
		if err != nil || text == "" {
			text = a.Title
		}
		docs = append(docs, Document{Title: a.Title, URL: a.URL, Body: text})
	}
	return docs, nil
}

func (g *GDELTRetriever) fetchText(ctx context.Context, articleURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("article status %d", resp.StatusCode)
	}
	html, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}
	return g.toText(string(html)), nil
}

func (g *GDELTRetriever) toText(html string) string {
	text := strings.Join(strings.Fields(g.policy.Sanitize(html)), " ")
	if g.maxBodyChars > 0 {
		if runes := []rune(text); len(runes) > g.maxBodyChars {
			text = string(runes[:g.maxBodyChars])
		}
	}
	return text
}

// BuildQuery ORs the non-empty keywords. Multi-word keywords are quoted as phrases.
func BuildQuery(keywords []string) string {
	terms := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if strings.ContainsAny(k, " \t") {
			k = strconv.Quote(k)
		}
		terms = append(terms, k)
	}

	switch len(terms) {
	case 0:
		return ""
	case 1:
		return terms[0]
	default:
		return "(" + strings.Join(terms, " OR ") + ")"
	}
}
