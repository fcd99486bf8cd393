package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name     string
		keywords []string
		want     string
	}{
		{name: "empty", keywords: []string{"", " "}, want: ""},
		{name: "single", keywords: []string{"fashion", "", ""}, want: "fashion"},
		{name: "many", keywords: []string{"fashion", "", "coat"}, want: "(fashion OR coat)"},
		{name: "phrase", keywords: []string{"winter coat", "boots"}, want: `("winter coat" OR boots)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildQuery(tt.keywords))
		})
	}
}

func TestRetrieve(t *testing.T) {
	var gotQuery map[string]string
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/doc", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"articles": []map[string]string{
				{"url": srv.URL + "/a1", "title": "Coats are back"},
				{"url": srv.URL + "/missing", "title": "Boots everywhere"},
			},
		})
	})
	mux.HandleFunc("/a1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body><script>x()</script><p>Long   coats\n are trending.</p></body></html>")
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	g := NewGDELTRetriever(srv.URL+"/doc", 5*time.Second, 0)
	end := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	docs, err := g.Retrieve(context.Background(), Query{
		Keywords:   []string{"fashion", "", "coat"},
		Start:      end.AddDate(0, 0, -5),
		End:        end,
		MaxRecords: 5,
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "Coats are back", docs[0].Title)
	assert.Equal(t, "Long coats are trending.", docs[0].Body)
	assert.Equal(t, "Boots everywhere", docs[1].Body)

	assert.Equal(t, "(fashion OR coat)", gotQuery["query"])
	assert.Equal(t, "5", gotQuery["maxrecords"])
	assert.Equal(t, "20261012120000", gotQuery["startdatetime"])
	assert.Equal(t, "20261017120000", gotQuery["enddatetime"])
	assert.Equal(t, "artlist", gotQuery["mode"])
}

func TestRetrieveNoArticles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "{}")
	}))
	defer srv.Close()

	g := NewGDELTRetriever(srv.URL, 5*time.Second, 0)
	_, err := g.Retrieve(context.Background(), Query{Keywords: []string{"zzzz"}, MaxRecords: 5})
	assert.True(t, errors.Is(err, ErrNoArticles))
}

func TestRetrieveRejectsPlainTextAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "Your search contained a keyword that was too short.")
	}))
	defer srv.Close()

	g := NewGDELTRetriever(srv.URL, 5*time.Second, 0)
	_, err := g.Retrieve(context.Background(), Query{Keywords: []string{"a"}, MaxRecords: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too short")
}

func TestRetrieveServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g := NewGDELTRetriever(srv.URL, 5*time.Second, 0)
	_, err := g.Retrieve(context.Background(), Query{Keywords: []string{"fashion"}, MaxRecords: 5})
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoArticles))
}

func TestToTextTruncates(t *testing.T) {
	g := NewGDELTRetriever("", time.Second, 5)
	assert.Equal(t, "abcde", g.toText("<b>abcdefgh</b>"))
}
