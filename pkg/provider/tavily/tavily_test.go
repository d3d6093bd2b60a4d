package tavily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rhuss/suche/pkg/api"
)

func TestSearch(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[
			{"title":"Climate Report","url":"https://example.org/report","content":"Findings...","score":0.91,"published_date":"2026-01-12"}
		]}`))
	}))
	defer server.Close()

	p := New("tvly-key", "advanced")
	p.Endpoint = server.URL

	results, err := p.Search(context.Background(), api.SearchParams{
		Query:      "climate change",
		MaxResults: 5,
		Recency:    api.RecencyMonth,
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if gotBody["search_depth"] != "advanced" {
		t.Errorf("search_depth = %v, want advanced", gotBody["search_depth"])
	}
	if gotBody["days"] != float64(30) {
		t.Errorf("days = %v, want 30", gotBody["days"])
	}

	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	r := results[0]
	if r.Title != "Climate Report" || r.Source != Name || r.Score != 0.91 || r.PublishedDate != "2026-01-12" {
		t.Errorf("result = %+v", r)
	}
}

func TestSearch_MissingKey(t *testing.T) {
	p := New("", "")
	if _, err := p.Search(context.Background(), api.SearchParams{Query: "x"}); err == nil {
		t.Fatal("Search() = nil error, want missing key error")
	}
}

func TestSearch_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	p := New("bad-key", "")
	p.Endpoint = server.URL
	if _, err := p.Search(context.Background(), api.SearchParams{Query: "x"}); err == nil {
		t.Fatal("Search() = nil error, want http error")
	}
}
