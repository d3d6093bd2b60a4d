// Command mock-provider runs a deterministic SearXNG-shaped search
// backend for local development and conformance testing. It returns
// predictable results derived from the query, so aggregation behavior
// (dedup, ranking, truncation) can be exercised without real engines.
//
// Configuration:
//
//	MOCK_PORT  - Listen port (default: 9090)
//	MOCK_DELAY - Artificial response delay, e.g. "500ms" (default: none)
//	MOCK_FAIL  - "true" to answer every search with HTTP 500
package main

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
)

func main() {
	port := os.Getenv("MOCK_PORT")
	if port == "" {
		port = "9090"
	}

	var delay time.Duration
	if v := os.Getenv("MOCK_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			delay = d
		}
	}
	fail := os.Getenv("MOCK_FAIL") == "true"

	mux := http.NewServeMux()
	mux.HandleFunc("GET /search", func(w http.ResponseWriter, r *http.Request) {
		handleSearch(w, r, delay, fail)
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	srv := &http.Server{Addr: ":" + port, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("mock provider starting", "port", port, "delay", delay, "fail", fail)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("mock provider failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("mock provider shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

// --- Response types (SearXNG JSON format) ---

type searchResponse struct {
	Query   string       `json:"query"`
	Results []mockResult `json:"results"`
}

type mockResult struct {
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	Content       string  `json:"content"`
	PublishedDate string  `json:"publishedDate,omitempty"`
	Score         float64 `json:"score,omitempty"`
}

// --- Handler ---

func handleSearch(w http.ResponseWriter, r *http.Request, delay time.Duration, fail bool) {
	if delay > 0 {
		time.Sleep(delay)
	}

	if fail {
		http.Error(w, `{"error": "mock failure"}`, http.StatusInternalServerError)
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, `{"error": "missing query"}`, http.StatusBadRequest)
		return
	}

	resp := searchResponse{
		Query:   query,
		Results: generateResults(query),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// generateResults builds deterministic results from the query. The same
// query always yields the same result set, and the first result's URL is
// shared across mock instances so cross-provider dedup can be tested.
func generateResults(query string) []mockResult {
	slug := strings.ToLower(strings.Join(strings.Fields(query), "-"))
	seed := querySeed(query)

	results := []mockResult{
		{
			Title:   fmt.Sprintf("%s - Overview", query),
			URL:     fmt.Sprintf("https://example.com/%s", slug),
			Content: fmt.Sprintf("A comprehensive overview of %s with background, usage, and references.", query),
			Score:   0.95,
		},
		{
			Title:         fmt.Sprintf("Introduction to %s", query),
			URL:           fmt.Sprintf("https://docs.example.org/%s/intro", slug),
			Content:       fmt.Sprintf("Getting started with %s.", query),
			PublishedDate: "2025-06-01",
			Score:         0.80,
		},
		{
			Title:   fmt.Sprintf("%s discussion thread #%d", query, seed%1000),
			URL:     fmt.Sprintf("https://forum.example.net/t/%d", seed),
			Content: fmt.Sprintf("Community discussion about %s.", query),
			Score:   0.40,
		},
	}

	return results
}

// querySeed derives a stable number from the query text.
func querySeed(query string) uint32 {
	sum := sha256.Sum256([]byte(strings.ToLower(query)))
	return binary.BigEndian.Uint32(sum[:4])
}
