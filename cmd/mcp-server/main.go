// Command mcp-server exposes the suche metasearch engine as an MCP tool
// over streamable HTTP, so MCP-capable clients can call "web_search"
// directly.
//
// Configuration follows the same YAML file and SUCHE_* environment
// variables as the main server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rhuss/suche/pkg/api"
	"github.com/rhuss/suche/pkg/config"
	"github.com/rhuss/suche/pkg/debug"
	"github.com/rhuss/suche/pkg/engine"
	"github.com/rhuss/suche/pkg/provider"
	"github.com/rhuss/suche/pkg/render"
)

// searchInput is the MCP tool input schema.
type searchInput struct {
	Query      string `json:"query" jsonschema_description:"The search query"`
	MaxResults int    `json:"max_results,omitempty" jsonschema_description:"Maximum number of results (1-50, default 10)"`
	Recency    string `json:"recency,omitempty" jsonschema_description:"Restrict results by age: day, week, month, year, or all"`
	Language   string `json:"language,omitempty" jsonschema_description:"Language tag, e.g. en or de"`
}

func main() {
	if err := run(); err != nil {
		slog.Error("mcp server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	port := flag.String("port", "8081", "listen port")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	debug.Init(cfg.Debug.Categories, cfg.Debug.Level)
	logger := slog.Default()

	providers := provider.FromConfig(cfg, logger)
	if len(providers) == 0 {
		return fmt.Errorf("no search provider configured")
	}

	eng := engine.New(providers, engine.Config{
		Timeout: cfg.Search.Timeout,
		Logger:  logger,
	})

	validation := api.DefaultValidationConfig()
	if cfg.Search.MaxResults > 0 {
		validation.DefaultResults = cfg.Search.MaxResults
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "suche-mcp", Version: "v1.0.0"},
		nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "web_search",
		Description: "Searches the web across multiple engines and returns deduplicated, ranked results",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input searchInput) (*mcp.CallToolResult, struct{}, error) {
		params := api.SearchParams{
			Query:      input.Query,
			MaxResults: input.MaxResults,
			Recency:    input.Recency,
			Language:   input.Language,
		}
		if apiErr := api.ValidateParams(&params, validation); apiErr != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: apiErr.Message}},
				IsError: true,
			}, struct{}{}, nil
		}

		result := eng.Search(ctx, params)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: render.Text(result)}},
		}, struct{}{}, nil
	})

	handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return server
	}, nil)

	httpMux := http.NewServeMux()
	httpMux.Handle("/mcp", handler)
	httpMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	logger.Info("suche MCP server starting", "port", *port, "providers", eng.Providers())
	return http.ListenAndServe(":"+*port, httpMux)
}
