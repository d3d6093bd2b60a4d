// Package render formats an aggregated search result for delivery:
// JSON for API consumers, plain text and markdown for human and
// tool-call output.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rhuss/suche/pkg/api"
)

// Format identifies an output rendering.
type Format string

const (
	FormatJSON     Format = "json"
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
)

// ParseFormat maps a format parameter to a Format, defaulting to JSON.
// Unknown values return an error.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return FormatJSON, nil
	case "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown format %q", s)
	}
}

// ContentType returns the HTTP content type for a format.
func (f Format) ContentType() string {
	switch f {
	case FormatText:
		return "text/plain; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render serializes the result in the given format.
func Render(f Format, result api.AggregatedResult) ([]byte, error) {
	switch f {
	case FormatText:
		return []byte(Text(result)), nil
	case FormatMarkdown:
		return []byte(Markdown(result)), nil
	default:
		return json.Marshal(result)
	}
}

// Text builds a human-readable text block from an aggregated result,
// including the per-engine diagnostics footer.
func Text(result api.AggregatedResult) string {
	var b strings.Builder

	if len(result.Results) == 0 {
		fmt.Fprintf(&b, "No results found for %q.\n", result.Query)
	} else {
		fmt.Fprintf(&b, "Search results for %q:\n", result.Query)
		for i, r := range result.Results {
			fmt.Fprintf(&b, "\n%d. %s\n   URL: %s\n", i+1, r.Title, r.URL)
			if r.Snippet != "" {
				fmt.Fprintf(&b, "   %s\n", r.Snippet)
			}
			if len(r.Sources) > 1 {
				fmt.Fprintf(&b, "   Confirmed by: %s\n", strings.Join(r.Sources, ", "))
			}
		}
	}

	b.WriteString("\nEngines:\n")
	for _, e := range result.Engines {
		fmt.Fprintf(&b, "  %s: %s (%dms, %d results)", e.Name, e.Status, e.LatencyMS, e.ResultCount)
		if e.Error != "" {
			fmt.Fprintf(&b, " - %s", e.Error)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// Markdown builds a markdown rendering with linked titles and an engine
// diagnostics table.
func Markdown(result api.AggregatedResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## Search results for %q\n\n", result.Query)

	if len(result.Results) == 0 {
		b.WriteString("_No results found._\n")
	} else {
		for i, r := range result.Results {
			fmt.Fprintf(&b, "%d. [%s](%s)", i+1, r.Title, r.URL)
			if len(r.Sources) > 1 {
				fmt.Fprintf(&b, " *(%s)*", strings.Join(r.Sources, ", "))
			}
			b.WriteString("\n")
			if r.Snippet != "" {
				fmt.Fprintf(&b, "   %s\n", r.Snippet)
			}
		}
	}

	b.WriteString("\n| Engine | Status | Latency | Results |\n")
	b.WriteString("|--------|--------|---------|---------|\n")
	for _, e := range result.Engines {
		fmt.Fprintf(&b, "| %s | %s | %dms | %d |\n", e.Name, e.Status, e.LatencyMS, e.ResultCount)
	}

	return b.String()
}
