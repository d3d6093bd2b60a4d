package api

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ValidationConfig holds configurable limits for request validation.
type ValidationConfig struct {
	MaxQueryLength int
	MaxResultCap   int
	// DefaultResults is applied when a request omits max_results. Zero
	// means DefaultMaxResults.
	DefaultResults int
}

// DefaultValidationConfig returns a ValidationConfig with sensible defaults.
func DefaultValidationConfig() ValidationConfig {
	return ValidationConfig{
		MaxQueryLength: 400,
		MaxResultCap:   50,
		DefaultResults: DefaultMaxResults,
	}
}

// DefaultMaxResults is used when a request does not specify max_results.
const DefaultMaxResults = 10

// ValidateParams checks SearchParams for validity and normalizes optional
// fields in place (default max_results, canonical recency). It returns an
// *APIError describing the first validation failure, or nil if the request
// is valid.
func ValidateParams(p *SearchParams, cfg ValidationConfig) *APIError {
	if strings.TrimSpace(p.Query) == "" {
		return NewInvalidRequestError("query", "query must not be empty")
	}

	if cfg.MaxQueryLength > 0 && utf8.RuneCountInString(p.Query) > cfg.MaxQueryLength {
		return NewInvalidRequestError("query",
			fmt.Sprintf("query exceeds maximum length of %d characters", cfg.MaxQueryLength))
	}

	if p.MaxResults == 0 {
		if cfg.DefaultResults > 0 {
			p.MaxResults = cfg.DefaultResults
		} else {
			p.MaxResults = DefaultMaxResults
		}
	}
	if p.MaxResults < 1 {
		return NewInvalidRequestError("max_results", "max_results must be positive")
	}
	if cfg.MaxResultCap > 0 && p.MaxResults > cfg.MaxResultCap {
		return NewInvalidRequestError("max_results",
			fmt.Sprintf("max_results exceeds maximum of %d", cfg.MaxResultCap))
	}

	switch p.Recency {
	case "", RecencyDay, RecencyWeek, RecencyMonth, RecencyYear, RecencyAll:
		// valid
	default:
		return NewInvalidRequestError("recency",
			"recency must be one of: day, week, month, year, all")
	}

	return nil
}
