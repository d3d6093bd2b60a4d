package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rhuss/suche/pkg/api"
	"github.com/rhuss/suche/pkg/observability"
	"github.com/rhuss/suche/pkg/render"
	"github.com/rhuss/suche/pkg/transport"
)

// Adapter serves the search API over HTTP. It routes requests, parses and
// validates search parameters, and serializes the aggregated result in the
// requested output format.
type Adapter struct {
	searcher transport.Searcher
	mux      *http.ServeMux
	config   Config
}

// Config holds configuration for the HTTP adapter.
type Config struct {
	Addr            string
	MaxBodySize     int64
	ShutdownTimeout int // seconds
	Validation      api.ValidationConfig
	MetricsEnabled  bool
	MetricsPath     string
}

// DefaultConfig returns the default adapter configuration.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		MaxBodySize:     1 << 20, // 1 MB
		ShutdownTimeout: 30,
		Validation:      api.DefaultValidationConfig(),
		MetricsEnabled:  true,
		MetricsPath:     "/metrics",
	}
}

// NewAdapter creates an HTTP adapter around the given Searcher.
// Middleware is applied to the Searcher in the given order.
func NewAdapter(searcher transport.Searcher, cfg Config, middlewares ...transport.Middleware) *Adapter {
	if len(middlewares) > 0 {
		searcher = transport.Chain(middlewares...)(searcher)
	}

	a := &Adapter{
		searcher: searcher,
		mux:      http.NewServeMux(),
		config:   cfg,
	}

	a.mux.HandleFunc("GET /v1/search", a.handleSearchGet)
	a.mux.HandleFunc("POST /v1/search", a.handleSearchPost)
	a.mux.HandleFunc("GET /healthz", a.handleHealth)

	if cfg.MetricsEnabled {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		a.mux.Handle("GET "+path, promhttp.Handler())
	}

	return a
}

// Handler returns the http.Handler for this adapter. Use this to integrate
// with an http.Server or test with httptest. The returned handler includes
// HTTP-level middleware for request ID propagation and request metrics.
func (a *Adapter) Handler() http.Handler {
	var h http.Handler = httpRequestIDMiddleware(a.mux)
	if a.config.MetricsEnabled {
		h = observability.MetricsMiddleware(h)
	}
	return h
}

// httpRequestIDMiddleware propagates the X-Request-ID header. If present in
// the request it is forwarded into the context; after the handler runs, the
// request ID from the context (set by the transport-level RequestID
// middleware) is added to the response headers.
func httpRequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get("X-Request-ID"); id != "" {
			ctx := transport.ContextWithRequestID(r.Context(), id)
			r = r.WithContext(ctx)
		}
		rw := &requestIDResponseWriter{ResponseWriter: w, r: r}
		next.ServeHTTP(rw, r)
	})
}

// requestIDResponseWriter wraps http.ResponseWriter to inject the
// X-Request-ID header before the first write.
type requestIDResponseWriter struct {
	http.ResponseWriter
	r           *http.Request
	headersSent bool
}

func (w *requestIDResponseWriter) WriteHeader(statusCode int) {
	w.ensureRequestIDHeader()
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *requestIDResponseWriter) Write(b []byte) (int, error) {
	w.ensureRequestIDHeader()
	return w.ResponseWriter.Write(b)
}

func (w *requestIDResponseWriter) ensureRequestIDHeader() {
	if w.headersSent {
		return
	}
	w.headersSent = true
	if id := transport.RequestIDFromContext(w.r.Context()); id != "" {
		w.ResponseWriter.Header().Set("X-Request-ID", id)
	}
}

// searchRequest is the POST body: search parameters plus the desired output
// format.
type searchRequest struct {
	api.SearchParams
	Format string `json:"format,omitempty"`
}

// handleSearchGet handles GET /v1/search with query string parameters.
func (a *Adapter) handleSearchGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := api.SearchParams{
		Query:    q.Get("q"),
		Recency:  q.Get("recency"),
		Language: q.Get("language"),
	}
	if params.Query == "" {
		params.Query = q.Get("query")
	}

	if raw := q.Get("max_results"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			transport.WriteAPIError(w,
				api.NewInvalidRequestError("max_results", "max_results must be an integer"))
			return
		}
		params.MaxResults = n
	}

	if raw := q.Get("safe_search"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			transport.WriteAPIError(w,
				api.NewInvalidRequestError("safe_search", "safe_search must be a boolean"))
			return
		}
		params.SafeSearch = v
	}

	a.search(w, r, params, q.Get("format"))
}

// handleSearchPost handles POST /v1/search with a JSON body.
func (a *Adapter) handleSearchPost(w http.ResponseWriter, r *http.Request) {
	ct := r.Header.Get("Content-Type")
	if ct != "" && ct != "application/json" {
		transport.WriteErrorResponse(w,
			api.NewInvalidRequestError("content_type", "Content-Type must be application/json"),
			http.StatusUnsupportedMediaType,
		)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, a.config.MaxBodySize)

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			transport.WriteErrorResponse(w,
				api.NewInvalidRequestError("body", fmt.Sprintf("request body too large (max %d bytes)", a.config.MaxBodySize)),
				http.StatusRequestEntityTooLarge,
			)
			return
		}
		transport.WriteErrorResponse(w,
			api.NewInvalidRequestError("body", "invalid JSON: "+err.Error()),
			http.StatusBadRequest,
		)
		return
	}

	a.search(w, r, req.SearchParams, req.Format)
}

// search validates the parameters, runs the search, and writes the result in
// the requested format.
func (a *Adapter) search(w http.ResponseWriter, r *http.Request, params api.SearchParams, format string) {
	f, err := render.ParseFormat(format)
	if err != nil {
		transport.WriteAPIError(w,
			api.NewInvalidRequestError("format", "format must be one of: json, text, markdown"))
		return
	}

	if apiErr := api.ValidateParams(&params, a.config.Validation); apiErr != nil {
		transport.WriteAPIError(w, apiErr)
		return
	}

	result, searchErr := a.searcher.Search(r.Context(), params)
	if searchErr != nil {
		var apiErr *api.APIError
		if !errors.As(searchErr, &apiErr) {
			apiErr = api.NewServerError(searchErr.Error())
		}
		transport.WriteAPIError(w, apiErr)
		return
	}

	body, renderErr := render.Render(f, result)
	if renderErr != nil {
		transport.WriteAPIError(w, api.NewServerError(renderErr.Error()))
		return
	}

	w.Header().Set("Content-Type", f.ContentType())
	w.Write(body)
}

// handleHealth handles GET /healthz.
func (a *Adapter) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}
