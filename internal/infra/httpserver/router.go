package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	appanalysis "github.com/bryanwahyu/finsight-ai/internal/application/analysis"
	domai "github.com/bryanwahyu/finsight-ai/internal/domain/ai"
	domain "github.com/bryanwahyu/finsight-ai/internal/domain/analysis"
	"github.com/bryanwahyu/finsight-ai/internal/infra/metrics"
	"github.com/bryanwahyu/finsight-ai/internal/middleware"
)

// errBadRequest menandai input klien yang tidak valid selain query kosong
var errBadRequest = errors.New("bad request")

// Options konfigurasi router
type Options struct {
	MaxUploadBytes int64
	APIKey         string
	RateCapacity   int
	RateRefill     int
}

type Router struct {
	svc       *appanalysis.Service
	maxUpload int64
	logger    zerolog.Logger
}

func NewRouter(svc *appanalysis.Service, opts Options, checkers map[string]middleware.HealthChecker, logger zerolog.Logger) http.Handler {
	r := &Router{svc: svc, maxUpload: opts.MaxUploadBytes, logger: logger}
	mux := chi.NewRouter()

	mux.Use(middleware.LoggingMiddleware(logger))
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))
	mux.Use(middleware.APIKeyAuth(opts.APIKey))

	mux.Get("/health", middleware.HealthHandler(checkers))
	mux.Handle("/metrics", promhttp.Handler())

	mux.Group(func(rt chi.Router) {
		rt.Use(middleware.RateLimitMiddleware(opts.RateCapacity, opts.RateRefill))
		rt.Post("/analyze", r.wrap(r.handleAnalyze))
	})
	mux.Get("/outputs", r.wrap(r.handleList))
	mux.Get("/outputs/{id}", r.wrap(r.handleGet))
	mux.Get("/faults", r.wrap(r.handleFaults))

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap petakan error domain ke status HTTP; jangan bocorkan error provider mentah
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		switch {
		case errors.Is(err, domain.ErrEmptyQuery):
			http.Error(w, "query must not be empty", http.StatusBadRequest)
		case errors.Is(err, errBadRequest):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, domain.ErrNotFound), errors.Is(err, sql.ErrNoRows):
			http.Error(w, "not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrExtraction):
			http.Error(w, "document could not be read", http.StatusUnprocessableEntity)
		case errors.Is(err, domai.ErrQuotaExceeded):
			http.Error(w, "ai quota exceeded", http.StatusTooManyRequests)
		default:
			r.logger.Error().Err(err).Str("path", req.URL.Path).Msg("request failed")
			http.Error(w, "analysis failed", http.StatusInternalServerError)
		}
	}
}

// POST /analyze
// multipart form: file (binary) + query (string)
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	req.Body = http.MaxBytesReader(w, req.Body, r.maxUpload)
	if err := req.ParseMultipartForm(8 << 20); err != nil {
		return fmt.Errorf("%w: invalid multipart form: %v", errBadRequest, err)
	}
	defer func() {
		if req.MultipartForm != nil {
			_ = req.MultipartForm.RemoveAll()
		}
	}()

	query := req.FormValue("query")
	if err := middleware.ValidateQuery(query); err != nil {
		if strings.TrimSpace(query) == "" {
			return domain.ErrEmptyQuery
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}

	file, header, err := req.FormFile("file")
	if err != nil {
		return fmt.Errorf("%w: file is required", errBadRequest)
	}
	defer file.Close()

	start := time.Now()
	rec, err := r.svc.Analyze(req.Context(), appanalysis.AnalyzeCommand{
		Filename: middleware.SanitizeFilename(header.Filename),
		Query:    query,
		File:     file,
	})
	if err != nil {
		metrics.ObserveAnalysis(outcomeFor(err), time.Since(start))
		return err
	}
	metrics.ObserveAnalysis("success", time.Since(start))

	resp := map[string]any{
		"id":     rec.ID,
		"result": rec.ResultText,
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(resp)
}

// GET /outputs
func (r *Router) handleList(w http.ResponseWriter, req *http.Request) error {
	list, err := r.svc.List(req.Context())
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// GET /outputs/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateRecordID(id); err != nil {
		// format id yang salah diperlakukan sama dengan id yang tidak ada
		return domain.ErrNotFound
	}

	rec, err := r.svc.Get(req.Context(), domain.RecordID(id))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(rec)
}

// GET /faults?limit=20
func (r *Router) handleFaults(w http.ResponseWriter, req *http.Request) error {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	limit = middleware.ValidateLimit(limit)

	list, err := r.svc.LatestFaults(req.Context(), limit)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// outcomeFor klasifikasi hasil run untuk metrik
func outcomeFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyQuery):
		return "validation"
	case errors.Is(err, domain.ErrExtraction):
		return "extraction"
	default:
		return "analysis"
	}
}
