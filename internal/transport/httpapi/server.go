// Package httpapi is the hand-written chi transport for the recommendation
// service: one ranking endpoint over the loaded catalog plus catalog
// inspection, reload and health.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/stylerank/internal/domain"
	"github.com/kailas-cloud/stylerank/internal/usecase/health"
	"github.com/kailas-cloud/stylerank/internal/usecase/pipeline"
	"github.com/kailas-cloud/stylerank/internal/usecase/rank"
)

// Defaults are the server-side fallbacks a rank request may override.
type Defaults struct {
	Weights domain.FusionWeights
	TopK    int
}

// Server wires the use case services to HTTP.
type Server struct {
	catalog  Catalog
	ranker   Ranker
	health   HealthChecker
	defaults Defaults
	logger   *zap.Logger
}

// NewServer creates the HTTP API server.
func NewServer(catalog Catalog, ranker Ranker, h HealthChecker, defaults Defaults, logger *zap.Logger) *Server {
	return &Server{catalog: catalog, ranker: ranker, health: h, defaults: defaults, logger: logger}
}

// Routes mounts all endpoints on r.
func (s *Server) Routes(r chi.Router) {
	r.Post("/v1/rank", s.handleRank)
	r.Get("/v1/catalog", s.handleCatalog)
	r.Post("/v1/catalog/reload", s.handleReload)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

type rankRequest struct {
	Query    string   `json:"query"`
	LikedIDs []string `json:"liked_ids"`
	Mode     string   `json:"mode"`
	TopK     *int     `json:"top_k"`
	Alpha    *float64 `json:"alpha"`
	Beta     *float64 `json:"beta"`
	Gamma    *float64 `json:"gamma"`
}

type rankedItem struct {
	Title         string   `json:"title"`
	URL           string   `json:"url"`
	Price         float64  `json:"price"`
	OriginalPrice float64  `json:"original_price,omitempty"`
	Brand         string   `json:"brand,omitempty"`
	ImageURL      string   `json:"image_url,omitempty"`
	Color         string   `json:"color,omitempty"`
	Category      string   `json:"category,omitempty"`
	StyleTags     []string `json:"style_tags,omitempty"`
	ConditionNorm string   `json:"condition_norm,omitempty"`
	SmartBuyIndex float64  `json:"smart_buy_index"`
	TasteScore    float64  `json:"taste_score"`
	QuerySim      float64  `json:"query_sim"`
	FinalScore    float64  `json:"final_score"`
}

type rankResponse struct {
	Mode    string       `json:"mode"`
	Count   int          `json:"count"`
	Results []rankedItem `json:"results"`
}

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	var req rankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "query is required")
		return
	}

	mode, err := rank.ParseMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	weights := s.defaults.Weights
	if req.Alpha != nil {
		weights.Alpha = *req.Alpha
	}
	if req.Beta != nil {
		weights.Beta = *req.Beta
	}
	if req.Gamma != nil {
		weights.Gamma = *req.Gamma
	}
	topK := s.defaults.TopK
	if req.TopK != nil && *req.TopK > 0 {
		topK = *req.TopK
	}

	items, err := s.ranker.Rank(r.Context(), s.catalog.Batch(), pipeline.RankRequest{
		Query:    req.Query,
		LikedIDs: req.LikedIDs,
		Mode:     mode,
		Weights:  weights,
		TopK:     topK,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := rankResponse{Mode: string(mode), Count: len(items), Results: make([]rankedItem, len(items))}
	for i, it := range items {
		resp.Results[i] = rankedItem{
			Title:         it.Listing.Title,
			URL:           it.Listing.URL,
			Price:         it.Listing.Price,
			OriginalPrice: it.Listing.OriginalPrice,
			Brand:         it.Listing.Brand,
			ImageURL:      it.Listing.ImageURL,
			Color:         it.Attributes.Color,
			Category:      it.Attributes.Category,
			StyleTags:     it.Attributes.StyleTags,
			ConditionNorm: it.Attributes.ConditionNorm,
			SmartBuyIndex: it.Value.SmartBuyIndex,
			TasteScore:    it.TasteScore,
			QuerySim:      it.QuerySim,
			FinalScore:    it.FinalScore,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type catalogResponse struct {
	Listings int `json:"listings"`
	Skipped  int `json:"skipped"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, catalogResponse{
		Listings: s.catalog.Batch().Len(),
		Skipped:  s.catalog.Skipped(),
	})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.Load(r.Context()); err != nil {
		s.logger.Error("Catalog reload failed", zap.Error(err))
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, catalogResponse{
		Listings: s.catalog.Batch().Len(),
		Skipped:  s.catalog.Skipped(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != health.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"status":   report.Status,
		"checks":   report.Checks,
		"listings": report.Listings,
	})
}

// sentinelStatus maps domain sentinels to HTTP responses, checked in order.
var sentinelStatus = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrEmptyQuery, http.StatusBadRequest, "validation_failed"},
	{domain.ErrNoLikedMatches, http.StatusUnprocessableEntity, "no_liked_matches"},
	{domain.ErrMissingColumn, http.StatusConflict, "stage_order"},
	{domain.ErrDimMismatch, http.StatusInternalServerError, "dim_mismatch"},
	{domain.ErrBudgetExceeded, http.StatusPaymentRequired, "budget_exceeded"},
	{domain.ErrEmbeddingProviderError, http.StatusBadGateway, "embedding_provider_error"},
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	for _, m := range sentinelStatus {
		if errors.Is(err, m.err) {
			writeError(w, m.status, m.code, err.Error())
			return
		}
	}
	s.logger.Error("Unhandled error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
