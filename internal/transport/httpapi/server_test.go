package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/stylerank/internal/domain"
	"github.com/kailas-cloud/stylerank/internal/domain/batch"
	"github.com/kailas-cloud/stylerank/internal/usecase/health"
	"github.com/kailas-cloud/stylerank/internal/usecase/pipeline"
)

type stubCatalog struct {
	batch   batch.Batch
	skipped int
	loadErr error
	loads   int
}

func (s *stubCatalog) Batch() batch.Batch { return s.batch }
func (s *stubCatalog) Skipped() int       { return s.skipped }
func (s *stubCatalog) Load(context.Context) error {
	s.loads++
	return s.loadErr
}

type stubRanker struct {
	items   []domain.RankedItem
	err     error
	lastReq pipeline.RankRequest
}

func (s *stubRanker) Rank(_ context.Context, _ batch.Batch, req pipeline.RankRequest) ([]domain.RankedItem, error) {
	s.lastReq = req
	return s.items, s.err
}

type stubHealth struct {
	report health.Report
}

func (s *stubHealth) Check(context.Context) health.Report { return s.report }

func newTestServer(catalog *stubCatalog, ranker *stubRanker, h *stubHealth) http.Handler {
	if catalog == nil {
		catalog = &stubCatalog{}
	}
	if ranker == nil {
		ranker = &stubRanker{}
	}
	if h == nil {
		h = &stubHealth{report: health.Report{Status: health.Healthy}}
	}
	srv := NewServer(catalog, ranker, h, Defaults{
		Weights: domain.DefaultFusionWeights(),
		TopK:    10,
	}, zap.NewNop())

	r := chi.NewRouter()
	srv.Routes(r)
	return r
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("response is not json: %v\n%s", err, rec.Body.String())
		}
	}
	return rec, decoded
}

func TestHandleRank(t *testing.T) {
	ranker := &stubRanker{items: []domain.RankedItem{
		{
			Listing:    domain.Listing{Title: "Boots", URL: "https://x.test/a", Price: 120},
			Attributes: domain.Attributes{Color: "black", StyleTags: []string{"classic"}},
			Value:      domain.ValueComponents{SmartBuyIndex: 100},
			FinalScore: 0.9,
		},
	}}
	h := newTestServer(nil, ranker, nil)

	rec, body := doJSON(t, h, http.MethodPost, "/v1/rank",
		`{"query":"boots","liked_ids":["https://x.test/a"],"top_k":5,"beta":0.5}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if body["mode"] != "bias_aware" {
		t.Errorf("expected default bias_aware mode, got %v", body["mode"])
	}
	if body["count"] != float64(1) {
		t.Errorf("expected count 1, got %v", body["count"])
	}

	if ranker.lastReq.TopK != 5 {
		t.Errorf("expected request top_k override, got %d", ranker.lastReq.TopK)
	}
	if ranker.lastReq.Weights.Beta != 0.5 {
		t.Errorf("expected beta override 0.5, got %v", ranker.lastReq.Weights.Beta)
	}
	if ranker.lastReq.Weights.Alpha != 0.4 {
		t.Errorf("unspecified weights keep defaults, got alpha %v", ranker.lastReq.Weights.Alpha)
	}

	results := body["results"].([]any)
	first := results[0].(map[string]any)
	if first["title"] != "Boots" || first["final_score"] != 0.9 {
		t.Errorf("unexpected result payload: %v", first)
	}
}

func TestHandleRank_Validation(t *testing.T) {
	h := newTestServer(nil, nil, nil)

	rec, body := doJSON(t, h, http.MethodPost, "/v1/rank", `{"query":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty query, got %d", rec.Code)
	}
	if body["code"] != "validation_failed" {
		t.Errorf("expected validation_failed, got %v", body["code"])
	}

	rec, _ = doJSON(t, h, http.MethodPost, "/v1/rank", `{"query":"x","mode":"smart"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown mode, got %d", rec.Code)
	}

	rec, _ = doJSON(t, h, http.MethodPost, "/v1/rank", `not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid body, got %d", rec.Code)
	}
}

func TestHandleRank_DomainErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"no_liked_matches", domain.ErrNoLikedMatches, http.StatusUnprocessableEntity, "no_liked_matches"},
		{"missing_column", domain.ErrMissingColumn, http.StatusConflict, "stage_order"},
		{"budget", domain.ErrBudgetExceeded, http.StatusPaymentRequired, "budget_exceeded"},
		{"provider", domain.ErrEmbeddingProviderError, http.StatusBadGateway, "embedding_provider_error"},
		{"dims", domain.ErrDimMismatch, http.StatusInternalServerError, "dim_mismatch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(nil, &stubRanker{err: tt.err}, nil)

			rec, body := doJSON(t, h, http.MethodPost, "/v1/rank", `{"query":"boots"}`)
			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if body["code"] != tt.wantCode {
				t.Errorf("expected code %q, got %v", tt.wantCode, body["code"])
			}
		})
	}
}

func TestHandleCatalog(t *testing.T) {
	catalog := &stubCatalog{batch: batch.New([]domain.Listing{{Title: "x", URL: "u", Price: 1}}), skipped: 3}
	h := newTestServer(catalog, nil, nil)

	rec, body := doJSON(t, h, http.MethodGet, "/v1/catalog", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["listings"] != float64(1) || body["skipped"] != float64(3) {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestHandleReload(t *testing.T) {
	catalog := &stubCatalog{}
	h := newTestServer(catalog, nil, nil)

	rec, _ := doJSON(t, h, http.MethodPost, "/v1/catalog/reload", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if catalog.loads != 1 {
		t.Errorf("expected one load call, got %d", catalog.loads)
	}
}

func TestHandleHealth(t *testing.T) {
	h := newTestServer(nil, nil, &stubHealth{report: health.Report{
		Status:   health.Degraded,
		Checks:   map[string]health.CheckResult{"embedding": health.CheckError},
		Listings: 7,
	}})

	rec, body := doJSON(t, h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 for degraded, got %d", rec.Code)
	}
	if body["status"] != "degraded" || body["listings"] != float64(7) {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestBearerAuth(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := BearerAuthMiddleware([]string{"secret"})(inner)

	cases := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"missing", "/v1/rank", "", http.StatusUnauthorized},
		{"wrong_scheme", "/v1/rank", "Basic secret", http.StatusUnauthorized},
		{"bad_key", "/v1/rank", "Bearer nope", http.StatusUnauthorized},
		{"good_key", "/v1/rank", "Bearer secret", http.StatusOK},
		{"health_exempt", "/health", "", http.StatusOK},
		{"metrics_exempt", "/metrics", "", http.StatusOK},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestBearerAuth_DisabledWithoutKeys(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := BearerAuthMiddleware(nil)(inner)

	req := httptest.NewRequest(http.MethodGet, "/v1/rank", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected pass-through without keys, got %d", rec.Code)
	}
}
