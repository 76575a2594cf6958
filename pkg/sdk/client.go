package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client calls the stylerank HTTP API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the bearer token sent with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// RankRequest asks for a ranking over the loaded catalog. Zero-valued
// optional fields fall back to server defaults.
type RankRequest struct {
	Query    string   `json:"query"`
	LikedIDs []string `json:"liked_ids,omitempty"`
	Mode     string   `json:"mode,omitempty"`
	TopK     *int     `json:"top_k,omitempty"`
	Alpha    *float64 `json:"alpha,omitempty"`
	Beta     *float64 `json:"beta,omitempty"`
	Gamma    *float64 `json:"gamma,omitempty"`
}

// RankedItem is one ranked listing.
type RankedItem struct {
	Title         string   `json:"title"`
	URL           string   `json:"url"`
	Price         float64  `json:"price"`
	OriginalPrice float64  `json:"original_price"`
	Brand         string   `json:"brand"`
	ImageURL      string   `json:"image_url"`
	Color         string   `json:"color"`
	Category      string   `json:"category"`
	StyleTags     []string `json:"style_tags"`
	ConditionNorm string   `json:"condition_norm"`
	SmartBuyIndex float64  `json:"smart_buy_index"`
	TasteScore    float64  `json:"taste_score"`
	QuerySim      float64  `json:"query_sim"`
	FinalScore    float64  `json:"final_score"`
}

// RankResponse is the ranking result.
type RankResponse struct {
	Mode    string       `json:"mode"`
	Count   int          `json:"count"`
	Results []RankedItem `json:"results"`
}

// CatalogInfo describes the loaded catalog.
type CatalogInfo struct {
	Listings int `json:"listings"`
	Skipped  int `json:"skipped"`
}

// HealthReport is the aggregated health status.
type HealthReport struct {
	Status   string            `json:"status"`
	Checks   map[string]string `json:"checks"`
	Listings int               `json:"listings"`
}

// Rank runs a ranking request.
func (c *Client) Rank(ctx context.Context, req RankRequest) (RankResponse, error) {
	var resp RankResponse
	err := c.do(ctx, http.MethodPost, "/v1/rank", req, &resp)
	return resp, err
}

// Catalog returns the loaded catalog stats.
func (c *Client) Catalog(ctx context.Context) (CatalogInfo, error) {
	var info CatalogInfo
	err := c.do(ctx, http.MethodGet, "/v1/catalog", nil, &info)
	return info, err
}

// Reload re-reads and re-enriches the catalog source file.
func (c *Client) Reload(ctx context.Context) (CatalogInfo, error) {
	var info CatalogInfo
	err := c.do(ctx, http.MethodPost, "/v1/catalog/reload", nil, &info)
	return info, err
}

// Health returns the server health report. A degraded server responds
// with 503; the report is still returned alongside the *APIError.
func (c *Client) Health(ctx context.Context) (HealthReport, error) {
	var report HealthReport
	err := c.do(ctx, http.MethodGet, "/health", nil, &report)
	return report, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	apiErr := &APIError{Status: resp.StatusCode}
	// Health responds 503 with the report body, not an error envelope;
	// decode whatever shape came back into both targets best-effort.
	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err == nil {
		_ = json.Unmarshal(raw, apiErr)
		if out != nil {
			_ = json.Unmarshal(raw, out)
		}
	}
	return apiErr
}
