// Package pinecone is a thin REST client for the Pinecone integrated
// inference API: text-in upsert and search scoped to a namespace, plus
// index statistics. Embedding happens server-side; this client never sees
// vectors.
package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/aimatch/internal/domain"
	"github.com/kailas-cloud/aimatch/internal/domain/match"
	"github.com/kailas-cloud/aimatch/internal/metrics"
)

// Metadata payload limits imposed by the backend.
const (
	maxMetadataFieldLen = 500
	maxSalaryFieldLen   = 100
)

// DefaultTopK is the number of hits requested when the caller does not ask
// for more.
const DefaultTopK = 5

// Config holds the index client settings.
type Config struct {
	APIKey     string
	Host       string // bare host, no scheme
	APIVersion string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client talks to one Pinecone index over REST. No retries: a failed call
// surfaces immediately to the caller.
type Client struct {
	apiKey     string
	baseURL    string
	apiVersion string
	httpc      *http.Client
	logger     *zap.Logger
}

// NewClient creates an index client. An empty API key is tolerated here
// and rejected per call, so the service can still serve liveness probes.
func NewClient(cfg *Config) *Client {
	httpc := cfg.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: 30 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	baseURL := cfg.Host
	if !strings.Contains(baseURL, "://") {
		baseURL = "https://" + baseURL
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		apiVersion: cfg.APIVersion,
		httpc:      httpc,
		logger:     logger,
	}
}

type upsertRecord struct {
	ID       string `json:"_id"`
	Text     string `json:"text"`
	Type     string `json:"type"`
	Name     string `json:"name"`
	Skills   string `json:"skills"`
	Location string `json:"location"`
	Salary   string `json:"salary"`
	Position string `json:"position"`
}

type upsertRequest struct {
	Records []upsertRecord `json:"records"`
}

type searchInputs struct {
	Text string `json:"text"`
}

type searchQuery struct {
	Inputs searchInputs `json:"inputs"`
	TopK   int          `json:"top_k"`
}

type searchRequest struct {
	Query  searchQuery `json:"query"`
	Fields []string    `json:"fields"`
}

type searchResponse struct {
	Result struct {
		Hits []match.Hit `json:"hits"`
	} `json:"result"`
}

// searchFields is the fixed metadata projection requested with every search.
var searchFields = []string{"type", "name", "skills", "location", "salary", "position"}

// Upsert submits a single-record batch of raw text plus its metadata
// projection into the given namespace. Metadata fields are truncated to
// the backend's payload limits.
func (c *Client) Upsert(ctx context.Context, namespace, id, text string, meta match.Metadata) error {
	body := upsertRequest{
		Records: []upsertRecord{{
			ID:       id,
			Text:     text,
			Type:     meta.Type,
			Name:     clip(meta.Name, maxMetadataFieldLen),
			Skills:   clip(meta.Skills, maxMetadataFieldLen),
			Location: clip(meta.Location, maxMetadataFieldLen),
			Salary:   clip(meta.Salary, maxSalaryFieldLen),
			Position: clip(meta.Position, maxMetadataFieldLen),
		}},
	}
	endpoint := fmt.Sprintf("/records/namespaces/%s/upsert", namespace)
	return c.call(ctx, endpoint, "upsert", body, nil)
}

// Search submits query text for embedding-backed nearest-neighbor search
// in the given namespace, requesting up to topK hits. Returns the raw hit
// list unmodified, or an empty list when the backend reports no hits.
func (c *Client) Search(ctx context.Context, namespace, queryText string, topK int) ([]match.Hit, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	body := searchRequest{
		Query: searchQuery{
			Inputs: searchInputs{Text: queryText},
			TopK:   topK,
		},
		Fields: searchFields,
	}

	var resp searchResponse
	endpoint := fmt.Sprintf("/records/namespaces/%s/search", namespace)
	if err := c.call(ctx, endpoint, "search", body, &resp); err != nil {
		return nil, err
	}
	return resp.Result.Hits, nil
}

// Stats fetches the backend's index statistics.
func (c *Client) Stats(ctx context.Context) (map[string]any, error) {
	var stats map[string]any
	if err := c.call(ctx, "/describe_index_stats", "stats", struct{}{}, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// call performs one authenticated POST against the backend and decodes the
// JSON response into out (if non-nil). Non-2xx responses become typed
// index errors carrying the backend status and body.
func (c *Client) call(ctx context.Context, endpoint, operation string, body, out any) error {
	if c.apiKey == "" {
		return fmt.Errorf("PINECONE_API_KEY must be set: %w", domain.ErrMissingAPIKey)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", operation, err)
	}

	url := c.baseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", operation, err)
	}
	req.Header.Set("Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Pinecone-API-Version", c.apiVersion)

	start := time.Now()
	resp, err := c.httpc.Do(req)
	duration := time.Since(start)

	if err != nil {
		metrics.IndexRequestsTotal.WithLabelValues(operation, "error").Inc()
		return fmt.Errorf("pinecone %s: %w", operation, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.IndexRequestsTotal.WithLabelValues(operation, "error").Inc()
		return fmt.Errorf("read %s response: %w", operation, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.IndexRequestsTotal.WithLabelValues(operation, "error").Inc()
		c.logger.Warn("pinecone request failed",
			zap.String("operation", operation),
			zap.Int("status", resp.StatusCode),
			zap.Duration("latency", duration),
		)
		return domain.NewIndexError(resp.StatusCode, string(raw))
	}

	metrics.IndexRequestsTotal.WithLabelValues(operation, "success").Inc()
	metrics.IndexRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode %s response: %w", operation, err)
		}
	}
	return nil
}

// clip cuts s to at most n runes.
func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
