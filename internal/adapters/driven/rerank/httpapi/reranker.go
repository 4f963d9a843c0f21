// Package httpapi provides a cross-encoder rerank adapter over HTTP.
//
// It targets TEI-style rerank endpoints: a POST with the model, the query
// and the candidate documents, answered by one relevance score per document.
// Every failure mode is reported as domain.ErrRerankFailed so callers can
// fall back to their original ranking.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/retriva/internal/core/domain"
	"github.com/custodia-labs/retriva/internal/core/ports/driven"
)

// Ensure Reranker implements the interface.
var _ driven.RerankService = (*Reranker)(nil)

// Default configuration values.
const (
	DefaultModel   = "BAAI/bge-reranker-v2-m3"
	DefaultTimeout = 30 * time.Second
)

// Config holds configuration for the rerank service.
type Config struct {
	// Endpoint is the rerank API URL (required).
	Endpoint string

	// Model is the cross-encoder model (default: BAAI/bge-reranker-v2-m3).
	Model string

	// APIKey is sent as a bearer token when set.
	APIKey string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Reranker scores query/document pairs using a remote cross-encoder.
type Reranker struct {
	client   *http.Client
	endpoint string
	model    string
	apiKey   string
}

// rerankRequest is the rerank API request format.
type rerankRequest struct {
	Model     string   `json:"model"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
}

// rerankResponse is the rerank API response format.
type rerankResponse struct {
	Scores []float64 `json:"scores"`
}

// NewReranker creates a new HTTP rerank service.
func NewReranker(cfg Config) (*Reranker, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("rerank: endpoint is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Reranker{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
	}, nil
}

// Rerank scores each text against the query. The result always has
// exactly one score per input text, in input order.
func (r *Reranker) Rerank(ctx context.Context, query string, texts []string) ([]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	reqBody := rerankRequest{
		Model:     r.model,
		Query:     query,
		Documents: texts,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", domain.ErrRerankFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", domain.ErrRerankFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRerankFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrRerankFailed, resp.StatusCode, string(body))
	}

	var rerankResp rerankResponse
	if err := json.NewDecoder(resp.Body).Decode(&rerankResp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrRerankFailed, err)
	}

	if len(rerankResp.Scores) != len(texts) {
		return nil, fmt.Errorf("%w: got %d scores for %d documents",
			domain.ErrRerankFailed, len(rerankResp.Scores), len(texts))
	}

	return rerankResp.Scores, nil
}

// ModelName returns the cross-encoder model in use.
func (r *Reranker) ModelName() string {
	return r.model
}
