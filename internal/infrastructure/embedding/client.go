package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/cvmatch/backend/internal/domain"
)

const (
	defaultMaxTokens = 512
	defaultTimeout   = 30 * time.Second
	maxAttempts      = 3
)

// Config holds configuration for the embedding client
type Config struct {
	BaseURL            string  // inference server address
	Model              string  // model identifier, informational
	MaxTokens          int     // encoder input window, tokens beyond it are truncated
	Timeout            time.Duration
	RequestsPerSecond  float64 // inference server throttle
	Burst              int
	EnableDebugLogging bool
}

// Client generates document embeddings through a text-embeddings inference
// server. The server returns per-token representations; the client mean
// pools them into one fixed-dimension document vector. The server holds
// the model weights, so Client itself is cheap and safe to share: the only
// mutable state is the lazily probed readiness and the recorded dimension.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	model       string
	maxTokens   int
	rateLimiter *rate.Limiter
	debug       bool

	initMu sync.Mutex
	ready  bool

	mu        sync.RWMutex
	dimension int
}

// NewClient creates an embedding client. The model is not contacted until
// the first Embed call.
func NewClient(config Config) *Client {
	maxTokens := config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rps := config.RequestsPerSecond
	if rps <= 0 {
		rps = 16
	}
	burst := config.Burst
	if burst <= 0 {
		burst = 32
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     strings.TrimRight(config.BaseURL, "/"),
		model:       config.Model,
		maxTokens:   maxTokens,
		rateLimiter: rate.NewLimiter(rate.Limit(rps), burst),
		debug:       config.EnableDebugLogging,
	}
}

// embedAllRequest asks the server for unpooled per-token vectors, truncated
// to the model's input window.
type embedAllRequest struct {
	Inputs   string `json:"inputs"`
	Truncate bool   `json:"truncate"`
}

// Embed generates the mean-pooled document vector for text.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty text", domain.ErrEmbeddingFailed)
	}
	if err := c.ensureReady(ctx); err != nil {
		return nil, err
	}

	// The server enforces the exact model window; this client-side bound
	// just caps the payload for pathologically long documents.
	payload := embedAllRequest{Inputs: truncateWords(text, c.maxTokens), Truncate: true}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", domain.ErrEmbeddingFailed, err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrEmbeddingFailed, err)
		}

		vector, retryable, err := c.embedOnce(ctx, body)
		if err == nil {
			c.recordDimension(len(vector))
			return vector, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
		if c.debug {
			log.Printf("[EMBED] attempt %d failed: %v", attempt, err)
		}
		time.Sleep(time.Duration(attempt) * 200 * time.Millisecond)
	}
	return nil, lastErr
}

// embedOnce performs one inference round trip and pools the result.
func (c *Client) embedOnce(ctx context.Context, body []byte) (vector []float64, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embed_all", bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("%w: create request: %v", domain.ErrEmbeddingFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", domain.ErrModelUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("%w: read response: %v", domain.ErrEmbeddingFailed, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusServiceUnavailable:
		return nil, true, fmt.Errorf("%w: status %d", domain.ErrModelUnavailable, resp.StatusCode)
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("%w: status %d: %s", domain.ErrEmbeddingFailed, resp.StatusCode, respBody)
	default:
		return nil, false, fmt.Errorf("%w: status %d: %s", domain.ErrEmbeddingFailed, resp.StatusCode, respBody)
	}

	tokens, err := decodeTokenVectors(respBody)
	if err != nil {
		return nil, false, err
	}
	pooled, err := meanPool(tokens)
	if err != nil {
		return nil, false, err
	}
	return pooled, false, nil
}

// ensureReady probes the server health endpoint before the first embedding.
// Only success is remembered: a failed probe leaves the client uninitialized
// so the next request retries once the server comes back. Concurrent first
// callers serialize on the probe; after it succeeds the lock is held only for
// the flag check.
func (c *Client) ensureReady(ctx context.Context) error {
	c.initMu.Lock()
	defer c.initMu.Unlock()
	if c.ready {
		return nil
	}

	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrModelUnavailable, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrModelUnavailable, err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health status %d", domain.ErrModelUnavailable, resp.StatusCode)
	}
	if c.debug {
		log.Printf("[EMBED] model %s ready at %s", c.model, c.baseURL)
	}
	c.ready = true
	return nil
}

// Dimension returns the vector dimensionality observed on the first
// successful embedding, or 0 before that.
func (c *Client) Dimension() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dimension
}

func (c *Client) recordDimension(dim int) {
	c.mu.Lock()
	if c.dimension == 0 {
		c.dimension = dim
	}
	c.mu.Unlock()
}

// decodeTokenVectors accepts both response shapes inference servers use for
// a single input: a batch of token matrices, or one bare token matrix.
func decodeTokenVectors(body []byte) ([][]float64, error) {
	var batch [][][]float64
	if err := json.Unmarshal(body, &batch); err == nil {
		if len(batch) == 0 {
			return nil, fmt.Errorf("%w: empty response", domain.ErrEmbeddingFailed)
		}
		return batch[0], nil
	}

	var tokens [][]float64
	if err := json.Unmarshal(body, &tokens); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrEmbeddingFailed, err)
	}
	return tokens, nil
}

// meanPool averages per-token vectors across all token positions into one
// document vector.
func meanPool(tokens [][]float64) ([]float64, error) {
	if len(tokens) == 0 || len(tokens[0]) == 0 {
		return nil, fmt.Errorf("%w: no token vectors returned", domain.ErrEmbeddingFailed)
	}

	dim := len(tokens[0])
	pooled := make([]float64, dim)
	for _, token := range tokens {
		if len(token) != dim {
			return nil, fmt.Errorf("%w: inconsistent token dimensions", domain.ErrEmbeddingFailed)
		}
		for i, v := range token {
			pooled[i] += v
		}
	}
	for i := range pooled {
		pooled[i] /= float64(len(tokens))
	}
	return pooled, nil
}

// truncateWords bounds text to at most max whitespace-delimited words.
func truncateWords(text string, max int) string {
	words := strings.Fields(text)
	if len(words) <= max {
		return text
	}
	return strings.Join(words[:max], " ")
}
