// Package embedding provides the vector-similarity capability behind the
// semantic matching strategy, backed by an OpenAI-compatible embeddings
// endpoint.
package embedding

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Similarity scores how close two texts are in meaning, in [0, 1].
type Similarity interface {
	Similarity(ctx context.Context, a, b string) (float64, error)
}

// Config holds configuration for creating an embedding client.
type Config struct {
	Endpoint string // Base URL, e.g., "https://api.openai.com/v1"
	Model    string // Embedding model, e.g., "text-embedding-3-small"
	APIKey   string // Optional for local endpoints
}

// Client computes similarity via an OpenAI-compatible embeddings endpoint.
// Embedding vectors are memoized per input text: the corpus repeats the same
// alias strings on every match request and embeddings are pure for a fixed
// model.
type Client struct {
	client *openai.Client
	model  string
	logger *zap.Logger

	mu    sync.Mutex
	cache map[string][]float32
}

var _ Similarity = (*Client)(nil)

// NewClient creates a new embedding client.
func NewClient(cfg *Config, logger *zap.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = strings.TrimSuffix(cfg.Endpoint, "/")

	return &Client{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
		logger: logger.Named("embedding"),
		cache:  make(map[string][]float32),
	}, nil
}

// Similarity returns the cosine similarity of the two texts' embeddings,
// clamped to [0, 1]. Empty texts score 0.
func (c *Client) Similarity(ctx context.Context, a, b string) (float64, error) {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return 0, nil
	}

	va, err := c.embed(ctx, a)
	if err != nil {
		return 0, err
	}
	vb, err := c.embed(ctx, b)
	if err != nil {
		return 0, err
	}

	return clamp01(cosine(va, vb)), nil
}

func (c *Client) embed(ctx context.Context, text string) ([]float32, error) {
	c.mu.Lock()
	if v, ok := c.cache[text]; ok {
		c.mu.Unlock()
		return v, nil
	}
	c.mu.Unlock()

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(c.model),
		Input: []string{text},
	})
	if err != nil {
		c.logger.Error("embedding request failed", zap.Error(err))
		return nil, fmt.Errorf("create embedding: %w", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("no embedding in response")
	}

	v := resp.Data[0].Embedding

	c.mu.Lock()
	c.cache[text] = v
	c.mu.Unlock()

	return v, nil
}

// ClearCache drops all memoized embedding vectors.
func (c *Client) ClearCache() {
	c.mu.Lock()
	c.cache = make(map[string][]float32)
	c.mu.Unlock()
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
