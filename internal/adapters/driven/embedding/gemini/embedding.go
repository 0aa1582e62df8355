// Package gemini provides an embedding service adapter for the Google Gemini API.
package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/custodia-labs/vecseed/internal/core/domain"
	"github.com/custodia-labs/vecseed/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultModel = "text-embedding-004"

	// MaxBatchSize is the API's limit on requests in one batch call.
	MaxBatchSize = 100

	fallbackDimensions = 768
)

// Config holds configuration for the Gemini embedding service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// Model is the embedding model to use (default: text-embedding-004).
	Model string

	// BaseURL overrides the API endpoint.
	BaseURL string
}

// batchEmbedder is the slice of genai.EmbeddingModel the service uses.
type batchEmbedder interface {
	embed(ctx context.Context, texts []string) ([][]float32, error)
}

// EmbeddingService generates embeddings using Gemini. Stored chunks and
// search queries go through models tuned for their retrieval role.
type EmbeddingService struct {
	client     *genai.Client
	documents  batchEmbedder
	queries    batchEmbedder
	model      string
	dimensions int
}

// NewEmbeddingService creates a new Gemini embedding service.
func NewEmbeddingService(ctx context.Context, cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key is required", domain.ErrEmbeddingUnavailable)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.BaseURL))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	documents := client.EmbeddingModel(cfg.Model)
	documents.TaskType = genai.TaskTypeRetrievalDocument
	queries := client.EmbeddingModel(cfg.Model)
	queries.TaskType = genai.TaskTypeRetrievalQuery

	return newService(client, &genaiEmbedder{model: documents}, &genaiEmbedder{model: queries}, cfg.Model), nil
}

func newService(client *genai.Client, documents, queries batchEmbedder, model string) *EmbeddingService {
	dimensions, ok := domain.EmbeddingDimensions()[model]
	if !ok {
		dimensions = fallbackDimensions
	}
	return &EmbeddingService{
		client:     client,
		documents:  documents,
		queries:    queries,
		model:      model,
		dimensions: dimensions,
	}
}

// Embed generates a query embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := embedAll(ctx, s.queries, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// EmbedBatch generates document embeddings for texts, in input order, in calls
// of at most MaxBatchSize texts.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return embedAll(ctx, s.documents, texts)
}

func embedAll(ctx context.Context, embedder batchEmbedder, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += MaxBatchSize {
		end := min(start+MaxBatchSize, len(texts))
		vectors, err := embedder.embed(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("gemini: %w", err)
		}
		if len(vectors) != end-start {
			return nil, fmt.Errorf("gemini: expected %d embeddings, got %d", end-start, len(vectors))
		}
		out = append(out, vectors...)
	}
	return out, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping embeds a short text. Gemini has no cheaper authenticated endpoint.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if _, err := s.queries.embed(ctx, []string{"ping"}); err != nil {
		return fmt.Errorf("%w: gemini ping: %w", domain.ErrEmbeddingUnavailable, err)
	}
	return nil
}

// Close releases the client.
func (s *EmbeddingService) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

type genaiEmbedder struct {
	model *genai.EmbeddingModel
}

func (g *genaiEmbedder) embed(ctx context.Context, texts []string) ([][]float32, error) {
	batch := g.model.NewBatch()
	for _, t := range texts {
		batch.AddContent(genai.Text(t))
	}

	resp, err := g.model.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, err
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, e := range resp.Embeddings {
		if e == nil {
			return nil, fmt.Errorf("empty embedding at position %d", i)
		}
		vectors[i] = append([]float32(nil), e.Values...)
	}
	return vectors, nil
}
