package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"
)

// Embedder maps texts to vectors via the Gemini embedding models. Instances
// are safe for concurrent use once constructed.
type Embedder struct {
	client    *genai.Client
	modelName string
}

// NewEmbedder creates an Embedder for the given embedding model.
func NewEmbedder(ctx context.Context, apiKey, model string) (*Embedder, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultEmbeddingModel
	}

	return &Embedder{client: client, modelName: model}, nil
}

// Embed returns one vector per input text, in input order.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if e == nil || e.client == nil {
		return nil, errors.New("gemini embedder is not initialized")
	}
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		contents = append(contents, &genai.Content{
			Parts: []*genai.Part{{Text: text}},
		})
	}

	resp, err := e.client.Models.EmbedContent(ctx, e.modelName, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("embed content: %w", err)
	}

	if resp == nil {
		return nil, errors.New("gemini api returned no embeddings")
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: want %d, got %d", len(texts), len(resp.Embeddings))
	}

	vectors := make([][]float32, 0, len(resp.Embeddings))
	for _, embedding := range resp.Embeddings {
		if embedding == nil || len(embedding.Values) == 0 {
			return nil, errors.New("gemini api returned empty embedding")
		}
		vectors = append(vectors, embedding.Values)
	}

	return vectors, nil
}

func (e *Embedder) Model() string {
	if e == nil {
		return ""
	}
	return e.modelName
}

var (
	embedderMu    sync.Mutex
	embedderCache map[string]*Embedder
)

// SharedEmbedder returns a process-wide Embedder for the given model,
// constructing it on first use. The instance is reused across pipeline runs
// so the underlying client is set up once per process and model.
func SharedEmbedder(ctx context.Context, apiKey, model string) (*Embedder, error) {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultEmbeddingModel
	}

	embedderMu.Lock()
	defer embedderMu.Unlock()

	if cached, ok := embedderCache[model]; ok {
		return cached, nil
	}

	embedder, err := NewEmbedder(ctx, apiKey, model)
	if err != nil {
		return nil, err
	}

	if embedderCache == nil {
		embedderCache = make(map[string]*Embedder)
	}
	embedderCache[model] = embedder

	return embedder, nil
}
