package knowledge

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/jscott-dev/meetmebot/pkg/adapter"
	"github.com/jscott-dev/meetmebot/pkg/utils/logging"
)

// topK is the number of chunks spliced into the model's context per query.
const topK = 3

const defaultEmbedTimeout = 30 * time.Second

const (
	noKnowledgeMessage = "No information is available in the knowledge base."
	noRelevantMessage  = "No relevant information found in the knowledge base."
)

// Service answers natural-language queries against the cached knowledge base
// by nearest-neighbor search over embeddings.
type Service struct {
	cache        *Cache
	gemini       adapter.Gemini
	embedTimeout time.Duration
}

type ServiceOption func(*Service)

// WithEmbedTimeout bounds the query embedding call
func WithEmbedTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		s.embedTimeout = d
	}
}

// NewService creates a retriever over the given cache and embedding client
func NewService(cache *Cache, gemini adapter.Gemini, opts ...ServiceOption) *Service {
	s := &Service{
		cache:        cache,
		gemini:       gemini,
		embedTimeout: defaultEmbedTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search embeds the query, scores every cached record by cosine similarity,
// and returns the top chunks joined by blank lines. It always returns a
// string: missing knowledge and embedding failures are reported as text, not
// as errors, so the result can be fed back to the model as tool output.
func (s *Service) Search(ctx context.Context, query string) string {
	records := s.cache.Get(ctx)
	if len(records) == 0 {
		return noKnowledgeMessage
	}

	embedCtx, cancel := context.WithTimeout(ctx, s.embedTimeout)
	defer cancel()

	resp, err := s.gemini.Embedding(embedCtx, query)
	if err != nil {
		logging.From(ctx).Warn("failed to embed search query", "query", query, "error", err)
		return fmt.Sprintf("Failed to search the knowledge base: %v", err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return "Failed to search the knowledge base: embedding model returned an empty vector"
	}
	queryEmbedding := resp.Embeddings[0].Values

	type scored struct {
		text  string
		score float64
	}
	results := make([]scored, len(records))
	for i, record := range records {
		results[i] = scored{
			text:  record.Text,
			score: cosineSimilarity(queryEmbedding, record.Embedding),
		}
	}

	// Stable sort keeps the original knowledge-base order among equal scores
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if len(results) > topK {
		results = results[:topK]
	}

	var texts []string
	for _, r := range results {
		if r.text != "" {
			texts = append(texts, r.text)
		}
	}

	joined := strings.Join(texts, "\n\n")
	if joined == "" {
		return noRelevantMessage
	}
	return joined
}

// cosineSimilarity calculates cosine similarity between two vectors.
// Mismatched lengths and zero-norm vectors score 0 rather than NaN, so a
// malformed record sorts to the bottom instead of poisoning the ranking.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
