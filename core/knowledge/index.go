package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/viterin/vek/vek32"

	"github.com/adalundhe/relay/core/providers"
)

// Document is an embedded knowledge-base entry
type Document struct {
	ID        string         `json:"id"`
	Content   string         `json:"content"`
	Embedding []float32      `json:"embedding"`
	Metadata  map[string]any `json:"metadata"`
}

// SearchResult pairs a document with its similarity to a query.
// Similarity is 1 - cosine distance, in [-1, 1].
type SearchResult struct {
	Document   Document `json:"document"`
	Similarity float64  `json:"similarity"`
}

// Index is an in-memory similarity index over embedded documents.
// Documents are kept in insertion order; re-adding an id replaces the
// prior entry atomically.
//
// Index is safe for concurrent use by multiple goroutines.
type Index struct {
	mu sync.RWMutex

	docs     []Document
	embedder providers.Embedder
	logger   *slog.Logger
}

// NewIndex creates an empty index backed by the given embedder
func NewIndex(embedder providers.Embedder, logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.Default()
	}

	return &Index{
		embedder: embedder,
		logger:   logger,
	}
}

// AddDocument embeds content and inserts it, replacing any document with
// the same id. An embedding failure propagates and nothing is inserted.
func (idx *Index) AddDocument(ctx context.Context, id, content string, metadata map[string]any) error {
	embedding, err := idx.embedder.Embed(ctx, content)
	if err != nil {
		return fmt.Errorf("add document %s: %w", id, err)
	}

	if metadata == nil {
		metadata = map[string]any{}
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	for i, doc := range idx.docs {
		if doc.ID == id {
			idx.docs = append(idx.docs[:i], idx.docs[i+1:]...)
			break
		}
	}

	idx.docs = append(idx.docs, Document{
		ID:        id,
		Content:   content,
		Embedding: embedding,
		Metadata:  metadata,
	})

	idx.logger.Debug("added document", "id", id, "chars", len(content))
	return nil
}

// Search returns the topK most similar documents for the query, sorted
// by descending similarity with ties kept in insertion order. An empty
// index yields an empty result without an embedding call. A failure to
// embed the query degrades to an empty result; retrieval context is
// never allowed to fail the caller's pipeline.
func (idx *Index) Search(ctx context.Context, query string, topK int) []SearchResult {
	idx.mu.RLock()
	empty := len(idx.docs) == 0
	idx.mu.RUnlock()

	if empty || topK <= 0 {
		return nil
	}

	queryEmbedding, err := idx.embedder.Embed(ctx, query)
	if err != nil {
		idx.logger.Warn("query embedding failed, returning no context", "error", err)
		return nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	results := make([]SearchResult, 0, len(idx.docs))
	for _, doc := range idx.docs {
		similarity, err := cosineSimilarity(queryEmbedding, doc.Embedding)
		if err != nil {
			idx.logger.Error("skipping document with incompatible embedding",
				"id", doc.ID, "error", err)
			continue
		}
		results = append(results, SearchResult{
			Document:   doc,
			Similarity: similarity,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results
}

// DocumentCount returns the number of stored documents
func (idx *Index) DocumentCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.docs)
}

// Documents returns a copy of all stored documents in insertion order
func (idx *Index) Documents() []Document {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	docs := make([]Document, len(idx.docs))
	copy(docs, idx.docs)
	return docs
}

// cosineSimilarity computes the cosine similarity between two vectors.
// Vectors of differing length violate the single-embedding-model
// contract and fail fast.
func cosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("embedding length mismatch: %d vs %d", len(a), len(b))
	}
	if len(a) == 0 {
		return 0, fmt.Errorf("empty embedding")
	}

	similarity := float64(vek32.CosineSimilarity(a, b))
	if math.IsNaN(similarity) {
		// Zero-norm vector; treat as orthogonal
		return 0, nil
	}
	return similarity, nil
}
