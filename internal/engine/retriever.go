package engine

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"

	"github.com/lifesure/insurance-ai-platform/pkg/logging"
)

var errEmbeddingMismatch = errors.New("embedding response size mismatch")

// RetrievedDocument is a ranked knowledge-base excerpt returned by semantic
// search. Scoped to one turn's retrieval call, never persisted on the session.
type RetrievedDocument struct {
	Content        string
	PolicyID       string
	PolicyName     string
	PolicyType     string
	CoverageAmount int64
	MinAge         int
	MaxAge         int
	Score          float64
	Source         string
}

// RetrievalQuery carries the search text plus eligibility filters.
type RetrievalQuery struct {
	Text       string
	TopK       int
	Age        int
	PolicyType string
}

// Retriever is the external semantic-retrieval capability. May return empty.
type Retriever interface {
	Retrieve(ctx context.Context, q RetrievalQuery) ([]RetrievedDocument, error)
}

// Embedder produces vectors for indexing and querying.
type Embedder interface {
	Embed(ctx context.Context, modelID string, texts []string) ([][]float32, error)
}

type indexedDocument struct {
	doc       RetrievedDocument
	embedding []float32
}

// MemoryVectorStore keeps embeddings in memory and retrieves by cosine
// similarity with hard eligibility filtering.
type MemoryVectorStore struct {
	embedder Embedder
	model    string
	logger   *logging.Logger

	mu   sync.RWMutex
	docs []indexedDocument
}

func NewMemoryVectorStore(embedder Embedder, model string, logger *logging.Logger) *MemoryVectorStore {
	if embedder == nil {
		panic("engine: embedder cannot be nil")
	}
	if model == "" {
		model = "amazon.titan-embed-text-v2:0"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &MemoryVectorStore{embedder: embedder, model: model, logger: logger}
}

// AddDocuments embeds and indexes the provided documents.
func (s *MemoryVectorStore) AddDocuments(ctx context.Context, docs []RetrievedDocument) error {
	if len(docs) == 0 {
		return nil
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Content
	}
	vectors, err := s.embedder.Embed(ctx, s.model, texts)
	if err != nil {
		return err
	}
	if len(vectors) != len(docs) {
		return &ExternalServiceError{Service: "embedding", Err: errEmbeddingMismatch}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, d := range docs {
		s.docs = append(s.docs, indexedDocument{doc: d, embedding: vectors[i]})
	}
	return nil
}

// Retrieve returns the topK most similar eligible documents.
func (s *MemoryVectorStore) Retrieve(ctx context.Context, q RetrievalQuery) ([]RetrievedDocument, error) {
	topK := q.TopK
	if topK <= 0 {
		topK = 3
	}

	vectors, err := s.embedder.Embed(ctx, s.model, []string{q.Text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, nil
	}
	queryVec := vectors[0]

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]RetrievedDocument, 0, len(s.docs))
	for _, entry := range s.docs {
		if !eligible(entry.doc, q) {
			continue
		}
		doc := entry.doc
		doc.Score = cosineSimilarity(queryVec, entry.embedding)
		results = append(results, doc)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

func eligible(doc RetrievedDocument, q RetrievalQuery) bool {
	if q.Age > 0 {
		if doc.MinAge > 0 && q.Age < doc.MinAge {
			return false
		}
		if doc.MaxAge > 0 && q.Age > doc.MaxAge {
			return false
		}
	}
	if q.PolicyType != "" && doc.PolicyType != "" && q.PolicyType != doc.PolicyType {
		return false
	}
	return true
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot float64
	var normA float64
	var normB float64
	for i := range a {
		dot += float64(a[i] * b[i])
		normA += float64(a[i] * a[i])
		normB += float64(b[i] * b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
