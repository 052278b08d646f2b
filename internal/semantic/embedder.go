// Package semantic provides embedding-based similarity search over candidate
// and job documents. Collections are kept in memory and searched brute force,
// which is exact and fast enough for the pool sizes an ATS actually holds.
package semantic

import (
	"context"
	"fmt"
	"sync"

	"github.com/haruki/ats-backend/internal/matching"
)

// Embedder turns text into fixed-size vectors. Implementations that learn
// from the corpus (TF-IDF) must be re-prepared whenever the corpus changes.
type Embedder interface {
	// Prepare fits the embedder on the given corpus. It must be called
	// before Embed and again after the corpus changes.
	Prepare(ctx context.Context, corpus []string) error
	// Embed converts text into a vector in the prepared space.
	Embed(ctx context.Context, text string) ([]float64, error)
	// Dimension reports the size of vectors produced by Embed.
	Dimension() int
	// Name identifies the embedding scheme.
	Name() string
}

// EmbedderFactory builds a fresh embedder for a new collection.
type EmbedderFactory func() Embedder

// TFIDFEmbedder embeds text as L2-normalized TF-IDF vectors over a vocabulary
// fitted from the collection corpus.
type TFIDFEmbedder struct {
	mu          sync.RWMutex
	maxFeatures int
	vectorizer  *matching.Vectorizer
}

// NewTFIDFEmbedder creates a TF-IDF embedder. maxFeatures <= 0 uses the
// matching package default.
func NewTFIDFEmbedder(maxFeatures int) *TFIDFEmbedder {
	if maxFeatures <= 0 {
		maxFeatures = matching.DefaultMaxFeatures
	}
	return &TFIDFEmbedder{maxFeatures: maxFeatures}
}

// Prepare fits the vocabulary and IDF weights on the corpus.
func (e *TFIDFEmbedder) Prepare(_ context.Context, corpus []string) error {
	if len(corpus) == 0 {
		return fmt.Errorf("cannot prepare embedder on an empty corpus")
	}

	v := matching.NewVectorizer(e.maxFeatures)
	v.Fit(corpus)

	e.mu.Lock()
	e.vectorizer = v
	e.mu.Unlock()
	return nil
}

// Embed vectorizes text in the prepared space. Text with no vocabulary
// overlap embeds to the zero vector rather than an error.
func (e *TFIDFEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	e.mu.RLock()
	v := e.vectorizer
	e.mu.RUnlock()

	if v == nil {
		return nil, fmt.Errorf("embedder is not prepared")
	}
	return v.VectorFor(text), nil
}

// Dimension reports the fitted vocabulary size, or 0 before Prepare.
func (e *TFIDFEmbedder) Dimension() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.vectorizer == nil {
		return 0
	}
	return e.vectorizer.Dimension()
}

// Name identifies the embedding scheme.
func (e *TFIDFEmbedder) Name() string {
	return "tfidf"
}
