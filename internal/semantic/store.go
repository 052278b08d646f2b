package semantic

import (
	"fmt"
	"sort"
	"sync"

	"github.com/haruki/ats-backend/internal/matching"
)

// Match is a single similarity search hit.
type Match struct {
	ID       string            `json:"id"`
	Score    float64           `json:"score"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Store is an in-memory vector store searched by brute-force cosine
// similarity. It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	dimension int
	ids       []string
	vectors   map[string][]float64
	metadata  map[string]map[string]string
}

// NewStore creates an empty store. Init must be called before Upsert.
func NewStore() *Store {
	return &Store{
		vectors:  make(map[string][]float64),
		metadata: make(map[string]map[string]string),
	}
}

// Init fixes the vector dimension and discards any previously stored
// vectors. Called again after an embedder refit.
func (s *Store) Init(dimension int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dimension = dimension
	s.ids = nil
	s.vectors = make(map[string][]float64)
	s.metadata = make(map[string]map[string]string)
}

// Upsert stores a vector under id, replacing any previous entry.
func (s *Store) Upsert(id string, vector []float64, metadata map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dimension == 0 {
		return fmt.Errorf("store is not initialized")
	}
	if len(vector) != s.dimension {
		return fmt.Errorf("vector dimension mismatch: got %d, want %d", len(vector), s.dimension)
	}

	if _, exists := s.vectors[id]; !exists {
		s.ids = append(s.ids, id)
	}
	s.vectors[id] = vector
	s.metadata[id] = metadata
	return nil
}

// Delete removes an entry. Deleting an absent id is a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.vectors[id]; !exists {
		return
	}
	delete(s.vectors, id)
	delete(s.metadata, id)
	for i, storedID := range s.ids {
		if storedID == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
}

// Search returns up to topK entries most similar to the query vector, best
// first. Insertion order breaks score ties so results are deterministic.
func (s *Store) Search(query []float64, topK int) []Match {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if topK <= 0 || len(s.ids) == 0 || len(query) != s.dimension {
		return nil
	}

	matches := make([]Match, 0, len(s.ids))
	for _, id := range s.ids {
		matches = append(matches, Match{
			ID:       id,
			Score:    matching.Cosine(query, s.vectors[id]),
			Metadata: s.metadata[id],
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if topK < len(matches) {
		matches = matches[:topK]
	}
	return matches
}

// Len reports the number of stored vectors.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// IDs returns the stored ids in insertion order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}
