package semantic

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/haruki/ats-backend/internal/matching"
)

// Document is a text to be embedded and stored in a collection.
type Document struct {
	ID       string
	Text     string
	Metadata map[string]string
}

// collection couples an embedder with the store and raw texts it was fitted
// on. TF-IDF vocabularies depend on the corpus, so every write refits the
// embedder and re-embeds the collection.
type collection struct {
	embedder Embedder
	store    *Store
	texts    map[string]string
	meta     map[string]map[string]string
	order    []string
}

// Manager maintains named document collections and answers similarity
// queries against them. It is safe for concurrent use.
type Manager struct {
	mu          sync.RWMutex
	factory     EmbedderFactory
	collections map[string]*collection
}

// NewManager creates a manager that builds one embedder per collection using
// factory. A nil factory uses TF-IDF with default settings.
func NewManager(factory EmbedderFactory) *Manager {
	if factory == nil {
		factory = func() Embedder { return NewTFIDFEmbedder(0) }
	}
	return &Manager{
		factory:     factory,
		collections: make(map[string]*collection),
	}
}

// Store adds or replaces documents in a collection, creating the collection
// on first use. The whole collection is re-embedded so vectors stay
// comparable after the vocabulary shifts.
func (m *Manager) Store(ctx context.Context, name string, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	for _, doc := range docs {
		if doc.ID == "" {
			return fmt.Errorf("document in collection %q has an empty id", name)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.collections[name]
	if !ok {
		c = &collection{
			embedder: m.factory(),
			store:    NewStore(),
			texts:    make(map[string]string),
			meta:     make(map[string]map[string]string),
		}
		m.collections[name] = c
	}

	for _, doc := range docs {
		if _, exists := c.texts[doc.ID]; !exists {
			c.order = append(c.order, doc.ID)
		}
		c.texts[doc.ID] = doc.Text
		c.meta[doc.ID] = doc.Metadata
	}

	return c.refit(ctx)
}

// Delete removes a document from a collection. Absent collections or ids are
// a no-op.
func (m *Manager) Delete(ctx context.Context, name, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.collections[name]
	if !ok {
		return nil
	}
	if _, exists := c.texts[id]; !exists {
		return nil
	}

	delete(c.texts, id)
	delete(c.meta, id)
	for i, storedID := range c.order {
		if storedID == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}

	if len(c.order) == 0 {
		delete(m.collections, name)
		return nil
	}
	return c.refit(ctx)
}

// SearchSimilar embeds the query and returns up to topK documents from the
// collection, most similar first.
func (m *Manager) SearchSimilar(ctx context.Context, name, query string, topK int) ([]Match, error) {
	m.mu.RLock()
	c, ok := m.collections[name]
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("collection not found: %s", name)
	}

	vector, err := c.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return c.store.Search(vector, topK), nil
}

// SimilarToDocument returns up to topK documents most similar to a stored
// document, excluding the document itself.
func (m *Manager) SimilarToDocument(ctx context.Context, name, id string, topK int) ([]Match, error) {
	// The text lookup must happen under the manager lock: Store and Delete
	// rewrite c.texts while holding it. The embedder and store guard
	// themselves, so the embed/search below can run unlocked.
	m.mu.RLock()
	c, ok := m.collections[name]
	var text string
	var exists bool
	if ok {
		text, exists = c.texts[id]
	}
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("collection not found: %s", name)
	}
	if !exists {
		return nil, fmt.Errorf("document not found in collection %s: %s", name, id)
	}

	vector, err := c.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed document: %w", err)
	}

	// Over-fetch by one so the document itself can be dropped.
	matches := c.store.Search(vector, topK+1)
	out := make([]Match, 0, topK)
	for _, match := range matches {
		if match.ID == id {
			continue
		}
		out = append(out, match)
		if len(out) == topK {
			break
		}
	}
	return out, nil
}

// MatchScore reports the cosine similarity of two texts in a vector space
// fitted over just those texts, in [0, 1].
func (m *Manager) MatchScore(ctx context.Context, a, b string) (float64, error) {
	embedder := m.factory()
	if err := embedder.Prepare(ctx, []string{a, b}); err != nil {
		return 0, fmt.Errorf("failed to prepare embedder: %w", err)
	}

	va, err := embedder.Embed(ctx, a)
	if err != nil {
		return 0, err
	}
	vb, err := embedder.Embed(ctx, b)
	if err != nil {
		return 0, err
	}
	return matching.Cosine(va, vb), nil
}

// Count reports the number of documents in a collection, 0 when absent.
func (m *Manager) Count(name string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.collections[name]
	if !ok {
		return 0
	}
	return len(c.order)
}

// Collections lists collection names in sorted order.
func (m *Manager) Collections() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.collections))
	for name := range m.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// refit re-prepares the embedder on the current corpus and re-embeds every
// document. Caller holds the manager write lock.
func (c *collection) refit(ctx context.Context) error {
	corpus := make([]string, 0, len(c.order))
	for _, id := range c.order {
		corpus = append(corpus, c.texts[id])
	}

	if err := c.embedder.Prepare(ctx, corpus); err != nil {
		return fmt.Errorf("failed to prepare embedder: %w", err)
	}

	c.store.Init(c.embedder.Dimension())
	if c.embedder.Dimension() == 0 {
		// Nothing tokenizable in the corpus. Searches come back empty.
		return nil
	}
	for _, id := range c.order {
		vector, err := c.embedder.Embed(ctx, c.texts[id])
		if err != nil {
			return fmt.Errorf("failed to embed document %s: %w", id, err)
		}
		if err := c.store.Upsert(id, vector, c.meta[id]); err != nil {
			return fmt.Errorf("failed to store document %s: %w", id, err)
		}
	}
	return nil
}
