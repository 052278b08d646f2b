// Package search provides full-text search over candidate profiles using a
// Bleve index. The index lives in memory and is rebuilt from the database on
// startup, so it never needs migration of its own.
package search

import (
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
)

// Document is the candidate projection kept in the index.
type Document struct {
	ID         string `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	ResumeText string `json:"resume_text"`
}

// Result is a single search hit with its stored fields.
type Result struct {
	ID        string  `json:"id"`
	Score     float64 `json:"score"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
}

// Index is a full-text candidate index. It is safe for concurrent use.
type Index struct {
	mu    sync.RWMutex
	index bleve.Index
}

// NewMemoryIndex creates an empty in-memory index.
func NewMemoryIndex() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create search index: %w", err)
	}
	return &Index{index: idx}, nil
}

// buildIndexMapping creates the Bleve index mapping for candidate documents.
func buildIndexMapping() mapping.IndexMapping {
	candidateMapping := bleve.NewDocumentMapping()

	// Analyzed fields for full-text search
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = standard.Name

	// Exact-match fields
	keywordFieldMapping := bleve.NewKeywordFieldMapping()

	candidateMapping.AddFieldMappingsAt("first_name", textFieldMapping)
	candidateMapping.AddFieldMappingsAt("last_name", textFieldMapping)
	candidateMapping.AddFieldMappingsAt("resume_text", textFieldMapping)
	candidateMapping.AddFieldMappingsAt("email", keywordFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = candidateMapping
	indexMapping.DefaultAnalyzer = standard.Name

	return indexMapping
}

// Index adds or replaces a candidate document.
func (ix *Index) Index(doc Document) error {
	if doc.ID == "" {
		return fmt.Errorf("document id is required")
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if err := ix.index.Index(doc.ID, doc); err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}
	return nil
}

// Delete removes a candidate document. Deleting an absent id is a no-op.
func (ix *Index) Delete(id string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if err := ix.index.Delete(id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// Search matches the query against names and resume text, plus exact email
// lookup, and returns up to limit hits, best first.
func (ix *Index) Search(queryText string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 10
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	// Free text over the analyzed fields
	matchQuery := bleve.NewMatchQuery(queryText)

	// Exact email lookup (the email field is not analyzed)
	emailQuery := bleve.NewTermQuery(queryText)
	emailQuery.SetField("email")

	searchQuery := bleve.NewDisjunctionQuery(matchQuery, emailQuery)

	searchReq := bleve.NewSearchRequest(searchQuery)
	searchReq.Size = limit
	searchReq.Fields = []string{"first_name", "last_name", "email"}

	searchResult, err := ix.index.Search(searchReq)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]Result, 0, len(searchResult.Hits))
	for _, hit := range searchResult.Hits {
		result := Result{
			ID:    hit.ID,
			Score: hit.Score,
		}
		if v, ok := hit.Fields["first_name"].(string); ok {
			result.FirstName = v
		}
		if v, ok := hit.Fields["last_name"].(string); ok {
			result.LastName = v
		}
		if v, ok := hit.Fields["email"].(string); ok {
			result.Email = v
		}
		results = append(results, result)
	}
	return results, nil
}

// Count reports the number of indexed documents.
func (ix *Index) Count() (uint64, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.index.DocCount()
}

// Close releases the index.
func (ix *Index) Close() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.index.Close()
}
