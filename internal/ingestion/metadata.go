package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Metadata describes an ingested document (resume or job posting).
type Metadata struct {
	URL            string   `json:"url,omitempty"`
	Timestamp      string   `json:"timestamp"` // RFC3339 format
	Hash           string   `json:"hash"`      // SHA256 hex digest of the cleaned text
	WordCount      int      `json:"word_count"`
	Platform       string   `json:"platform,omitempty"`        // Detected job board platform
	Title          string   `json:"title,omitempty"`           // From LLM extraction, when available
	RequiredSkills []string `json:"required_skills,omitempty"` // From LLM extraction, when available
}

// NewMetadata creates a Metadata for the given cleaned content with the
// current timestamp.
func NewMetadata(content string, url string) *Metadata {
	return &Metadata{
		URL:       url,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(content),
		WordCount: len(strings.Fields(content)),
	}
}

// computeHash is the SHA256 hex digest used to detect posting changes
// between ingestion runs.
func computeHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// ToJSON renders the metadata as indented JSON for the sidecar file.
func (m *Metadata) ToJSON() ([]byte, error) {
	out, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return out, nil
}
