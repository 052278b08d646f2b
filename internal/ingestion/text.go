package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/haruki/ats-backend/internal/fetch"
)

var (
	innerSpaceRe = regexp.MustCompile(`\s+`)
	blankRunRe   = regexp.MustCompile(`\n{3,}`)
)

// CleanText normalizes raw document text for matching and storage: line
// endings become LF, trailing space goes away, unicode bullets become "-",
// and runs of blank lines collapse to a single blank line. Headings, list
// indentation, and line order survive so the text stays readable.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	// Trim blank lines only; a TrimSpace here would eat the first line's
	// indentation.
	out := blankRunRe.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.Trim(out, "\n")
}

// cleanLine normalizes one line according to its role in the document.
func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")
	if strings.TrimSpace(line) == "" {
		return ""
	}

	trimmed := strings.TrimLeft(line, " \t")
	indent := len(line) - len(trimmed)

	switch {
	case strings.HasPrefix(trimmed, "#"):
		// Markdown headings anchor sections; keep the marker, drop the
		// indent, collapse space runs like any other line.
		return innerSpaceRe.ReplaceAllString(trimmed, " ")
	case isBulletLine(trimmed):
		return strings.Repeat(" ", indent) + normalizeBullet(trimmed)
	default:
		return strings.Repeat(" ", indent) + innerSpaceRe.ReplaceAllString(strings.TrimSpace(line), " ")
	}
}

var bulletMarkers = []string{"- ", "* ", "• ", "· "}

func isBulletLine(line string) bool {
	line = strings.TrimLeft(line, " \t")
	for _, marker := range bulletMarkers {
		if strings.HasPrefix(line, marker) {
			return true
		}
	}
	return false
}

// normalizeBullet rewrites unicode bullet markers as "-". Markdown markers
// pass through untouched.
func normalizeBullet(line string) string {
	for _, marker := range []string{"• ", "· "} {
		if strings.HasPrefix(line, marker) {
			return "- " + strings.TrimPrefix(line, marker)
		}
	}
	return line
}

// IngestFromFile reads a resume or job posting from disk, extracts its text
// by extension (.pdf via the text layer, .html/.htm via main-content
// extraction, anything else as plain text), cleans it, and returns it with
// metadata.
func IngestFromFile(path string) (string, *Metadata, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return IngestFromPDF(path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("file not found: %w", err)
		}
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}

	text := string(content)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		text, err = fetch.ExtractMainText(text, fetch.JobPostingSelectors())
		if err != nil {
			return "", nil, fmt.Errorf("failed to extract text from HTML: %w", err)
		}
	}

	cleaned := CleanText(text)
	return cleaned, NewMetadata(cleaned, ""), nil
}

// WriteOutput stores an ingestion result as a pair of sidecar files,
// {baseName}.cleaned.txt and {baseName}.meta.json, under outDir.
func WriteOutput(outDir string, baseName string, cleanedText string, metadata *Metadata) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	cleanedPath := filepath.Join(outDir, baseName+".cleaned.txt")
	if err := os.WriteFile(cleanedPath, []byte(cleanedText), 0644); err != nil {
		return fmt.Errorf("failed to write cleaned text file: %w", err)
	}

	metaJSON, err := metadata.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	metaPath := filepath.Join(outDir, baseName+".meta.json")
	if err := os.WriteFile(metaPath, metaJSON, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}
	return nil
}
