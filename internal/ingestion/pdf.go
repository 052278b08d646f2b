package ingestion

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// IngestFromPDF extracts the text layer of a PDF resume, cleans it, and
// returns it with metadata. Scanned PDFs without a text layer come back
// empty rather than erroring.
func IngestFromPDF(path string) (string, *Metadata, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", nil, fmt.Errorf("file not found: %w", err)
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer func() { _ = f.Close() }()

	plainText, err := reader.GetPlainText()
	if err != nil {
		return "", nil, fmt.Errorf("failed to extract PDF text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plainText); err != nil {
		return "", nil, fmt.Errorf("failed to read PDF text: %w", err)
	}

	cleanedText := CleanText(buf.String())
	metadata := NewMetadata(cleanedText, "")

	return cleanedText, metadata, nil
}
