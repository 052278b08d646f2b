package ingestion

import (
	"context"
	"fmt"
	"log"

	"github.com/haruki/ats-backend/internal/fetch"
)

var (
	// ErrHTTPRequestFailed is returned when HTTP request fails
	ErrHTTPRequestFailed = fmt.Errorf("HTTP request failed")
	// ErrContentExtractionFailed is returned when content extraction fails
	ErrContentExtractionFailed = fmt.Errorf("content extraction failed")
)

// IngestFromURL fetches a job posting from a URL, extracts its text, cleans
// it, and returns cleaned text with metadata. Platform detection picks
// job-board-specific selectors for better content extraction. If apiKey is
// provided, the LLM extracts the structured posting fields. If useBrowser is
// true, falls back to headless browser rendering for SPA pages with
// insufficient content. If verbose is true, logs each extraction step.
func IngestFromURL(ctx context.Context, urlStr string, apiKey string, useBrowser bool, verbose bool) (string, *Metadata, error) {
	// Detect platform for platform-specific selectors
	platform := fetch.DetectPlatform(urlStr)
	if verbose {
		log.Printf("[VERBOSE] URL: %s", urlStr)
		log.Printf("[VERBOSE] Detected platform: %s", platform)
	}

	// Fetch HTML using the generic fetch package
	result, err := fetch.URL(ctx, urlStr, nil)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}
	if verbose {
		log.Printf("[VERBOSE] Fetched HTML: %d bytes", len(result.HTML))
	}

	// Get platform-specific selectors
	contentSelectors := fetch.PlatformContentSelectors(platform)
	noiseSelectors := fetch.PlatformNoiseSelectors(platform)

	// Extract text from HTML using platform-specific selectors and noise removal
	textContent, err := fetch.ExtractMainText(result.HTML, contentSelectors, noiseSelectors...)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}
	if verbose {
		log.Printf("[VERBOSE] Extracted text: %d chars", len(textContent))
	}

	// Check if we should use browser fallback for SPA sites
	if useBrowser && fetch.ShouldUseBrowser(textContent) {
		if verbose {
			log.Printf("[VERBOSE] Content too short (%d chars < %d), falling back to browser rendering...",
				len(textContent), fetch.MinContentLength)
		}

		browserHTML, browserErr := fetch.BrowserSimple(ctx, urlStr, verbose)
		if browserErr != nil {
			if verbose {
				log.Printf("[VERBOSE] Browser rendering failed: %v, using HTTP content", browserErr)
			}
			// Continue with HTTP content if browser fails
		} else {
			// Re-extract from browser-rendered HTML
			rendered, renderErr := fetch.ExtractMainText(browserHTML, contentSelectors, noiseSelectors...)
			if renderErr != nil {
				if verbose {
					log.Printf("[VERBOSE] Browser content extraction failed: %v", renderErr)
				}
			} else {
				textContent = rendered
				if verbose {
					log.Printf("[VERBOSE] Browser extracted text: %d chars", len(textContent))
				}
			}
		}
	}

	// Clean text
	cleanedText := CleanText(textContent)
	if verbose {
		log.Printf("[VERBOSE] Cleaned text: %d chars", len(cleanedText))
	}

	var title string
	var requiredSkills []string

	// If an API key is provided, use the LLM to extract the structured posting
	if apiKey != "" {
		if verbose {
			log.Printf("[VERBOSE] Calling LLM for structured extraction...")
		}
		posting, err := ExtractJobPosting(ctx, cleanedText, apiKey)
		if err == nil {
			if verbose {
				log.Printf("[VERBOSE] LLM extraction successful")
				log.Printf("[VERBOSE] Title: %s", posting.Title)
				log.Printf("[VERBOSE] Required skills: %d items", len(posting.RequiredSkills))
				log.Printf("[VERBOSE] Nice to have: %d items", len(posting.NiceToHave))
			}
			cleanedText = FormatJobPosting(posting)
			title = posting.Title
			requiredSkills = posting.RequiredSkills
		} else if verbose {
			log.Printf("[VERBOSE] LLM extraction failed: %v, using cleaned text", err)
		}
	}

	// Metadata describes the text actually returned
	metadata := NewMetadata(cleanedText, urlStr)
	metadata.Platform = string(platform)
	metadata.Title = title
	metadata.RequiredSkills = requiredSkills

	return cleanedText, metadata, nil
}
