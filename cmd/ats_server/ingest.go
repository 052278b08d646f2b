package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/haruki/ats-backend/internal/ingestion"
	"github.com/haruki/ats-backend/internal/observability"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest a resume or job posting from a file or URL",
	Long:  "Ingest a resume or job posting from a text, markdown, HTML or PDF file, or fetch it from a job board URL. The content is cleaned and printed, or written with metadata when --out is given.",
	RunE:  runIngest,
}

var (
	ingestFile    string
	ingestURL     string
	ingestOut     string
	ingestBrowser bool
)

func init() {
	ingestCmd.Flags().StringVarP(&ingestFile, "file", "f", "", "Path to a .txt/.md/.html/.pdf file")
	ingestCmd.Flags().StringVarP(&ingestURL, "url", "u", "", "URL to fetch the posting from")
	ingestCmd.Flags().StringVarP(&ingestOut, "out", "o", "", "Output directory; without it the cleaned text goes to stdout")
	ingestCmd.Flags().BoolVar(&ingestBrowser, "browser", false, "Render the page in a headless browser when the static HTML is too thin")

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(_ *cobra.Command, _ []string) error {
	// Validate mutually exclusive flags
	if ingestFile == "" && ingestURL == "" {
		return fmt.Errorf("either --file or --url must be provided")
	}
	if ingestFile != "" && ingestURL != "" {
		return fmt.Errorf("--file and --url are mutually exclusive; provide only one")
	}

	var cleanedText string
	var metadata *ingestion.Metadata
	var err error

	baseName := "job_posting"
	if ingestFile != "" {
		cleanedText, metadata, err = ingestion.IngestFromFile(ingestFile)
		if err != nil {
			return fmt.Errorf("failed to ingest from file: %w", err)
		}
		baseName = strings.TrimSuffix(filepath.Base(ingestFile), filepath.Ext(ingestFile))
	} else {
		ctx := context.Background()
		apiKey := viper.GetString("gemini-api-key")
		cleanedText, metadata, err = ingestion.IngestFromURL(ctx, ingestURL, apiKey, ingestBrowser, viper.GetBool("debug"))
		if err != nil {
			return fmt.Errorf("failed to ingest from URL: %w", err)
		}
	}

	if viper.GetBool("debug") {
		observability.NewPrinter(os.Stdout).PrintIngestMetadata(metadata)
	}

	if ingestOut == "" {
		fmt.Fprintln(os.Stdout, cleanedText)
		return nil
	}

	if err := ingestion.WriteOutput(ingestOut, baseName, cleanedText, metadata); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Successfully ingested %d words\n", metadata.WordCount)
	fmt.Fprintf(os.Stdout, "Cleaned text: %s\n", filepath.Join(ingestOut, baseName+".cleaned.txt"))
	fmt.Fprintf(os.Stdout, "Metadata: %s\n", filepath.Join(ingestOut, baseName+".meta.json"))

	return nil
}
