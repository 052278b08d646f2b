// Command import_candidates bulk-loads candidate records from a JSON file
// into the candidates table.
//
// The input file must validate against schemas/candidate_import.schema.json:
// a JSON array of {first_name, last_name, email} objects with optional
// phone, resume_text and resume_file fields. A resume_file path is resolved
// relative to the input file and ingested through the text pipeline when
// resume_text is absent.
//
// Usage:
//
//	go run cmd/tools/import_candidates/main.go -file candidates.json
//
// Requires DATABASE_URL environment variable to be set (unless -dry-run).
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/haruki/ats-backend/internal/db"
	"github.com/haruki/ats-backend/internal/ingestion"
	"github.com/haruki/ats-backend/internal/nlp"
	"github.com/haruki/ats-backend/internal/schemas"
)

const importSchema = "schemas/candidate_import.schema.json"

// importRecord mirrors one entry of the import file.
type importRecord struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	ResumeText string `json:"resume_text"`
	ResumeFile string `json:"resume_file"`
}

func main() {
	file := flag.String("file", "", "path to the candidate import JSON file")
	dryRun := flag.Bool("dry-run", false, "validate and resolve resumes without writing to the database")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "ERROR: -file is required")
		flag.Usage()
		os.Exit(1)
	}

	schemaPath := schemas.ResolveSchemaPath(importSchema)
	if schemaPath == "" {
		fmt.Fprintf(os.Stderr, "ERROR: schema %s not found\n", importSchema)
		os.Exit(1)
	}

	if err := schemas.ValidateJSON(schemaPath, *file); err != nil {
		var ve *schemas.ValidationError
		if errors.As(err, &ve) {
			fmt.Fprintf(os.Stderr, "ERROR: %s does not match the import schema:\n", *file)
			for _, fe := range ve.Errors {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", fe.Field, fe.Message)
			}
		} else {
			fmt.Fprintf(os.Stderr, "ERROR: validation failed: %v\n", err)
		}
		os.Exit(1)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to read %s: %v\n", *file, err)
		os.Exit(1)
	}

	var records []importRecord
	if err := json.Unmarshal(data, &records); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to parse %s: %v\n", *file, err)
		os.Exit(1)
	}

	fmt.Println("=== Candidate Import ===")
	fmt.Println()
	fmt.Printf("%d records in %s\n", len(records), *file)

	// Resolve resume files before touching the database so a bad path
	// aborts the whole import instead of half of it.
	baseDir := filepath.Dir(*file)
	for i := range records {
		if records[i].ResumeText != "" || records[i].ResumeFile == "" {
			continue
		}
		path := records[i].ResumeFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		text, _, err := ingestion.IngestFromFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: record %d (%s): failed to ingest resume: %v\n", i, records[i].Email, err)
			os.Exit(1)
		}
		records[i].ResumeText = text
	}

	// Pattern-matched phones fill gaps the import file left.
	for i := range records {
		if records[i].Phone != "" || records[i].ResumeText == "" {
			continue
		}
		entities := nlp.ExtractEntities(records[i].ResumeText)
		if len(entities.Phones) > 0 {
			records[i].Phone = entities.Phones[0]
		}
	}

	if *dryRun {
		fmt.Printf("Dry run: %d records valid, nothing written\n", len(records))
		return
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "ERROR: DATABASE_URL environment variable not set")
		os.Exit(1)
	}

	ctx := context.Background()

	database, err := db.Connect(ctx, dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to migrate database: %v\n", err)
		os.Exit(1)
	}

	imported, skipped := 0, 0
	for i, rec := range records {
		existing, err := database.GetCandidateByEmail(ctx, rec.Email)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: record %d: lookup failed: %v\n", i, err)
			os.Exit(1)
		}
		if existing != nil {
			fmt.Printf("  skip %s: already imported\n", rec.Email)
			skipped++
			continue
		}

		candidate := &db.Candidate{
			FirstName:  rec.FirstName,
			LastName:   rec.LastName,
			Email:      rec.Email,
			Phone:      rec.Phone,
			ResumeText: rec.ResumeText,
		}
		created, err := database.CreateCandidate(ctx, candidate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: record %d (%s): insert failed: %v\n", i, rec.Email, err)
			os.Exit(1)
		}
		fmt.Printf("  %s %s <%s> (ID: %s)\n", created.FirstName, created.LastName, created.Email, created.ID)
		imported++
	}

	fmt.Println()
	fmt.Printf("Imported %d candidates, skipped %d\n", imported, skipped)
}
