// Command import_jobs bulk-loads job descriptions from a JSON file into the
// jobs table.
//
// The input file must validate against schemas/job_import.schema.json: a JSON
// array of {title, description} objects with an optional required_skills
// list. When required_skills is absent it is backfilled from the description
// through the skill lexicon.
//
// Usage:
//
//	go run cmd/tools/import_jobs/main.go -file jobs.json
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
	"strings"

	"github.com/haruki/ats-backend/internal/db"
	"github.com/haruki/ats-backend/internal/nlp"
	"github.com/haruki/ats-backend/internal/schemas"
)

const importSchema = "schemas/job_import.schema.json"

// importRecord mirrors one entry of the import file.
type importRecord struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	RequiredSkills []string `json:"required_skills"`
}

func main() {
	file := flag.String("file", "", "path to the job import JSON file")
	dryRun := flag.Bool("dry-run", false, "validate and resolve skills without writing to the database")
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

	fmt.Println("=== Job Import ===")
	fmt.Println()
	fmt.Printf("%d records in %s\n", len(records), *file)

	// Lexicon-matched skills fill gaps the import file left.
	lexicon := nlp.DefaultLexicon()
	for i := range records {
		if len(records[i].RequiredSkills) > 0 {
			continue
		}
		records[i].RequiredSkills = lexicon.ExtractSkills(records[i].Description)
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
		exists, err := jobTitleExists(ctx, database, rec.Title)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: record %d: lookup failed: %v\n", i, err)
			os.Exit(1)
		}
		if exists {
			fmt.Printf("  skip %q: already imported\n", rec.Title)
			skipped++
			continue
		}

		job := &db.Job{
			Title:          rec.Title,
			Description:    rec.Description,
			RequiredSkills: rec.RequiredSkills,
		}
		created, err := database.CreateJob(ctx, job)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: record %d (%q): insert failed: %v\n", i, rec.Title, err)
			os.Exit(1)
		}
		fmt.Printf("  %s (ID: %s, %d required skills)\n", created.Title, created.ID, len(created.RequiredSkills))
		imported++
	}

	fmt.Println()
	fmt.Printf("Imported %d jobs, skipped %d\n", imported, skipped)
}

// jobTitleExists reports whether a job with exactly this title is already in
// the table. The list filter matches substrings, so compare titles verbatim.
func jobTitleExists(ctx context.Context, database *db.DB, title string) (bool, error) {
	jobs, err := database.ListJobs(ctx, db.JobFilters{Title: title})
	if err != nil {
		return false, err
	}
	for _, j := range jobs {
		if strings.EqualFold(j.Title, title) {
			return true, nil
		}
	}
	return false, nil
}
