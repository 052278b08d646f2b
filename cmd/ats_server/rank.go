package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/haruki/ats-backend/internal/matching"
	"github.com/haruki/ats-backend/internal/observability"
	"github.com/haruki/ats-backend/internal/types"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank a candidate pool against a job description",
	Long:  "Rank every candidate record in a JSON file against one job description and print them by descending match score. Extra fields on the records survive into the ranked output untouched.",
	RunE:  runRank,
}

var (
	rankCandidatesFile string
	rankJob            string
	rankTop            int
	rankOut            string
)

func init() {
	rankCmd.Flags().StringVarP(&rankCandidatesFile, "candidates", "c", "", "Path to JSON array of candidate records (required)")
	rankCmd.Flags().StringVar(&rankJob, "job", "", "Job description file or URL (required)")
	rankCmd.Flags().IntVar(&rankTop, "top", 0, "Keep only the top N candidates (0 = all)")
	rankCmd.Flags().StringVarP(&rankOut, "out", "o", "", "Also write the ranked records to a JSON file")

	rankCmd.MarkFlagRequired("candidates")
	rankCmd.MarkFlagRequired("job")

	rootCmd.AddCommand(rankCmd)
}

func runRank(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	pool, err := loadCandidatePool(rankCandidatesFile)
	if err != nil {
		return err
	}

	jobText, _, err := loadText(ctx, rankJob)
	if err != nil {
		return fmt.Errorf("failed to load job description: %w", err)
	}

	engine := matching.NewEngine(nil)
	records := engine.RankCandidates(pool, jobText)
	if rankTop > 0 && rankTop < len(records) {
		records = records[:rankTop]
	}

	ranked, err := types.DecodeRankedCandidates(records)
	if err != nil {
		return fmt.Errorf("failed to decode ranking: %w", err)
	}

	if rankOut != "" {
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal ranking: %w", err)
		}
		if err := os.WriteFile(rankOut, data, 0644); err != nil {
			return fmt.Errorf("failed to write ranking: %w", err)
		}
	}

	if viper.GetBool("debug") {
		observability.NewPrinter(os.Stdout).PrintRankedCandidates(ranked)
		return nil
	}

	fmt.Fprintf(os.Stdout, "Ranked %d candidates\n\n", len(ranked))
	for i, rc := range ranked {
		name := rc.FullName()
		if name == "" {
			name = "(unnamed candidate)"
		}
		fmt.Fprintf(os.Stdout, "%3d. %-30s %6.1f\n", i+1, name, rc.MatchScore)
		if len(rc.MatchedSkills) > 0 {
			fmt.Fprintf(os.Stdout, "     matched: %s\n", strings.Join(rc.MatchedSkills, ", "))
		}
		if len(rc.MissingSkills) > 0 {
			fmt.Fprintf(os.Stdout, "     missing: %s\n", strings.Join(rc.MissingSkills, ", "))
		}
	}

	return nil
}

// loadCandidatePool reads a JSON array of candidate records. Records stay
// loose mappings so fields beyond the well-known ones pass through ranking.
func loadCandidatePool(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read candidates file: %w", err)
	}

	var pool []map[string]any
	if err := json.Unmarshal(data, &pool); err != nil {
		return nil, fmt.Errorf("failed to parse candidates file: %w", err)
	}
	return pool, nil
}
