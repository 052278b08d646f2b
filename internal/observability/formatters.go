// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/haruki/ats-backend/internal/ingestion"
	"github.com/haruki/ats-backend/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintMatchSummary outputs the score and skill breakdown of one
// resume/job pairing.
func (p *Printer) PrintMatchSummary(score, scale float64, matched, missing []string) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Score:  %.1f / %.0f\n", score, scale))

	appendSkillList(&sb, "Matched", matched)
	appendSkillList(&sb, "Missing", missing)

	p.printBox("MATCH SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// appendSkillList writes a capped bullet list of skills under a label.
func appendSkillList(sb *strings.Builder, label string, skills []string) {
	if len(skills) == 0 {
		return
	}

	sb.WriteString(fmt.Sprintf("\n%s (%d):\n", label, len(skills)))
	count := min(len(skills), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", skills[i]))
	}
	if len(skills) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(skills)-maxItemsToShow))
	}
}

// PrintRankedCandidates outputs the top of a ranking with scores and
// matched skills.
func (p *Printer) PrintRankedCandidates(ranked []types.RankedCandidate) {
	if len(ranked) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total candidates ranked: %d\n\n", len(ranked)))

	count := min(len(ranked), maxItemsToShow)
	for i := 0; i < count; i++ {
		rc := ranked[i]
		name := rc.FullName()
		if name == "" {
			name = "(unnamed candidate)"
		}
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, name))
		sb.WriteString(fmt.Sprintf("    Score: %.1f\n", rc.MatchScore))
		if len(rc.MatchedSkills) > 0 {
			skills := strings.Join(rc.MatchedSkills, ", ")
			if len(skills) > 40 {
				skills = skills[:37] + "..."
			}
			sb.WriteString(fmt.Sprintf("    Skills: %s\n", skills))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(ranked) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more candidates", len(ranked)-maxItemsToShow))
	}

	p.printBox("TOP RANKED CANDIDATES", sb.String())
}

// PrintIngestMetadata outputs a summary of an ingested document.
func (p *Printer) PrintIngestMetadata(meta *ingestion.Metadata) {
	if meta == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Words:    %d\n", meta.WordCount))
	hash := meta.Hash
	if len(hash) > 16 {
		hash = hash[:16] + "..."
	}
	sb.WriteString(fmt.Sprintf("Hash:     %s\n", hash))
	if meta.URL != "" {
		sb.WriteString(fmt.Sprintf("URL:      %s\n", meta.URL))
	}
	if meta.Platform != "" {
		sb.WriteString(fmt.Sprintf("Platform: %s\n", meta.Platform))
	}
	if meta.Title != "" {
		sb.WriteString(fmt.Sprintf("Title:    %s\n", meta.Title))
	}
	if len(meta.RequiredSkills) > 0 {
		skills := strings.Join(meta.RequiredSkills, ", ")
		if len(skills) > 40 {
			skills = skills[:37] + "..."
		}
		sb.WriteString(fmt.Sprintf("Skills:   %s\n", skills))
	}

	p.printBox("INGESTED DOCUMENT", strings.TrimSuffix(sb.String(), "\n"))
}
