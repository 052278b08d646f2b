// Package tui implements an interactive terminal browser for candidate
// rankings. The operator types a job description (or a few keywords) and
// steps through the ranked candidates with the arrow keys.
package tui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/haruki/ats-backend/internal/types"
)

// Ranker is the TUI-facing subset of the matching pipeline.
type Ranker interface {
	Rank(jobText string, topK int) ([]types.RankedCandidate, error)
}

// DefaultTopK bounds how many candidates a single query pulls into the view.
const DefaultTopK = 10

// Model is the Bubble Tea model for the ranking browser.
type Model struct {
	ranker    Ranker
	input     textinput.Model
	viewport  viewport.Model
	ranked    []types.RankedCandidate
	summary   string
	status    string
	cursor    int
	ready     bool
	lastQuery string
	topK      int
}

// New creates a ranking browser over the given candidate pool. When jobText
// is non-empty the initial ranking runs immediately, so the first paint
// already shows results.
func New(ranker Ranker, jobText, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a job description and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)

	m := Model{
		ranker:   ranker,
		input:    ti,
		viewport: vp,
		summary:  summary,
		status:   "Loaded. Type a job description to rank.",
		topK:     DefaultTopK,
	}
	if jobText = strings.TrimSpace(jobText); jobText != "" {
		m.runQuery(jobText)
	}
	return m
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// runQuery ranks the pool against the query and resets the cursor.
func (m *Model) runQuery(query string) {
	ranked, err := m.ranker.Rank(query, m.topK)
	if err != nil {
		m.status = "Error: " + err.Error()
		m.ranked = nil
		return
	}
	m.status = fmt.Sprintf("%d candidates ranked for %q", len(ranked), truncate(query, 40))
	m.ranked = ranked
	m.cursor = 0
	m.lastQuery = query
}

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around result and query boxes
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		totalHeaderLines := 2                                    // header + summary
		totalFooterLines := 1                                    // status
		reserved := totalHeaderLines + totalFooterLines + qh + 1 // 1 spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderCurrentCandidate())
		return m, nil
	case tea.KeyMsg:
		// Global quits
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				m.runQuery(q)
				m.viewport.SetContent(m.renderCurrentCandidate())
				return m, nil
			}
		case "down":
			if len(m.ranked) > 0 {
				m.cursor = (m.cursor + 1) % len(m.ranked)
				m.viewport.SetContent(m.renderCurrentCandidate())
				return m, nil
			}
		case "up":
			if len(m.ranked) > 0 {
				m.cursor = (m.cursor - 1 + len(m.ranked)) % len(m.ranked)
				m.viewport.SetContent(m.renderCurrentCandidate())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout and the candidate under the cursor.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Candidate Rankings")
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.summary)
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	result := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + summary + "\n" + result + "\n" + input + "\n" + status
}

func (m Model) renderCurrentCandidate() string {
	if len(m.ranked) == 0 {
		return "No candidates ranked yet."
	}
	c := m.ranked[m.cursor]

	name := c.FullName()
	if name == "" {
		name = "(unnamed candidate)"
	}
	title := fmt.Sprintf("Candidate %d/%d  %s  score=%.1f",
		m.cursor+1, len(m.ranked), name, c.MatchScore)
	if c.Email != "" {
		title += "  <" + c.Email + ">"
	}

	var sb strings.Builder
	sb.WriteString(title + "\n\n")
	if len(c.MatchedSkills) > 0 {
		sb.WriteString("Matched: " + matchedStyle.Render(strings.Join(c.MatchedSkills, ", ")) + "\n")
	}
	if len(c.MissingSkills) > 0 {
		sb.WriteString("Missing: " + missingStyle.Render(strings.Join(c.MissingSkills, ", ")) + "\n")
	}
	if c.ResumeText != "" {
		sb.WriteString("\n" + highlightBestSentence(truncate(c.ResumeText, 2000), c.MatchedSkills))
	}
	return sb.String()
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	matchedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	missingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	unicodeWordRe  = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
	sentenceRe     = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
)

// highlightBestSentence emphasizes the resume sentence mentioning the most
// matched skills, so the operator sees at a glance why a candidate ranked.
func highlightBestSentence(text string, matchedSkills []string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		sentences = []string{strings.TrimSpace(text)}
	}
	skillTokens := toTokenSet(strings.Join(matchedSkills, " "))
	if len(skillTokens) == 0 {
		return strings.Join(sentences, " ")
	}
	bestIdx := 0
	bestScore := -1
	for i, s := range sentences {
		score := tokenOverlapScore(skillTokens, s)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	for i := range sentences {
		sent := strings.TrimSpace(sentences[i])
		if i == bestIdx {
			sentences[i] = highlightStyle.Render(sent)
		} else {
			sentences[i] = sent
		}
	}
	return strings.Join(sentences, " ")
}

func toTokenSet(s string) map[string]struct{} {
	tokens := unicodeWordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func tokenOverlapScore(queryTokens map[string]struct{}, sentence string) int {
	score := 0
	tokens := unicodeWordRe.FindAllString(strings.ToLower(sentence), -1)
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := queryTokens[t]; ok {
			score++
		}
	}
	return score
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
