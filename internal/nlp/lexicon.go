package nlp

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed skills.yaml
var defaultLexiconYAML []byte

// Lexicon matches known skill names in free text. Lookups are
// case-insensitive; multi-word entries match as phrases and also in their
// hyphenated single-token form.
type Lexicon struct {
	terms    map[string]string // lowercase variant -> canonical name
	maxWords int
}

// lexiconFile is the YAML shape of a lexicon document.
type lexiconFile struct {
	Skills  []string          `yaml:"skills"`
	Aliases map[string]string `yaml:"aliases"`
}

// NewLexicon builds a lexicon from a list of canonical skill names.
func NewLexicon(skills []string) *Lexicon {
	l := &Lexicon{terms: make(map[string]string, len(skills)*2), maxWords: 1}
	l.Add(skills...)
	return l
}

// DefaultLexicon returns the embedded skill lexicon.
func DefaultLexicon() *Lexicon {
	l := &Lexicon{terms: make(map[string]string, 256), maxWords: 1}
	if err := l.merge(defaultLexiconYAML); err != nil {
		panic("nlp: embedded lexicon: " + err.Error())
	}
	return l
}

// LoadLexicon reads a YAML lexicon file and merges it over the embedded
// defaults. Files list canonical skill names plus optional alias mappings.
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	l := DefaultLexicon()
	if err := l.merge(data); err != nil {
		return nil, fmt.Errorf("parse lexicon %s: %w", path, err)
	}
	return l, nil
}

func (l *Lexicon) merge(data []byte) error {
	var f lexiconFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return err
	}
	l.Add(f.Skills...)
	for variant, canonical := range f.Aliases {
		l.AddAlias(variant, canonical)
	}
	return nil
}

// Add registers skills under their listed names, together with any known
// spelling variants. Entries are trusted as canonical forms and are not
// re-normalized.
func (l *Lexicon) Add(skills ...string) {
	for _, skill := range skills {
		canonical := strings.TrimSpace(skill)
		if canonical == "" {
			continue
		}
		l.addVariant(canonical, canonical)
		for variant, c := range skillNormalizations {
			if c == canonical {
				l.addVariant(variant, canonical)
			}
		}
	}
}

// AddAlias registers an extra spelling for a canonical skill name.
func (l *Lexicon) AddAlias(variant, canonical string) {
	canonical = strings.TrimSpace(canonical)
	if canonical == "" {
		return
	}
	l.addVariant(variant, canonical)
}

func (l *Lexicon) addVariant(variant, canonical string) {
	key := strings.ToLower(strings.TrimSpace(variant))
	if key == "" {
		return
	}
	l.terms[key] = canonical
	// Multi-word terms also appear hyphenated in the wild, and vice versa
	if strings.Contains(key, " ") {
		l.terms[strings.ReplaceAll(key, " ", "-")] = canonical
	} else if strings.Contains(key, "-") {
		spaced := strings.ReplaceAll(key, "-", " ")
		l.terms[spaced] = canonical
		key = spaced
	}
	if n := len(strings.Fields(key)); n > l.maxWords {
		l.maxWords = n
	}
}

// skillTokenPattern keeps the punctuation that is part of real skill names
// (c++, c#, node.js, ci/cd) inside a single token.
var skillTokenPattern = regexp.MustCompile(`[\p{L}\p{N}+#./_-]+`)

// ExtractSkills scans text for lexicon terms and returns their canonical
// names in order of first appearance. Longer phrases win over their
// prefixes, so "machine learning" does not also report "machine".
func (l *Lexicon) ExtractSkills(text string) []string {
	tokens := skillTokens(text)
	var found []string
	seen := make(map[string]struct{})

	for i := 0; i < len(tokens); {
		advance := 1
		for n := min(l.maxWords, len(tokens)-i); n >= 1; n-- {
			term := strings.Join(tokens[i:i+n], " ")
			canonical, ok := l.terms[term]
			if !ok {
				continue
			}
			if _, dup := seen[canonical]; !dup {
				seen[canonical] = struct{}{}
				found = append(found, canonical)
			}
			advance = n
			break
		}
		i += advance
	}
	return found
}

func skillTokens(text string) []string {
	raw := skillTokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := raw[:0]
	for _, tok := range raw {
		// Sentence punctuation sticks to the edges of tokens; skill
		// punctuation ("c++", "node.js") is interior or trailing-plus
		tok = strings.Trim(tok, "./_-")
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}
