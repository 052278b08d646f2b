// Package nlp extracts structured information from resume and job posting
// text: contact entities via pattern matching, skill mentions against a
// lexicon, and optionally richer fields through an LLM.
package nlp

import (
	"regexp"
	"strings"
)

// Entities holds the contact details recognized in a resume.
type Entities struct {
	Name   string   `json:"name,omitempty"`
	Emails []string `json:"emails,omitempty"`
	Phones []string `json:"phones,omitempty"`
	URLs   []string `json:"urls,omitempty"`
}

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	urlPattern   = regexp.MustCompile(`(?:https?://|www\.)[^\s<>"')]+`)
	phonePattern = regexp.MustCompile(`\+?\(?\d[\d\s().-]{5,}\d`)
	// yearRangePattern rejects spans like "2019 - 2023" that the permissive
	// phone pattern would otherwise pick up.
	yearRangePattern = regexp.MustCompile(`^\d{4}\s*[-–]\s*\d{4}$`)
)

// ExtractEntities pulls contact details out of free-form resume text. The
// name guess takes the first early line that reads like a person's name;
// everything else is pattern matching, so unusual formats can slip through
// unrecognized.
func ExtractEntities(text string) Entities {
	return Entities{
		Name:   guessName(text),
		Emails: dedupe(emailPattern.FindAllString(text, -1)),
		Phones: extractPhones(text),
		URLs:   extractURLs(text),
	}
}

func extractPhones(text string) []string {
	var phones []string
	for _, match := range phonePattern.FindAllString(text, -1) {
		match = strings.TrimSpace(match)
		if yearRangePattern.MatchString(match) {
			continue
		}
		digits := 0
		for _, r := range match {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits < 7 || digits > 15 {
			continue
		}
		phones = append(phones, match)
	}
	return dedupe(phones)
}

func extractURLs(text string) []string {
	urls := urlPattern.FindAllString(text, -1)
	for i, u := range urls {
		// Sentence punctuation is not part of the URL
		urls[i] = strings.TrimRight(u, ".,;:")
	}
	return dedupe(urls)
}

// nameScanLines bounds how far into the document the name guess looks.
// Contact headers sit at the top of a resume.
const nameScanLines = 5

// nameLinePattern matches two to four capitalized words.
var nameLinePattern = regexp.MustCompile(`^\p{Lu}[\p{L}'.-]*(?: \p{Lu}[\p{L}'.-]*){1,3}$`)

// nonNameWords mark a line as a section header or job title rather than a
// person's name.
var nonNameWords = map[string]struct{}{
	"resume":     {},
	"curriculum": {},
	"vitae":      {},
	"summary":    {},
	"objective":  {},
	"profile":    {},
	"experience": {},
	"education":  {},
	"skills":     {},
	"contact":    {},
	"engineer":   {},
	"developer":  {},
	"manager":    {},
	"analyst":    {},
	"architect":  {},
	"consultant": {},
	"scientist":  {},
	"designer":   {},
}

func guessName(text string) string {
	checked := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		checked++
		if checked > nameScanLines {
			break
		}
		if looksLikeName(line) {
			return line
		}
	}
	return ""
}

func looksLikeName(line string) bool {
	if strings.ContainsAny(line, "@0123456789") {
		return false
	}
	// All-caps lines are section headers, not names
	if line == strings.ToUpper(line) {
		return false
	}
	for _, word := range strings.Fields(strings.ToLower(line)) {
		if _, ok := nonNameWords[strings.Trim(word, ".,:")]; ok {
			return false
		}
	}
	return nameLinePattern.MatchString(line)
}

func dedupe(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
