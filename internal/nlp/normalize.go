package nlp

import "strings"

// skillNormalizations maps common skill name variants to canonical names
var skillNormalizations = map[string]string{
	"golang":     "Go",
	"go lang":    "Go",
	"javascript": "JavaScript",
	"js":         "JavaScript",
	"typescript": "TypeScript",
	"ts":         "TypeScript",
	"k8s":        "Kubernetes",
	"kubernetes": "Kubernetes",
	"react.js":   "React",
	"reactjs":    "React",
	"vue.js":     "Vue",
	"vuejs":      "Vue",
	"node.js":    "Node.js",
	"nodejs":     "Node.js",
	"postgres":   "PostgreSQL",
	"postgresql": "PostgreSQL",
	"aws":        "AWS",
	"gcp":        "GCP",
	"sql":        "SQL",
	"html":       "HTML",
	"css":        "CSS",
	"ci/cd":      "CI/CD",
	"cicd":       "CI/CD",
}

// NormalizeSkillName normalizes a skill name to its canonical form.
func NormalizeSkillName(skillName string) string {
	normalized := strings.TrimSpace(skillName)
	if normalized == "" {
		return ""
	}

	// Check for exact match in normalization map (case-insensitive)
	if canonical, ok := skillNormalizations[strings.ToLower(normalized)]; ok {
		return canonical
	}

	// Multi-word names pass through untouched
	if strings.Contains(normalized, " ") {
		return normalized
	}

	// Title-case unmapped single words written in one case; mixed case is
	// assumed intentional (e.g. "gRPC")
	switch normalized {
	case strings.ToUpper(normalized):
		if len(normalized) > 1 {
			return strings.ToUpper(normalized[:1]) + strings.ToLower(normalized[1:])
		}
		return normalized
	case strings.ToLower(normalized):
		return strings.ToUpper(normalized[:1]) + normalized[1:]
	default:
		return normalized
	}
}

// NormalizeSkills normalizes each skill name and deduplicates the list,
// keeping the first occurrence of each canonical name. Empty names are
// dropped.
func NormalizeSkills(skills []string) []string {
	normalized := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))

	for _, skill := range skills {
		canonical := NormalizeSkillName(skill)
		if canonical == "" {
			continue
		}
		if _, exists := seen[canonical]; exists {
			continue
		}
		seen[canonical] = struct{}{}
		normalized = append(normalized, canonical)
	}

	return normalized
}
