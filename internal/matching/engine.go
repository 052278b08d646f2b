// Package matching scores resumes against job descriptions using TF-IDF and
// cosine similarity, and ranks candidate pools by that score.
package matching

import "sort"

const (
	// DefaultMaxFeatures caps the vocabulary of each scoring vector space.
	DefaultMaxFeatures = 500
	// DefaultMaxScore is the scale a cosine similarity is projected onto.
	DefaultMaxScore = 100.0
	// DefaultSkillThreshold is the minimum TF-IDF weight for a vocabulary
	// term to count as present in a document during skill extraction.
	DefaultSkillThreshold = 0.01
)

// resumeTextKey is the candidate-record field ranking reads the resume from.
const resumeTextKey = "resume_text"

// Config tunes an Engine. Zero values fall back to the package defaults.
// Set SkillThreshold negative to disable the weight cutoff entirely.
type Config struct {
	MaxFeatures    int
	MaxScore       float64
	SkillThreshold float64
}

// Engine computes match scores between resumes and job descriptions.
//
// Every operation fits a fresh two-document vector space over exactly the
// texts it was given, so scores are only comparable when produced against
// the same job text. The engine holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine returns an engine with cfg applied over the defaults. A nil cfg
// yields the default engine.
func NewEngine(cfg *Config) *Engine {
	c := Config{}
	if cfg != nil {
		c = *cfg
	}
	if c.MaxFeatures == 0 {
		c.MaxFeatures = DefaultMaxFeatures
	}
	if c.MaxScore == 0 {
		c.MaxScore = DefaultMaxScore
	}
	if c.SkillThreshold == 0 {
		c.SkillThreshold = DefaultSkillThreshold
	}
	return &Engine{cfg: c}
}

// MatchScore scores resumeText against jobText on the engine's MaxScore
// scale. Identical texts score the maximum, unrelated texts score 0, and
// empty or stop-word-only inputs score 0 without error.
func (e *Engine) MatchScore(resumeText, jobText string) float64 {
	return e.MatchScoreMax(resumeText, jobText, e.cfg.MaxScore)
}

// MatchScoreMax is MatchScore on a caller-chosen scale.
func (e *Engine) MatchScoreMax(resumeText, jobText string, maxScore float64) float64 {
	v := NewVectorizer(e.cfg.MaxFeatures)
	v.Fit([]string{resumeText, jobText})
	return Cosine(v.Vector(0), v.Vector(1)) * maxScore
}

// ExtractSkills splits the job description's vocabulary into terms the
// resume is missing and terms it matches. A term counts as present in a
// document when its TF-IDF weight is positive and at least the engine's
// SkillThreshold. The two lists are disjoint, alphabetically sorted, and
// together cover every qualifying job term.
func (e *Engine) ExtractSkills(resumeText, jobText string) (missing, matched []string) {
	return e.ExtractSkillsThreshold(resumeText, jobText, e.cfg.SkillThreshold)
}

// ExtractSkillsThreshold is ExtractSkills with an explicit weight cutoff.
// A threshold <= 0 keeps every term with a non-zero weight.
func (e *Engine) ExtractSkillsThreshold(resumeText, jobText string, threshold float64) (missing, matched []string) {
	v := NewVectorizer(e.cfg.MaxFeatures)
	v.Fit([]string{resumeText, jobText})

	resumeVec := v.Vector(0)
	jobVec := v.Vector(1)
	missing = []string{}
	matched = []string{}
	for i, term := range v.Terms() {
		if !aboveThreshold(jobVec[i], threshold) {
			continue
		}
		if aboveThreshold(resumeVec[i], threshold) {
			matched = append(matched, term)
		} else {
			missing = append(missing, term)
		}
	}
	return missing, matched
}

func aboveThreshold(weight, threshold float64) bool {
	return weight > 0 && weight >= threshold
}

// RankCandidates scores each candidate record against jobText and returns
// copies sorted by match_score descending; ties keep their input order. Each
// copy carries the original fields plus match_score, missing_skills and
// matched_skills. Records without a string resume_text are scored as empty
// resumes, never dropped.
func (e *Engine) RankCandidates(candidates []map[string]any, jobText string) []map[string]any {
	return e.RankCandidatesMax(candidates, jobText, e.cfg.MaxScore)
}

// RankCandidatesMax is RankCandidates on a caller-chosen score scale.
func (e *Engine) RankCandidatesMax(candidates []map[string]any, jobText string, maxScore float64) []map[string]any {
	ranked := make([]map[string]any, 0, len(candidates))
	for _, candidate := range candidates {
		resumeText, _ := candidate[resumeTextKey].(string)
		score := e.MatchScoreMax(resumeText, jobText, maxScore)
		missing, matched := e.ExtractSkills(resumeText, jobText)

		entry := make(map[string]any, len(candidate)+3)
		for k, val := range candidate {
			entry[k] = val
		}
		entry["match_score"] = score
		entry["missing_skills"] = missing
		entry["matched_skills"] = matched
		ranked = append(ranked, entry)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i]["match_score"].(float64) > ranked[j]["match_score"].(float64)
	})
	return ranked
}
