package matching

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// tokenPattern matches runs of two or more word characters. Single-character
// tokens carry no skill signal and are dropped before weighting.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Vectorizer builds a TF-IDF vector space over a small corpus of documents.
//
// The vocabulary is capped at maxFeatures terms chosen by total corpus
// frequency, with an alphabetical tie-break so fitting the same corpus twice
// always produces the same space. Document vectors are L2-normalized, so the
// cosine of two fitted vectors is their dot product.
type Vectorizer struct {
	maxFeatures int
	vocabulary  map[string]int
	terms       []string
	idf         []float64
	vectors     [][]float64
}

// NewVectorizer returns an unfitted vectorizer. maxFeatures <= 0 leaves the
// vocabulary unbounded.
func NewVectorizer(maxFeatures int) *Vectorizer {
	return &Vectorizer{maxFeatures: maxFeatures}
}

// Fit builds the vocabulary, IDF weights and one vector per document. A
// corpus without a single usable token (empty documents, stop words only)
// fits to an empty vocabulary and zero vectors rather than failing.
func (v *Vectorizer) Fit(docs []string) {
	tokenized := make([][]string, len(docs))
	df := make(map[string]int)
	cf := make(map[string]int)
	for i, doc := range docs {
		tokens := tokenize(doc)
		tokenized[i] = tokens
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			cf[tok]++
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	terms := make([]string, 0, len(cf))
	for term := range cf {
		terms = append(terms, term)
	}
	if v.maxFeatures > 0 && len(terms) > v.maxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			if cf[terms[i]] != cf[terms[j]] {
				return cf[terms[i]] > cf[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:v.maxFeatures]
	}
	sort.Strings(terms)

	v.terms = terms
	v.vocabulary = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	n := float64(len(docs))
	for i, term := range terms {
		v.vocabulary[term] = i
		// Smoothed IDF
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	v.vectors = make([][]float64, len(docs))
	for i, tokens := range tokenized {
		v.vectors[i] = v.vectorize(tokens)
	}
}

// Dimension returns the size of the fitted vocabulary.
func (v *Vectorizer) Dimension() int { return len(v.terms) }

// Terms returns the vocabulary in alphabetical order. The slice is shared;
// callers must not modify it.
func (v *Vectorizer) Terms() []string { return v.terms }

// Vector returns the fitted vector of document i.
func (v *Vectorizer) Vector(i int) []float64 { return v.vectors[i] }

// VectorFor projects text onto the fitted space. Tokens outside the
// vocabulary are ignored.
func (v *Vectorizer) VectorFor(text string) []float64 {
	return v.vectorize(tokenize(text))
}

func (v *Vectorizer) vectorize(tokens []string) []float64 {
	vec := make([]float64, len(v.terms))
	counts := make(map[int]int)
	total := 0
	for _, tok := range tokens {
		if idx, ok := v.vocabulary[tok]; ok {
			counts[idx]++
			total++
		}
	}
	if total == 0 {
		return vec
	}
	for idx, count := range counts {
		tf := float64(count) / float64(total)
		vec[idx] = tf * v.idf[idx]
	}
	norm := 0.0
	for _, x := range vec {
		norm += x * x
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

func tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := raw[:0]
	for _, tok := range raw {
		if IsStopWord(tok) {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// Cosine returns the cosine similarity of two equal-length vectors. Vectors
// with zero norm compare as 0 rather than NaN, so an empty document scores 0
// against anything.
func Cosine(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
