// internal/ml/vectorizer.go
// TF-IDF term weighting over profile text. Fit once on a corpus, then
// transform single documents at request time; the fitted vocabulary
// and IDF table are immutable after load.

package ml

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Vectorizer turns free text into fixed-width TF-IDF vectors.
// Exported fields so the trained state survives gob encoding.
type Vectorizer struct {
	MaxFeatures int
	Vocabulary  map[string]int
	IDF         []float64
	DocCount    int
}

func NewVectorizer(maxFeatures int) *Vectorizer {
	return &Vectorizer{MaxFeatures: maxFeatures}
}

// Fitted reports whether Fit has been called.
func (v *Vectorizer) Fitted() bool {
	return len(v.Vocabulary) > 0
}

// Fit builds the vocabulary from the MaxFeatures most frequent terms
// and computes smoothed IDF weights.
func (v *Vectorizer) Fit(docs []string) {
	docFreq := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, term := range tokenize(doc) {
			if !seen[term] {
				seen[term] = true
				docFreq[term]++
			}
		}
	}

	terms := make([]string, 0, len(docFreq))
	for term := range docFreq {
		terms = append(terms, term)
	}

	// Most frequent first; lexicographic tie-break keeps the
	// vocabulary deterministic across fits.
	sort.Slice(terms, func(i, j int) bool {
		if docFreq[terms[i]] != docFreq[terms[j]] {
			return docFreq[terms[i]] > docFreq[terms[j]]
		}
		return terms[i] < terms[j]
	})

	if len(terms) > v.MaxFeatures {
		terms = terms[:v.MaxFeatures]
	}

	v.DocCount = len(docs)
	v.Vocabulary = make(map[string]int, len(terms))
	v.IDF = make([]float64, len(terms))
	for i, term := range terms {
		v.Vocabulary[term] = i
		v.IDF[i] = math.Log(float64(1+v.DocCount)/float64(1+docFreq[term])) + 1
	}
}

// Transform maps a document onto the fitted vocabulary, applying term
// frequency times IDF, L2-normalized. An unfit vectorizer or a
// document with no known terms yields the zero vector.
func (v *Vectorizer) Transform(doc string) []float64 {
	vec := make([]float64, len(v.IDF))
	if !v.Fitted() {
		return vec
	}

	for _, term := range tokenize(doc) {
		if idx, ok := v.Vocabulary[term]; ok {
			vec[idx] += v.IDF[idx]
		}
	}

	norm := 0.0
	for _, x := range vec {
		norm += x * x
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}

	return vec
}

func tokenize(doc string) []string {
	fields := strings.FieldsFunc(strings.ToLower(doc), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	terms := fields[:0]
	for _, f := range fields {
		if len(f) >= 2 {
			terms = append(terms, f)
		}
	}
	return terms
}
