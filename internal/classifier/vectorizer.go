// Package classifier predicts an expense category from a transaction's amount
// and description using TF-IDF text features and multinomial naive Bayes.
//
// Everything here is a pure function over explicit values. Persisting a
// trained Model is the job of a Store.
package classifier

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// Tokens are runs of two or more letters, digits or underscores.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Tokenize lower-cases text and splits it into vocabulary terms
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// Vectorizer maps text onto L2-normalised TF-IDF weights over a vocabulary
// fixed at fit time.
type Vectorizer struct {
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
}

// FitVectorizer learns the vocabulary and smoothed inverse document
// frequencies of docs. Vocabulary indices follow sorted term order.
func FitVectorizer(docs []string) *Vectorizer {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, term := range Tokenize(doc) {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	n := float64(len(docs))
	v := &Vectorizer{
		Vocabulary: make(map[string]int, len(terms)),
		IDF:        make([]float64, len(terms)),
	}
	for i, term := range terms {
		v.Vocabulary[term] = i
		v.IDF[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	return v
}

// Len is the number of text features produced by Transform
func (v *Vectorizer) Len() int {
	return len(v.IDF)
}

// Transform weights the terms of doc. Terms outside the vocabulary are ignored;
// a document with no known terms yields a zero vector.
func (v *Vectorizer) Transform(doc string) []float64 {
	row := make([]float64, len(v.IDF))
	for _, term := range Tokenize(doc) {
		if idx, ok := v.Vocabulary[term]; ok {
			row[idx]++
		}
	}

	var norm float64
	for i := range row {
		row[i] *= v.IDF[i]
		norm += row[i] * row[i]
	}

	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range row {
			row[i] /= norm
		}
	}

	return row
}

// BuildFeatures returns [|amount|, tfidf(description)...]. The amount enters as
// its magnitude because multinomial counts cannot be negative.
func BuildFeatures(v *Vectorizer, amount float64, description string) []float64 {
	features := make([]float64, 0, 1+v.Len())
	features = append(features, math.Abs(amount))
	return append(features, v.Transform(description)...)
}
