package tfidf

import (
	"errors"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"triage/internal/domain"
)

var (
	ErrEmptyCorpus     = errors.New("empty corpus for TF-IDF prepare")
	ErrEmptyVocabulary = errors.New("no tokens found in corpus")
	ErrNotPrepared     = errors.New("tfidf embedder not prepared")
)

// minTokenLength drops single-character terms from the vocabulary.
const minTokenLength = 2

// Embedder is a TF-IDF vectorizer over already normalized text.
// Vocabulary order is lexicographic; IDF is smoothed.
type Embedder struct {
	vocabulary map[string]int
	idf        []float64
	dimension  int
	prepared   bool
}

// NewEmbedder creates an unprepared TF-IDF embedder.
func NewEmbedder() *Embedder {
	return &Embedder{vocabulary: make(map[string]int)}
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "tfidf" }

// Prepare builds the vocabulary and IDF values from the provided corpus.
// On error the embedder keeps its previous state.
func (e *Embedder) Prepare(corpus []string) error {
	if len(corpus) == 0 {
		return ErrEmptyCorpus
	}
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	if len(terms) == 0 {
		return ErrEmptyVocabulary
	}
	sort.Strings(terms)

	vocabulary := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		vocabulary[term] = i
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	e.vocabulary = vocabulary
	e.idf = idf
	e.dimension = len(terms)
	e.prepared = true
	return nil
}

// Prepared reports whether Prepare succeeded at least once.
func (e *Embedder) Prepared() bool { return e.prepared }

// Dimension returns the vocabulary size.
func (e *Embedder) Dimension() int { return e.dimension }

// Vocabulary returns the terms in index order.
func (e *Embedder) Vocabulary() []string {
	out := make([]string, len(e.vocabulary))
	for term, idx := range e.vocabulary {
		out[idx] = term
	}
	return out
}

// Embed computes the L2-normalized TF-IDF vector of text. Unknown terms are
// ignored; a text without known terms yields the zero vector.
func (e *Embedder) Embed(text string) (domain.Vector, error) {
	if !e.prepared {
		return domain.Vector{}, ErrNotPrepared
	}
	tf := make(map[int]int)
	total := 0
	for _, tok := range tokenize(text) {
		if idx, ok := e.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return domain.Vector{}, nil
	}
	indices := make([]int, 0, len(tf))
	for idx := range tf {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	values := make([]float64, len(indices))
	norm := 0.0
	for i, idx := range indices {
		v := float64(tf[idx]) / float64(total) * e.idf[idx]
		values[i] = v
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range values {
			values[i] /= norm
		}
	}
	return domain.Vector{Indices: indices, Values: values}, nil
}

func tokenize(text string) []string {
	fields := strings.Fields(text)
	out := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) < minTokenLength {
			continue
		}
		out = append(out, f)
	}
	return out
}
