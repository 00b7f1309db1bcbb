// Package textnorm canonicalizes free-form French text for matching and indexing.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonWordRe = regexp.MustCompile(`[^\p{L}\p{N}_]`)

// Normalizer lowercases, folds diacritics, strips punctuation and removes
// stopwords. It is stateless after construction and safe for concurrent use.
type Normalizer struct {
	stopwords map[string]struct{}
}

// New returns a normalizer using the French stopword list.
func New() *Normalizer {
	return NewWithStopwords(frenchStopwords)
}

// NewWithStopwords returns a normalizer dropping the given words. The words
// are folded the same way as the input text.
func NewWithStopwords(words []string) *Normalizer {
	n := &Normalizer{stopwords: make(map[string]struct{}, len(words))}
	for _, w := range words {
		n.stopwords[fold(strings.ToLower(w))] = struct{}{}
	}
	return n
}

// Normalize returns the canonical form of text: surviving tokens joined by a
// single space. Normalize(Normalize(s)) == Normalize(s).
func (n *Normalizer) Normalize(text string) string {
	return strings.Join(n.Tokens(text), " ")
}

// Tokens returns the alphabetic, non-stopword tokens of text in order.
func (n *Normalizer) Tokens(text string) []string {
	// Lowercasing first keeps marks produced by case mapping (e.g. U+0130) inside the fold.
	s := fold(strings.ToLower(text))
	s = nonWordRe.ReplaceAllString(s, " ")

	var out []string
	state := -1
	var word string
	for len(s) > 0 {
		word, s, state = uniseg.FirstWordInString(s, state)
		if !isAlpha(word) {
			continue
		}
		if _, stop := n.stopwords[word]; stop {
			continue
		}
		out = append(out, word)
	}
	return out
}

// IsStopword reports whether the folded form of word is a stopword.
func (n *Normalizer) IsStopword(word string) bool {
	_, ok := n.stopwords[fold(strings.ToLower(word))]
	return ok
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func isAlpha(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

var defaultNormalizer = New()

// Normalize runs the default French normalizer.
func Normalize(text string) string { return defaultNormalizer.Normalize(text) }

// Tokens runs the default French normalizer and returns its tokens.
func Tokens(text string) []string { return defaultNormalizer.Tokens(text) }
