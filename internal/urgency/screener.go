// Package urgency flags symptom descriptions that contain a red-flag phrase.
package urgency

import (
	"strings"

	"triage/internal/domain"
)

// RedFlags are the phrases that short-circuit a session into an emergency.
var RedFlags = []string{
	"douleur thoracique intense",
	"difficulté à respirer sévère",
	"perte de conscience",
	"engourdissement soudain",
	"faiblesse soudaine d'un côté du corps",
	"parole confuse",
	"convulsions",
	"saignement incontrôlable",
	"fièvre très élevée avec confusion",
	"raideur de la nuque avec fièvre",
	"vomissements persistants avec déshydratation",
	"douleur abdominale aiguë et sévère",
	"réaction allergique sévère (gonflement, difficulté à respirer)",
}

type phrase struct {
	raw        string
	normalized string
}

// Screener matches normalized red-flag phrases as substrings of the
// normalized subject text.
type Screener struct {
	normalizer domain.Normalizer
	phrases    []phrase
}

// New normalizes the given phrases once. Phrases that normalize to nothing
// are dropped.
func New(normalizer domain.Normalizer, phrases []string) *Screener {
	s := &Screener{normalizer: normalizer}
	for _, p := range phrases {
		n := normalizer.Normalize(p)
		if n == "" {
			continue
		}
		s.phrases = append(s.phrases, phrase{raw: p, normalized: n})
	}
	return s
}

// NewDefault returns a screener over RedFlags.
func NewDefault(normalizer domain.Normalizer) *Screener {
	return New(normalizer, RedFlags)
}

// IsUrgent reports whether text contains any red-flag phrase.
func (s *Screener) IsUrgent(text string) bool {
	_, ok := s.Match(text)
	return ok
}

// Match returns the first red-flag phrase found in text.
func (s *Screener) Match(text string) (string, bool) {
	subject := s.normalizer.Normalize(text)
	if subject == "" {
		return "", false
	}
	for _, p := range s.phrases {
		if strings.Contains(subject, p.normalized) {
			return p.raw, true
		}
	}
	return "", false
}
