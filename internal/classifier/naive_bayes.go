// Package classifier ranks diseases for a symptom text with a multinomial
// naive Bayes model over TF-IDF features.
package classifier

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"triage/internal/domain"
	"triage/internal/embedding/tfidf"
	"triage/internal/knowledge"
)

const (
	// MinConfidence is the exclusive lower bound for a reported diagnosis.
	MinConfidence = 0.01
	// alpha is the additive (Laplace) smoothing parameter.
	alpha = 1.0
)

var errEmptyBase = errors.New("knowledge base is empty")

// ClassScore is the posterior probability of one disease.
type ClassScore struct {
	Disease     string
	Probability float64
}

// Model holds the fitted vocabulary and per-class log likelihoods. It is
// read-only once Fit returns and safe for concurrent use.
type Model struct {
	base       *knowledge.Base
	normalizer domain.Normalizer
	embedder   *tfidf.Embedder

	classes  []string
	logPrior float64
	// featLog holds log P(term|class) for terms present in the class document;
	// absent terms share featBase.
	featLog  []map[int]float64
	featBase []float64
	trained  bool
}

// New returns an unfitted model over base.
func New(base *knowledge.Base, normalizer domain.Normalizer) *Model {
	return &Model{base: base, normalizer: normalizer}
}

// Fit builds the TF-IDF space from one document per disease and derives the
// smoothed class-conditional term distributions. A failed fit leaves the
// model unavailable.
func (m *Model) Fit() error {
	if m.base == nil || m.base.Len() == 0 {
		return errEmptyBase
	}
	entries := m.base.Entries()
	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = m.normalizer.Normalize(strings.Join(e.Symptoms, " "))
	}
	emb := tfidf.NewEmbedder()
	if err := emb.Prepare(texts); err != nil {
		return fmt.Errorf("fit vocabulary: %w", err)
	}

	dim := float64(emb.Dimension())
	classes := make([]string, len(entries))
	featLog := make([]map[int]float64, len(entries))
	featBase := make([]float64, len(entries))
	for c, e := range entries {
		row, err := emb.Embed(texts[c])
		if err != nil {
			return fmt.Errorf("embed %q: %w", e.Disease, err)
		}
		total := alpha * dim
		for _, v := range row.Values {
			total += v
		}
		logTotal := math.Log(total)
		lp := make(map[int]float64, row.Len())
		for i, idx := range row.Indices {
			lp[idx] = math.Log(row.Values[i]+alpha) - logTotal
		}
		classes[c] = e.Disease
		featLog[c] = lp
		featBase[c] = math.Log(alpha) - logTotal
	}

	m.embedder = emb
	m.classes = classes
	m.featLog = featLog
	m.featBase = featBase
	m.logPrior = -math.Log(float64(len(classes)))
	m.trained = true
	log.Info().
		Str("component", "classifier").
		Int("classes", len(classes)).
		Int("vocabulary", emb.Dimension()).
		Msg("naive bayes model fitted")
	return nil
}

// Trained reports whether Fit succeeded.
func (m *Model) Trained() bool { return m.trained }

// Scores returns the posterior of every disease in knowledge base order.
// The probabilities sum to 1.
func (m *Model) Scores(text string) ([]ClassScore, error) {
	scores, _, err := m.scores(text)
	return scores, err
}

func (m *Model) scores(text string) ([]ClassScore, domain.Vector, error) {
	if !m.trained {
		return nil, domain.Vector{}, domain.ErrModelUnavailable
	}
	x, err := m.embedder.Embed(m.normalizer.Normalize(text))
	if err != nil {
		return nil, domain.Vector{}, err
	}
	jll := make([]float64, len(m.classes))
	maxLL := math.Inf(-1)
	for c := range m.classes {
		ll := m.logPrior
		for i, idx := range x.Indices {
			lp, ok := m.featLog[c][idx]
			if !ok {
				lp = m.featBase[c]
			}
			ll += x.Values[i] * lp
		}
		jll[c] = ll
		if ll > maxLL {
			maxLL = ll
		}
	}
	sum := 0.0
	for c := range jll {
		jll[c] = math.Exp(jll[c] - maxLL)
		sum += jll[c]
	}
	out := make([]ClassScore, len(m.classes))
	for c, name := range m.classes {
		out[c] = ClassScore{Disease: name, Probability: jll[c] / sum}
	}
	return out, x, nil
}

// Diagnose returns the diseases whose probability exceeds MinConfidence,
// highest first, ties kept in knowledge base order. A text sharing no term
// with the vocabulary carries no evidence and yields no diagnosis.
func (m *Model) Diagnose(text string) ([]domain.Diagnosis, error) {
	scores, x, err := m.scores(text)
	if err != nil {
		return nil, err
	}
	if x.IsZero() {
		return []domain.Diagnosis{}, nil
	}
	out := make([]domain.Diagnosis, 0, len(scores))
	for _, s := range scores {
		if s.Probability <= MinConfidence {
			continue
		}
		out = append(out, domain.Diagnosis{
			Disease:            s.Disease,
			Confidence:         s.Probability,
			AssociatedSymptoms: m.base.Symptoms(s.Disease),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	return out, nil
}
