package domain

import "context"

// Diagnosis is a candidate disease with its classifier confidence.
type Diagnosis struct {
	Disease            string   `json:"disease"`
	Confidence         float64  `json:"confidence"`
	AssociatedSymptoms []string `json:"associated_symptoms"`
}

// Match is the single best corpus record for a retrieval query.
type Match struct {
	Record     Record
	Similarity float64
}

// Embedder converts normalized text into a sparse vector.
// Implementations require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(text string) (Vector, error)
}

// Normalizer canonicalizes free text before indexing or matching.
type Normalizer interface {
	Normalize(text string) string
}

// Classifier turns accumulated symptom text into ranked diagnoses.
type Classifier interface {
	Diagnose(text string) ([]Diagnosis, error)
}

// Retriever finds the best supporting record for a query.
type Retriever interface {
	Query(ctx context.Context, text string) (*Match, error)
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}
