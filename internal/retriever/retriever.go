// Package retriever indexes every corpus record in one TF-IDF space and
// returns the single most similar record for a query.
package retriever

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"triage/internal/domain"
	"triage/internal/vectorstore"
)

// SimilarityThreshold is the exclusive lower bound for a relevant match.
const SimilarityThreshold = 0.1

var errEmptyCorpus = errors.New("no record to index")

// Retriever answers nearest-record queries over the indexed corpus.
type Retriever struct {
	normalizer domain.Normalizer
	embedder   domain.Embedder
	store      vectorstore.Storage

	mu      sync.RWMutex
	records []domain.Record
	built   bool
}

// New returns an unbuilt retriever. Until Build succeeds every query fails
// with domain.ErrRetrieverUnavailable.
func New(normalizer domain.Normalizer, embedder domain.Embedder, store vectorstore.Storage) *Retriever {
	return &Retriever{normalizer: normalizer, embedder: embedder, store: store}
}

// Build normalizes every record, fits the shared vector space and loads the
// store. Record i is stored under point ID i.
func (r *Retriever) Build(ctx context.Context, records []domain.Record) error {
	if len(records) == 0 {
		return errEmptyCorpus
	}
	texts := make([]string, len(records))
	for i, rec := range records {
		texts[i] = r.normalizer.Normalize(rec.IndexText())
	}
	if err := r.embedder.Prepare(texts); err != nil {
		return fmt.Errorf("fit corpus vocabulary: %w", err)
	}
	points := make([]vectorstore.Point, len(records))
	for i, rec := range records {
		vec, err := r.embedder.Embed(texts[i])
		if err != nil {
			return err
		}
		points[i] = vectorstore.Point{ID: i, Vector: vec, Source: rec.Source(), Name: rec.DisplayName()}
	}
	if err := r.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear store: %w", err)
	}
	if err := r.store.Init(ctx, r.embedder.Dimension()); err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	if err := r.store.Upsert(ctx, points); err != nil {
		return fmt.Errorf("upsert records: %w", err)
	}

	r.mu.Lock()
	r.records = records
	r.built = true
	r.mu.Unlock()
	log.Info().
		Str("component", "retriever").
		Str("embedder", r.embedder.Name()).
		Int("records", len(records)).
		Int("vocabulary", r.embedder.Dimension()).
		Msg("corpus indexed")
	return nil
}

// Ready reports whether Build succeeded.
func (r *Retriever) Ready() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.built
}

// Len returns the number of indexed records.
func (r *Retriever) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// Query returns the most similar record with its cosine similarity, which
// always lies in (SimilarityThreshold, 1].
func (r *Retriever) Query(ctx context.Context, text string) (*domain.Match, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyQuery
	}
	r.mu.RLock()
	records, built := r.records, r.built
	r.mu.RUnlock()
	if !built {
		return nil, domain.ErrRetrieverUnavailable
	}

	vec, err := r.embedder.Embed(r.normalizer.Normalize(text))
	if err != nil {
		return nil, err
	}
	if vec.IsZero() {
		return nil, domain.ErrNoRelevantMatch
	}
	hits, err := r.store.Search(ctx, vec, 1)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	if len(hits) == 0 || hits[0].Score <= SimilarityThreshold {
		return nil, domain.ErrNoRelevantMatch
	}
	best := hits[0]
	if best.ID < 0 || best.ID >= len(records) {
		return nil, fmt.Errorf("search returned unknown record %d", best.ID)
	}
	return &domain.Match{Record: records[best.ID], Similarity: min(best.Score, 1.0)}, nil
}
