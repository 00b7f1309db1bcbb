package vectorstore

import (
	"context"

	"triage/internal/domain"
)

// Point is one indexed record. ID is the record's position in the corpus.
type Point struct {
	ID     int
	Vector domain.Vector
	Source domain.SourceTag
	Name   string
}

// Hit is a search result, Score being the cosine similarity.
type Hit struct {
	ID    int
	Score float64
}

// Storage persists sparse vectors and supports similarity search.
// Results are ordered by descending score, ties by ascending ID.
type Storage interface {
	Init(ctx context.Context, dimension int) error
	Upsert(ctx context.Context, points []Point) error
	Search(ctx context.Context, vector domain.Vector, topK int) ([]Hit, error)
	Clear(ctx context.Context) error
}
