package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triage/internal/domain"
	"triage/internal/vectorstore"
)

func vec(idx []int, vals []float64) domain.Vector {
	return domain.Vector{Indices: idx, Values: vals}
}

func TestSearchOrdersByScoreThenID(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	require.NoError(t, s.Init(ctx, 4))
	require.NoError(t, s.Upsert(ctx, []vectorstore.Point{
		{ID: 0, Vector: vec([]int{0}, []float64{1})},
		{ID: 1, Vector: vec([]int{1}, []float64{1})},
		{ID: 2, Vector: vec([]int{1}, []float64{1})},
		{ID: 3, Vector: vec([]int{0, 1}, []float64{0.6, 0.8})},
	}))

	hits, err := s.Search(ctx, vec([]int{1}, []float64{1}), 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, 1, hits[0].ID)
	assert.Equal(t, 2, hits[1].ID)
	assert.Equal(t, 3, hits[2].ID)
	assert.InDelta(t, 0.8, hits[2].Score, 1e-9)
}

func TestZeroQueryScoresZero(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	require.NoError(t, s.Init(ctx, 2))
	require.NoError(t, s.Upsert(ctx, []vectorstore.Point{{ID: 0, Vector: vec([]int{0}, []float64{1})}}))

	hits, err := s.Search(ctx, domain.Vector{}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Zero(t, hits[0].Score)
}

func TestDimensionChecks(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	assert.Error(t, s.Init(ctx, 0))
	require.NoError(t, s.Init(ctx, 2))
	assert.Error(t, s.Upsert(ctx, []vectorstore.Point{{ID: 0, Vector: vec([]int{5}, []float64{1})}}))

	require.NoError(t, s.Clear(ctx))
	assert.Zero(t, s.Len())
}
