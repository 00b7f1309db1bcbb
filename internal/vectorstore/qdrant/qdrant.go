package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"triage/internal/domain"
	"triage/internal/vectorstore"
)

// vectorName is the named sparse vector holding TF-IDF weights.
const vectorName = "text"

const upsertBatchSize = 256

// tieOverfetch extra hits are fetched, then re-sorted by score and ascending
// ID before truncating to topK.
const tieOverfetch = 4

// Storage is a minimal REST client to Qdrant using a named sparse vector.
// Stored vectors are L2-normalized so the dot-product score is the cosine.
type Storage struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client
}

type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

func NewStorage(cfg Config) *Storage {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Storage{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

type sparseVector struct {
	Indices []int     `json:"indices"`
	Values  []float64 `json:"values"`
}

func toSparse(v domain.Vector) sparseVector {
	sv := sparseVector{Indices: v.Indices, Values: v.Values}
	if sv.Indices == nil {
		sv.Indices = []int{}
		sv.Values = []float64{}
	}
	return sv
}

// Init creates the collection with a single sparse vector field.
func (s *Storage) Init(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	body := map[string]any{
		"sparse_vectors": map[string]any{
			vectorName: map[string]any{},
		},
	}
	return s.doJSON(ctx, http.MethodPut, s.collectionURL(), body, nil)
}

func (s *Storage) Upsert(ctx context.Context, points []vectorstore.Point) error {
	for start := 0; start < len(points); start += upsertBatchSize {
		end := min(start+upsertBatchSize, len(points))
		batch := make([]map[string]any, 0, end-start)
		for _, p := range points[start:end] {
			batch = append(batch, map[string]any{
				"id":     p.ID,
				"vector": map[string]any{vectorName: toSparse(p.Vector)},
				"payload": map[string]any{
					"source": string(p.Source),
					"name":   p.Name,
				},
			})
		}
		body := map[string]any{"points": batch}
		if err := s.doJSON(ctx, http.MethodPut, s.collectionURL()+"/points?wait=true", body, nil); err != nil {
			return err
		}
	}
	return nil
}

func (s *Storage) Search(ctx context.Context, vector domain.Vector, topK int) ([]vectorstore.Hit, error) {
	if topK <= 0 {
		topK = 5
	}
	if vector.IsZero() {
		return nil, nil
	}
	req := map[string]any{
		"vector": map[string]any{
			"name":   vectorName,
			"vector": toSparse(vector),
		},
		"limit":        topK + tieOverfetch,
		"with_payload": false,
	}
	var resp struct {
		Result []struct {
			ID    int     `json:"id"`
			Score float64 `json:"score"`
		} `json:"result"`
	}
	if err := s.doJSON(ctx, http.MethodPost, s.collectionURL()+"/points/search", req, &resp); err != nil {
		return nil, err
	}
	hits := make([]vectorstore.Hit, 0, len(resp.Result))
	for _, r := range resp.Result {
		hits = append(hits, vectorstore.Hit{ID: r.ID, Score: r.Score})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// Clear drops the collection. A missing collection is not an error.
func (s *Storage) Clear(ctx context.Context) error {
	err := s.doJSON(ctx, http.MethodDelete, s.collectionURL(), nil, nil)
	var se *statusError
	if errors.As(err, &se) && se.code == http.StatusNotFound {
		return nil
	}
	return err
}

func (s *Storage) collectionURL() string {
	return fmt.Sprintf("%s/collections/%s", s.url, s.collection)
}

type statusError struct {
	method, url, status string
	code                int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("qdrant %s %s failed: %s", e.method, e.url, e.status)
}

func (s *Storage) doJSON(ctx context.Context, method, url string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return &statusError{method: method, url: url, status: resp.Status, code: resp.StatusCode}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
