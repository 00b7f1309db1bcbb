package domain

import "errors"

var (
	// ErrNoSymptoms is returned when a turn past the greeting carries no symptom.
	ErrNoSymptoms = errors.New("no symptoms provided for current step")
	// ErrModelUnavailable is returned when the classifier was never fitted.
	ErrModelUnavailable = errors.New("diagnosis model is not trained")
	// ErrRetrieverUnavailable is returned when the corpus could not be indexed.
	ErrRetrieverUnavailable = errors.New("knowledge corpus unavailable")
	// ErrNoRelevantMatch is returned when no record clears the similarity threshold.
	ErrNoRelevantMatch = errors.New("no relevant match")
	// ErrEmptyQuery is returned for a blank retrieval query.
	ErrEmptyQuery = errors.New("empty query")
)
