// Package session keeps per-conversation diagnostic state with expiry and
// serializes concurrent turns of the same conversation.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrLockTimeout is returned when a session lock cannot be acquired in time.
var ErrLockTimeout = errors.New("session lock timeout")

// State is the progress of one conversation.
type State struct {
	ID           string    `json:"id"`
	Symptoms     []string  `json:"symptoms"`
	Step         int       `json:"step"`
	LastQuestion string    `json:"last_question"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Store persists session states. Lock must be held around a Get/Save/Delete
// sequence on the same id.
type Store interface {
	Lock(ctx context.Context, id string) (unlock func(), err error)
	// Get returns the state of id; ok is false when the session is unknown or expired.
	Get(ctx context.Context, id string) (state *State, ok bool, err error)
	Save(ctx context.Context, state *State) error
	Delete(ctx context.Context, id string) error
}
