// Package knowledge loads the disease to symptom table that trains the classifier.
package knowledge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// ErrNoDiseases is returned when the file parses but declares no disease.
var ErrNoDiseases = errors.New("knowledge base declares no disease")

// Entry is one disease with its symptom phrases.
type Entry struct {
	Disease  string
	Symptoms []string
}

// Base is an immutable, ordered disease table.
type Base struct {
	entries []Entry
	index   map[string]int
}

// New builds a base from entries. Later duplicates replace the symptoms of
// the first occurrence but keep its position.
func New(entries []Entry) *Base {
	b := &Base{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		if i, ok := b.index[e.Disease]; ok {
			b.entries[i].Symptoms = append([]string(nil), e.Symptoms...)
			continue
		}
		b.index[e.Disease] = len(b.entries)
		b.entries = append(b.entries, Entry{Disease: e.Disease, Symptoms: append([]string(nil), e.Symptoms...)})
	}
	return b
}

// Fallback is the built-in two-disease base used when no file can be read.
func Fallback() *Base {
	return New([]Entry{
		{Disease: "Rhume", Symptoms: []string{"éternuements", "nez qui coule", "mal de gorge", "toux"}},
		{Disease: "Grippe", Symptoms: []string{"fièvre", "frissons", "douleurs musculaires", "fatigue", "maux de tête"}},
	})
}

// Load reads a JSON knowledge base of the form
// {"diseases": {"<name>": ["<symptom>", ...]}}, keeping file order.
func Load(path string) (*Base, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a knowledge base document.
func Parse(data []byte) (*Base, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("decode knowledge base: %w", err)
	}
	raw, ok := top["diseases"]
	if !ok {
		return nil, ErrNoDiseases
	}
	entries, err := decodeOrdered(raw)
	if err != nil {
		return nil, fmt.Errorf("decode diseases: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrNoDiseases
	}
	return New(entries), nil
}

// LoadOrFallback loads path and substitutes Fallback on any failure.
// The boolean reports whether the fallback was used.
func LoadOrFallback(path string) (*Base, bool) {
	b, err := Load(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("knowledge base unavailable, using built-in fallback")
		return Fallback(), true
	}
	log.Info().Str("path", path).Int("diseases", b.Len()).Msg("knowledge base loaded")
	return b, false
}

func decodeOrdered(raw json.RawMessage) ([]Entry, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("diseases must be an object")
	}
	var entries []Entry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		var symptoms []string
		if err := dec.Decode(&symptoms); err != nil {
			return nil, fmt.Errorf("symptoms of %q: %w", name, err)
		}
		entries = append(entries, Entry{Disease: name, Symptoms: symptoms})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Len returns the number of diseases.
func (b *Base) Len() int { return len(b.entries) }

// Entries returns a copy of the entries in order.
func (b *Base) Entries() []Entry {
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Diseases returns the disease names in order.
func (b *Base) Diseases() []string {
	out := make([]string, len(b.entries))
	for i, e := range b.entries {
		out[i] = e.Disease
	}
	return out
}

// Symptoms returns the symptom list of disease, or nil when unknown.
func (b *Base) Symptoms(disease string) []string {
	i, ok := b.index[disease]
	if !ok {
		return nil
	}
	return append([]string(nil), b.entries[i].Symptoms...)
}
