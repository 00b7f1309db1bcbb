// Package specialty maps diseases to the medical specialty to consult and
// lists matching doctors.
package specialty

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"triage/internal/domain"
)

// Table resolves a disease to its specialty.
type Table struct {
	normalizer domain.Normalizer
	exact      map[string]string
	normalized map[string]string
}

// NewTable indexes the built-in disease table.
func NewTable(normalizer domain.Normalizer) *Table {
	t := &Table{
		normalizer: normalizer,
		exact:      diseaseSpecialties,
		normalized: make(map[string]string, len(diseaseSpecialties)),
	}
	for disease, spec := range diseaseSpecialties {
		if key := normalizer.Normalize(disease); key != "" {
			t.normalized[key] = spec
		}
	}
	return t
}

// For returns the specialty of disease, Generalist when unknown.
// Names are matched exactly first, then by normalized form.
func (t *Table) For(disease string) string {
	if s, ok := t.exact[disease]; ok {
		return s
	}
	if s, ok := t.normalized[t.normalizer.Normalize(disease)]; ok {
		return s
	}
	return Generalist
}

// Phrase renders the specialty as the object of "consulter".
func Phrase(specialty string) string {
	if specialty == "" || specialty == Generalist {
		return "un médecin généraliste"
	}
	return "un " + specialty
}

// Doctor is one directory entry.
type Doctor struct {
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

// Directory lists doctors by specialty.
type Directory struct {
	normalizer domain.Normalizer
	doctors    []Doctor
}

// NewDirectory wraps an in-memory doctor list.
func NewDirectory(normalizer domain.Normalizer, doctors []Doctor) *Directory {
	return &Directory{normalizer: normalizer, doctors: doctors}
}

// LoadDirectory reads a JSON array of doctors.
func LoadDirectory(path string, normalizer domain.Normalizer) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doctors []Doctor
	if err := json.Unmarshal(data, &doctors); err != nil {
		return nil, fmt.Errorf("decode doctors: %w", err)
	}
	return NewDirectory(normalizer, doctors), nil
}

// LoadDirectoryOrEmpty logs a load failure and returns an empty directory.
func LoadDirectoryOrEmpty(path string, normalizer domain.Normalizer) *Directory {
	d, err := LoadDirectory(path, normalizer)
	if err != nil {
		log.Warn().Err(err).Str("component", "specialty").Str("path", path).Msg("doctor directory unavailable")
		return NewDirectory(normalizer, nil)
	}
	log.Info().Str("component", "specialty").Int("doctors", d.Len()).Msg("doctor directory loaded")
	return d
}

// Len returns the number of doctors.
func (d *Directory) Len() int { return len(d.doctors) }

// Doctors returns the names of doctors practising specialty, in file order.
func (d *Directory) Doctors(specialty string) []string {
	want := d.normalizer.Normalize(specialty)
	var names []string
	for _, doc := range d.doctors {
		if d.normalizer.Normalize(doc.Specialty) == want {
			names = append(names, doc.Name)
		}
	}
	return names
}
