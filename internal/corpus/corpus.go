package corpus

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"triage/internal/domain"
	"triage/internal/knowledge"
)

// Paths locates the three record sources.
type Paths struct {
	Tabular      string
	Dictionary   string
	DocumentsDir string
}

// Corpus groups loaded records by source.
type Corpus struct {
	Tabular    []domain.Record
	Dictionary []domain.Record
	Documents  []domain.Record
}

// Records returns tabular, dictionary then document records.
func (c Corpus) Records() []domain.Record {
	out := make([]domain.Record, 0, c.Len())
	out = append(out, c.Tabular...)
	out = append(out, c.Dictionary...)
	return append(out, c.Documents...)
}

// Len returns the total number of records.
func (c Corpus) Len() int {
	return len(c.Tabular) + len(c.Dictionary) + len(c.Documents)
}

// Load reads every source. A tabular failure is fatal for the corpus; a
// failing dictionary or document source is logged and left empty.
func Load(paths Paths, sources map[string]TextSource) (Corpus, error) {
	var c Corpus
	tabular, err := LoadTabular(paths.Tabular)
	if err != nil {
		return Corpus{}, fmt.Errorf("load tabular records %s: %w", paths.Tabular, err)
	}
	c.Tabular = tabular

	if paths.Dictionary != "" {
		dict, err := LoadDictionary(paths.Dictionary)
		if err != nil {
			log.Warn().Err(err).Str("component", "corpus").Str("path", paths.Dictionary).Msg("dictionary records skipped")
		} else {
			c.Dictionary = dict
		}
	}

	if paths.DocumentsDir != "" {
		docs, err := LoadDocuments(paths.DocumentsDir, sources)
		if err != nil {
			log.Warn().Err(err).Str("component", "corpus").Str("dir", paths.DocumentsDir).Msg("document records skipped")
		} else {
			c.Documents = docs
		}
	}

	log.Info().
		Str("component", "corpus").
		Int("tabular", len(c.Tabular)).
		Int("dictionary", len(c.Dictionary)).
		Int("documents", len(c.Documents)).
		Msg("corpus loaded")
	return c, nil
}

// LoadDictionary turns a knowledge base file into dictionary records.
func LoadDictionary(path string) ([]domain.Record, error) {
	base, err := knowledge.Load(path)
	if err != nil {
		return nil, err
	}
	entries := base.Entries()
	records := make([]domain.Record, len(entries))
	for i, e := range entries {
		records[i] = domain.DictionaryRecord{Disease: e.Disease, Symptoms: e.Symptoms}
	}
	return records, nil
}
