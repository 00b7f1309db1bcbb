// Package corpus loads the heterogeneous record sources indexed by the retriever.
package corpus

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"triage/internal/domain"
)

const (
	colClass    = "cause_initiale_classe"
	colBlock    = "cause_initiale_bloc"
	colChapter  = "cause_initiale_chapitre"
	colYear     = "annee_deces"
	colSex      = "sexe"
	colAgeClass = "classe_age"
)

// LoadTabular reads the semicolon separated mortality file. Files that are
// not valid UTF-8 are decoded as Windows-1252.
func LoadTabular(path string) ([]domain.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseTabular(data)
}

// ParseTabular decodes the mortality file content. The three cause columns
// are required; missing cells become empty strings.
func ParseTabular(data []byte) ([]domain.Record, error) {
	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("decode windows-1252: %w", err)
		}
		data = decoded
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = ';'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{colClass, colBlock, colChapter} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	cell := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []domain.Record
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(records)+2, err)
		}
		records = append(records, domain.TabularRecord{
			Class:    cell(row, colClass),
			Block:    cell(row, colBlock),
			Chapter:  cell(row, colChapter),
			Year:     cell(row, colYear),
			Sex:      cell(row, colSex),
			AgeClass: cell(row, colAgeClass),
		})
	}
	return records, nil
}
