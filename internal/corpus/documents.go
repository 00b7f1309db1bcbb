package corpus

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"

	"triage/internal/domain"
)

// TextSource extracts the plain text of one document.
type TextSource interface {
	ExtractText(path string) (string, error)
}

// PDFSource reads text layers from PDF files.
type PDFSource struct{}

func (PDFSource) ExtractText(path string) (text string, err error) {
	// The pdf reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extract %s: %v", path, r)
		}
	}()
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// PlainTextSource returns a file's content unchanged.
type PlainTextSource struct{}

func (PlainTextSource) ExtractText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DefaultSources maps file extensions to their extractor.
func DefaultSources() map[string]TextSource {
	return map[string]TextSource{
		".pdf": PDFSource{},
		".txt": PlainTextSource{},
	}
}

// LoadDocuments extracts every supported file in dir, in file name order.
// Files that fail or yield no text are logged and skipped.
func LoadDocuments(dir string, sources map[string]TextSource) ([]domain.Record, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var records []domain.Record
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		src, ok := sources[strings.ToLower(filepath.Ext(entry.Name()))]
		if !ok {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		text, err := src.ExtractText(path)
		if err != nil {
			log.Warn().Err(err).Str("component", "corpus").Str("path", path).Msg("document skipped")
			continue
		}
		if strings.TrimSpace(text) == "" {
			log.Debug().Str("component", "corpus").Str("path", path).Msg("document has no text")
			continue
		}
		records = append(records, domain.DocumentRecord{Name: entry.Name(), Content: text})
	}
	return records, nil
}
