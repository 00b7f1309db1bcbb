package domain

import "strings"

// SourceTag identifies which corpus a record came from.
type SourceTag string

const (
	SourceTabular    SourceTag = "csv"
	SourceDictionary SourceTag = "json"
	SourceDocument   SourceTag = "pdf"
)

// ExcerptLength bounds the document content returned to callers.
const ExcerptLength = 500

// Field is one named attribute of a record as exposed to callers.
type Field struct {
	Key   string
	Value string
}

// Record is a retrievable corpus entry. The concrete variants are
// TabularRecord, DictionaryRecord and DocumentRecord.
type Record interface {
	Source() SourceTag
	DisplayName() string
	DisplayText() string
	// IndexText is the raw text fed to the normalizer before indexing.
	IndexText() string
	Fields() []Field
}

// TabularRecord is one row of the mortality statistics file.
type TabularRecord struct {
	Class    string
	Block    string
	Chapter  string
	Year     string
	Sex      string
	AgeClass string
}

func (r TabularRecord) Source() SourceTag   { return SourceTabular }
func (r TabularRecord) DisplayName() string { return r.Class }
func (r TabularRecord) DisplayText() string { return r.IndexText() }
func (r TabularRecord) IndexText() string {
	return r.Class + " " + r.Block + " " + r.Chapter
}

func (r TabularRecord) Fields() []Field {
	return []Field{
		{Key: "classe", Value: r.Class},
		{Key: "bloc", Value: r.Block},
		{Key: "chapitre", Value: r.Chapter},
		{Key: "annee_deces", Value: r.Year},
		{Key: "sexe", Value: r.Sex},
		{Key: "classe_age", Value: r.AgeClass},
	}
}

// DictionaryRecord is a disease with its symptom list.
type DictionaryRecord struct {
	Disease  string
	Symptoms []string
}

func (r DictionaryRecord) Source() SourceTag   { return SourceDictionary }
func (r DictionaryRecord) DisplayName() string { return r.Disease }
func (r DictionaryRecord) DisplayText() string { return strings.Join(r.Symptoms, " ") }
func (r DictionaryRecord) IndexText() string   { return r.DisplayText() }

func (r DictionaryRecord) Fields() []Field {
	return []Field{
		{Key: "maladie", Value: r.Disease},
		{Key: "symptomes", Value: r.DisplayText()},
	}
}

// DocumentRecord is the extracted text of one reference document.
type DocumentRecord struct {
	Name    string
	Content string
}

func (r DocumentRecord) Source() SourceTag   { return SourceDocument }
func (r DocumentRecord) DisplayName() string { return r.Name }
func (r DocumentRecord) IndexText() string   { return r.Content }

// DisplayText returns the first ExcerptLength characters followed by an ellipsis.
func (r DocumentRecord) DisplayText() string {
	runes := []rune(r.Content)
	if len(runes) > ExcerptLength {
		runes = runes[:ExcerptLength]
	}
	return string(runes) + "..."
}

func (r DocumentRecord) Fields() []Field {
	return []Field{
		{Key: "document_pdf", Value: r.Name},
		{Key: "contenu_extrait", Value: r.DisplayText()},
	}
}
