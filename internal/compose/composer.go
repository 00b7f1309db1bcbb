// Package compose renders user-facing messages, asking a text generator for
// a natural phrasing and falling back to fixed templates.
package compose

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"triage/internal/domain"
	"triage/internal/llm"
	"triage/internal/specialty"
)

const (
	defaultTimeout   = 15 * time.Second
	excerptSentences = 2
)

var (
	blankLinesRe = regexp.MustCompile(`\n\s*\n`)
	spacesRe     = regexp.MustCompile(` {2,}`)
)

// DiagnosisInput carries everything the final message talks about.
type DiagnosisInput struct {
	Diagnosis domain.Diagnosis
	Specialty string
	Doctors   []string
	Evidence  *domain.Match
}

// Composer builds the assistant's messages. Generation failures never
// surface to the caller of the message builders.
type Composer struct {
	gen        llm.Generator
	summarizer domain.Summarizer
	timeout    time.Duration
}

// New returns a composer. A nil generator disables generation; a zero timeout
// uses 15s.
func New(gen llm.Generator, summarizer domain.Summarizer, timeout time.Duration) *Composer {
	if gen == nil {
		gen = llm.Disabled{}
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Composer{gen: gen, summarizer: summarizer, timeout: timeout}
}

// Greeting opens a conversation with the first question.
func (c *Composer) Greeting(firstQuestion string) string {
	return greetingPrefix + firstQuestion
}

// Emergency is the fixed urgent-care warning.
func (c *Composer) Emergency() string { return emergencyMessage }

// NoDiagnosis explains that no disease stood out, citing evidence when some
// record matched the symptom text.
func (c *Composer) NoDiagnosis(ctx context.Context, symptoms string, evidence *domain.Match) string {
	info := c.Evidence(evidence)

	var prompt strings.Builder
	fmt.Fprintf(&prompt, noDiagnosisPrompt, symptoms)
	if info != "" {
		fmt.Fprintf(&prompt, noDiagnosisEvidencePrompt, info)
	}
	fmt.Fprintf(&prompt, noDiagnosisClosingPrompt, specialty.Phrase(specialty.Generalist))

	fallback := noDiagnosisFallback
	if info != "" {
		fallback = fmt.Sprintf(noDiagnosisWithEvidenceFallback, info)
	}
	return c.generateOr(ctx, "no_diagnosis", prompt.String(), fallback)
}

// Diagnosis presents the top disease with its probability and the specialty
// to consult.
func (c *Composer) Diagnosis(ctx context.Context, in DiagnosisInput) string {
	percent := math.Round(in.Diagnosis.Confidence * 100)
	info := c.Evidence(in.Evidence)
	referral := specialty.Phrase(in.Specialty)

	var prompt strings.Builder
	fmt.Fprintf(&prompt, diagnosisPrompt, in.Diagnosis.Disease, percent)
	if info != "" {
		fmt.Fprintf(&prompt, diagnosisEvidencePrompt, info)
	}
	fmt.Fprintf(&prompt, diagnosisClosingPrompt, referral)

	var fb strings.Builder
	fmt.Fprintf(&fb, diagnosisOpening, in.Diagnosis.Disease, percent)
	if info != "" {
		fmt.Fprintf(&fb, diagnosisContext, info)
	}
	fb.WriteString(diagnosisDisclaimer)
	fmt.Fprintf(&fb, diagnosisReferral, referral)
	if len(in.Doctors) > 0 {
		fmt.Fprintf(&fb, diagnosisDoctors, strings.Join(in.Doctors, ", "))
	}
	fb.WriteString(diagnosisCare)
	fb.WriteString(diagnosisClosing)

	return c.generateOr(ctx, "diagnosis", prompt.String(), clean(fb.String()))
}

// Chat forwards a free-form question to the generator.
func (c *Composer) Chat(ctx context.Context, message string) string {
	return c.generateOr(ctx, "chat", message, chatFallback)
}

// Evidence renders a matched record as a short "Label: value" list.
func (c *Composer) Evidence(m *domain.Match) string {
	if m == nil || m.Record == nil {
		return ""
	}
	var parts []string
	add := func(label, value string) {
		if value = strings.TrimSpace(value); value != "" {
			parts = append(parts, label+": "+value)
		}
	}
	switch r := m.Record.(type) {
	case domain.TabularRecord:
		add("Classe", r.Class)
		add("Bloc", r.Block)
		add("Chapitre", r.Chapter)
	case domain.DictionaryRecord:
		add("Maladie", r.Disease)
		add("Symptômes", strings.Join(r.Symptoms, ", "))
	case domain.DocumentRecord:
		add("Document", r.Name)
		add("Extrait", c.excerpt(r))
	default:
		add("Source", m.Record.DisplayName())
	}
	return strings.Join(parts, ", ")
}

func (c *Composer) excerpt(r domain.DocumentRecord) string {
	if c.summarizer != nil {
		if s, err := c.summarizer.Summarize(r.Content, excerptSentences); err == nil && s != "" {
			return s
		}
	}
	return strings.TrimSuffix(r.DisplayText(), "...")
}

func (c *Composer) generateOr(ctx context.Context, kind, prompt, fallback string) string {
	out, err := c.generate(ctx, prompt)
	if err != nil {
		ev := log.Warn()
		if errors.Is(err, llm.ErrDisabled) {
			ev = log.Debug()
		}
		ev.Err(err).Str("component", "compose").Str("kind", kind).Msg("using template response")
		return fallback
	}
	return out
}

func (c *Composer) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	out, err := c.gen.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	out = clean(out)
	if out == "" {
		return "", errors.New("empty generation")
	}
	return out, nil
}

func clean(s string) string {
	s = blankLinesRe.ReplaceAllString(s, "\n\n")
	s = strings.TrimSpace(s)
	return spacesRe.ReplaceAllString(s, " ")
}
