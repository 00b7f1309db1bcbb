// Package diagnosis drives the multi-turn symptom interview: it collects
// answers, short-circuits emergencies and produces the final assessment.
package diagnosis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"triage/internal/compose"
	"triage/internal/domain"
	"triage/internal/session"
	"triage/internal/specialty"
	"triage/internal/urgency"
)

// Questions are asked in order; the session completes after the last answer.
var Questions = []string{
	"Pour commencer, quels sont vos principaux symptômes et depuis quand apparaissent-ils ?",
	"Merci. Pour vous aider au mieux, pourriez-vous préciser : la valeur de la fièvre si présente, la durée exacte des symptômes, et la présence de toux ou de difficultés à respirer ?",
	"Y a-t-il une douleur localisée, des vomissements, et quel est votre niveau d'hydratation ?",
	"Enfin, quels sont vos antécédents médicaux et vos traitements actuels ?",
}

// Outcome classifies a turn's result.
type Outcome string

const (
	OutcomeAwaiting  Outcome = "awaiting"
	OutcomeEmergency Outcome = "emergency"
	OutcomeDiagnosed Outcome = "diagnosed"
)

// Response is the result of one turn.
type Response struct {
	SessionID        string
	Outcome          Outcome
	Message          string
	NextQuestion     string
	Step             int
	Diagnoses        []domain.Diagnosis
	Specialty        string
	SuggestedDoctors []string
	Evidence         *domain.Match
}

// RequiresMoreInfo reports whether the session awaits another answer.
func (r *Response) RequiresMoreInfo() bool { return r.Outcome == OutcomeAwaiting }

// Dependencies wires the engine's collaborators.
type Dependencies struct {
	Normalizer  domain.Normalizer
	Screener    *urgency.Screener
	Classifier  domain.Classifier
	Retriever   domain.Retriever
	Composer    *compose.Composer
	Specialties *specialty.Table
	Doctors     *specialty.Directory
	Sessions    session.Store
}

// Engine is safe for concurrent use; turns of one session are serialized
// through the session store lock.
type Engine struct {
	deps      Dependencies
	questions []string
}

// NewEngine returns an engine asking Questions.
func NewEngine(deps Dependencies) *Engine {
	return &Engine{deps: deps, questions: Questions}
}

// Submit processes one user turn. An empty sessionID starts an anonymous
// session under a fresh identifier returned in the response.
func (e *Engine) Submit(ctx context.Context, sessionID string, symptoms []string) (*Response, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	logger := log.With().Str("component", "diagnosis").Str("session_id", sessionID).Logger()

	unlock, err := e.deps.Sessions.Lock(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("lock session: %w", err)
	}
	defer unlock()

	st, ok, err := e.deps.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		st = &session.State{ID: sessionID}
	}

	answers := nonBlank(symptoms)
	if len(answers) == 0 {
		if st.Step != 0 {
			return nil, domain.ErrNoSymptoms
		}
		msg := e.deps.Composer.Greeting(e.questions[0])
		st.LastQuestion = msg
		if err := e.deps.Sessions.Save(ctx, st); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
		return &Response{
			SessionID:    sessionID,
			Outcome:      OutcomeAwaiting,
			Message:      msg,
			NextQuestion: e.questions[0],
			Step:         0,
		}, nil
	}

	st.Symptoms = append(st.Symptoms, answers...)
	text := e.accumulatedText(st.Symptoms)

	if phrase, urgent := e.deps.Screener.Match(text); urgent {
		logger.Warn().Str("red_flag", phrase).Int("step", st.Step).Msg("emergency detected")
		if err := e.deps.Sessions.Delete(ctx, sessionID); err != nil {
			return nil, fmt.Errorf("delete session: %w", err)
		}
		return &Response{
			SessionID: sessionID,
			Outcome:   OutcomeEmergency,
			Message:   e.deps.Composer.Emergency(),
			Step:      st.Step,
		}, nil
	}

	st.Step++
	if st.Step < len(e.questions) {
		st.LastQuestion = e.questions[st.Step]
		if err := e.deps.Sessions.Save(ctx, st); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
		logger.Debug().Int("step", st.Step).Msg("next question")
		return &Response{
			SessionID:    sessionID,
			Outcome:      OutcomeAwaiting,
			Message:      st.LastQuestion,
			NextQuestion: st.LastQuestion,
			Step:         st.Step,
		}, nil
	}

	// Every terminal branch ends the session.
	if err := e.deps.Sessions.Delete(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("delete session: %w", err)
	}
	resp, err := e.conclude(ctx, text)
	if err != nil {
		return nil, err
	}
	resp.SessionID = sessionID
	resp.Step = st.Step
	logger.Info().Int("diagnoses", len(resp.Diagnoses)).Msg("session concluded")
	return resp, nil
}

func (e *Engine) conclude(ctx context.Context, text string) (*Response, error) {
	diagnoses, err := e.deps.Classifier.Diagnose(text)
	if err != nil {
		return nil, err
	}
	if len(diagnoses) == 0 {
		evidence := e.lookup(ctx, text)
		return &Response{
			Outcome:   OutcomeDiagnosed,
			Message:   e.deps.Composer.NoDiagnosis(ctx, text, evidence),
			Diagnoses: []domain.Diagnosis{},
			Evidence:  evidence,
		}, nil
	}

	top := diagnoses[0]
	evidence := e.lookup(ctx, top.Disease)
	spec := e.deps.Specialties.For(top.Disease)
	var doctors []string
	if e.deps.Doctors != nil {
		doctors = e.deps.Doctors.Doctors(spec)
	}
	msg := e.deps.Composer.Diagnosis(ctx, compose.DiagnosisInput{
		Diagnosis: top,
		Specialty: spec,
		Doctors:   doctors,
		Evidence:  evidence,
	})
	return &Response{
		Outcome:          OutcomeDiagnosed,
		Message:          msg,
		Diagnoses:        diagnoses,
		Specialty:        spec,
		SuggestedDoctors: doctors,
		Evidence:         evidence,
	}, nil
}

// lookup returns supporting evidence, nil when none is available.
func (e *Engine) lookup(ctx context.Context, query string) *domain.Match {
	if e.deps.Retriever == nil {
		return nil
	}
	m, err := e.deps.Retriever.Query(ctx, query)
	switch {
	case err == nil:
		return m
	case errors.Is(err, domain.ErrNoRelevantMatch), errors.Is(err, domain.ErrEmptyQuery):
		return nil
	default:
		log.Warn().Err(err).Str("component", "diagnosis").Msg("evidence lookup failed")
		return nil
	}
}

func (e *Engine) accumulatedText(symptoms []string) string {
	parts := make([]string, 0, len(symptoms))
	for _, s := range symptoms {
		if n := e.deps.Normalizer.Normalize(s); n != "" {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, " ")
}

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
