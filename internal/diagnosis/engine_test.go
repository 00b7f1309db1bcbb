package diagnosis

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triage/internal/classifier"
	"triage/internal/compose"
	"triage/internal/domain"
	"triage/internal/embedding/tfidf"
	"triage/internal/knowledge"
	"triage/internal/retriever"
	"triage/internal/session"
	"triage/internal/specialty"
	"triage/internal/textnorm"
	"triage/internal/urgency"
	"triage/internal/vectorstore/memory"
)

type fixture struct {
	engine   *Engine
	sessions *session.MemoryStore
}

func newFixture(t *testing.T, fit bool) fixture {
	t.Helper()
	norm := textnorm.New()
	model := classifier.New(knowledge.Fallback(), norm)
	if fit {
		require.NoError(t, model.Fit())
	}
	ret := retriever.New(norm, tfidf.NewEmbedder(), memory.NewStorage())
	require.NoError(t, ret.Build(context.Background(), []domain.Record{
		domain.TabularRecord{Class: "Grippe", Block: "Grippe et pneumopathie", Chapter: "Appareil respiratoire"},
		domain.DictionaryRecord{Disease: "Rhume", Symptoms: []string{"éternuements", "nez qui coule"}},
	}))
	store := session.NewMemoryStore(time.Hour)
	eng := NewEngine(Dependencies{
		Normalizer:  norm,
		Screener:    urgency.NewDefault(norm),
		Classifier:  model,
		Retriever:   ret,
		Composer:    compose.New(nil, nil, time.Second),
		Specialties: specialty.NewTable(norm),
		Doctors:     specialty.NewDirectory(norm, []specialty.Doctor{{Name: "Dr Bernard", Specialty: "Généraliste"}}),
		Sessions:    store,
	})
	return fixture{engine: eng, sessions: store}
}

func submit(t *testing.T, e *Engine, id string, symptoms ...string) *Response {
	t.Helper()
	resp, err := e.Submit(context.Background(), id, symptoms)
	require.NoError(t, err)
	return resp
}

func TestGreetingOnEmptyFirstTurn(t *testing.T) {
	f := newFixture(t, true)

	resp := submit(t, f.engine, "s1")
	assert.Equal(t, OutcomeAwaiting, resp.Outcome)
	assert.True(t, resp.RequiresMoreInfo())
	assert.True(t, strings.HasPrefix(resp.Message, "Bonjour !"))
	assert.True(t, strings.HasSuffix(resp.Message, Questions[0]))
	assert.Equal(t, Questions[0], resp.NextQuestion)
	assert.Equal(t, 0, resp.Step)

	again := submit(t, f.engine, "s1", "  ")
	assert.Equal(t, 0, again.Step)
	assert.Equal(t, resp.Message, again.Message)
}

func TestQuestionsAdvanceOneStepPerTurn(t *testing.T) {
	f := newFixture(t, true)

	for step := 1; step < len(Questions); step++ {
		resp := submit(t, f.engine, "s1", "toux")
		assert.Equal(t, OutcomeAwaiting, resp.Outcome)
		assert.Equal(t, step, resp.Step)
		assert.Equal(t, Questions[step], resp.Message)
		assert.Equal(t, Questions[step], resp.NextQuestion)
	}
}

func TestEmptyAnswerMidSessionIsRejected(t *testing.T) {
	f := newFixture(t, true)
	submit(t, f.engine, "s1", "toux")

	_, err := f.engine.Submit(context.Background(), "s1", nil)
	assert.ErrorIs(t, err, domain.ErrNoSymptoms)

	st, ok, err := f.sessions.Get(context.Background(), "s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, st.Step)
	assert.Equal(t, []string{"toux"}, st.Symptoms)

	resp := submit(t, f.engine, "s1", "fatigue")
	assert.Equal(t, Questions[2], resp.NextQuestion)
}

func TestEmergencyEndsSession(t *testing.T) {
	f := newFixture(t, true)
	submit(t, f.engine, "s1", "toux")
	submit(t, f.engine, "s1", "fatigue")

	resp := submit(t, f.engine, "s1", "et maintenant une douleur thoracique intense")
	assert.Equal(t, OutcomeEmergency, resp.Outcome)
	assert.False(t, resp.RequiresMoreInfo())
	assert.Contains(t, resp.Message, "URGENCE MÉDICALE")
	assert.Empty(t, resp.Diagnoses)

	_, ok, err := f.sessions.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.False(t, ok)

	fresh := submit(t, f.engine, "s1")
	assert.Equal(t, 0, fresh.Step)
	assert.True(t, strings.HasPrefix(fresh.Message, "Bonjour !"))
}

func TestEmergencyAcrossTurns(t *testing.T) {
	f := newFixture(t, true)
	submit(t, f.engine, "s1", "perte de")

	resp := submit(t, f.engine, "s1", "conscience")
	assert.Equal(t, OutcomeEmergency, resp.Outcome)
}

func TestFullSessionDiagnoses(t *testing.T) {
	f := newFixture(t, true)
	answers := []string{"J'ai de la fièvre et des frissons", "fièvre à 39, fatigue", "douleurs musculaires", "maux de tête, aucun traitement"}

	var resp *Response
	for _, a := range answers {
		resp = submit(t, f.engine, "flu", a)
	}
	assert.Equal(t, OutcomeDiagnosed, resp.Outcome)
	assert.False(t, resp.RequiresMoreInfo())
	require.NotEmpty(t, resp.Diagnoses)
	assert.Equal(t, "Grippe", resp.Diagnoses[0].Disease)
	for i := 1; i < len(resp.Diagnoses); i++ {
		assert.GreaterOrEqual(t, resp.Diagnoses[i-1].Confidence, resp.Diagnoses[i].Confidence)
	}
	assert.Equal(t, specialty.Generalist, resp.Specialty)
	assert.Equal(t, []string{"Dr Bernard"}, resp.SuggestedDoctors)
	require.NotNil(t, resp.Evidence)
	assert.Equal(t, "Grippe", resp.Evidence.Record.DisplayName())
	assert.Contains(t, resp.Message, "**Grippe**")
	assert.Contains(t, resp.Message, "consulter un médecin généraliste")

	_, ok, err := f.sessions.Get(context.Background(), "flu")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFullSessionWithoutEvidence(t *testing.T) {
	f := newFixture(t, true)

	var resp *Response
	for i := 0; i < len(Questions); i++ {
		resp = submit(t, f.engine, "s1", "xyzzy plugh")
	}
	assert.Equal(t, OutcomeDiagnosed, resp.Outcome)
	assert.NotNil(t, resp.Diagnoses)
	assert.Empty(t, resp.Diagnoses)
	assert.Nil(t, resp.Evidence)
	assert.Contains(t, resp.Message, "difficile de poser un diagnostic précis")
}

func TestUntrainedModel(t *testing.T) {
	f := newFixture(t, false)
	for i := 0; i < len(Questions)-1; i++ {
		submit(t, f.engine, "s1", "toux")
	}

	_, err := f.engine.Submit(context.Background(), "s1", []string{"toux"})
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
	_, ok, _ := f.sessions.Get(context.Background(), "s1")
	assert.False(t, ok)
}

func TestAnonymousSessionsAreIsolated(t *testing.T) {
	f := newFixture(t, true)

	a := submit(t, f.engine, "", "toux")
	b := submit(t, f.engine, "", "toux")
	assert.NotEmpty(t, a.SessionID)
	assert.NotEqual(t, a.SessionID, b.SessionID)
	assert.Equal(t, 1, a.Step)
	assert.Equal(t, 1, b.Step)
}

func TestConcurrentTurnsAreSerialized(t *testing.T) {
	f := newFixture(t, true)
	n := len(Questions)

	var wg sync.WaitGroup
	responses := make([]*Response, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := f.engine.Submit(context.Background(), "shared", []string{"fièvre frissons"})
			if assert.NoError(t, err) {
				responses[i] = resp
			}
		}(i)
	}
	wg.Wait()

	var steps []int
	diagnosed := 0
	for _, r := range responses {
		require.NotNil(t, r)
		if r.Outcome == OutcomeDiagnosed {
			diagnosed++
			continue
		}
		steps = append(steps, r.Step)
	}
	sort.Ints(steps)
	assert.Equal(t, 1, diagnosed)
	assert.Equal(t, []int{1, 2, 3}, steps)
}
