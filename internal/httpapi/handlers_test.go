package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triage/internal/compose"
	"triage/internal/diagnosis"
	"triage/internal/domain"
)

type stubInterviewer struct {
	resp    *diagnosis.Response
	err     error
	gotID   string
	gotSymp []string
}

func (s *stubInterviewer) Submit(_ context.Context, id string, symptoms []string) (*diagnosis.Response, error) {
	s.gotID, s.gotSymp = id, symptoms
	return s.resp, s.err
}

type stubRetriever struct {
	match *domain.Match
	err   error
}

func (s stubRetriever) Query(context.Context, string) (*domain.Match, error) { return s.match, s.err }

type stubChatter struct {
	reply string
}

func (s stubChatter) Chat(context.Context, string) string { return s.reply }

func serve(t *testing.T, h *Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	NewRouter(h, []string{"*"}).ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func TestPredictAwaiting(t *testing.T) {
	iv := &stubInterviewer{resp: &diagnosis.Response{
		SessionID:    "abc",
		Outcome:      diagnosis.OutcomeAwaiting,
		Message:      "Question ?",
		NextQuestion: "Question ?",
		Step:         1,
	}}
	h := NewHandler(iv, stubRetriever{}, stubChatter{}, nil)

	w, out := serve(t, h, http.MethodPost, "/predict", `{"session_id":"abc","symptoms":["toux"]}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc", iv.gotID)
	assert.Equal(t, []string{"toux"}, iv.gotSymp)
	assert.Equal(t, "abc", out["session_id"])
	assert.Equal(t, true, out["requires_more_info"])
	assert.Equal(t, "Question ?", out["next_question"])
	assert.NotContains(t, out, "diagnoses")
	assert.NotContains(t, out, "emergency")
}

func TestPredictDiagnosedAlwaysCarriesDiagnoses(t *testing.T) {
	iv := &stubInterviewer{resp: &diagnosis.Response{SessionID: "abc", Outcome: diagnosis.OutcomeDiagnosed, Message: "Consultez."}}
	h := NewHandler(iv, stubRetriever{}, stubChatter{}, nil)

	w, out := serve(t, h, http.MethodPost, "/predict", `{"symptoms":["xyz"]}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, out["requires_more_info"])
	assert.Equal(t, []any{}, out["diagnoses"])

	iv.resp = &diagnosis.Response{
		SessionID:        "abc",
		Outcome:          diagnosis.OutcomeDiagnosed,
		Diagnoses:        []domain.Diagnosis{{Disease: "Grippe", Confidence: 0.8, AssociatedSymptoms: []string{"fièvre"}}},
		Specialty:        "Généraliste",
		SuggestedDoctors: []string{"Dr Bernard"},
	}
	_, out = serve(t, h, http.MethodPost, "/predict", `{"symptoms":["fièvre"]}`)
	diagnoses := out["diagnoses"].([]any)
	require.Len(t, diagnoses, 1)
	first := diagnoses[0].(map[string]any)
	assert.Equal(t, "Grippe", first["disease"])
	assert.InDelta(t, 0.8, first["confidence"], 1e-9)
	assert.Equal(t, "Généraliste", out["specialty"])
	assert.Equal(t, []any{"Dr Bernard"}, out["suggested_doctors"])
}

func TestPredictEmergency(t *testing.T) {
	iv := &stubInterviewer{resp: &diagnosis.Response{SessionID: "abc", Outcome: diagnosis.OutcomeEmergency, Message: "URGENCE"}}
	_, out := serve(t, NewHandler(iv, stubRetriever{}, stubChatter{}, nil), http.MethodPost, "/predict", `{"symptoms":["convulsions"]}`)
	assert.Equal(t, true, out["emergency"])
	assert.Equal(t, false, out["requires_more_info"])
	assert.NotContains(t, out, "diagnoses")
}

func TestPredictErrors(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		err    error
		status int
		msg    string
	}{
		{"bad json", `{`, nil, http.StatusBadRequest, "Invalid request"},
		{"no symptoms", `{"session_id":"a"}`, domain.ErrNoSymptoms, http.StatusBadRequest, noSymptomsMessage},
		{"model", `{"symptoms":["a"]}`, fmt.Errorf("diagnose: %w", domain.ErrModelUnavailable), http.StatusInternalServerError, modelUnavailableMessage},
		{"store", `{"symptoms":["a"]}`, errors.New("redis down"), http.StatusInternalServerError, internalErrorMessage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler(&stubInterviewer{err: tc.err}, stubRetriever{}, stubChatter{}, nil)
			w, out := serve(t, h, http.MethodPost, "/predict", tc.body)
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.msg, out["error"])
		})
	}

	h := NewHandler(&stubInterviewer{err: domain.ErrModelUnavailable}, stubRetriever{}, stubChatter{}, nil)
	_, out := serve(t, h, http.MethodPost, "/predict", `{"symptoms":["a"]}`)
	assert.Equal(t, false, out["requires_more_info"])
}

func TestRAG(t *testing.T) {
	match := &domain.Match{
		Record:     domain.DictionaryRecord{Disease: "Rhume", Symptoms: []string{"toux", "nez qui coule"}},
		Similarity: 0.42,
	}
	w, out := serve(t, NewHandler(nil, stubRetriever{match: match}, nil, nil), http.MethodPost, "/rag", `{"query":"toux"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "json", out["source"])
	assert.InDelta(t, 0.42, out["similarite"], 1e-9)
	assert.Equal(t, "Rhume", out["maladie"])
	assert.Equal(t, "toux nez qui coule", out["symptomes"])
}

func TestRAGErrors(t *testing.T) {
	cases := map[error]struct {
		status int
		key    string
		msg    string
	}{
		domain.ErrEmptyQuery:           {http.StatusOK, "response", compose.EmptyQueryMessage},
		domain.ErrNoRelevantMatch:      {http.StatusOK, "response", compose.NoMatchMessage},
		domain.ErrRetrieverUnavailable: {http.StatusInternalServerError, "error", kbUnavailableMessage},
	}
	for err, want := range cases {
		t.Run(err.Error(), func(t *testing.T) {
			w, out := serve(t, NewHandler(nil, stubRetriever{err: err}, nil, nil), http.MethodPost, "/rag", `{"query":""}`)
			assert.Equal(t, want.status, w.Code)
			assert.Equal(t, want.msg, out[want.key])
		})
	}
}

func TestChat(t *testing.T) {
	w, out := serve(t, NewHandler(nil, nil, stubChatter{reply: "Bonjour"}, nil), http.MethodPost, "/chat", `{"message":"salut"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Bonjour", out["message"])

	w, out = serve(t, NewHandler(nil, nil, stubChatter{reply: "x"}, nil), http.MethodPost, "/chat", `{"message":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, noMessageMessage, out["error"])

	w, out = serve(t, NewHandler(nil, nil, stubChatter{reply: "x"}, nil), http.MethodPost, "/chat", `{"message":"  \n "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, noMessageMessage, out["error"])
}

func TestChatWithoutGeneratorAnswersTemplate(t *testing.T) {
	h := NewHandler(nil, nil, compose.New(nil, nil, time.Second), nil)
	w, out := serve(t, h, http.MethodPost, "/chat", `{"message":"Que faire contre la fièvre ?"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, out["message"], "consulter un médecin")
	assert.NotContains(t, out, "error")
}

func TestHealthzAndCORS(t *testing.T) {
	h := NewHandler(nil, nil, nil, func() Health {
		return Health{Status: "ok", Classifier: true, Retriever: true, Records: 12}
	})
	w, out := serve(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, true, out["classifier"])
	assert.EqualValues(t, 12, out["records"])

	req := httptest.NewRequest(http.MethodOptions, "/predict", nil)
	rec := httptest.NewRecorder()
	NewRouter(h, []string{"https://app.example"}).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
