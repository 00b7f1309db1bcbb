// Package httpapi exposes the interview, retrieval and chat operations over
// HTTP/JSON.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"triage/internal/compose"
	"triage/internal/diagnosis"
	"triage/internal/domain"
)

const (
	modelUnavailableMessage = "Le modèle n'a pas été entraîné."
	noSymptomsMessage       = "No symptoms provided for current step"
	noMessageMessage        = "No message provided"
	kbUnavailableMessage    = "Base de connaissances non disponible. Erreur de chargement des données."
	internalErrorMessage    = "Erreur interne du serveur."
)

// Interviewer runs one turn of a symptom interview.
type Interviewer interface {
	Submit(ctx context.Context, sessionID string, symptoms []string) (*diagnosis.Response, error)
}

// Chatter answers free-form questions.
type Chatter interface {
	Chat(ctx context.Context, message string) string
}

// Health reports readiness of the loaded models.
type Health struct {
	Status     string `json:"status"`
	Classifier bool   `json:"classifier"`
	Retriever  bool   `json:"retriever"`
	Records    int    `json:"records"`
}

// Handler serves the JSON endpoints.
type Handler struct {
	interviewer Interviewer
	retriever   domain.Retriever
	chatter     Chatter
	health      func() Health
}

// NewHandler wires the endpoints. A nil health func reports "ok" only.
func NewHandler(interviewer Interviewer, retriever domain.Retriever, chatter Chatter, health func() Health) *Handler {
	if health == nil {
		health = func() Health { return Health{Status: "ok"} }
	}
	return &Handler{interviewer: interviewer, retriever: retriever, chatter: chatter, health: health}
}

type predictRequest struct {
	SessionID string   `json:"session_id"`
	Symptoms  []string `json:"symptoms"`
}

type predictResponse struct {
	SessionID        string              `json:"session_id"`
	Message          string              `json:"message"`
	RequiresMoreInfo bool                `json:"requires_more_info"`
	Emergency        bool                `json:"emergency,omitempty"`
	NextQuestion     string              `json:"next_question,omitempty"`
	Diagnoses        *[]domain.Diagnosis `json:"diagnoses,omitempty"`
	Specialty        string              `json:"specialty,omitempty"`
	SuggestedDoctors []string            `json:"suggested_doctors,omitempty"`
}

// Predict handles POST /predict.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	resp, err := h.interviewer.Submit(r.Context(), req.SessionID, req.Symptoms)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNoSymptoms):
		respondWithError(w, http.StatusBadRequest, noSymptomsMessage)
		return
	case errors.Is(err, domain.ErrModelUnavailable):
		respondWithJSON(w, http.StatusInternalServerError, map[string]any{
			"error":              modelUnavailableMessage,
			"requires_more_info": false,
		})
		return
	default:
		log.Error().Err(err).Str("component", "http").Msg("predict failed")
		respondWithError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	out := predictResponse{
		SessionID:        resp.SessionID,
		Message:          resp.Message,
		RequiresMoreInfo: resp.RequiresMoreInfo(),
		Emergency:        resp.Outcome == diagnosis.OutcomeEmergency,
		NextQuestion:     resp.NextQuestion,
		Specialty:        resp.Specialty,
		SuggestedDoctors: resp.SuggestedDoctors,
	}
	if resp.Outcome == diagnosis.OutcomeDiagnosed {
		diagnoses := resp.Diagnoses
		if diagnoses == nil {
			diagnoses = []domain.Diagnosis{}
		}
		out.Diagnoses = &diagnoses
	}
	respondWithJSON(w, http.StatusOK, out)
}

type ragRequest struct {
	Query string `json:"query"`
}

// RAG handles POST /rag.
func (h *Handler) RAG(w http.ResponseWriter, r *http.Request) {
	var req ragRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	m, err := h.retriever.Query(r.Context(), req.Query)
	switch {
	case err == nil:
		respondWithJSON(w, http.StatusOK, MatchBody(m))
	case errors.Is(err, domain.ErrEmptyQuery):
		respondWithJSON(w, http.StatusOK, map[string]string{"response": compose.EmptyQueryMessage})
	case errors.Is(err, domain.ErrNoRelevantMatch):
		respondWithJSON(w, http.StatusOK, map[string]string{"response": compose.NoMatchMessage})
	default:
		if !errors.Is(err, domain.ErrRetrieverUnavailable) {
			log.Error().Err(err).Str("component", "http").Msg("retrieval failed")
		}
		respondWithError(w, http.StatusInternalServerError, kbUnavailableMessage)
	}
}

// MatchBody flattens a match into the retrieval response shape.
func MatchBody(m *domain.Match) map[string]any {
	body := map[string]any{
		"source":     string(m.Record.Source()),
		"similarite": m.Similarity,
	}
	for _, f := range m.Record.Fields() {
		body[f.Key] = f.Value
	}
	return body
}

type chatRequest struct {
	Message string `json:"message"`
}

// Chat handles POST /chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondWithError(w, http.StatusBadRequest, noMessageMessage)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": h.chatter.Chat(r.Context(), req.Message)})
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	respondWithJSON(w, http.StatusOK, h.health())
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warn().Err(err).Str("component", "http").Msg("encode response")
	}
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{"error": message})
}
