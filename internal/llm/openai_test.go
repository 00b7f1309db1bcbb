package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const completion = `{"id":"c1","object":"chat.completion","created":1,"model":"m","choices":[{"index":0,"message":{"role":"assistant","content":"Bonjour, consultez un médecin."},"finish_reason":"stop"}]}`

func newClient(t *testing.T, url string) *OpenAIClient {
	t.Helper()
	t.Setenv("TRIAGE_TEST_KEY", "sk-test")
	c, err := NewOpenAIClient(Config{BaseURL: url + "/v1/", APIKeyEnv: "TRIAGE_TEST_KEY", Model: "test-model", MaxRetries: 2})
	require.NoError(t, err)
	c.baseDelay = time.Millisecond
	return c
}

func TestGenerate(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completion))
	}))
	defer srv.Close()

	out, err := newClient(t, srv.URL).Generate(context.Background(), "symptômes: toux")
	require.NoError(t, err)
	assert.Equal(t, "Bonjour, consultez un médecin.", out)
	assert.Equal(t, "test-model", got["model"])
}

func TestGenerateRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
			return
		}
		_, _ = w.Write([]byte(completion))
	}))
	defer srv.Close()

	out, err := newClient(t, srv.URL).Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestGenerateDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).Generate(context.Background(), "prompt")
	assert.Error(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestMissingKey(t *testing.T) {
	t.Setenv("TRIAGE_EMPTY_KEY", "")
	_, err := NewOpenAIClient(Config{APIKeyEnv: "TRIAGE_EMPTY_KEY"})
	assert.ErrorContains(t, err, "TRIAGE_EMPTY_KEY")
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.Generate(context.Background(), "x")
	assert.ErrorIs(t, err, ErrDisabled)
}
