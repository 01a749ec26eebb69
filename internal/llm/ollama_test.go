package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelichko/tg-digest/internal/config"
)

func ollamaServer(t *testing.T, handler http.HandlerFunc) *OllamaProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOllama(config.OllamaConfig{
		BaseURL:     srv.URL,
		Model:       "mistral:latest",
		Temperature: 0.3,
		TopP:        0.9,
	})
}

func TestOllamaComplete(t *testing.T) {
	var gotReq ollamaRequest
	p := ollamaServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(ollamaResponse{
			Message: ollamaMessage{Role: "assistant", Content: `{"urgent": []}`},
		})
	})

	got, err := p.Complete(context.Background(), "summarize this")
	require.NoError(t, err)
	assert.Equal(t, `{"urgent": []}`, got)

	assert.Equal(t, "mistral:latest", gotReq.Model)
	assert.Equal(t, "json", gotReq.Format)
	assert.False(t, gotReq.Stream)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.Equal(t, "summarize this", gotReq.Messages[0].Content)
}

func TestOllamaAPIError(t *testing.T) {
	p := ollamaServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaResponse{Error: "model not found"})
	})

	_, err := p.Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
}

func TestOllamaHTTPError(t *testing.T) {
	p := ollamaServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := p.Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestOllamaEmptyResponse(t *testing.T) {
	p := ollamaServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaResponse{})
	})

	_, err := p.Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}

func TestOllamaUnreachable(t *testing.T) {
	p := NewOllama(config.OllamaConfig{BaseURL: "http://127.0.0.1:1", Model: "m"})

	_, err := p.Complete(context.Background(), "prompt")
	assert.Error(t, err)
}
