package suggest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiveGeneratorComplete(t *testing.T) {
	var captured chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "generated text"}},
			},
		})
	}))
	defer srv.Close()

	gen := NewLiveGenerator()
	settings := Settings{APIKey: "test-key", BaseURL: srv.URL, Model: "test-model"}

	got, err := gen.Complete(context.Background(), settings, "system prompt", "user prompt", 300)
	require.NoError(t, err)
	assert.Equal(t, "generated text", got)

	assert.Equal(t, "test-model", captured.Model)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "system prompt", captured.Messages[0].Content)
	assert.Equal(t, "user", captured.Messages[1].Role)
	assert.Equal(t, 300, captured.MaxTokens)
}

func TestLiveGeneratorCompleteFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "upstream unavailable", http.StatusBadGateway)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			},
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"choices":[]}`))
			},
		},
		{
			name: "empty content",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":""}}]}`))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			gen := NewLiveGenerator()
			settings := Settings{APIKey: "test-key", BaseURL: srv.URL, Model: "test-model"}

			_, err := gen.Complete(context.Background(), settings, "system", "user", 300)
			require.Error(t, err)
			var genErr *GenerationError
			assert.ErrorAs(t, err, &genErr)
		})
	}
}

func TestLiveGeneratorRespectsContextCancellation(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server can detect the client disconnect
		// and cancel the request context; otherwise this handler (and the
		// deferred srv.Close) would block forever.
		io.Copy(io.Discard, r.Body)
		close(started)
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	gen := NewLiveGenerator()
	settings := Settings{APIKey: "test-key", BaseURL: srv.URL, Model: "test-model"}

	_, err := gen.Complete(ctx, settings, "system", "user", 300)
	require.Error(t, err)
	var genErr *GenerationError
	assert.ErrorAs(t, err, &genErr)
}
