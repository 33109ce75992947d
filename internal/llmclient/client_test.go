package llmclient

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatReturnsMessageContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1","choices":[{"index":0,"message":{"role":"assistant","content":"hello there"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-model")
	resp, err := c.Chat(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello there", resp.Text)
	assert.Equal(t, "stop", resp.FinishReason)
}

func TestChatSendsBearerTokenWhenConfigured(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "m").WithToken("secret-token")
	_, err := c.Chat(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-token", gotAuth)
}

func TestChatReturnsErrorOnNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad model", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "m")
	_, err := c.Chat(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}}, nil)
	require.Error(t, err)
}

func TestChatStreamEmitsDeltasAndTerminatesOnDone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher, _ := w.(http.Flusher)
		bw := bufio.NewWriter(w)
		bw.WriteString("data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n\n")
		bw.Flush()
		if flusher != nil {
			flusher.Flush()
		}
		bw.WriteString("data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n\n")
		bw.Flush()
		if flusher != nil {
			flusher.Flush()
		}
		bw.WriteString("data: [DONE]\n\n")
		bw.Flush()
		if flusher != nil {
			flusher.Flush()
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "m")
	chunks, err := c.ChatStream(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}}, nil)
	require.NoError(t, err)

	var out string
	doneSeen := false
	for chunk := range chunks {
		require.NoError(t, chunk.Err)
		if chunk.Done {
			doneSeen = true
			continue
		}
		out += chunk.Content
	}
	assert.Equal(t, "Hello", out)
	assert.True(t, doneSeen)
}

func TestListModelsParsesDataArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		w.Write([]byte(`{"data":[{"id":"model-a"},{"id":"model-b"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	models, err := c.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"model-a", "model-b"}, models)
}

func TestHealthCheckFallsBackToModelsEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	assert.NoError(t, c.HealthCheck(context.Background()))
}
