package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/voicenav/pkg/llm"
)

func completionServer(t *testing.T, content string, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if seen != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "cmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewProvider(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_BASE_URL", "")

	_, err := NewProvider("")
	assert.Error(t, err)

	p, err := NewProvider("k")
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, p.GetModel())
	assert.Equal(t, DefaultBaseURL, p.GetBaseURL())

	t.Setenv("OPENAI_API_KEY", "env-key")
	t.Setenv("OPENAI_BASE_URL", "https://api.together.xyz/v1")
	p, err = NewProvider("", WithModel("meta-llama/Llama-3-8b-chat-hf"))
	require.NoError(t, err)
	assert.Equal(t, "https://api.together.xyz/v1", p.GetBaseURL())
	assert.Equal(t, "meta-llama/Llama-3-8b-chat-hf", p.GetModel())
}

func TestComplete(t *testing.T) {
	var body map[string]any
	srv := completionServer(t, "  `#login-btn`\n", &body)

	p, err := NewProvider("test-key", WithBaseURL(srv.URL+"/v1"), WithModel("test-model"), WithTimeout(5*time.Second))
	require.NoError(t, err)

	got, err := p.Complete(context.Background(), llm.Request{Prompt: "find the login button", MaxTokens: 100})
	require.NoError(t, err)
	assert.Equal(t, "`#login-btn`", got)

	assert.Equal(t, "test-model", body["model"])
	assert.EqualValues(t, 100, body["max_tokens"])
	assert.EqualValues(t, 0, body["temperature"])
	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 1)
	assert.Equal(t, "user", msgs[0].(map[string]any)["role"])
}

func TestCompleteEmpty(t *testing.T) {
	srv := completionServer(t, "   ", nil)
	p, err := NewProvider("test-key", WithBaseURL(srv.URL+"/v1"))
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), llm.Request{Prompt: "x"})
	assert.True(t, errors.Is(err, llm.ErrEmptyResponse))
}

func TestCompleteServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"bad request"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	p, err := NewProvider("test-key", WithBaseURL(srv.URL+"/v1"))
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), llm.Request{Prompt: "x"})
	assert.Error(t, err)
}
