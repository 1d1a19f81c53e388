package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		ChatModel:  "test/chat-model",
		ImageModel: "test/image-model",
		SiteURL:    "https://ramadanhub.app",
		SiteName:   "RamadanHub AI",
	})
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestChatCompletion(t *testing.T) {
	var gotAuth, gotReferer, gotTitle string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReferer = r.Header.Get("HTTP-Referer")
		gotTitle = r.Header.Get("X-Title")

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test/chat-model", req["model"])

		fmt.Fprint(w, `{"choices":[{"message":{"content":"Ramadan Mubarak!"}}]}`)
	})

	reply, err := c.ChatCompletion(context.Background(), "sys", "hello")
	require.NoError(t, err)
	assert.Equal(t, "Ramadan Mubarak!", reply)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "https://ramadanhub.app", gotReferer)
	assert.Equal(t, "RamadanHub AI", gotTitle)
}

func TestChatCompletionAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":{"message":"model overloaded"}}`)
	})

	_, err := c.ChatCompletion(context.Background(), "sys", "hello")
	assert.ErrorContains(t, err, "model overloaded")
}

func TestChatJSONReturnsRawMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		rf, _ := req["response_format"].(map[string]any)
		assert.Equal(t, "json_object", rf["type"])

		fmt.Fprint(w, `{"choices":[{"message":{"content":"{\"days\":[]}"}}]}`)
	})

	raw, err := c.ChatJSON(context.Background(), "sys", "plan")
	require.NoError(t, err)
	assert.JSONEq(t, `{"days":[]}`, string(raw))
}

func TestGenerateImage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/images/generations", r.URL.Path)
		fmt.Fprint(w, `{"data":[{"b64_json":"aGVsbG8="}]}`)
	})

	img, err := c.GenerateImage(context.Background(), "a family portrait")
	require.NoError(t, err)
	assert.Equal(t, "aGVsbG8=", img.Base64)
	assert.Equal(t, "image/png", img.MimeType)
}

func TestStreamChatCollectsDeltas(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n\n")
		fmt.Fprint(w, ": keep-alive comment\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	var deltas []string
	full, err := c.StreamChat(context.Background(), "sys", "hi", func(d string) {
		deltas = append(deltas, d)
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello", full)
	assert.Equal(t, []string{"Hel", "lo"}, deltas)
}

func TestPostJSONRetriesTransientFailures(t *testing.T) {
	attempts := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"choices":[{"message":{"content":"ok"}}]}`)
	})

	reply, err := c.ChatCompletion(context.Background(), "sys", "hello")
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
	assert.Equal(t, 2, attempts)
}

func TestPostJSONDoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"bad prompt"}}`)
	})

	_, err := c.ChatCompletion(context.Background(), "sys", "hello")
	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestListModels(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		fmt.Fprint(w, `{"data":[{"id":"openai/gpt-4o-mini","name":"GPT-4o mini","context_length":128000}]}`)
	})

	models, err := c.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "openai/gpt-4o-mini", models[0].ID)
	assert.Equal(t, 128000, models[0].Context)
}
