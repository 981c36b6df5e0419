package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeOpenAI struct {
	mu       sync.Mutex
	models   []string
	requests []openai.ChatCompletionRequest
	// status per model; missing models answer 200 with reply
	status map[string]int
	reply  string
}

func (f *fakeOpenAI) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		f.mu.Lock()
		f.models = append(f.models, req.Model)
		f.requests = append(f.requests, req)
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if code, ok := f.status[req.Model]; ok {
			w.WriteHeader(code)
			fmt.Fprintf(w, `{"error":{"message":"upstream said %d for %s","type":"invalid_request_error"}}`, code, req.Model)
			return
		}
		fmt.Fprintf(w, `{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":%q,"choices":[{"index":0,"message":{"role":"assistant","content":%q},"finish_reason":"stop"}]}`, req.Model, f.reply)
	}
}

func newFakeOpenAIProvider(t *testing.T, f *fakeOpenAI, models ...string) *OpenAIProvider {
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)
	return NewOpenAIProvider("sk-test", srv.URL+"/v1", models, zap.NewNop())
}

func TestOpenAIAttempt_NotFoundAdvancesToNextModel(t *testing.T) {
	f := &fakeOpenAI{status: map[string]int{"gpt-retired": http.StatusNotFound}, reply: "done"}
	p := newFakeOpenAIProvider(t, f, "gpt-retired", "gpt-4o-mini")

	resp, err := p.Attempt(context.Background(), &Request{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, []string{"gpt-retired", "gpt-4o-mini"}, f.models)
	assert.Equal(t, "gpt-4o-mini", resp.Model)
	assert.Equal(t, NameOpenAI, resp.Provider)
	assert.Equal(t, "done", resp.Text)
}

func TestOpenAIAttempt_AllFailPreservesLastMessage(t *testing.T) {
	f := &fakeOpenAI{status: map[string]int{
		"gpt-a": http.StatusNotFound,
		"gpt-b": http.StatusTooManyRequests,
	}}
	p := newFakeOpenAIProvider(t, f, "gpt-a", "gpt-b")

	_, err := p.Attempt(context.Background(), &Request{Prompt: "hi"})
	require.Error(t, err)
	assert.Equal(t, []string{"gpt-a", "gpt-b"}, f.models)
	assert.Contains(t, err.Error(), "upstream said 429 for gpt-b")

	var modelErr *ModelError
	require.True(t, errors.As(err, &modelErr))
	assert.Equal(t, "gpt-b", modelErr.Model)
	assert.False(t, modelErr.NotFound)
}

func TestOpenAIAttempt_TranslatesGenerationParams(t *testing.T) {
	f := &fakeOpenAI{reply: "ok"}
	p := newFakeOpenAIProvider(t, f, "gpt-4o-mini")

	_, err := p.Attempt(context.Background(), &Request{
		SystemInstruction: "be brief",
		Prompt:            "hi",
		Generation:        GenerationConfig{Temperature: 0.5, MaxOutputTokens: 100},
	})
	require.NoError(t, err)
	require.Len(t, f.requests, 1)

	got := f.requests[0]
	assert.Equal(t, float32(0.5), got.Temperature)
	assert.Equal(t, 100, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, got.Messages[0].Role)
	assert.Equal(t, "be brief", got.Messages[0].Content)
	assert.Equal(t, "hi", got.Messages[1].Content)
}

func TestOpenAIConfigured(t *testing.T) {
	assert.True(t, NewOpenAIProvider("sk-live", "", nil, nil).Configured())
	assert.False(t, NewOpenAIProvider("your-openai-key", "", nil, nil).Configured())
}

func TestBuildOpenAIMessagesWithImage(t *testing.T) {
	msgs := BuildOpenAIMessages(&Request{
		SystemInstruction: "sys",
		Prompt:            "describe",
		Image:             &InlineImage{MIMEType: "image/png", Data: []byte("hello")},
	})
	require.Len(t, msgs, 2)

	user := msgs[1]
	assert.Empty(t, user.Content)
	require.Len(t, user.MultiContent, 2)
	assert.Equal(t, openai.ChatMessagePartTypeText, user.MultiContent[0].Type)
	assert.Equal(t, "describe", user.MultiContent[0].Text)
	require.NotNil(t, user.MultiContent[1].ImageURL)
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", user.MultiContent[1].ImageURL.URL)
}
