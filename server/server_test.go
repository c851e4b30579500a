package server

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smolchat/smolchat/api"
	"github.com/smolchat/smolchat/engine"
	"github.com/smolchat/smolchat/engine/bytegram"
	"github.com/smolchat/smolchat/openai"
	"github.com/smolchat/smolchat/runner"
	"github.com/smolchat/smolchat/store"
)

const corpus = `<|im_start|>user
Hallo<|im_end|>
<|im_start|>assistant
Hallo! Wie kann ich helfen?<|im_end|>

<|im_start|>user
Wie gehts?<|im_end|>
<|im_start|>assistant
Gut, danke.<|im_end|>`

func newTestServer(t *testing.T, numCtx int, st *store.Store) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := bytegram.New("test", []byte(corpus), bytegram.Params{NumCtx: numCtx, NumThread: 1, Temperature: 0.7, MinP: 0.05, Seed: 7})
	t.Cleanup(func() { m.Close() })

	sess, err := runner.Load(engine.NewHandle(m), api.Options{StoreChats: true})
	require.NoError(t, err)

	s, err := New(Config{Session: sess, Model: m.Info().Description, Store: st})
	require.NoError(t, err)
	return s
}

func do(t *testing.T, h http.Handler, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(&recorder{w}, req)
	return w
}

// recorder ergaenzt httptest.ResponseRecorder um CloseNotify fuer gin.Context.Stream
type recorder struct {
	*httptest.ResponseRecorder
}

func (r *recorder) CloseNotify() <-chan bool {
	return make(chan bool)
}

func TestNewRequiresSession(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, 512, nil).GenerateRoutes()

	w := do(t, h, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "smolchat is running", w.Body.String())

	w = do(t, h, http.MethodGet, "/api/version", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"version":"0.0.0"}`, w.Body.String())
}

func TestModels(t *testing.T) {
	h := newTestServer(t, 512, nil).GenerateRoutes()

	w := do(t, h, http.MethodGet, "/v1/models", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list openai.ListCompletion
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, "bytegram test", list.Data[0].ID)

	w = do(t, h, http.MethodGet, "/v1/models/bytegram%20test", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodGet, "/v1/models/gpt-4", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChatCompletion(t *testing.T) {
	s := newTestServer(t, 512, nil)
	h := s.GenerateRoutes()

	body := `{"model":"bytegram test","max_tokens":8,"messages":[{"role":"user","content":"Hallo"}]}`
	w := do(t, h, http.MethodPost, "/v1/chat/completions", body, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp openai.ChatCompletion
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, strings.HasPrefix(resp.ID, "chatcmpl-"))
	assert.Equal(t, "chat.completion", resp.Object)
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "assistant", resp.Choices[0].Message.Role)
	require.NotNil(t, resp.Choices[0].FinishReason)
	assert.Contains(t, []string{"stop", "length"}, *resp.Choices[0].FinishReason)
	assert.LessOrEqual(t, resp.Usage.CompletionTokens, 8)
	assert.Greater(t, resp.Usage.PromptTokens, 0)

	// Die Session behaelt den Turn fuer den naechsten Request
	history := s.session.History()
	require.Len(t, history, 2)
	assert.Equal(t, api.Message{Role: api.RoleUser, Content: "Hallo"}, history[0])
	assert.Equal(t, resp.Choices[0].Message.Content, history[1].Content)
	assert.Equal(t, runner.StateIdle, s.session.State())
}

func TestChatCompletionReplacesHistory(t *testing.T) {
	s := newTestServer(t, 1024, nil)
	h := s.GenerateRoutes()

	first := `{"max_tokens":4,"messages":[{"role":"user","content":"Hallo"}]}`
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/v1/chat/completions", first, nil).Code)

	second := `{"max_tokens":4,"messages":[{"role":"system","content":"kurz"},{"role":"user","content":"eins"},{"role":"assistant","content":"zwei"},{"role":"user","content":"drei"}]}`
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/v1/chat/completions", second, nil).Code)

	history := s.session.History()
	require.Len(t, history, 5)
	assert.Equal(t, []api.Message{
		{Role: api.RoleSystem, Content: "kurz"},
		{Role: api.RoleUser, Content: "eins"},
		{Role: api.RoleAssistant, Content: "zwei"},
		{Role: api.RoleUser, Content: "drei"},
	}, history[:4])
}

func TestChatCompletionStream(t *testing.T) {
	h := newTestServer(t, 512, nil).GenerateRoutes()

	body := `{"stream":true,"stream_options":{"include_usage":true},"max_tokens":6,"messages":[{"role":"user","content":"Wie gehts?"}]}`
	w := do(t, h, http.MethodPost, "/v1/chat/completions", body, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasSuffix(w.Body.String(), "data: [DONE]\n\n"), w.Body.String())

	var chunks []openai.ChatCompletionChunk
	sc := bufio.NewScanner(bytes.NewReader(w.Body.Bytes()))
	for sc.Scan() {
		line, ok := strings.CutPrefix(sc.Text(), "data: ")
		if !ok || line == "[DONE]" {
			continue
		}

		var c openai.ChatCompletionChunk
		require.NoError(t, json.Unmarshal([]byte(line), &c))
		chunks = append(chunks, c)
	}

	// mindestens Abschluss-Chunk und Usage-Chunk
	require.GreaterOrEqual(t, len(chunks), 2)

	usage := chunks[len(chunks)-1]
	assert.Empty(t, usage.Choices)
	require.NotNil(t, usage.Usage)

	last := chunks[len(chunks)-2]
	require.Len(t, last.Choices, 1)
	require.NotNil(t, last.Choices[0].FinishReason)

	var text strings.Builder
	for _, c := range chunks[:len(chunks)-2] {
		require.Len(t, c.Choices, 1)
		assert.Nil(t, c.Choices[0].FinishReason)
		text.WriteString(c.Choices[0].Delta.Content.(string))
	}
	assert.LessOrEqual(t, usage.Usage.CompletionTokens, 6)
	assert.True(t, utf8.ValidString(text.String()), "Text %q", text.String())
}

func TestChatCompletionContextOverflow(t *testing.T) {
	h := newTestServer(t, 32, nil).GenerateRoutes()

	body := `{"messages":[{"role":"user","content":"` + strings.Repeat("x", 100) + `"}]}`
	w := do(t, h, http.MethodPost, "/v1/chat/completions", body, nil)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	var e openai.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	require.NotNil(t, e.Error.Code)
	assert.Equal(t, openai.ErrCodeContextLength, *e.Error.Code)
	assert.Equal(t, "invalid_request_error", e.Error.Type)

	// Die Session bleibt benutzbar
	body = `{"max_tokens":2,"messages":[{"role":"user","content":"hi"}]}`
	w = do(t, h, http.MethodPost, "/v1/chat/completions", body, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestChatCompletionBadRequest(t *testing.T) {
	h := newTestServer(t, 256, nil).GenerateRoutes()

	tests := []struct {
		name string
		body string
	}{
		{"kein body", ""},
		{"kaputtes json", `{"messages":`},
		{"keine messages", `{"messages":[]}`},
		{"letzte nachricht assistant", `{"messages":[{"role":"user","content":"a"},{"role":"assistant","content":"b"}]}`},
		{"unbekannte rolle", `{"messages":[{"role":"robot","content":"a"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/v1/chat/completions", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

			var e openai.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
			assert.NotEmpty(t, e.Error.Message)
		})
	}
}

func TestChatCompletionStoresChat(t *testing.T) {
	st := &store.Store{DBPath: filepath.Join(t.TempDir(), "chats.sqlite")}
	t.Cleanup(func() { st.Close() })

	h := newTestServer(t, 512, st).GenerateRoutes()

	body := `{"max_tokens":4,"messages":[{"role":"system","content":"kurz"},{"role":"user","content":"Hallo"}]}`
	w := do(t, h, http.MethodPost, "/v1/chat/completions", body, map[string]string{chatHeader: "new"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	id := w.Header().Get(chatHeader)
	require.NotEmpty(t, id)

	chat, err := st.Chat(id)
	require.NoError(t, err)
	assert.Equal(t, "Hallo", chat.Title)
	require.Len(t, chat.Messages, 3)
	assert.Equal(t, api.RoleSystem, chat.Messages[0].Role)
	assert.Equal(t, api.RoleUser, chat.Messages[1].Role)
	assert.Equal(t, api.RoleAssistant, chat.Messages[2].Role)

	w = do(t, h, http.MethodPost, "/v1/chat/completions", body, map[string]string{chatHeader: "gibtsnicht"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetrics(t *testing.T) {
	h := newTestServer(t, 256, nil).GenerateRoutes()

	do(t, h, http.MethodGet, "/", "", nil)
	do(t, h, http.MethodPost, "/v1/chat/completions", `{"max_tokens":2,"messages":[{"role":"user","content":"hi"}]}`, nil)

	w := do(t, h, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	out := w.Body.String()
	assert.Contains(t, out, `smolchat_http_requests_total{code="200",route="/"} 1`)
	assert.Contains(t, out, "smolchat_prompt_tokens_total")
	assert.Contains(t, out, "go_goroutines")
}

func TestAllowedHost(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{"", true},
		{"localhost", true},
		{"LOCALHOST", true},
		{"box.local", true},
		{"svc.internal", true},
		{"example.com", false},
		{"localhost.example.com", false},
		{"127.0.0.1", true},
		{"[::1]", true},
		{"192.168.1.20", true},
		{"8.8.8.8", false},
	}

	for _, tt := range tests {
		if got := allowedHost(tt.host); got != tt.want {
			t.Errorf("allowedHost(%q) = %v, erwartet %v", tt.host, got, tt.want)
		}
	}
}
