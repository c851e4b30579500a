// routes_chat.go - Chat-Completion Handler (OpenAI-kompatibel, SSE-Streaming)
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/smolchat/smolchat/api"
	"github.com/smolchat/smolchat/openai"
	"github.com/smolchat/smolchat/runner"
	"github.com/smolchat/smolchat/store"
	"github.com/smolchat/smolchat/template"
)

// chatHeader waehlt einen gespeicherten Chat; "new" legt einen neuen an
const chatHeader = "X-Smolchat-Chat"

var errMaxTokens = errors.New("max tokens reached")

// ChatCompletionsHandler bearbeitet POST /v1/chat/completions
func (s *Server) ChatCompletionsHandler(c *gin.Context) {
	var req openai.ChatCompletionRequest
	if err := c.ShouldBindJSON(&req); errors.Is(err, io.EOF) {
		c.AbortWithStatusJSON(http.StatusBadRequest, openai.NewError(http.StatusBadRequest, "missing request body"))
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, openai.NewError(http.StatusBadRequest, err.Error()))
		return
	}

	chatReq, err := openai.FromChatRequest(req)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, openai.NewError(http.StatusBadRequest, err.Error()))
		return
	}

	history, query, err := chatReq.Split()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, openai.NewError(http.StatusBadRequest, err.Error()))
		return
	}

	if chatReq.Model != "" && chatReq.Model != s.model {
		slog.Debug("request for other model, using loaded model", "requested", chatReq.Model, "model", s.model)
	}

	chatID, err := s.prepareChat(c.GetHeader(chatHeader), history, query)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.AbortWithStatusJSON(status, openai.NewError(status, err.Error()))
		return
	}
	if chatID != "" {
		c.Header(chatHeader, chatID)
	}

	id := "chatcmpl-" + uuid.NewString()
	ch := make(chan any)
	go func() {
		defer close(ch)
		s.chat(c.Request.Context(), ch, history, query, chatReq.MaxTokens, chatID)
	}()

	if req.Stream {
		s.streamChat(c, ch, id, req.StreamOptions)
		return
	}

	s.waitForChat(c, ch, id)
}

// prepareChat legt fuer header "new" einen Chat mit history an und gibt die Chat-ID zurueck
func (s *Server) prepareChat(header string, history []api.Message, query string) (string, error) {
	if header == "" || s.store == nil {
		return "", nil
	}

	if header != "new" {
		if _, err := s.store.Chat(header); err != nil {
			return "", err
		}
		return header, nil
	}

	chat := store.NewChat(store.Title(query))
	for _, m := range history {
		chat.Messages = append(chat.Messages, store.NewMessage(m.Role, m.Content))
	}
	if err := s.store.SaveChat(&chat); err != nil {
		return "", err
	}
	return chat.ID, nil
}

// chat fuehrt einen Turn aus und sendet api.ChatResponse Stuecke bzw. gin.H Fehler an ch
func (s *Server) chat(ctx context.Context, ch chan<- any, history []api.Message, query string, maxTokens int, chatID string) {
	send := func(v any) error {
		select {
		case ch <- v:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.metrics.Waiting.Inc()
	err := s.sem.Acquire(ctx, 1)
	s.metrics.Waiting.Dec()
	if err != nil {
		return
	}
	defer s.sem.Release(1)

	if !slices.Equal(s.session.History(), history) {
		if err := s.restoreHistory(history); err != nil {
			send(s.errorResponse(err))
			return
		}
	}

	resp, err := s.session.Complete(ctx, query, func(piece string) error {
		if err := send(api.ChatResponse{
			Model:     s.model,
			CreatedAt: time.Now(),
			Message:   api.Message{Role: api.RoleAssistant, Content: piece},
		}); err != nil {
			return err
		}

		if maxTokens > 0 && s.session.Stats().Tokens >= maxTokens {
			return errMaxTokens
		}
		return nil
	})

	doneReason := api.DoneReasonStop
	switch {
	case errors.Is(err, errMaxTokens):
		doneReason = api.DoneReasonLength
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		slog.Info("chat request cancelled", "tokens", resp.Metrics.EvalCount)
		return
	case err != nil:
		send(s.errorResponse(err))
		return
	}

	s.metrics.PromptTokens.Add(float64(resp.Metrics.PromptEvalCount))
	s.metrics.GeneratedTokens.Add(float64(resp.Metrics.EvalCount))
	s.metrics.ContextUsed.Set(float64(resp.Metrics.ContextUsed))
	if resp.Metrics.TokensPerSecond > 0 {
		s.metrics.TokensPerSecond.Observe(resp.Metrics.TokensPerSecond)
	}

	if chatID != "" {
		if err := s.store.AppendMessages(chatID, store.NewMessage(api.RoleUser, query), store.NewMessage(api.RoleAssistant, resp.Text)); err != nil {
			slog.Warn("failed to save chat", "chat", chatID, "error", err)
		}
	}

	send(api.ChatResponse{
		Model:      s.model,
		CreatedAt:  time.Now(),
		Message:    api.Message{Role: api.RoleAssistant, Content: resp.Text},
		Done:       true,
		DoneReason: doneReason,
		Metrics:    resp.Metrics,
	})
}

// restoreHistory ersetzt die History der Session durch history
func (s *Server) restoreHistory(history []api.Message) error {
	if err := s.session.ResetHistory(); err != nil {
		return err
	}

	for _, m := range history {
		if err := s.session.AddMessage(m.Role, m.Content); err != nil {
			return err
		}
	}

	slog.Debug("session history restored", "messages", len(history))
	return nil
}

// errorResponse bildet Session-Fehler auf HTTP-Status und OpenAI-Fehler ab
func (s *Server) errorResponse(err error) gin.H {
	status, kind := http.StatusInternalServerError, "internal"
	var code string

	switch {
	case errors.Is(err, runner.ErrContextOverflow):
		status, kind, code = http.StatusBadRequest, "context_overflow", openai.ErrCodeContextLength
	case errors.Is(err, template.ErrTemplate):
		kind = "template"
	case errors.Is(err, runner.ErrDecode):
		kind = "decode"
	case errors.Is(err, runner.ErrBusy), errors.Is(err, runner.ErrEngineBusy):
		status, kind = http.StatusServiceUnavailable, "busy"
	}

	s.metrics.CompletionErrors.WithLabelValues(kind).Inc()
	slog.Error("chat completion failed", "kind", kind, "error", err)

	return gin.H{"status": status, "error": err.Error(), "code": code}
}

func errorFromH(h gin.H) (int, openai.ErrorResponse) {
	status, ok := h["status"].(int)
	if !ok {
		status = http.StatusInternalServerError
	}

	msg, ok := h["error"].(string)
	if !ok {
		msg = "unknown error"
	}

	e := openai.NewError(status, msg)
	if code, ok := h["code"].(string); ok && code != "" {
		e = e.WithCode(code)
	}
	return status, e
}

// waitForChat sammelt den Turn und antwortet mit einer ChatCompletion
func (s *Server) waitForChat(c *gin.Context, ch chan any, id string) {
	var final *api.ChatResponse
	for resp := range ch {
		switch r := resp.(type) {
		case api.ChatResponse:
			if r.Done {
				final = &r
			}
		case gin.H:
			c.AbortWithStatusJSON(errorFromH(r))
			return
		}
	}

	if final == nil {
		// Request wurde abgebrochen
		c.Status(499)
		return
	}

	c.JSON(http.StatusOK, openai.ToChatCompletion(id, *final))
}

// streamChat sendet den Turn als Server-Sent Events im OpenAI-Chunk-Format
func (s *Server) streamChat(c *gin.Context, ch chan any, id string, opts *openai.StreamOptions) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")

	writeEvent := func(w io.Writer, v any) bool {
		d, err := json.Marshal(v)
		if err != nil {
			slog.Info(fmt.Sprintf("streamChat: json.Marshal failed with %s", err))
			return false
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", d); err != nil {
			slog.Info(fmt.Sprintf("streamChat: write failed with %s", err))
			return false
		}
		return true
	}

	c.Stream(func(w io.Writer) bool {
		val, ok := <-ch
		if !ok {
			return false
		}

		switch r := val.(type) {
		case gin.H:
			status, e := errorFromH(r)
			if !c.Writer.Written() {
				c.Header("Content-Type", "application/json")
				c.AbortWithStatusJSON(status, e)
				return false
			}
			writeEvent(w, e)
			return false
		case api.ChatResponse:
			if !r.Done {
				return writeEvent(w, openai.ToChunk(id, r))
			}

			// der Text wurde bereits gestreamt
			r.Message.Content = ""
			if !writeEvent(w, openai.ToChunk(id, r)) {
				return false
			}
			if opts != nil && opts.IncludeUsage {
				if !writeEvent(w, openai.ToUsageChunk(id, r)) {
					return false
				}
			}
			if _, err := io.WriteString(w, "data: [DONE]\n\n"); err != nil {
				return false
			}
			return true
		}

		return true
	})
}
