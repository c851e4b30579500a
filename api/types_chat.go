// types_chat.go - Chat Request/Response Typen
// Enthaelt: ChatRequest, ChatResponse, DoneReason Konstanten

package api

import (
	"errors"
	"time"
)

const (
	// DoneReasonStop: das Modell hat die Generierung beendet
	DoneReasonStop = "stop"

	// DoneReasonLength: die maximale Anzahl Token wurde erreicht
	DoneReasonLength = "length"
)

// ChatRequest ist ein Chat-Turn: eine History und die neue Nutzereingabe als letzte Nachricht
type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`

	// MaxTokens begrenzt die Antwort; 0 bedeutet unbegrenzt
	MaxTokens int `json:"max_tokens,omitempty"`
}

// Split trennt die History von der neuen Nutzereingabe
func (r *ChatRequest) Split() (history []Message, query string, err error) {
	if len(r.Messages) == 0 {
		return nil, "", errors.New("messages must not be empty")
	}

	last := r.Messages[len(r.Messages)-1]
	if last.Role != RoleUser {
		return nil, "", errors.New("last message must have role user")
	}

	return r.Messages[:len(r.Messages)-1], last.Content, nil
}

// ChatResponse ist die Antwort (oder ein Teil davon beim Streaming) auf einen ChatRequest
type ChatResponse struct {
	Model      string    `json:"model"`
	CreatedAt  time.Time `json:"created_at"`
	Message    Message   `json:"message"`
	Done       bool      `json:"done"`
	DoneReason string    `json:"done_reason,omitempty"`

	Metrics
}
