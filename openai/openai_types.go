// openai_types.go - Typdefinitionen fuer die OpenAI-kompatible Chat-API
//
// Enthaelt:
// - Error und ErrorResponse Typen
// - Message, Choice und ChunkChoice Typen
// - Request- und Response-Strukturen fuer Chat-Completions
// - Header, Usage, Model und ListCompletion
//
// Verwandte Dateien:
// - openai_to.go: Konvertierung API -> OpenAI Format
// - openai_from.go: Konvertierung OpenAI -> API Format
package openai

import (
	"net/http"
)

// ErrCodeContextLength ist der OpenAI-Fehlercode fuer ein ueberlaufendes Kontextfenster
const ErrCodeContextLength = "context_length_exceeded"

// Error repraesentiert einen OpenAI-kompatiblen Fehler
type Error struct {
	Message string  `json:"message"`
	Type    string  `json:"type"`
	Param   any     `json:"param"`
	Code    *string `json:"code"`
}

// ErrorResponse ist die Wrapper-Struktur fuer Fehlerantworten
type ErrorResponse struct {
	Error Error `json:"error"`
}

// Message repraesentiert eine Chat-Nachricht.
// Content ist entweder ein String oder eine Liste von Content-Parts.
type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
	Name    string `json:"name,omitempty"`
}

// Choice repraesentiert eine Antwort-Option bei Chat-Completions
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason *string `json:"finish_reason"`
}

// ChunkChoice repraesentiert eine Antwort-Option beim Streaming
type ChunkChoice struct {
	Index        int     `json:"index"`
	Delta        Message `json:"delta"`
	FinishReason *string `json:"finish_reason"`
}

// Usage enthaelt Token-Verbrauchsinformationen
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// StreamOptions fuer Streaming-Konfiguration
type StreamOptions struct {
	IncludeUsage bool `json:"include_usage"`
}

// ChatCompletionRequest ist ein Request fuer Chat-Completions.
// Sampling-Parameter werden beim Laden des Modells festgelegt und hier nur akzeptiert.
type ChatCompletionRequest struct {
	Model               string         `json:"model"`
	Messages            []Message      `json:"messages"`
	Stream              bool           `json:"stream"`
	StreamOptions       *StreamOptions `json:"stream_options"`
	MaxTokens           *int           `json:"max_tokens"`
	MaxCompletionTokens *int           `json:"max_completion_tokens"`
	Seed                *int           `json:"seed"`
	Stop                any            `json:"stop"`
	Temperature         *float64       `json:"temperature"`
	TopP                *float64       `json:"top_p"`
	MinP                *float64       `json:"min_p"`
}

// Header sind die gemeinsamen Felder von Antworten und Streaming-Chunks
type Header struct {
	ID                string `json:"id"`
	Object            string `json:"object"`
	Created           int64  `json:"created"`
	Model             string `json:"model"`
	SystemFingerprint string `json:"system_fingerprint"`
}

// ChatCompletion ist die vollstaendige Antwort ohne Streaming
type ChatCompletion struct {
	Header
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage,omitempty"`
}

// ChatCompletionChunk ist ein Server-Sent-Event beim Streaming.
// Der letzte Chunk traegt nur Usage und keine Choices.
type ChatCompletionChunk struct {
	Header
	Choices []ChunkChoice `json:"choices"`
	Usage   *Usage        `json:"usage,omitempty"`
}

// Model ist ein Eintrag in /v1/models
type Model struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// ListCompletion ist die Antwort von /v1/models
type ListCompletion struct {
	Object string  `json:"object"`
	Data   []Model `json:"data"`
}

// errorTypes bildet HTTP-Status auf OpenAI-Fehlertypen ab
var errorTypes = map[int]string{
	http.StatusBadRequest:         "invalid_request_error",
	http.StatusNotFound:           "not_found_error",
	http.StatusServiceUnavailable: "server_busy_error",
}

// NewError baut eine Fehlerantwort; unbekannte Status ergeben "api_error"
func NewError(status int, message string) ErrorResponse {
	etype, ok := errorTypes[status]
	if !ok {
		etype = "api_error"
	}
	return ErrorResponse{Error{Type: etype, Message: message}}
}

// WithCode setzt den maschinenlesbaren Fehlercode
func (e ErrorResponse) WithCode(code string) ErrorResponse {
	e.Error.Code = &code
	return e
}
