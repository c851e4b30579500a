// openai_from.go - Konvertierungsfunktionen von OpenAI-Format zu API-Format
//
// Enthaelt:
// - FromChatRequest: Chat-Completion Request konvertieren
// - fromContent: String- oder Part-Content in Text umwandeln
//
// Verwandte Dateien:
// - openai_types.go: Typdefinitionen
// - openai_to.go: Konvertierung API -> OpenAI Format
package openai

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/smolchat/smolchat/api"
)

// FromChatRequest konvertiert einen ChatCompletionRequest zu api.ChatRequest
func FromChatRequest(r ChatCompletionRequest) (*api.ChatRequest, error) {
	if len(r.Messages) == 0 {
		return nil, errors.New("[] is too short - 'messages'")
	}

	messages := make([]api.Message, 0, len(r.Messages))
	for i, msg := range r.Messages {
		role := msg.Role
		if strings.EqualFold(role, "developer") {
			role = string(api.RoleSystem)
		}

		parsed, err := api.ParseRole(role)
		if err != nil {
			return nil, fmt.Errorf("messages[%d]: %w", i, err)
		}

		content, err := fromContent(msg.Content)
		if err != nil {
			return nil, fmt.Errorf("messages[%d]: %w", i, err)
		}

		messages = append(messages, api.Message{Role: parsed, Content: content})
	}

	var maxTokens int
	switch {
	case r.MaxCompletionTokens != nil:
		maxTokens = *r.MaxCompletionTokens
	case r.MaxTokens != nil:
		maxTokens = *r.MaxTokens
	}
	if maxTokens < 0 {
		return nil, fmt.Errorf("max_tokens must not be negative, got %d", maxTokens)
	}

	if r.Temperature != nil || r.TopP != nil || r.MinP != nil || r.Seed != nil || r.Stop != nil {
		slog.Debug("ignoring per-request sampling options, sampling is configured at load time")
	}

	return &api.ChatRequest{
		Model:     r.Model,
		Messages:  messages,
		Stream:    r.Stream,
		MaxTokens: maxTokens,
	}, nil
}

// fromContent wandelt String-Content oder eine Liste von Text-Parts in Text um
func fromContent(content any) (string, error) {
	switch content := content.(type) {
	case nil:
		return "", nil
	case string:
		return content, nil
	case []any:
		var sb strings.Builder
		for _, c := range content {
			data, ok := c.(map[string]any)
			if !ok {
				return "", errors.New("invalid message format")
			}

			switch data["type"] {
			case "text":
				text, ok := data["text"].(string)
				if !ok {
					return "", errors.New("invalid message format")
				}
				sb.WriteString(text)
			default:
				return "", fmt.Errorf("unsupported content type %v", data["type"])
			}
		}
		return sb.String(), nil
	default:
		return "", errors.New("invalid message content type")
	}
}
