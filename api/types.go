// types.go - Core API Types (Nachrichten, Rollen, Metriken)
// Enthaelt: Role, Message, Metrics
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Role ist die Rolle einer Chat-Nachricht
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ParseRole wandelt einen String (case-insensitiv) in eine Role um
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleUser, RoleAssistant, RoleSystem:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string {
	return string(r)
}

// Message is a single message in a chat sequence.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

func (m *Message) UnmarshalJSON(b []byte) error {
	type Alias Message
	var a Alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}

	*m = Message(a)
	m.Role = Role(strings.ToLower(string(m.Role)))
	return nil
}

// Metrics enthaelt Performance-Metriken eines Chat-Turns
type Metrics struct {
	TotalDuration   time.Duration `json:"total_duration,omitempty"`
	PromptEvalCount int           `json:"prompt_eval_count,omitempty"`
	EvalCount       int           `json:"eval_count,omitempty"`
	EvalDuration    time.Duration `json:"eval_duration,omitempty"`
	ContextUsed     int           `json:"context_used,omitempty"`
	TokensPerSecond float64       `json:"tokens_per_second,omitempty"`
}

// Summary schreibt die Metriken menschenlesbar nach w
func (m *Metrics) Summary(w io.Writer) {
	if m.TotalDuration > 0 {
		fmt.Fprintf(w, "total duration:       %v\n", m.TotalDuration)
	}

	if m.PromptEvalCount > 0 {
		fmt.Fprintf(w, "prompt eval count:    %d token(s)\n", m.PromptEvalCount)
	}

	if m.EvalCount > 0 {
		fmt.Fprintf(w, "eval count:           %d token(s)\n", m.EvalCount)
	}

	if m.EvalDuration > 0 {
		fmt.Fprintf(w, "eval duration:        %s\n", m.EvalDuration)
		fmt.Fprintf(w, "eval rate:            %.2f tokens/s\n", m.TokensPerSecond)
	}

	if m.ContextUsed > 0 {
		fmt.Fprintf(w, "context used:         %d cell(s)\n", m.ContextUsed)
	}
}
