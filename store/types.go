// Modul: types.go
// Beschreibung: Datentypen des Chat-Stores.
// Enthaelt Chat und Message.

package store

import (
	"strings"
	"time"

	"github.com/smolchat/smolchat/api"
)

type Message struct {
	Role      api.Role  `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMessage erstellt eine Message mit aktuellem Zeitstempel
func NewMessage(role api.Role, content string) Message {
	return Message{
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

type Chat struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	SystemPrompt string    `json:"system_prompt,omitempty"`
	Model        string    `json:"model,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Messages     []Message `json:"messages"`
}

// NewChat erstellt einen Chat ohne ID; die ID vergibt SaveChat
func NewChat(title string) Chat {
	now := time.Now()
	return Chat{
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  []Message{},
	}
}

// APIMessages wandelt die Messages in api.Message fuer Session.AddMessage um
func (c *Chat) APIMessages() []api.Message {
	msgs := make([]api.Message, 0, len(c.Messages))
	for _, m := range c.Messages {
		msgs = append(msgs, api.Message{Role: m.Role, Content: m.Content})
	}
	return msgs
}

// Excerpt gibt die erste User-Nachricht zurueck (leer wenn keine vorhanden)
func (c *Chat) Excerpt() string {
	for _, m := range c.Messages {
		if m.Role == api.RoleUser {
			return m.Content
		}
	}
	return ""
}

// titleLen ist die maximale Laenge eines Titels in Runen
const titleLen = 48

// Title leitet einen Chat-Titel aus der ersten Zeile von text ab
func Title(text string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	r := []rune(strings.TrimSpace(line))
	if len(r) <= titleLen {
		return string(r)
	}
	return string(r[:titleLen]) + "…"
}
