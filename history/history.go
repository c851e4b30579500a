// history.go - Chat-History einer Session
//
// Dieses Modul enthaelt:
// - Store: geordnete Liste von Nachrichten, nur Append und Clear
package history

import (
	"slices"

	"github.com/smolchat/smolchat/api"
)

// Store haelt die Nachrichten einer Session in Einfuegereihenfolge.
// Nachrichten werden nie veraendert oder umsortiert.
type Store struct {
	messages []api.Message
}

// Append haengt eine Nachricht an
func (s *Store) Append(role api.Role, content string) {
	s.messages = append(s.messages, api.Message{Role: role, Content: content})
}

// Clear leert die History
func (s *Store) Clear() {
	s.messages = nil
}

// Snapshot gibt eine Kopie aller Nachrichten zurueck
func (s *Store) Snapshot() []api.Message {
	return slices.Clone(s.messages)
}

// Len gibt die Anzahl der Nachrichten zurueck
func (s *Store) Len() int {
	return len(s.messages)
}
