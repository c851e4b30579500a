// Modul: store.go
// Beschreibung: Persistente Chat-History auf Basis von SQLite.
// Enthaelt Store, lazy Datenbank-Initialisierung und die Chat-Operationen.

package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smolchat/smolchat/envconfig"
)

// ErrNotFound wird zurueckgegeben wenn ein Chat nicht existiert
var ErrNotFound = errors.New("chat not found")

type Store struct {
	// DBPath ueberschreibt den Standardpfad (SMOLCHAT_DB), hauptsaechlich fuer Tests
	DBPath string

	// dbMu schuetzt nur die Initialisierung
	dbMu sync.Mutex
	db   *database
}

func (s *Store) ensureDB() error {
	s.dbMu.Lock()
	defer s.dbMu.Unlock()

	if s.db != nil {
		return nil
	}

	dbPath := s.DBPath
	if dbPath == "" {
		dbPath = envconfig.DBPath()
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}

	database, err := newDatabase(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	s.db = database
	return nil
}

// Chats gibt alle Chats zurueck, zuletzt benutzte zuerst.
// Messages enthaelt nur die erste User-Nachricht als Auszug.
func (s *Store) Chats() ([]Chat, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}

	return s.db.getAllChats()
}

// Chat gibt den Chat id mit allen Messages zurueck
func (s *Store) Chat(id string) (*Chat, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}

	chat, err := s.db.getChat(id)
	if err != nil {
		return nil, fmt.Errorf("chat %s: %w", id, err)
	}

	return chat, nil
}

// SaveChat legt einen Chat an oder ersetzt ihn.
// Ohne ID wird eine neue UUIDv7 vergeben und in chat eingetragen.
func (s *Store) SaveChat(chat *Chat) error {
	if err := s.ensureDB(); err != nil {
		return err
	}

	if chat.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("generate chat id: %w", err)
		}
		chat.ID = id.String()
	}

	now := time.Now()
	if chat.CreatedAt.IsZero() {
		chat.CreatedAt = now
	}
	chat.UpdatedAt = now

	for i := range chat.Messages {
		if chat.Messages[i].CreatedAt.IsZero() {
			chat.Messages[i].CreatedAt = now
		}
	}

	return s.db.saveChat(*chat)
}

// AppendMessages haengt msgs an den Chat id an
func (s *Store) AppendMessages(id string, msgs ...Message) error {
	if err := s.ensureDB(); err != nil {
		return err
	}

	now := time.Now()
	for i := range msgs {
		if msgs[i].CreatedAt.IsZero() {
			msgs[i].CreatedAt = now
		}
	}

	if err := s.db.appendMessages(id, now, msgs); err != nil {
		return fmt.Errorf("chat %s: %w", id, err)
	}
	return nil
}

// DeleteChat loescht den Chat id mit allen Messages
func (s *Store) DeleteChat(id string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}

	if err := s.db.deleteChat(id); err != nil {
		return fmt.Errorf("chat %s: %w", id, err)
	}
	return nil
}

func (s *Store) Close() error {
	s.dbMu.Lock()
	defer s.dbMu.Unlock()

	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}
