// database_chat.go - Chat und Message CRUD Operationen
// Enthält: getAllChats, getChat, saveChat, appendMessages, deleteChat

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// getAllChats gibt alle Chats mit erster User-Message zurück, zuletzt benutzte zuerst
func (db *database) getAllChats() ([]Chat, error) {
	query := `
		SELECT
			c.id,
			c.title,
			c.system_prompt,
			c.model,
			c.created_at,
			c.updated_at,
			COALESCE((
				SELECT content FROM messages
				WHERE chat_id = c.id AND role = 'user'
				ORDER BY id ASC LIMIT 1
			), '') AS first_user_content
		FROM chats c
		ORDER BY c.updated_at DESC, c.id DESC
	`

	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query chats: %w", err)
	}
	defer rows.Close()

	chats := []Chat{}
	for rows.Next() {
		var chat Chat
		var firstUserContent string

		if err := rows.Scan(
			&chat.ID,
			&chat.Title,
			&chat.SystemPrompt,
			&chat.Model,
			&chat.CreatedAt,
			&chat.UpdatedAt,
			&firstUserContent,
		); err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}

		// Nur fuer den Auszug; vollstaendige Messages laedt getChat
		chat.Messages = []Message{}
		if firstUserContent != "" {
			chat.Messages = append(chat.Messages, Message{Role: "user", Content: firstUserContent})
		}

		chats = append(chats, chat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chats: %w", err)
	}

	return chats, nil
}

// getChat gibt einen Chat mit allen Messages zurück
func (db *database) getChat(id string) (*Chat, error) {
	query := `
		SELECT id, title, system_prompt, model, created_at, updated_at
		FROM chats
		WHERE id = ?
	`

	var chat Chat
	err := db.conn.QueryRow(query, id).Scan(
		&chat.ID,
		&chat.Title,
		&chat.SystemPrompt,
		&chat.Model,
		&chat.CreatedAt,
		&chat.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("query chat: %w", err)
	}

	messages, err := db.getMessages(id)
	if err != nil {
		return nil, fmt.Errorf("get messages: %w", err)
	}
	chat.Messages = messages

	return &chat, nil
}

func (db *database) getMessages(chatID string) ([]Message, error) {
	rows, err := db.conn.Query(`
		SELECT role, content, created_at
		FROM messages
		WHERE chat_id = ?
		ORDER BY id ASC
	`, chatID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := []Message{}
	for rows.Next() {
		var msg Message
		if err := rows.Scan(&msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}

// saveChat speichert einen Chat und ersetzt alle Messages
func (db *database) saveChat(chat Chat) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO chats (id, title, system_prompt, model, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			system_prompt = excluded.system_prompt,
			model = excluded.model,
			updated_at = excluded.updated_at
	`,
		chat.ID,
		chat.Title,
		chat.SystemPrompt,
		chat.Model,
		chat.CreatedAt,
		chat.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save chat: %w", err)
	}

	// Bestehende Messages löschen, alle werden neu eingefügt
	if _, err := tx.Exec("DELETE FROM messages WHERE chat_id = ?", chat.ID); err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}

	for _, msg := range chat.Messages {
		if err := insertMessage(tx, chat.ID, msg); err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
	}

	return tx.Commit()
}

// appendMessages hängt msgs an einen bestehenden Chat an und aktualisiert updated_at
func (db *database) appendMessages(chatID string, updatedAt time.Time, msgs []Message) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec("UPDATE chats SET updated_at = ? WHERE id = ?", updatedAt, chatID)
	if err != nil {
		return fmt.Errorf("update chat: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("update chat: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}

	for _, msg := range msgs {
		if err := insertMessage(tx, chatID, msg); err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
	}

	return tx.Commit()
}

func insertMessage(tx *sql.Tx, chatID string, msg Message) error {
	_, err := tx.Exec(`
		INSERT INTO messages (chat_id, role, content, created_at)
		VALUES (?, ?, ?, ?)
	`, chatID, msg.Role, msg.Content, msg.CreatedAt)
	return err
}

// deleteChat löscht einen Chat, Messages folgen per ON DELETE CASCADE
func (db *database) deleteChat(id string) error {
	res, err := db.conn.Exec("DELETE FROM chats WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	_, _ = db.conn.Exec("PRAGMA wal_checkpoint(TRUNCATE);")
	return nil
}
