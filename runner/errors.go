// errors.go - Fehler einer Completion-Session
package runner

import (
	"errors"

	"github.com/smolchat/smolchat/engine"
)

var (
	// ErrLoad ist ein Konfigurationsfehler beim Laden der Session
	ErrLoad = errors.New("failed to load session")

	// ErrContextOverflow beendet den Turn: Prompt und Antwort passen nicht mehr ins Kontextfenster.
	// Die Session bleibt nach StopCompletion benutzbar.
	ErrContextOverflow = errors.New("context size has been exceeded")

	// ErrDecode beendet den Turn: die Engine konnte den Batch nicht verarbeiten
	ErrDecode = errors.New("decode failed")

	// ErrBusy wird zurueckgegeben wenn bereits ein Turn laeuft
	ErrBusy = errors.New("a completion is already in progress")

	// ErrInvalidState wird bei Step ausserhalb eines laufenden Turns zurueckgegeben
	ErrInvalidState = errors.New("invalid session state")

	// ErrEngineBusy wird zurueckgegeben wenn ein anderer Benutzer die Engine haelt
	ErrEngineBusy = engine.ErrEngineBusy
)
