// Package runner - Streaming Completion-Session
//
// Dieses Modul enthaelt:
// - Session: Zustandsmaschine ueber einer Engine (Idle -> PromptSubmitted -> Decoding -> ...)
// - Load: Erstellt eine Session fuer einen Engine-Handle
// - StartCompletion/Step/StopCompletion: ein Chat-Turn Token fuer Token
// - Stats, TokensPerSecond, ContextCellsUsed: Statistik des aktuellen Turns
//
// Eine Session ist nicht goroutine-sicher.
package runner

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/smolchat/smolchat/api"
	"github.com/smolchat/smolchat/engine"
	"github.com/smolchat/smolchat/history"
	"github.com/smolchat/smolchat/logutil"
	"github.com/smolchat/smolchat/template"
)

// Stats ist die Statistik des aktuellen Turns
type Stats struct {
	PromptTokens   int
	Tokens         int
	DecodeDuration time.Duration
	ContextUsed    int
}

// Session fuehrt Chat-Turns ueber einer Engine aus
type Session struct {
	handle *engine.Handle
	eng    engine.Engine
	opts   api.Options

	history  history.Store
	renderer *template.Renderer

	state State
	err   error

	// batch wird beim naechsten Step dekodiert
	batch     *engine.Batch
	lastPiece []byte

	buf       generationBuffer
	stats     Stats
	persisted bool
	holding   bool

	// clearMemory leert den KV-Cache beim naechsten StartCompletion
	clearMemory bool
}

// Load erstellt eine Session fuer h.
// Das Chat-Template kommt aus opts.Template, sonst aus dem Modell, sonst chatml.
func Load(h *engine.Handle, opts api.Options) (*Session, error) {
	if h == nil || h.Engine() == nil {
		return nil, fmt.Errorf("%w: no engine", ErrLoad)
	}

	eng := h.Engine()
	tmpl, err := resolveTemplate(opts.Template, eng.ChatTemplate())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	size := eng.ContextSize()
	if size <= 0 {
		return nil, fmt.Errorf("%w: invalid context size %d", ErrLoad, size)
	}

	slog.Debug("session loaded", "context", size, "store_chats", opts.StoreChats, "system", opts.System != "")

	return &Session{
		handle:   h,
		eng:      eng,
		opts:     opts,
		renderer: template.NewRenderer(tmpl, opts.System, size),
	}, nil
}

func resolveTemplate(override, builtin string) (*template.Template, error) {
	if override != "" {
		return template.Resolve(override)
	}

	tmpl, err := template.Resolve(builtin)
	if err != nil {
		slog.Warn("model chat template not supported, using chatml", "error", err)
		return template.Resolve("")
	}
	return tmpl, nil
}

// StartCompletion beginnt einen Turn mit der Nutzereingabe query.
// Ist die Engine belegt, wird ErrEngineBusy zurueckgegeben.
func (s *Session) StartCompletion(query string) error {
	return s.start(query, s.handle.TryAcquire)
}

func (s *Session) start(query string, acquire func() error) error {
	if s.state.active() {
		return ErrBusy
	}

	if err := acquire(); err != nil {
		return err
	}
	s.holding = true

	if !s.opts.StoreChats {
		s.history.Clear()
		s.renderer.Reset()
		s.clearMemory = true
	}
	if s.clearMemory {
		s.eng.ClearMemory()
		s.clearMemory = false
	}

	s.buf.reset()
	s.stats = Stats{}
	s.persisted = false
	s.err = nil
	s.lastPiece = nil

	msgs := append(s.history.Snapshot(), api.Message{Role: api.RoleUser, Content: query})
	prompt, err := s.renderer.Render(msgs, true, s.opts.StoreChats)
	if err != nil {
		s.release()
		return err
	}

	used := s.eng.ContextCellsUsed()
	tokens, err := s.eng.Tokenize(prompt, used == 0, true)
	if err == nil && len(tokens) == 0 {
		err = errors.New("empty prompt")
	}
	if err != nil {
		// die Anfrage kam nie bei der Engine an und wird nicht in die History uebernommen
		s.persisted = true
		s.state = StateDecodeError
		s.err = fmt.Errorf("%w: tokenize: %w", ErrDecode, err)
		return s.err
	}
	s.history.Append(api.RoleUser, query)

	s.batch = engine.PromptBatch(tokens, used)
	s.stats.PromptTokens = len(tokens)
	s.stats.ContextUsed = used
	s.state = StatePromptSubmitted

	slog.Debug("completion started", "prompt_bytes", len(prompt), "prompt_tokens", len(tokens), "cells", used, "messages", s.history.Len())
	return nil
}

// Step fuehrt einen Decode-Schritt aus und gibt den neuen Text zurueck.
// Der Text ist leer solange ein UTF-8 Zeichen unvollstaendig ist,
// EOGMarker wenn die Generierung endet.
func (s *Session) Step() (string, error) {
	if !s.state.stepping() {
		if s.err != nil {
			return "", s.err
		}
		return "", fmt.Errorf("%w: step in state %s", ErrInvalidState, s.state)
	}

	used, size, n := s.eng.ContextCellsUsed(), s.eng.ContextSize(), s.batch.NumTokens()
	s.stats.ContextUsed = used
	if used+n > size {
		return "", s.fail(StateContextOverflow, fmt.Errorf("%w: %d cells used, %d pending, context size %d", ErrContextOverflow, used, n, size))
	}

	start := time.Now()
	if err := s.eng.Decode(s.batch); errors.Is(err, engine.ErrKvCacheFull) {
		return "", s.fail(StateContextOverflow, fmt.Errorf("%w: %w", ErrContextOverflow, err))
	} else if err != nil {
		return "", s.fail(StateDecodeError, fmt.Errorf("%w: %w", ErrDecode, err))
	}

	s.buf.fed = append(s.buf.fed, s.lastPiece...)
	s.stats.ContextUsed = s.eng.ContextCellsUsed()

	token := s.eng.Sample()
	if s.eng.TokenIsEog(token) {
		s.endOfGeneration()
		return EOGMarker, nil
	}

	piece := s.eng.TokenToPiece(token)
	s.stats.Tokens++
	s.stats.DecodeDuration += time.Since(start)
	logutil.Trace("token sampled", "token", token, "piece", piece)

	s.batch = engine.PromptBatch([]int{token}, s.stats.ContextUsed)
	s.lastPiece = piece
	s.state = StateDecoding

	out, _ := s.buf.add(piece)
	return out, nil
}

func (s *Session) fail(state State, err error) error {
	s.state = state
	s.err = err
	slog.Debug("completion failed", "state", state, "error", err)
	return err
}

// endOfGeneration speichert die Antwort (falls aktiviert) und beendet den Turn
func (s *Session) endOfGeneration() {
	if s.opts.StoreChats {
		s.persist()
	}

	slog.Debug("completion finished", "tokens", s.stats.Tokens, "tokens_per_second", s.TokensPerSecond(), "cells", s.stats.ContextUsed)

	s.buf.reset()
	s.batch = nil
	s.state = StateEndOfGeneration
}

// persist haengt die bisherige Antwort als Assistant-Nachricht an
func (s *Session) persist() {
	s.history.Append(api.RoleAssistant, s.buf.response.String())
	s.persisted = true

	if err := s.renderer.Commit(s.history.Snapshot(), string(s.buf.fed)); err != nil {
		slog.Warn("failed to commit rendered history", "error", err)
	}
}

// StopCompletion beendet den aktuellen Turn.
// Mit StoreChats wird die bisherige Antwort gespeichert, sonst wird die History geleert.
// In Idle ohne Wirkung auf eine gespeicherte History.
func (s *Session) StopCompletion() {
	if s.state.active() && s.opts.StoreChats && !s.persisted {
		s.persist()
	}

	switch s.state {
	case StateContextOverflow, StateDecodeError:
		// der KV-Cache passt nicht mehr zur History
		s.clearMemory = true
		s.renderer.Reset()
	}

	s.buf.reset()
	if !s.opts.StoreChats {
		s.history.Clear()
		s.renderer.Reset()
	}

	s.batch = nil
	s.lastPiece = nil
	s.err = nil
	s.state = StateIdle
	s.release()
}

func (s *Session) release() {
	if s.holding {
		s.holding = false
		s.handle.Release()
	}
}

// AddMessage stellt eine gespeicherte Nachricht in der History wieder her.
// Nur in Idle erlaubt.
func (s *Session) AddMessage(role api.Role, content string) error {
	if s.state.active() {
		return ErrBusy
	}

	if _, err := api.ParseRole(string(role)); err != nil {
		return err
	}

	s.history.Append(role, content)
	return nil
}

// ResetHistory leert History und Renderer; der KV-Cache wird beim naechsten Turn geleert
func (s *Session) ResetHistory() error {
	if s.state.active() {
		return ErrBusy
	}

	s.history.Clear()
	s.renderer.Reset()
	s.clearMemory = true
	return nil
}

// SetSystem ersetzt den System-Prompt fuer alle folgenden Turns.
// Die History bleibt erhalten, der KV-Cache wird beim naechsten Turn geleert.
func (s *Session) SetSystem(system string) error {
	if s.state.active() {
		return ErrBusy
	}

	s.opts.System = system
	s.renderer.SetSystem(system)
	s.clearMemory = true
	return nil
}

// TokensPerSecond gibt die Generierungsrate des aktuellen Turns zurueck (0 vor dem ersten Token)
func (s *Session) TokensPerSecond() float64 {
	if s.stats.Tokens == 0 || s.stats.DecodeDuration <= 0 {
		return 0
	}
	return float64(s.stats.Tokens) / s.stats.DecodeDuration.Seconds()
}

// ContextCellsUsed gibt die zuletzt beobachtete Anzahl belegter KV-Zellen zurueck
func (s *Session) ContextCellsUsed() int {
	return s.stats.ContextUsed
}

func (s *Session) Stats() Stats {
	return s.stats
}

func (s *Session) State() State {
	return s.state
}

// History gibt eine Kopie der History zurueck
func (s *Session) History() []api.Message {
	return s.history.Snapshot()
}

// Options gibt die Optionen der Session zurueck
func (s *Session) Options() api.Options {
	return s.opts
}
