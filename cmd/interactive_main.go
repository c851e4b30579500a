// interactive_main.go - Hauptloop fuer den interaktiven Modus
// Verarbeitet Benutzereingaben und koordiniert die Kommando-Verarbeitung
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/smolchat/smolchat/api"
	"github.com/smolchat/smolchat/readline"
	"github.com/smolchat/smolchat/runner"
	"github.com/smolchat/smolchat/store"
	"github.com/smolchat/smolchat/template"
)

// MultilineState repraesentiert den aktuellen Mehrzeilen-Eingabe-Status
type MultilineState int

const (
	MultilineNone MultilineState = iota
	MultilinePrompt
	MultilineSystem
)

// chatLoop ist eine interaktive Chat-Sitzung auf einer runner.Session
type chatLoop struct {
	sess *runner.Session
	in   lineReader
	out  io.Writer

	// rec speichert die Turns, nil wenn nicht gespeichert wird
	rec *chatRecorder

	verbose bool
	last    *api.Metrics
}

// run liest Eingaben bis /bye, EOF oder einem Decode-Fehler
func (l *chatLoop) run(ctx context.Context) error {
	var sb strings.Builder
	var multiline MultilineState

	for {
		line, err := l.in.ReadLine()
		pasted := errors.Is(err, readline.ErrPaste)
		switch {
		case errors.Is(err, io.EOF):
			fmt.Fprintln(l.out)
			return nil
		case errors.Is(err, readline.ErrInterrupt):
			if line == "" {
				fmt.Fprintln(l.out, "Use Ctrl + d or /bye to exit.")
			}
			l.in.SetAlt(false)
			multiline = MultilineNone
			sb.Reset()
			continue
		case err != nil && !pasted:
			return err
		}

		switch {
		case multiline != MultilineNone:
			// check if there's a multiline terminating string
			before, ok := strings.CutSuffix(line, `"""`)
			sb.WriteString(before)
			if !ok {
				fmt.Fprintln(&sb)
				l.in.SetAlt(true)
				continue
			}

			if multiline == MultilineSystem {
				l.setSystem(sb.String())
				sb.Reset()
			}

			multiline = MultilineNone
			l.in.SetAlt(false)
		case pasted:
			fmt.Fprintln(&sb, line)
			continue
		case strings.HasPrefix(line, `"""`):
			line := strings.TrimPrefix(line, `"""`)
			line, ok := strings.CutSuffix(line, `"""`)
			sb.WriteString(line)
			if !ok {
				// no multiline terminating string; need more input
				fmt.Fprintln(&sb)
				multiline = MultilinePrompt
				l.in.SetAlt(true)
				continue
			}
		case strings.HasPrefix(line, "/"):
			result, err := l.command(line, &sb)
			if err != nil {
				return err
			}

			switch result {
			case commandExit:
				return nil
			case commandMultiline:
				multiline = MultilineSystem
				l.in.SetAlt(true)
			}
			continue
		default:
			sb.WriteString(line)
		}

		if sb.Len() > 0 && multiline == MultilineNone {
			if err := l.turn(ctx, sb.String()); err != nil {
				return err
			}
			sb.Reset()
		}
	}
}

// turn fuehrt einen Chat-Turn aus und schreibt die Antwort nach out.
// Ctrl+C beendet nur die laufende Antwort.
func (l *chatLoop) turn(ctx context.Context, query string) error {
	turnCtx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	resp, err := l.sess.Complete(turnCtx, query, func(piece string) error {
		_, err := io.WriteString(l.out, piece)
		return err
	})
	fmt.Fprintln(l.out)
	l.last = &resp.Metrics

	switch {
	case err == nil:
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(l.out, "(interrupted)")
	case errors.Is(err, runner.ErrContextOverflow):
		fmt.Fprintf(l.out, "error: %v\nUse /clear to start a new conversation.\n\n", err)
		return nil
	case errors.Is(err, template.ErrTemplate):
		fmt.Fprintf(l.out, "error: %v\n\n", err)
		return nil
	default:
		return err
	}

	if l.verbose {
		resp.Metrics.Summary(l.out)
	}
	fmt.Fprintln(l.out)

	if l.rec != nil {
		if err := l.rec.record(query, resp.Text); err != nil {
			slog.Warn("failed to save chat", "error", err)
		}
	}
	return nil
}

// setSystem - Setzt den System-Prompt der Session und des gespeicherten Chats
func (l *chatLoop) setSystem(system string) {
	if err := l.sess.SetSystem(system); err != nil {
		fmt.Fprintf(l.out, "error: %v\n", err)
		return
	}
	if l.rec != nil {
		l.rec.chat.SystemPrompt = system
	}
	fmt.Fprintln(l.out, "Set system message.")
}

// chatRecorder - Speichert die Turns eines interaktiven Chats im Store
type chatRecorder struct {
	store *store.Store
	chat  store.Chat
}

func newChatRecorder(s *store.Store, model, system string) *chatRecorder {
	chat := store.NewChat("")
	chat.Model = model
	chat.SystemPrompt = system
	return &chatRecorder{store: s, chat: chat}
}

// record - Legt den Chat beim ersten Turn an und haengt danach Nachrichten an
func (r *chatRecorder) record(query, answer string) error {
	msgs := []store.Message{
		store.NewMessage(api.RoleUser, query),
		store.NewMessage(api.RoleAssistant, answer),
	}

	if r.chat.ID == "" {
		r.chat.Title = store.Title(query)
		r.chat.Messages = msgs
		return r.store.SaveChat(&r.chat)
	}

	return r.store.AppendMessages(r.chat.ID, msgs...)
}

// reset - Der naechste Turn beginnt einen neuen Chat
func (r *chatRecorder) reset() {
	chat := store.NewChat("")
	chat.Model = r.chat.Model
	chat.SystemPrompt = r.chat.SystemPrompt
	r.chat = chat
}
