// interactive_commands.go - Kommando-Handler fuer den interaktiven Modus
// Verarbeitet /set, /show, /clear, /help und /bye Befehle
package cmd

import (
	"fmt"
	"strings"
)

// commandResult repraesentiert das Ergebnis eines Kommando-Handlers
type commandResult int

const (
	commandDone commandResult = iota
	commandExit
	commandMultiline
)

// command verarbeitet eine Zeile die mit "/" beginnt
func (l *chatLoop) command(line string, sb *strings.Builder) (commandResult, error) {
	args := strings.Fields(line)

	switch args[0] {
	case "/bye", "/exit":
		return commandExit, nil
	case "/clear":
		if err := l.sess.ResetHistory(); err != nil {
			return commandDone, err
		}
		if l.rec != nil {
			l.rec.reset()
		}
		l.last = nil
		fmt.Fprintln(l.out, "Cleared session context")
	case "/set":
		return l.handleSetCommand(line, args, sb), nil
	case "/show":
		l.handleShowCommand(args)
	case "/help", "/?":
		if len(args) > 1 {
			switch args[1] {
			case "set", "/set":
				usageSet(l.out)
			case "show", "/show":
				usageShow(l.out)
			case "shortcut", "shortcuts":
				usageShortcuts(l.out)
			default:
				usage(l.out)
			}
			return commandDone, nil
		}
		usage(l.out)
	default:
		fmt.Fprintf(l.out, "Unknown command '%s'. Type /? for help\n", args[0])
	}

	return commandDone, nil
}

// handleSetCommand verarbeitet den /set Befehl
func (l *chatLoop) handleSetCommand(line string, args []string, sb *strings.Builder) commandResult {
	if len(args) < 2 {
		usageSet(l.out)
		return commandDone
	}

	switch args[1] {
	case "verbose":
		l.verbose = true
		fmt.Fprintln(l.out, "Set 'verbose' mode.")
	case "quiet":
		l.verbose = false
		fmt.Fprintln(l.out, "Set 'quiet' mode.")
	case "system":
		if len(args) < 3 {
			usageSet(l.out)
			return commandDone
		}

		_, text, _ := strings.Cut(line, "system")
		text = strings.TrimSpace(text)

		if strings.HasPrefix(text, `"""`) {
			text = strings.TrimPrefix(text, `"""`)
			before, ok := strings.CutSuffix(text, `"""`)
			if !ok {
				sb.WriteString(text)
				fmt.Fprintln(sb)
				return commandMultiline
			}
			text = before
		}

		l.setSystem(text)
	default:
		fmt.Fprintf(l.out, "Unknown command '/set %s'. Type /? for help\n", args[1])
	}

	return commandDone
}

// handleShowCommand verarbeitet den /show Befehl
func (l *chatLoop) handleShowCommand(args []string) {
	if len(args) < 2 {
		usageShow(l.out)
		return
	}

	switch args[1] {
	case "info":
		opts := l.sess.Options()
		fmt.Fprintf(l.out, "  %-16s %s\n", "model", opts.Model)
		fmt.Fprintf(l.out, "  %-16s %d\n", "context length", opts.NumCtx)
		fmt.Fprintf(l.out, "  %-16s %g\n", "temperature", opts.Temperature)
		fmt.Fprintf(l.out, "  %-16s %g\n", "min_p", opts.MinP)
		fmt.Fprintf(l.out, "  %-16s %d\n", "seed", opts.Seed)
		fmt.Fprintf(l.out, "  %-16s %t\n", "store chats", opts.StoreChats)
		fmt.Fprintf(l.out, "  %-16s %d\n", "context used", l.sess.ContextCellsUsed())
		if l.rec != nil && l.rec.chat.ID != "" {
			fmt.Fprintf(l.out, "  %-16s %s\n", "chat", l.rec.chat.ID)
		}
		fmt.Fprintln(l.out)
	case "system":
		if system := l.sess.Options().System; system != "" {
			fmt.Fprintln(l.out, system)
		} else {
			fmt.Fprintln(l.out, "No system message was specified for this session.")
		}
	case "history":
		for _, m := range l.sess.History() {
			fmt.Fprintf(l.out, "%s: %s\n", m.Role, m.Content)
		}
	case "stats":
		if l.last == nil {
			fmt.Fprintln(l.out, "No response yet.")
			return
		}
		l.last.Summary(l.out)
	default:
		fmt.Fprintf(l.out, "Unknown command '/show %s'. Type /? for help\n", args[1])
	}
}
