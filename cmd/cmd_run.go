// cmd_run.go - Run Command Handler
// Hauptfunktionen: RunHandler, resumeChat
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/smolchat/smolchat/runner"
	"github.com/smolchat/smolchat/store"
)

// RunHandler - Haupthandler fuer den run Command
func RunHandler(cmd *cobra.Command, args []string) error {
	interactive := true

	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}

	chatID, err := cmd.Flags().GetString("chat")
	if err != nil {
		return err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return err
	}

	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return err
	}

	prompts := args
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		in, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		if s := strings.TrimSpace(string(in)); len(s) > 0 {
			prompts = append([]string{s}, prompts...)
		}
		interactive = false
	}
	if len(prompts) > 0 {
		interactive = false
	}

	st := &store.Store{}
	defer st.Close()

	var chat *store.Chat
	if chatID != "" {
		chat, err = st.Chat(chatID)
		if err != nil {
			return err
		}
		if opts.System == "" {
			opts.System = chat.SystemPrompt
		}
	}

	h, sess, err := openSession(opts)
	if err != nil {
		return err
	}
	defer h.Close()

	loop := &chatLoop{
		sess:    sess,
		out:     os.Stdout,
		verbose: verbose,
	}

	if chat != nil {
		if err := resumeChat(sess, chat); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Resumed chat '%s' with %d message(s)\n", chat.Title, len(chat.Messages))
	}

	if !noSave && (interactive || chat != nil) {
		loop.rec = newChatRecorder(st, opts.Model, opts.System)
		if chat != nil {
			loop.rec.chat = *chat
		}
	}

	if !interactive {
		return loop.turn(cmd.Context(), strings.Join(prompts, " "))
	}

	loop.in = newLineReader(os.Stdin, os.Stdout)
	defer loop.in.Close()

	return loop.run(cmd.Context())
}

// resumeChat - Stellt die Nachrichten eines gespeicherten Chats in der Session wieder her
func resumeChat(sess *runner.Session, chat *store.Chat) error {
	if !sess.Options().StoreChats {
		slog.Warn("chat history is not kept with store_chats disabled", "chat", chat.ID)
	}

	for _, m := range chat.APIMessages() {
		if err := sess.AddMessage(m.Role, m.Content); err != nil {
			return fmt.Errorf("chat %s: %w", chat.ID, err)
		}
	}

	return nil
}
