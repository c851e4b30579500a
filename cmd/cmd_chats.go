// cmd_chats.go - Chats Commands
// Hauptfunktionen: ChatsListHandler, ChatsShowHandler, ChatsDeleteHandler
package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/smolchat/smolchat/store"
)

// excerptWidth ist die maximale Anzeigebreite der ersten Nachricht in der Liste
const excerptWidth = 40

// ChatsListHandler - Listet alle gespeicherten Chats auf
func ChatsListHandler(cmd *cobra.Command, _ []string) error {
	st := &store.Store{}
	defer st.Close()

	chats, err := st.Chats()
	if err != nil {
		return err
	}

	writeChats(os.Stdout, chats)
	return nil
}

// writeChats - Schreibt die Chat-Liste als Tabelle nach w
func writeChats(w io.Writer, chats []store.Chat) {
	var data [][]string
	for _, c := range chats {
		data = append(data, []string{c.ID, c.Title, excerpt(c.Excerpt()), c.UpdatedAt.Local().Format("2006-01-02 15:04")})
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "TITLE", "FIRST MESSAGE", "MODIFIED"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()
}

// excerpt - Erste Zeile von s, auf excerptWidth Terminal-Spalten gekuerzt
func excerpt(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return runewidth.Truncate(line, excerptWidth, "…")
}

// ChatsShowHandler - Zeigt die Nachrichten eines Chats
func ChatsShowHandler(cmd *cobra.Command, args []string) error {
	st := &store.Store{}
	defer st.Close()

	chat, err := st.Chat(args[0])
	if err != nil {
		return err
	}

	writeChat(os.Stdout, chat)
	return nil
}

// writeChat - Schreibt Kopf und Nachrichten eines Chats nach w
func writeChat(w io.Writer, chat *store.Chat) {
	fmt.Fprintf(w, "  %-12s %s\n", "id", chat.ID)
	fmt.Fprintf(w, "  %-12s %s\n", "title", chat.Title)
	if chat.Model != "" {
		fmt.Fprintf(w, "  %-12s %s\n", "model", chat.Model)
	}
	if chat.SystemPrompt != "" {
		fmt.Fprintf(w, "  %-12s %s\n", "system", chat.SystemPrompt)
	}
	fmt.Fprintf(w, "  %-12s %s\n", "messages", strconv.Itoa(len(chat.Messages)))
	fmt.Fprintln(w)

	for _, m := range chat.Messages {
		fmt.Fprintf(w, ">>> %s\n%s\n\n", m.Role, m.Content)
	}
}

// ChatsDeleteHandler - Loescht einen oder mehrere Chats
func ChatsDeleteHandler(cmd *cobra.Command, args []string) error {
	st := &store.Store{}
	defer st.Close()

	for _, id := range args {
		if err := st.DeleteChat(id); err != nil {
			return err
		}
		fmt.Printf("deleted '%s'\n", id)
	}

	return nil
}
