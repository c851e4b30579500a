// interactive_usage.go - Hilfe-Texte und Usage-Funktionen
// Zeigt Hilfe fuer Befehle und Tastenkuerzel an
package cmd

import (
	"fmt"
	"io"
)

// usage zeigt die allgemeine Hilfe an
func usage(w io.Writer) {
	fmt.Fprintln(w, "Available Commands:")
	fmt.Fprintln(w, "  /set            Set session variables")
	fmt.Fprintln(w, "  /show           Show session information")
	fmt.Fprintln(w, "  /clear          Clear session context and start a new chat")
	fmt.Fprintln(w, "  /bye            Exit")
	fmt.Fprintln(w, "  /?, /help       Help for a command")
	fmt.Fprintln(w, "  /? shortcuts    Help for keyboard shortcuts")

	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Use \"\"\" to begin a multi-line message.")
	fmt.Fprintln(w, "")
}

// usageSet zeigt die Hilfe fuer /set Befehle an
func usageSet(w io.Writer) {
	fmt.Fprintln(w, "Available Commands:")
	fmt.Fprintln(w, "  /set system <string>   Set system message")
	fmt.Fprintln(w, "  /set verbose           Show generation stats")
	fmt.Fprintln(w, "  /set quiet             Disable generation stats")
	fmt.Fprintln(w, "")
}

// usageShow zeigt die Hilfe fuer /show Befehle an
func usageShow(w io.Writer) {
	fmt.Fprintln(w, "Available Commands:")
	fmt.Fprintln(w, "  /show info      Show details for this session")
	fmt.Fprintln(w, "  /show system    Show system message")
	fmt.Fprintln(w, "  /show history   Show the messages of this chat")
	fmt.Fprintln(w, "  /show stats     Show stats of the last response")
	fmt.Fprintln(w, "")
}

// usageShortcuts zeigt die Tastenkuerzel-Hilfe an
func usageShortcuts(w io.Writer) {
	fmt.Fprintln(w, "Available keyboard shortcuts:")
	fmt.Fprintln(w, "  Ctrl + a            Move to the beginning of the line (Home)")
	fmt.Fprintln(w, "  Ctrl + e            Move to the end of the line (End)")
	fmt.Fprintln(w, "   Alt + b            Move back (left) one word")
	fmt.Fprintln(w, "   Alt + f            Move forward (right) one word")
	fmt.Fprintln(w, "  Ctrl + k            Delete the sentence after the cursor")
	fmt.Fprintln(w, "  Ctrl + u            Delete the sentence before the cursor")
	fmt.Fprintln(w, "  Ctrl + w            Delete the word before the cursor")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  Ctrl + c            Stop the model from responding")
	fmt.Fprintln(w, "  Ctrl + d            Exit smolchat (/bye)")
	fmt.Fprintln(w, "")
}
