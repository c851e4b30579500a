// Package template - Chat-Templates fuer smolchat
// Modul execute: Template-Ausfuehrung und Apply in einen Byte-Puffer
package template

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/smolchat/smolchat/api"
)

type Values struct {
	Messages []api.Message

	// AddGenerationPrompt haengt den oeffnenden Assistant-Tag an
	AddGenerationPrompt bool
}

// templateMessage ist die Template-Sicht auf api.Message
type templateMessage struct {
	Role    string
	Content string
}

func (t *Template) Execute(w io.Writer, v Values) error {
	system, messages := collate(v.Messages)
	return t.Template.Execute(w, map[string]any{
		"System":              system,
		"Messages":            messages,
		"AddGenerationPrompt": v.AddGenerationPrompt,
	})
}

// Apply rendert msgs nach dst und gibt die benoetigte Laenge zurueck.
// Ist dst zu klein, wird abgeschnitten und der Aufrufer muss vergroessern.
func (t *Template) Apply(dst []byte, msgs []api.Message, addAssistant bool) (int, error) {
	var b bytes.Buffer
	if err := t.Execute(&b, Values{Messages: msgs, AddGenerationPrompt: addAssistant}); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTemplate, err)
	}

	copy(dst, b.Bytes())
	return b.Len(), nil
}

// collate wandelt die Nachrichten fuer das Template um und sammelt die System-Nachrichten.
// Aufeinanderfolgende Nachrichten werden nicht zusammengefuehrt, damit eine laengere
// History immer die kuerzere als Praefix rendert.
func collate(msgs []api.Message) (string, []templateMessage) {
	var system []string
	collated := make([]templateMessage, 0, len(msgs))
	for _, m := range msgs {
		if m.Role == api.RoleSystem {
			system = append(system, m.Content)
		}

		collated = append(collated, templateMessage{Role: m.Role.String(), Content: m.Content})
	}

	return strings.Join(system, "\n\n"), collated
}
