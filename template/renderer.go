// Package template - Chat-Templates fuer smolchat
// Modul renderer: Voll- und Inkrementelles Rendern der History
//
// Der Renderer merkt sich wie viele Bytes der Rendering bereits an die Engine
// gegangen sind (renderedLen). Im inkrementellen Modus wird nur der neue Suffix
// zurueckgegeben.
package template

import (
	"fmt"

	"github.com/smolchat/smolchat/api"
)

// Applier rendert Nachrichten in einen Puffer und gibt die benoetigte Laenge zurueck
type Applier interface {
	Apply(dst []byte, msgs []api.Message, addAssistant bool) (int, error)
}

// Renderer besitzt den Scratch-Puffer und die bereits gerenderte Laenge einer Session
type Renderer struct {
	tmpl   Applier
	system string

	buf         []byte
	renderedLen int
}

// NewRenderer erstellt einen Renderer mit einem Puffer von size Bytes.
// Ist system nicht leer, wird es bei jedem Rendern als erste Nachricht eingefuegt.
func NewRenderer(tmpl Applier, system string, size int) *Renderer {
	return &Renderer{
		tmpl:   tmpl,
		system: system,
		buf:    make([]byte, max(size, 0)),
	}
}

// Render rendert msgs. Im inkrementellen Modus wird nur der Teil nach
// renderedLen zurueckgegeben, sonst die gesamte Ausgabe.
// renderedLen steht danach auf der neuen Gesamtlaenge.
func (r *Renderer) Render(msgs []api.Message, addAssistant, incremental bool) (string, error) {
	n, err := r.apply(msgs, addAssistant)
	if err != nil {
		return "", err
	}

	start := 0
	if incremental {
		if n < r.renderedLen {
			return "", fmt.Errorf("%w: rendering shrank from %d to %d bytes", ErrTemplate, r.renderedLen, n)
		}
		start = r.renderedLen
	}

	r.renderedLen = n
	return string(r.buf[start:n]), nil
}

// Commit gleicht renderedLen nach einem gespeicherten Turn an.
// fed sind die Bytes der Antwort, die die Engine bereits verarbeitet hat.
// Stehen sie in der neuen Rendering direkt hinter renderedLen, wird renderedLen
// um len(fed) erhoeht, sodass der schliessende Tag mit dem naechsten Turn gesendet wird.
// Sonst steht renderedLen danach auf der Laenge der History ohne Assistant-Tag.
func (r *Renderer) Commit(msgs []api.Message, fed string) error {
	n, err := r.apply(msgs, false)
	if err != nil {
		return err
	}

	if end := r.renderedLen + len(fed); end <= n && string(r.buf[r.renderedLen:end]) == fed {
		r.renderedLen = end
		return nil
	}

	r.renderedLen = n
	return nil
}

// SetSystem ersetzt den System-Prompt. Die bisherige Rendering ist danach ungueltig.
func (r *Renderer) SetSystem(system string) {
	r.system = system
	r.renderedLen = 0
}

// Reset setzt renderedLen auf 0
func (r *Renderer) Reset() {
	r.renderedLen = 0
}

// RenderedLen gibt die Anzahl bereits an die Engine gegangener Bytes zurueck
func (r *Renderer) RenderedLen() int {
	return r.renderedLen
}

// BufferSize gibt die aktuelle Groesse des Scratch-Puffers zurueck
func (r *Renderer) BufferSize() int {
	return len(r.buf)
}

// apply rendert in den Scratch-Puffer.
// Reicht der Puffer nicht, wird er genau einmal vergroessert.
func (r *Renderer) apply(msgs []api.Message, addAssistant bool) (int, error) {
	if r.system != "" {
		msgs = append([]api.Message{{Role: api.RoleSystem, Content: r.system}}, msgs...)
	}

	n, err := r.tmpl.Apply(r.buf, msgs, addAssistant)
	if err != nil {
		return 0, err
	}

	if n > len(r.buf) {
		r.buf = make([]byte, n)
		n, err = r.tmpl.Apply(r.buf, msgs, addAssistant)
		if err != nil {
			return 0, err
		}
		if n > len(r.buf) {
			return 0, fmt.Errorf("%w: rendering needs %d bytes after resize to %d", ErrTemplate, n, len(r.buf))
		}
	}

	return n, nil
}
