// Package readline - Zeileneditor fuer den interaktiven Chat
//
// Modul readline: Instance und Readline
// Hauptfunktionen: New, Readline, HistoryEnable, HistoryDisable, Close
package readline

import (
	"io"
	"log/slog"
	"strings"
)

type Prompt struct {
	Prompt         string
	AltPrompt      string
	Placeholder    string
	AltPlaceholder string
	UseAlt         bool
}

func (p *Prompt) prompt() string {
	if p.UseAlt {
		return p.AltPrompt
	}
	return p.Prompt
}

func (p *Prompt) placeholder() string {
	if p.UseAlt {
		return p.AltPlaceholder
	}
	return p.Placeholder
}

type Instance struct {
	Prompt   *Prompt
	Terminal *Terminal
	History  *History
	Pasting  bool

	out io.Writer

	// Zustand der laufenden Readline
	buf   *Buffer
	first string   // Prompt der ersten Zeile
	lines []string // mit Ctrl+J abgeschlossene Zeilen
	draft []rune   // Eingabe vor dem Blaettern in der History
}

// New erzeugt einen Editor auf in/out. historyFile "" haelt die History nur im Speicher.
func New(prompt Prompt, in io.Reader, out io.Writer, historyFile string) (*Instance, error) {
	history, err := NewHistory(historyFile)
	if err != nil {
		return nil, err
	}

	i := &Instance{
		Prompt:   &prompt,
		Terminal: NewTerminal(in),
		History:  history,
		out:      out,
	}

	if i.Terminal.IsTerminal() {
		io.WriteString(out, StartBracketedPaste) //nolint:errcheck
	}
	return i, nil
}

func (i *Instance) HistoryEnable() {
	i.History.Enabled = i.History.Filename != ""
}

// HistoryDisable haelt die History nur noch im Speicher
func (i *Instance) HistoryDisable() {
	i.History.Enabled = false
}

func (i *Instance) Close() error {
	if i.Terminal.IsTerminal() {
		io.WriteString(i.out, EndBracketedPaste) //nolint:errcheck
	}
	return i.History.Save()
}

// Readline liest eine Eingabe. Zeilen aus einem eingefuegten Block kommen einzeln
// mit ErrPaste, Ctrl+C liefert die bisherige Eingabe mit ErrInterrupt und
// Ctrl+D auf leerer Zeile io.EOF.
func (i *Instance) Readline() (string, error) {
	restore, err := i.Terminal.raw()
	if err != nil {
		return "", err
	}
	defer restore()

	i.first, i.lines, i.draft = i.Prompt.prompt(), nil, nil
	placeholder := i.Prompt.placeholder()
	if i.Pasting {
		i.first, placeholder = i.Prompt.AltPrompt, ""
	}

	i.buf = NewBuffer(i.out, i.first, placeholder, i.Terminal.Width())
	i.buf.refresh()
	i.History.Pos = i.History.Size()

	for {
		r, err := i.Terminal.readRune()
		if err != nil {
			return "", err
		}

		line, done, err := i.key(r)
		if err != nil || done {
			return line, err
		}
	}
}

func (i *Instance) collect() string {
	return strings.Join(append(i.lines, i.buf.String()), "\n")
}

func (i *Instance) submit() (string, bool, error) {
	i.buf.Finish()
	line := i.collect()
	i.lines = nil

	if i.Pasting {
		return line, true, ErrPaste
	}

	if err := i.History.Add(line); err != nil {
		slog.Warn("history konnte nicht gespeichert werden", "error", err)
	}
	return line, true, nil
}

// newline schliesst die aktuelle Zeile ab und setzt die Eingabe darunter fort (Ctrl+J)
func (i *Instance) newline() {
	i.buf.Finish()
	i.lines = append(i.lines, i.buf.String())
	i.buf = NewBuffer(i.out, i.Prompt.AltPrompt, "", i.Terminal.Width())
	i.buf.refresh()
}

// joinPrev holt die vorige Zeile zurueck in den Editor (Backspace auf leerer Zeile)
func (i *Instance) joinPrev() {
	prev := i.lines[len(i.lines)-1]
	i.lines = i.lines[:len(i.lines)-1]

	p := i.Prompt.AltPrompt
	if len(i.lines) == 0 {
		p = i.first
	}

	b := NewBuffer(i.out, p, "", i.Terminal.Width())
	b.Buf.Add([]rune(prev)...)
	b.Pos = b.Len()
	// der Cursor steht unter der vorigen Zeile; refresh springt an ihren Anfang
	b.cursorRow = b.rows()
	b.refresh()
	i.buf = b
}

func (i *Instance) historyPrev() {
	if i.History.Pos == i.History.Size() {
		i.draft = i.buf.Buf.Values()
	}
	if line, ok := i.History.Prev(); ok {
		i.buf.Replace([]rune(line))
	}
}

func (i *Instance) historyNext() {
	line, ok := i.History.Next()
	if !ok {
		return
	}
	if i.History.Pos == i.History.Size() {
		i.buf.Replace(i.draft)
		return
	}
	i.buf.Replace([]rune(line))
}
