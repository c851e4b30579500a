// interactive_reader.go - Zeilen-Eingabe fuer den interaktiven Modus
// Hauptfunktionen: newLineReader, editReader (readline), plainReader (bufio)
package cmd

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"github.com/smolchat/smolchat/envconfig"
	"github.com/smolchat/smolchat/readline"
)

const (
	prompt    = ">>> "
	altPrompt = "... "
)

// lineReader liest eine Eingabezeile.
// Eingefuegter Text wird zeilenweise mit readline.ErrPaste geliefert.
type lineReader interface {
	ReadLine() (string, error)
	SetAlt(alt bool)
	Close() error
}

func newPrompt() readline.Prompt {
	return readline.Prompt{
		Prompt:         prompt,
		AltPrompt:      altPrompt,
		Placeholder:    "Send a message (/? for help)",
		AltPlaceholder: `Use """ to end multi-line input`,
	}
}

// newLineReader - Zeileneditor mit History auf einem Terminal, sonst einfache Zeilen
func newLineReader(in *os.File, out io.Writer) lineReader {
	if !term.IsTerminal(int(in.Fd())) {
		return newPlainReader(in, out)
	}

	file := filepath.Join(envconfig.Home(), "history")
	rl, err := readline.New(newPrompt(), in, out, file)
	if err != nil {
		slog.Warn("input history unavailable", "path", file, "error", err)
		if rl, err = readline.New(newPrompt(), in, out, ""); err != nil {
			return newPlainReader(in, out)
		}
	}

	if envconfig.NoHistory() {
		rl.HistoryDisable()
	}
	return &editReader{rl: rl}
}

// editReader - Zeileneditor aus readline; das Terminal ist nur waehrend ReadLine im Raw-Modus
type editReader struct {
	rl *readline.Instance
}

func (r *editReader) ReadLine() (string, error) {
	return r.rl.Readline()
}

func (r *editReader) SetAlt(alt bool) {
	r.rl.Prompt.UseAlt = alt
}

func (r *editReader) Close() error {
	return r.rl.Close()
}

// plainReader - Zeilen ohne Editor und ohne History (Pipes)
type plainReader struct {
	s      *bufio.Scanner
	w      io.Writer
	prompt string
}

func newPlainReader(in io.Reader, out io.Writer) *plainReader {
	s := bufio.NewScanner(in)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &plainReader{s: s, w: out, prompt: prompt}
}

func (r *plainReader) ReadLine() (string, error) {
	fmt.Fprint(r.w, r.prompt)
	if !r.s.Scan() {
		if err := r.s.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.s.Text(), nil
}

func (r *plainReader) SetAlt(alt bool) {
	r.prompt = prompt
	if alt {
		r.prompt = altPrompt
	}
}

func (r *plainReader) Close() error {
	return nil
}
