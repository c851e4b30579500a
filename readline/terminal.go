// Package readline - Zeileneditor fuer den interaktiven Chat
//
// Modul terminal: Eingabe-Quelle, Raw-Modus und Terminalbreite
package readline

import (
	"bufio"
	"io"
	"os"

	"golang.org/x/term"
)

type Terminal struct {
	reader *bufio.Reader
	fd     int // -1 wenn die Eingabe kein Terminal ist
}

func NewTerminal(in io.Reader) *Terminal {
	t := &Terminal{reader: bufio.NewReader(in), fd: -1}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		t.fd = int(f.Fd())
	}
	return t
}

// IsTerminal meldet ob die Eingabe ein echtes Terminal ist
func (t *Terminal) IsTerminal() bool {
	return t.fd >= 0
}

// raw schaltet das Terminal in den Raw-Modus und liefert die Ruecksetz-Funktion
func (t *Terminal) raw() (func(), error) {
	if t.fd < 0 {
		return func() {}, nil
	}

	state, err := term.MakeRaw(t.fd)
	if err != nil {
		return nil, err
	}
	return func() { term.Restore(t.fd, state) }, nil //nolint:errcheck
}

// Width liefert die Terminalbreite, 80 wenn sie unbekannt ist
func (t *Terminal) Width() int {
	if t.fd >= 0 {
		if w, _, err := term.GetSize(t.fd); err == nil && w > 0 {
			return w
		}
	}
	return 80
}

func (t *Terminal) readRune() (rune, error) {
	r, _, err := t.reader.ReadRune()
	return r, err
}

// buffered meldet ob weitere Eingabe schon bereitliegt
func (t *Terminal) buffered() bool {
	return t.reader.Buffered() > 0
}
