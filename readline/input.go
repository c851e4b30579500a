// Package readline - Zeileneditor fuer den interaktiven Chat
//
// Modul input: Tasten und Escape-Sequenzen
package readline

import (
	"io"
	"strings"
)

// key verarbeitet ein Zeichen; done meldet eine fertige Eingabe
func (i *Instance) key(r rune) (line string, done bool, err error) {
	b := i.buf

	switch r {
	case CharEsc:
		return "", false, i.escape()
	case CharEnter:
		return i.submit()
	case CharCtrlJ:
		// bereits gepufferte Eingabe stammt aus dem Cooked-Modus oder einem Paste
		if i.Pasting || i.Terminal.buffered() {
			return i.submit()
		}
		i.newline()
	case CharInterrupt:
		b.Finish()
		line := i.collect()
		i.lines, i.Pasting = nil, false
		return line, true, ErrInterrupt
	case CharDelete:
		if b.IsEmpty() && len(i.lines) == 0 && !i.Pasting {
			b.Finish()
			return "", true, io.EOF
		}
		b.Delete()
	case CharCtrlH, CharBackspace:
		if b.IsEmpty() && len(i.lines) > 0 {
			i.joinPrev()
		} else {
			b.Remove()
		}
	case CharLineStart:
		b.MoveToStart()
	case CharLineEnd:
		b.MoveToEnd()
	case CharBackward:
		b.MoveLeft()
	case CharForward:
		b.MoveRight()
	case CharKill:
		b.DeleteRemaining()
	case CharCtrlU:
		b.DeleteBefore()
	case CharCtrlW:
		b.DeleteWord()
	case CharCtrlL:
		b.ClearScreen()
	case CharPrev:
		i.historyPrev()
	case CharNext:
		i.historyNext()
	case CharTab:
		for range 4 {
			b.Add(CharSpace)
		}
	default:
		if r >= CharSpace {
			b.Add(r)
		}
	}

	return "", false, nil
}

// escape liest die Sequenz nach ESC
func (i *Instance) escape() error {
	r, err := i.Terminal.readRune()
	if err != nil {
		return err
	}

	b := i.buf
	switch r {
	case '[':
		return i.csi()
	case 'O':
		r, err := i.Terminal.readRune()
		if err != nil {
			return err
		}
		switch r {
		case 'H':
			b.MoveToStart()
		case 'F':
			b.MoveToEnd()
		}
	case 'b':
		b.MoveLeftWord()
	case 'f':
		b.MoveRightWord()
	case CharBackspace:
		b.DeleteWord()
	}
	return nil
}

// csi liest Parameter bis zum Endbyte einer CSI-Sequenz (ESC [ ... final)
func (i *Instance) csi() error {
	var params strings.Builder
	var final rune
	for {
		r, err := i.Terminal.readRune()
		if err != nil {
			return err
		}
		if r >= 0x40 && r <= 0x7e {
			final = r
			break
		}
		params.WriteRune(r)
	}

	b := i.buf
	p := params.String()
	// Ctrl (;5) oder Alt (;3) mit Pfeiltaste springt wortweise
	word := strings.HasSuffix(p, ";5") || strings.HasSuffix(p, ";3")

	switch final {
	case 'A':
		i.historyPrev()
	case 'B':
		i.historyNext()
	case 'C':
		if word {
			b.MoveRightWord()
		} else {
			b.MoveRight()
		}
	case 'D':
		if word {
			b.MoveLeftWord()
		} else {
			b.MoveLeft()
		}
	case 'H':
		b.MoveToStart()
	case 'F':
		b.MoveToEnd()
	case '~':
		switch p {
		case "3":
			b.Delete()
		case "1", "7":
			b.MoveToStart()
		case "4", "8":
			b.MoveToEnd()
		case "200":
			i.Pasting = true
		case "201":
			i.Pasting = false
		}
	}
	return nil
}
