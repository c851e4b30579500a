// Package readline - Zeileneditor fuer den interaktiven Chat
//
// Modul types: Tastencodes, Escape-Sequenzen und Fehler
package readline

import (
	"errors"
	"strconv"
)

var (
	// ErrInterrupt wird bei Ctrl+C zurueckgegeben, zusammen mit der bisherigen Eingabe
	ErrInterrupt = errors.New("interrupt")

	// ErrPaste markiert eine Zeile aus einem eingefuegten Block (bracketed paste).
	// Der Aufrufer sammelt solche Zeilen bis zur naechsten normalen Zeile.
	ErrPaste = errors.New("pasted line")
)

// Steuerzeichen im Raw-Modus
const (
	CharNull      = 0
	CharLineStart = 1  // Ctrl+A
	CharBackward  = 2  // Ctrl+B
	CharInterrupt = 3  // Ctrl+C
	CharDelete    = 4  // Ctrl+D
	CharLineEnd   = 5  // Ctrl+E
	CharForward   = 6  // Ctrl+F
	CharCtrlH     = 8  // Ctrl+H
	CharTab       = 9  // Tab
	CharCtrlJ     = 10 // Ctrl+J
	CharKill      = 11 // Ctrl+K
	CharCtrlL     = 12 // Ctrl+L
	CharEnter     = 13 // Enter
	CharNext      = 14 // Ctrl+N
	CharPrev      = 16 // Ctrl+P
	CharCtrlU     = 21 // Ctrl+U
	CharCtrlW     = 23 // Ctrl+W
	CharEsc       = 27
	CharSpace     = 32
	CharBackspace = 127
)

// ANSI Escape-Sequenzen
const (
	ClearToEOL   = "\033[K"
	ClearToEOS   = "\033[J"
	ClearScreen  = "\033[2J"
	CursorReset  = "\033[H"
	ColorGrey    = "\033[38;5;245m"
	ColorDefault = "\033[0m"

	StartBracketedPaste = "\033[?2004h"
	EndBracketedPaste   = "\033[?2004l"
)

func cursorMove(n int, dir byte) string {
	if n <= 0 {
		return ""
	}
	return "\033[" + strconv.Itoa(n) + string(dir)
}

func cursorUp(n int) string    { return cursorMove(n, 'A') }
func cursorRight(n int) string { return cursorMove(n, 'C') }
func cursorLeft(n int) string  { return cursorMove(n, 'D') }
