// Package readline - Zeileneditor fuer den interaktiven Chat
//
// Modul buffer: Eingabepuffer und Darstellung.
// Nach jeder Aenderung wird die Zeile ab dem Prompt neu gezeichnet;
// der Umbruch am Terminalrand wird dabei nachgerechnet, auch fuer breite Zeichen.
package readline

import (
	"io"
	"strings"

	"github.com/emirpasic/gods/v2/lists/arraylist"
	"github.com/mattn/go-runewidth"
)

type Buffer struct {
	Buf *arraylist.List[rune]
	Pos int

	out         io.Writer
	prompt      string
	placeholder string
	width       int

	// cursorRow ist die Zeile des Cursors relativ zur Prompt-Zeile
	cursorRow int
}

func NewBuffer(out io.Writer, prompt, placeholder string, width int) *Buffer {
	if width <= 0 {
		width = 80
	}

	return &Buffer{
		Buf:         arraylist.New[rune](),
		out:         out,
		prompt:      prompt,
		placeholder: placeholder,
		width:       width,
	}
}

func (b *Buffer) String() string {
	return string(b.Buf.Values())
}

func (b *Buffer) IsEmpty() bool {
	return b.Buf.Empty()
}

func (b *Buffer) Len() int {
	return b.Buf.Size()
}

func (b *Buffer) at(i int) rune {
	r, _ := b.Buf.Get(i)
	return r
}

// position gibt Zeile und Spalte nach den ersten n Zeichen (inklusive Prompt) zurueck.
// Ein breites Zeichen das nicht mehr in die Zeile passt beginnt eine neue.
func (b *Buffer) position(n int) (row, col int) {
	place := func(r rune) {
		w := runewidth.RuneWidth(r)
		if col+w > b.width {
			row, col = row+1, 0
		}
		col += w
	}

	for _, r := range b.prompt {
		place(r)
	}
	for i := range n {
		place(b.at(i))
	}

	if col >= b.width {
		row, col = row+1, 0
	}
	return row, col
}

func (b *Buffer) write(parts ...string) {
	io.WriteString(b.out, strings.Join(parts, "")) //nolint:errcheck
}

// refresh zeichnet Prompt und Eingabe neu und setzt den Cursor auf Pos
func (b *Buffer) refresh() {
	var sb strings.Builder
	sb.WriteString(cursorUp(b.cursorRow))
	sb.WriteString("\r" + ClearToEOS + b.prompt)

	if b.IsEmpty() && b.placeholder != "" {
		_, col := b.position(0)
		ph := runewidth.Truncate(b.placeholder, b.width-col-1, "")
		sb.WriteString(ColorGrey + ph + ColorDefault + cursorLeft(runewidth.StringWidth(ph)))
		b.write(sb.String())
		b.cursorRow = 0
		return
	}

	sb.WriteString(b.String())

	endRow, endCol := b.position(b.Len())
	if endCol == 0 && endRow > 0 {
		// Cursor steht am Rand; erst der Zeilenvorschub macht seine Position eindeutig
		sb.WriteString("\r\n")
	}

	row, col := b.position(b.Pos)
	sb.WriteString(cursorUp(endRow - row))
	sb.WriteString("\r" + cursorRight(col))

	b.write(sb.String())
	b.cursorRow = row
}

// Finish setzt den Cursor hinter die Eingabe und beginnt eine neue Zeile
func (b *Buffer) Finish() {
	b.placeholder = ""
	b.Pos = b.Len()
	b.refresh()
	if endRow, endCol := b.position(b.Len()); endCol != 0 || endRow == 0 {
		b.write("\r\n")
	}
	b.cursorRow = 0
}

// rows ist die Anzahl Terminalzeilen von Prompt und Eingabe
func (b *Buffer) rows() int {
	row, col := b.position(b.Len())
	if col == 0 && row > 0 {
		return row
	}
	return row + 1
}

// ClearScreen leert das Terminal und zeichnet die Eingabe oben neu
func (b *Buffer) ClearScreen() {
	b.write(ClearScreen + CursorReset)
	b.cursorRow = 0
	b.refresh()
}

// Replace ersetzt die Eingabe, etwa beim Blaettern in der History
func (b *Buffer) Replace(r []rune) {
	b.Buf.Clear()
	b.Buf.Add(r...)
	b.Pos = len(r)
	b.refresh()
}
