package readline

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferPosition(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		n        int
		row, col int
	}{
		{"nur Prompt", "", 0, 0, 4},
		{"ascii", "abc", 3, 0, 7},
		{"genau am Rand", "abcdef", 6, 1, 0},
		{"Umbruch", "abcdefgh", 8, 1, 2},
		{"breites Zeichen passt noch", "世界世", 3, 1, 0},
		{"breites Zeichen bricht frueh um", "a世界世", 4, 1, 2},
		{"Cursor in der Mitte", "abcdefgh", 2, 0, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer(io.Discard, ">>> ", "", 10)
			b.Buf.Add([]rune(tt.text)...)

			row, col := b.position(tt.n)
			if row != tt.row || col != tt.col {
				t.Errorf("position(%d) = (%d, %d), erwartet (%d, %d)", tt.n, row, col, tt.row, tt.col)
			}
		})
	}
}

func TestBufferRows(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 1},
		{"abcde", 1},
		{"abcdef", 1},
		{"abcdefg", 2},
		{strings.Repeat("x", 16), 2},
		{strings.Repeat("x", 17), 3},
	}

	for _, tt := range tests {
		b := NewBuffer(io.Discard, ">>> ", "", 10)
		b.Buf.Add([]rune(tt.text)...)
		if got := b.rows(); got != tt.want {
			t.Errorf("rows(%q) = %d, erwartet %d", tt.text, got, tt.want)
		}
	}
}

func TestBufferRefreshWrapped(t *testing.T) {
	var out strings.Builder
	b := NewBuffer(&out, ">>> ", "", 10)
	for _, r := range "abcdefgh" {
		b.Add(r)
	}
	assert.Equal(t, 1, b.cursorRow)

	out.Reset()
	b.MoveToStart()
	// eine Zeile hoch zum Prompt, neu zeichnen, dann vom Ende zurueck an Spalte 4
	assert.Equal(t, cursorUp(1)+"\r"+ClearToEOS+">>> abcdefgh"+cursorUp(1)+"\r"+cursorRight(4), out.String())
	assert.Equal(t, 0, b.cursorRow)
}

func TestBufferFinishAtEdge(t *testing.T) {
	var out strings.Builder
	b := NewBuffer(&out, ">>> ", "", 10)
	b.Buf.Add([]rune("abcdef")...)

	b.Finish()
	s := out.String()
	assert.True(t, strings.HasSuffix(s, "abcdef\r\n\r"), "Ausgabe: %q", s)
	assert.Equal(t, 1, strings.Count(s, "\r\n"), "genau ein Zeilenvorschub erwartet: %q", s)
}
