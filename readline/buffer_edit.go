// Package readline - Zeileneditor fuer den interaktiven Chat
//
// Modul buffer_edit: Einfuegen, Loeschen und Cursor-Bewegungen
package readline

import "unicode"

func (b *Buffer) Add(r rune) {
	b.Buf.Insert(b.Pos, r)
	b.Pos++
	b.refresh()
}

// Remove loescht das Zeichen vor dem Cursor (Backspace)
func (b *Buffer) Remove() {
	if b.Pos == 0 {
		return
	}
	b.Pos--
	b.Buf.Remove(b.Pos)
	b.refresh()
}

// Delete loescht das Zeichen unter dem Cursor
func (b *Buffer) Delete() {
	if b.Pos >= b.Len() {
		return
	}
	b.Buf.Remove(b.Pos)
	b.refresh()
}

func (b *Buffer) removeRange(from, to int) {
	for range to - from {
		b.Buf.Remove(from)
	}
	b.Pos = from
	b.refresh()
}

// DeleteBefore loescht alles vor dem Cursor (Ctrl+U)
func (b *Buffer) DeleteBefore() {
	b.removeRange(0, b.Pos)
}

// DeleteRemaining loescht ab dem Cursor bis zum Ende (Ctrl+K)
func (b *Buffer) DeleteRemaining() {
	b.removeRange(b.Pos, b.Len())
}

// DeleteWord loescht das Wort vor dem Cursor samt folgender Leerzeichen (Ctrl+W)
func (b *Buffer) DeleteWord() {
	b.removeRange(b.wordStart(), b.Pos)
}

// wordStart ist der Anfang des Wortes links vom Cursor
func (b *Buffer) wordStart() int {
	i := b.Pos
	for i > 0 && unicode.IsSpace(b.at(i-1)) {
		i--
	}
	for i > 0 && !unicode.IsSpace(b.at(i-1)) {
		i--
	}
	return i
}

// wordEnd ist das Ende des Wortes rechts vom Cursor
func (b *Buffer) wordEnd() int {
	i := b.Pos
	for i < b.Len() && unicode.IsSpace(b.at(i)) {
		i++
	}
	for i < b.Len() && !unicode.IsSpace(b.at(i)) {
		i++
	}
	return i
}

func (b *Buffer) moveTo(pos int) {
	pos = max(0, min(pos, b.Len()))
	if pos != b.Pos {
		b.Pos = pos
		b.refresh()
	}
}

func (b *Buffer) MoveLeft()      { b.moveTo(b.Pos - 1) }
func (b *Buffer) MoveRight()     { b.moveTo(b.Pos + 1) }
func (b *Buffer) MoveLeftWord()  { b.moveTo(b.wordStart()) }
func (b *Buffer) MoveRightWord() { b.moveTo(b.wordEnd()) }
func (b *Buffer) MoveToStart()   { b.moveTo(0) }
func (b *Buffer) MoveToEnd()     { b.moveTo(b.Len()) }
