// utf8.go - UTF-8 Maske fuer Byte-Token
//
// Ohne Maske kann der Sampler Bytes waehlen, die nie zu gueltigem UTF-8
// werden (etwa ein einzelnes 0x80), und der Turn liefert danach keinen Text mehr.
package bytegram

import "math"

// utf8State beschreibt die offenen Folgebytes des letzten Zeichens einer Sequenz.
// lo und hi begrenzen das naechste Folgebyte (RFC 3629, Tabelle 3-7 im Unicode-Standard).
type utf8State struct {
	need   int
	lo, hi byte
}

// next gibt den Zustand nach token zurueck
func (s utf8State) next(token int) utf8State {
	if token < 0 || token >= numBytes {
		return utf8State{}
	}

	b := byte(token)
	if s.need > 0 && b >= s.lo && b <= s.hi {
		return utf8State{need: s.need - 1, lo: 0x80, hi: 0xBF}
	}

	switch {
	case b >= 0xC2 && b <= 0xDF:
		return utf8State{1, 0x80, 0xBF}
	case b == 0xE0:
		return utf8State{2, 0xA0, 0xBF}
	case b == 0xED:
		return utf8State{2, 0x80, 0x9F}
	case b >= 0xE1 && b <= 0xEF:
		return utf8State{2, 0x80, 0xBF}
	case b == 0xF0:
		return utf8State{3, 0x90, 0xBF}
	case b == 0xF4:
		return utf8State{3, 0x80, 0x8F}
	case b >= 0xF1 && b <= 0xF3:
		return utf8State{3, 0x80, 0xBF}
	}
	return utf8State{}
}

// allows meldet ob token das offene Zeichen gueltig fortsetzt bzw. ein neues beginnen darf
func (s utf8State) allows(token int) bool {
	if s.need > 0 {
		return token < numBytes && byte(token) >= s.lo && byte(token) <= s.hi
	}
	if token >= numBytes {
		return true
	}

	b := byte(token)
	return b < 0x80 || (b >= 0xC2 && b <= 0xF4)
}

// mask setzt die Logits aller Token, die s nicht gueltig fortsetzen, auf -Inf
func (s utf8State) mask(logits []float32) {
	inf := float32(math.Inf(-1))
	for t := range logits {
		if !s.allows(t) {
			logits[t] = inf
		}
	}
}
