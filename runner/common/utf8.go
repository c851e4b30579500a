// Package common - Gemeinsame Hilfsfunktionen fuer den Runner
//
// Dieses Modul enthaelt:
// - IsCompleteSequence: Prueft ob ein Byte-Puffer auf vollstaendigen UTF-8 Codepoints endet
package common

// IsCompleteSequence prueft, ob b aus null oder mehr vollstaendigen UTF-8
// Codepoints besteht. Ein leerer oder nil Puffer ist vollstaendig.
//
// Ungueltige Lead-Bytes, fehlerhafte Continuation-Bytes und abgeschnittene
// Sequenzen am Ende ergeben false. Die Funktion scannt immer von vorne,
// Aufrufer sollten daher nur den noch ausstehenden Rest uebergeben.
func IsCompleteSequence(b []byte) bool {
	for i := 0; i < len(b); {
		num := sequenceLength(b[i])
		if num == 0 {
			return false
		}

		i++
		for j := 1; j < num; j++ {
			if i >= len(b) || b[i]&0xC0 != 0x80 {
				return false
			}
			i++
		}
	}

	return true
}

// sequenceLength klassifiziert ein Lead-Byte nach seinem Bitmuster.
// 0 bedeutet ungueltiges Lead-Byte.
func sequenceLength(c byte) int {
	switch {
	case c&0x80 == 0x00:
		// U+0000 bis U+007F
		return 1
	case c&0xE0 == 0xC0:
		// U+0080 bis U+07FF
		return 2
	case c&0xF0 == 0xE0:
		// U+0800 bis U+FFFF
		return 3
	case c&0xF8 == 0xF0:
		// U+10000 bis U+10FFFF
		return 4
	default:
		return 0
	}
}
