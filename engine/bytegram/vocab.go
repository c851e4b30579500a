// vocab.go - Byte-Vokabular mit Spezial-Token
//
// Token 0-255 sind die Bytes selbst, danach folgen die Spezial-Token
// der eingebauten Chat-Templates.
package bytegram

import (
	"slices"
	"strings"
)

const numBytes = 256

const (
	tokenBOS = numBytes + iota
	tokenEOS
	tokenImStart
	tokenImEnd
	tokenEotID
	tokenStartHeader
	tokenEndHeader
	tokenStartOfTurn
	tokenEndOfTurn
	tokenEnd
	tokenUser
	tokenAssistant
	tokenSystem
)

var specials = []string{
	tokenBOS - numBytes:         "<s>",
	tokenEOS - numBytes:         "</s>",
	tokenImStart - numBytes:     "<|im_start|>",
	tokenImEnd - numBytes:       "<|im_end|>",
	tokenEotID - numBytes:       "<|eot_id|>",
	tokenStartHeader - numBytes: "<|start_header_id|>",
	tokenEndHeader - numBytes:   "<|end_header_id|>",
	tokenStartOfTurn - numBytes: "<start_of_turn>",
	tokenEndOfTurn - numBytes:   "<end_of_turn>",
	tokenEnd - numBytes:         "<|end|>",
	tokenUser - numBytes:        "<|user|>",
	tokenAssistant - numBytes:   "<|assistant|>",
	tokenSystem - numBytes:      "<|system|>",
}

var eog = []int{tokenEOS, tokenImEnd, tokenEotID, tokenEndOfTurn, tokenEnd}

// vocabSize ist die Anzahl aller Token
var vocabSize = numBytes + len(specials)

// tokenize zerlegt text in Bytes; mit special werden Spezial-Token erkannt
func tokenize(text string, addBOS, special bool) []int {
	tokens := make([]int, 0, len(text)+1)
	if addBOS {
		tokens = append(tokens, tokenBOS)
	}

	for i := 0; i < len(text); {
		if special && text[i] == '<' {
			if id, n := matchSpecial(text[i:]); n > 0 {
				tokens = append(tokens, id)
				i += n
				continue
			}
		}

		tokens = append(tokens, int(text[i]))
		i++
	}

	return tokens
}

// matchSpecial sucht das laengste Spezial-Token am Anfang von s
func matchSpecial(s string) (id, n int) {
	for i, sp := range specials {
		if len(sp) > n && strings.HasPrefix(s, sp) {
			id, n = numBytes+i, len(sp)
		}
	}
	return id, n
}

func piece(token int) []byte {
	switch {
	case token < 0:
		return nil
	case token < numBytes:
		return []byte{byte(token)}
	case token < vocabSize:
		return []byte(specials[token-numBytes])
	}
	return nil
}

func isEog(token int) bool {
	return slices.Contains(eog, token)
}
