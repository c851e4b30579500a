// Package engine - Schnittstelle zur Inferenz-Engine
//
// Dieses Modul enthaelt:
// - Engine: Tokenizer, Decode, Sampler und Detokenizer einer geladenen Modell-Instanz
// - Batch: Token-Batch fuer einen Decode-Aufruf
// - ModelInfo: Beschreibung des Modells fuer Benchmarks und /v1/models
// - ErrKvCacheFull: kein freier Slot im KV-Cache
package engine

import (
	"errors"
	"fmt"
)

// ErrKvCacheFull entspricht einem positiven Rueckgabewert von decode:
// fuer den Batch wurde kein KV-Slot gefunden
var ErrKvCacheFull = errors.New("could not find a kv cache slot")

//go:generate mockgen -source=engine.go -destination=engine_mock.go -package=engine

// Engine ist eine geladene Modell-Instanz mit genau einem Kontext.
// Implementierungen sind nicht goroutine-sicher, der Zugriff laeuft ueber Handle.
type Engine interface {
	// Tokenize wandelt text in Token-IDs um. addBOS stellt das BOS-Token voran,
	// special erlaubt Spezial-Token im Text.
	Tokenize(text string, addBOS, special bool) ([]int, error)

	// Decode verarbeitet batch und aktualisiert den KV-Cache.
	// Ein voller Cache liefert ErrKvCacheFull.
	Decode(batch *Batch) error

	// Sample zieht das naechste Token aus den letzten Logits (min-p, Temperatur, Seed)
	Sample() int

	// TokenToPiece gibt die Bytes eines Tokens zurueck, ggf. nur Teil eines UTF-8 Zeichens
	TokenToPiece(token int) []byte

	// TokenIsEog meldet ob token die Generierung beendet
	TokenIsEog(token int) bool

	// ContextCellsUsed gibt die Anzahl belegter KV-Zellen zurueck
	ContextCellsUsed() int

	// ContextSize gibt die Groesse des Kontextfensters zurueck
	ContextSize() int

	// ClearMemory leert den KV-Cache
	ClearMemory()

	// ChatTemplate gibt das im Modell hinterlegte Chat-Template zurueck (kann leer sein)
	ChatTemplate() string

	Info() ModelInfo

	Close() error
}

// ModelInfo beschreibt ein geladenes Modell
type ModelInfo struct {
	Description string `json:"description"`
	Size        uint64 `json:"size"`
	Params      uint64 `json:"params"`
	Backend     string `json:"backend"`
}

// Batch sammelt Token fuer einen Decode-Aufruf
type Batch struct {
	Tokens    []int
	Positions []int
	SeqIDs    []int
	Logits    []bool
}

// NewBatch erstellt einen leeren Batch mit Platz fuer size Token
func NewBatch(size int) *Batch {
	return &Batch{
		Tokens:    make([]int, 0, size),
		Positions: make([]int, 0, size),
		SeqIDs:    make([]int, 0, size),
		Logits:    make([]bool, 0, size),
	}
}

// Add haengt ein Token an Position pos der Sequenz seqID an.
// logits fordert die Ausgabe-Logits fuer dieses Token an.
func (b *Batch) Add(token, pos int, logits bool, seqID int) {
	b.Tokens = append(b.Tokens, token)
	b.Positions = append(b.Positions, pos)
	b.SeqIDs = append(b.SeqIDs, seqID)
	b.Logits = append(b.Logits, logits)
}

// NumTokens gibt die Anzahl der Token im Batch zurueck
func (b *Batch) NumTokens() int {
	if b == nil {
		return 0
	}
	return len(b.Tokens)
}

// Clear leert den Batch ohne den Speicher freizugeben
func (b *Batch) Clear() {
	b.Tokens = b.Tokens[:0]
	b.Positions = b.Positions[:0]
	b.SeqIDs = b.SeqIDs[:0]
	b.Logits = b.Logits[:0]
}

// Validate prueft dass alle Felder gleich lang sind
func (b *Batch) Validate() error {
	n := len(b.Tokens)
	if len(b.Positions) != n || len(b.SeqIDs) != n || len(b.Logits) != n {
		return fmt.Errorf("inconsistent batch: %d tokens, %d positions, %d seq ids, %d logits",
			n, len(b.Positions), len(b.SeqIDs), len(b.Logits))
	}
	return nil
}

// PromptBatch baut einen Batch fuer tokens ab Position start in Sequenz 0.
// Logits werden nur fuer das letzte Token angefordert.
func PromptBatch(tokens []int, start int) *Batch {
	b := NewBatch(len(tokens))
	for i, t := range tokens {
		b.Add(t, start+i, i == len(tokens)-1, 0)
	}
	return b
}
