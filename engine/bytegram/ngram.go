// ngram.go - Zaehlstatistik und Logits
//
// Das Modell interpoliert Trigramm-, Bigramm- und Unigramm-Haeufigkeiten
// ueber dem Token-Vokabular.
package bytegram

import (
	"bytes"
	"math"
)

const (
	weightTrigram = 0.6
	weightBigram  = 0.3
	weightUnigram = 0.1
)

// window sind die letzten zwei Token einer Sequenz (-1 = leer)
type window [2]int

func emptyWindow() window {
	return window{-1, -1}
}

func (w window) push(token int) window {
	return window{w[1], token}
}

type counts struct {
	unigram  []uint32
	uniTotal uint64

	bigram  []uint32 // vocabSize * vocabSize
	biTotal []uint32

	trigram  map[window]map[int]uint32
	triTotal map[window]uint32
}

func newCounts() *counts {
	return &counts{
		unigram:  make([]uint32, vocabSize),
		bigram:   make([]uint32, vocabSize*vocabSize),
		biTotal:  make([]uint32, vocabSize),
		trigram:  make(map[window]map[int]uint32),
		triTotal: make(map[window]uint32),
	}
}

// train zaehlt alle Uebergaenge im Korpus.
// Leerzeilen beenden einen Absatz und zaehlen als Uebergang zu </s>.
func (c *counts) train(corpus []byte) {
	for _, paragraph := range bytes.Split(corpus, []byte("\n\n")) {
		paragraph = bytes.TrimSpace(paragraph)
		if len(paragraph) == 0 {
			continue
		}

		tokens := tokenize(string(paragraph), true, true)
		if !isEog(tokens[len(tokens)-1]) {
			tokens = append(tokens, tokenEOS)
		}

		w := emptyWindow()
		for _, t := range tokens {
			c.observe(w, t)
			w = w.push(t)
		}
	}
}

func (c *counts) observe(w window, token int) {
	c.unigram[token]++
	c.uniTotal++

	if prev := w[1]; prev >= 0 {
		c.bigram[prev*vocabSize+token]++
		c.biTotal[prev]++
	}

	if w[0] >= 0 {
		m, ok := c.trigram[w]
		if !ok {
			m = make(map[int]uint32)
			c.trigram[w] = m
		}
		m[token]++
		c.triTotal[w]++
	}
}

// params gibt die Anzahl belegter Zaehler zurueck
func (c *counts) params() uint64 {
	var n uint64
	for _, v := range c.unigram {
		if v > 0 {
			n++
		}
	}
	for _, v := range c.bigram {
		if v > 0 {
			n++
		}
	}
	for _, m := range c.trigram {
		n += uint64(len(m))
	}
	return n
}

// logits berechnet log-Wahrscheinlichkeiten fuer alle Token nach w
func (c *counts) logits(w window, dst []float32) {
	uniDenom := float64(c.uniTotal) + float64(vocabSize)

	var bi []uint32
	var biTotal float64
	if prev := w[1]; prev >= 0 && c.biTotal[prev] > 0 {
		bi = c.bigram[prev*vocabSize : (prev+1)*vocabSize]
		biTotal = float64(c.biTotal[prev])
	}

	tri := c.trigram[w]
	triTotal := float64(c.triTotal[w])

	for t := range dst {
		p := weightUnigram * (float64(c.unigram[t]) + 1) / uniDenom
		if bi != nil {
			p += weightBigram * float64(bi[t]) / biTotal
		}
		if tri != nil {
			p += weightTrigram * float64(tri[t]) / triTotal
		}
		dst[t] = float32(math.Log(p))
	}
}
