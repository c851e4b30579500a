// Package bytegram - reine Go-Engine auf Basis von Byte-N-Grammen
//
// Dieses Modul enthaelt:
// - Params: Lade- und Sampling-Parameter
// - Load: Laedt eine Korpus-Datei (mmap/mlock) und trainiert das Modell
// - New: Trainiert ein Modell aus einem Korpus im Speicher
// - Model: engine.Engine Implementierung mit KV-Zellen pro Sequenz
package bytegram

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/smolchat/smolchat/engine"
)

// chatTemplate ist das im Modell hinterlegte Jinja-Template (chatml)
const chatTemplate = "{% for message in messages %}{{'<|im_start|>' + message['role'] + '\\n' + message['content'] + '<|im_end|>' + '\\n'}}{% endfor %}{% if add_generation_prompt %}{{ '<|im_start|>assistant\\n' }}{% endif %}"

// Params beschreibt wie ein Modell geladen und gesampelt wird
type Params struct {
	NumCtx         int
	NumThread      int
	NumBatchThread int
	UseMMap        bool
	UseMLock       bool

	Temperature float32
	MinP        float32
	Seed        int
}

// sequence ist der Zustand einer Sequenz im KV-Cache
type sequence struct {
	w window
	n int

	utf8 utf8State
}

// Model ist ein geladenes bytegram-Modell mit einem Kontext
type Model struct {
	name    string
	size    uint64
	counts  *counts
	corpus  []byte
	release func() error

	numCtx         int
	numThread      int
	numBatchThread int
	sampler        *sampler

	seqs  map[int]*sequence
	cells int
	last  []float32
}

var _ engine.Engine = (*Model)(nil)

// Load laedt die Korpus-Datei path und trainiert daraus ein Modell
func Load(path string, p Params) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat model: %w", err)
	}
	if fi.Size() == 0 {
		return nil, errors.New("model file is empty")
	}

	var corpus []byte
	release := func() error { return nil }
	if p.UseMMap {
		corpus, release, err = mapFile(f, fi.Size(), p.UseMLock)
		if err != nil {
			return nil, fmt.Errorf("map model: %w", err)
		}
	} else {
		if p.UseMLock {
			slog.Warn("mlock requires mmap, ignoring")
		}
		corpus, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read model: %w", err)
		}
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	m := New(name, corpus, p)
	m.release = release
	return m, nil
}

// New trainiert ein Modell aus corpus
func New(name string, corpus []byte, p Params) *Model {
	if p.NumCtx <= 0 {
		p.NumCtx = 2048
	}
	if p.NumThread <= 0 {
		p.NumThread = runtime.NumCPU()
	}
	if p.NumBatchThread <= 0 {
		p.NumBatchThread = p.NumThread
	}

	start := time.Now()
	c := newCounts()
	c.train(corpus)
	slog.Debug("bytegram model trained", "name", name, "bytes", len(corpus), "duration", time.Since(start))

	return &Model{
		name:           name,
		size:           uint64(len(corpus)),
		counts:         c,
		corpus:         corpus,
		release:        func() error { return nil },
		numCtx:         p.NumCtx,
		numThread:      p.NumThread,
		numBatchThread: p.NumBatchThread,
		sampler:        newSampler(p.Temperature, p.MinP, p.Seed),
		seqs:           make(map[int]*sequence),
	}
}

func (m *Model) Tokenize(text string, addBOS, special bool) ([]int, error) {
	return tokenize(text, addBOS, special), nil
}

func (m *Model) TokenToPiece(token int) []byte {
	return piece(token)
}

func (m *Model) TokenIsEog(token int) bool {
	return isEog(token)
}

// Sample zieht das naechste Token aus den Logits des letzten Decode-Aufrufs
func (m *Model) Sample() int {
	if m.last == nil {
		return tokenEOS
	}
	return m.sampler.sample(m.last)
}

func (m *Model) ContextCellsUsed() int {
	return m.cells
}

func (m *Model) ContextSize() int {
	return m.numCtx
}

func (m *Model) ClearMemory() {
	clear(m.seqs)
	m.cells = 0
	m.last = nil
}

func (m *Model) ChatTemplate() string {
	return chatTemplate
}

func (m *Model) Info() engine.ModelInfo {
	return engine.ModelInfo{
		Description: "bytegram " + m.name,
		Size:        m.size,
		Params:      m.counts.params(),
		Backend:     "CPU",
	}
}

// Close gibt die Abbildung der Korpus-Datei frei
func (m *Model) Close() error {
	m.corpus = nil
	return m.release()
}
