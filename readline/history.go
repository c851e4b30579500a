// Package readline - Zeileneditor fuer den interaktiven Chat
//
// Modul history: Eingabe-History mit optionaler Datei
package readline

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/emirpasic/gods/v2/lists/arraylist"
)

const defaultHistoryLimit = 100

// History haelt die letzten Eingaben. Pos zeigt auf den gerade angezeigten Eintrag;
// Pos == Size() bedeutet "neue Zeile".
type History struct {
	Buf      *arraylist.List[string]
	Limit    int
	Pos      int
	Enabled  bool
	Filename string
}

// NewHistory laedt die History aus filename. Ein leerer Name haelt sie nur im Speicher.
func NewHistory(filename string) (*History, error) {
	h := &History{
		Buf:      arraylist.New[string](),
		Limit:    defaultHistoryLimit,
		Enabled:  filename != "",
		Filename: filename,
	}

	if err := h.load(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *History) load() error {
	if h.Filename == "" {
		return nil
	}

	f, err := os.Open(h.Filename)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	defer f.Close()

	s := bufio.NewScanner(f)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for s.Scan() {
		if line := strings.TrimSpace(s.Text()); line != "" {
			h.add(line)
		}
	}
	h.Pos = h.Size()
	return s.Err()
}

func (h *History) add(line string) {
	if last, ok := h.Buf.Get(h.Buf.Size() - 1); ok && last == line {
		return
	}
	h.Buf.Add(line)
	for h.Limit > 0 && h.Buf.Size() > h.Limit {
		h.Buf.Remove(0)
	}
}

// Add haengt eine abgeschickte Zeile an und speichert, falls aktiviert
func (h *History) Add(line string) error {
	line = strings.TrimSpace(line)
	if line != "" {
		h.add(line)
	}
	h.Pos = h.Size()

	if !h.Enabled {
		return nil
	}
	return h.Save()
}

func (h *History) Size() int {
	return h.Buf.Size()
}

// Prev geht einen Eintrag zurueck; ok ist false am Anfang der History
func (h *History) Prev() (line string, ok bool) {
	if h.Pos == 0 {
		return "", false
	}
	h.Pos--
	return h.Buf.Get(h.Pos)
}

// Next geht einen Eintrag vor; am Ende liefert er "" mit ok == true
func (h *History) Next() (line string, ok bool) {
	if h.Pos >= h.Size() {
		return "", false
	}
	h.Pos++
	if h.Pos == h.Size() {
		return "", true
	}
	return h.Buf.Get(h.Pos)
}

// Save schreibt die History atomar in die Datei
func (h *History) Save() error {
	if !h.Enabled || h.Filename == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(h.Filename), 0o755); err != nil {
		return fmt.Errorf("history: %w", err)
	}

	tmp := h.Filename + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}

	w := bufio.NewWriter(f)
	for _, line := range h.Buf.Values() {
		io.WriteString(w, line+"\n") //nolint:errcheck
	}
	if err := errors.Join(w.Flush(), f.Close()); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("history: %w", err)
	}

	return os.Rename(tmp, h.Filename)
}
