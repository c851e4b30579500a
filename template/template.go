// Package template - Chat-Templates fuer smolchat
// Hauptmodul: Template-Parsing, eingebaute Templates und Aufloesung
package template

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"slices"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/agnivade/levenshtein"
)

// ErrTemplate wird zurueckgegeben wenn ein Chat-Template nicht angewendet werden kann
var ErrTemplate = errors.New("chat template failed")

//go:embed index.json
var indexBytes []byte

//go:embed *.gotmpl
var templatesFS embed.FS

var templatesOnce = sync.OnceValues(func() ([]*named, error) {
	var templates []*named
	if err := json.Unmarshal(indexBytes, &templates); err != nil {
		return nil, err
	}

	for _, t := range templates {
		bts, err := templatesFS.ReadFile(t.Name + ".gotmpl")
		if err != nil {
			return nil, err
		}

		// normalize line endings
		t.Bytes = bytes.ReplaceAll(bts, []byte("\r\n"), []byte("\n"))
	}

	return templates, nil
})

// named ist ein eingebautes Template.
// Template enthaelt den Jinja-Text wie er in Modelldateien steht, Bytes die Go-Variante.
type named struct {
	Name     string `json:"name"`
	Template string `json:"template"`
	Bytes    []byte
}

func (t named) Reader() io.Reader {
	return bytes.NewReader(t.Bytes)
}

// Named sucht das eingebaute Template dessen Jinja-Text s am naechsten kommt
func Named(s string) (*named, error) {
	templates, err := templatesOnce()
	if err != nil {
		return nil, err
	}

	var template *named
	score := math.MaxInt
	for _, t := range templates {
		if s := levenshtein.ComputeDistance(s, t.Template); s < score {
			score = s
			template = t
		}
	}

	if score < 100 {
		return template, nil
	}

	return nil, errors.New("no matching template found")
}

// Builtin gibt das eingebaute Template mit dem Namen name zurueck
func Builtin(name string) (*Template, error) {
	templates, err := templatesOnce()
	if err != nil {
		return nil, err
	}

	for _, t := range templates {
		if t.Name == name {
			return Parse(string(t.Bytes))
		}
	}

	return nil, fmt.Errorf("unknown template %q", name)
}

// Names gibt die Namen aller eingebauten Templates zurueck
func Names() []string {
	templates, err := templatesOnce()
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(templates))
	for _, t := range templates {
		names = append(names, t.Name)
	}
	return names
}

// Resolve waehlt ein Template fuer s:
// leer ergibt chatml, ein eingebauter Name das eingebaute Template,
// Jinja-Text das naechste eingebaute Template, sonst wird s als Go-Template geparst.
func Resolve(s string) (*Template, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return Builtin("chatml")
	case slices.Contains(Names(), s):
		return Builtin(s)
	case strings.Contains(s, "{%"):
		n, err := Named(s)
		if err != nil {
			return nil, err
		}
		return Parse(string(n.Bytes))
	case strings.Contains(s, "{{"):
		return Parse(s)
	}

	return nil, fmt.Errorf("unknown template %q", s)
}

type Template struct {
	*template.Template
	raw string
}

var funcs = template.FuncMap{
	"json": func(v any) string {
		b, _ := json.Marshal(v)
		return string(b)
	},
	"currentDate": func(args ...string) string {
		return time.Now().Format("2006-01-02")
	},
	"trim": strings.TrimSpace,
}

// Parse parst ein Go-Template. Das Template muss ueber .Messages iterieren.
func Parse(s string) (*Template, error) {
	tmpl := template.New("").Option("missingkey=zero").Funcs(funcs)

	tmpl, err := tmpl.Parse(s)
	if err != nil {
		return nil, err
	}

	t := Template{Template: tmpl, raw: s}
	if !slices.Contains(t.Vars(), "messages") {
		return nil, errors.New("template does not reference .Messages")
	}

	return &t, nil
}

func (t *Template) String() string {
	return t.raw
}

// Vars gibt alle im Template referenzierten Feldnamen (kleingeschrieben, sortiert) zurueck
func (t *Template) Vars() []string {
	set := fieldSet{}
	for _, tt := range t.Templates() {
		if tt.Tree != nil {
			set.walk(tt.Root)
		}
	}
	return slices.Sorted(maps.Keys(set))
}

func (t *Template) Contains(s string) bool {
	return strings.Contains(t.raw, s)
}
