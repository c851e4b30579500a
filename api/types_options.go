// types_options.go - Options und Runner Konfiguration
// Enthaelt: Options, Runner, DefaultOptions(), FromMap()

package api

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/smolchat/smolchat/envconfig"
)

// Options beschreibt eine Chat-Session. Wenn du eine neue Option hinzufuegst,
// fuege sie auch zu envconfig und zur Config-Datei-Dokumentation hinzu.
type Options struct {
	Runner

	// Sampling
	Seed        int     `json:"seed,omitempty"`
	Temperature float32 `json:"temperature,omitempty"`
	MinP        float32 `json:"min_p,omitempty"`

	// StoreChats behaelt die History ueber Turns hinweg
	StoreChats bool `json:"store_chats,omitempty"`

	// Template ist ein optionales Chat-Template (Go-Template oder Name eines eingebauten Templates)
	Template string `json:"template,omitempty"`

	// System wird bei jedem Rendern als erste Nachricht eingefuegt
	System string `json:"system,omitempty"`
}

// Runner Optionen die beim Laden des Modells gesetzt werden muessen
type Runner struct {
	Model          string `json:"model,omitempty"`
	NumCtx         int    `json:"num_ctx,omitempty"`
	NumThread      int    `json:"num_thread,omitempty"`
	NumBatchThread int    `json:"num_batch_thread,omitempty"`
	UseMMap        *bool  `json:"use_mmap,omitempty"`
	UseMLock       bool   `json:"use_mlock,omitempty"`
}

// DefaultOptions ist der Standard-Satz von Optionen;
// diese Werte werden verwendet, wenn der Benutzer keine anderen Werte explizit angibt.
func DefaultOptions() Options {
	opts := Options{
		Seed:        -1,
		Temperature: envconfig.Temperature(),
		MinP:        envconfig.MinP(),
		StoreChats:  envconfig.StoreChats(),
		Template:    envconfig.ChatTemplate(),

		Runner: Runner{
			// options set when the model is loaded
			Model:     envconfig.Model(),
			NumCtx:    int(envconfig.ContextLength()),
			NumThread: int(envconfig.NumThread()), // 0 = runtime entscheidet
			UseMLock:  envconfig.UseMLock(),
		},
	}

	if envconfig.NoMMap() {
		opts.UseMMap = new(bool)
	}

	return opts
}

// FromMap laedt Options-Werte aus einer Map (JSON- oder YAML-dekodiert)
func (opts *Options) FromMap(m map[string]any) error {
	valueOpts := reflect.ValueOf(opts).Elem() // names of the fields in the options struct
	typeOpts := reflect.TypeOf(opts).Elem()   // types of the fields in the options struct

	// build map of json struct tags to their types
	jsonOpts := make(map[string]reflect.StructField)
	for _, field := range reflect.VisibleFields(typeOpts) {
		jsonTag := strings.Split(field.Tag.Get("json"), ",")[0]
		if jsonTag != "" {
			jsonOpts[jsonTag] = field
		}
	}

	for key, val := range m {
		opt, ok := jsonOpts[key]
		if !ok {
			slog.Warn("invalid option provided", "option", key)
			continue
		}

		field := valueOpts.FieldByName(opt.Name)
		if !field.IsValid() || !field.CanSet() || val == nil {
			continue
		}

		switch field.Kind() {
		case reflect.Int:
			switch t := val.(type) {
			case int:
				// YAML dekodiert Ganzzahlen als int
				field.SetInt(int64(t))
			case int64:
				field.SetInt(t)
			case float64:
				// when JSON unmarshals numbers, it uses float64, not int
				field.SetInt(int64(t))
			default:
				return fmt.Errorf("option %q must be of type integer", key)
			}
		case reflect.Bool:
			val, ok := val.(bool)
			if !ok {
				return fmt.Errorf("option %q must be of type boolean", key)
			}
			field.SetBool(val)
		case reflect.Float32:
			switch t := val.(type) {
			case float64:
				field.SetFloat(t)
			case int:
				field.SetFloat(float64(t))
			default:
				return fmt.Errorf("option %q must be of type float32", key)
			}
		case reflect.String:
			val, ok := val.(string)
			if !ok {
				return fmt.Errorf("option %q must be of type string", key)
			}
			field.SetString(val)
		case reflect.Pointer:
			var b bool
			if field.Type() != reflect.TypeOf(&b) {
				return fmt.Errorf("unknown type loading config params: %v %v", field.Kind(), field.Type())
			}
			val, ok := val.(bool)
			if !ok {
				return fmt.Errorf("option %q must be of type boolean", key)
			}
			field.Set(reflect.ValueOf(&val))
		default:
			return fmt.Errorf("unknown type loading config params: %v", field.Kind())
		}
	}

	return nil
}

// MMap gibt die effektive Memory-Mapping-Policy zurueck (Default: an)
func (r Runner) MMap() bool {
	return r.UseMMap == nil || *r.UseMMap
}
