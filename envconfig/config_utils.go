// config_utils.go - Getter-Bausteine und Export der Konfiguration
//
// Dieses Modul enthaelt:
// - parsed: generischer Getter mit Parser und Default
// - Bool/BoolWithDefault/String/Uint/Float: typisierte Getter darauf
// - EnvVar/AsMap/Values: Uebersicht aller SMOLCHAT_* Variablen
package envconfig

import (
	"fmt"
	"log/slog"
	"strconv"
)

// parsed liest key und wandelt den Wert mit parse um.
// Leere Variablen ergeben def, ungueltige Werte fallback.
func parsed[T any](key string, parse func(string) (T, error), def, fallback func() T) T {
	s := Var(key)
	if s == "" {
		return def()
	}

	v, err := parse(s)
	if err != nil {
		return fallback()
	}
	return v
}

func warnInvalid[T any](key string, def T) func() T {
	return func() T {
		slog.Warn("invalid environment variable, using default", "key", key, "value", Var(key), "default", def)
		return def
	}
}

func constant[T any](v T) func() T { return func() T { return v } }

// BoolWithDefault liest einen Bool. Gesetzte aber unlesbare Werte gelten als true.
func BoolWithDefault(key string) func(defaultValue bool) bool {
	return func(defaultValue bool) bool {
		return parsed(key, strconv.ParseBool, constant(defaultValue), constant(true))
	}
}

// Bool liest einen Bool mit Default false
func Bool(key string) func() bool {
	get := BoolWithDefault(key)
	return func() bool { return get(false) }
}

// String liest die Variable unveraendert
func String(key string) func() string {
	return func() string { return Var(key) }
}

// Uint liest eine Ganzzahl >= 0
func Uint(key string, defaultValue uint) func() uint {
	parse := func(s string) (uint, error) {
		n, err := strconv.ParseUint(s, 10, 64)
		return uint(n), err
	}
	return func() uint {
		return parsed(key, parse, constant(defaultValue), warnInvalid(key, defaultValue))
	}
}

// Float liest einen float32
func Float(key string, defaultValue float32) func() float32 {
	parse := func(s string) (float32, error) {
		f, err := strconv.ParseFloat(s, 32)
		return float32(f), err
	}
	return func() float32 {
		return parsed(key, parse, constant(defaultValue), warnInvalid(key, defaultValue))
	}
}

// EnvVar beschreibt eine Environment-Variable samt aktuellem Wert
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// documented listet alle Variablen in der Reihenfolge der Hilfe
var documented = []struct {
	name  string
	value func() any
	desc  string
}{
	{"SMOLCHAT_DEBUG", func() any { return LogLevel() }, "Show additional debug information (e.g. SMOLCHAT_DEBUG=1)"},
	{"SMOLCHAT_HOST", func() any { return Host() }, "IP Address for the smolchat server (default 127.0.0.1:11435)"},
	{"SMOLCHAT_ORIGINS", func() any { return AllowedOrigins() }, "A comma separated list of allowed origins"},
	{"SMOLCHAT_HOME", func() any { return Home() }, "Directory for the chat database and config file"},
	{"SMOLCHAT_DB", func() any { return DBPath() }, "Path to the chat database"},
	{"SMOLCHAT_CONFIG", func() any { return ConfigPath() }, "Path to the YAML config file"},
	{"SMOLCHAT_MODEL", func() any { return Model() }, "Path to the model file"},
	{"SMOLCHAT_CONTEXT_LENGTH", func() any { return ContextLength() }, "Context length in tokens (default: 2048)"},
	{"SMOLCHAT_NUM_THREAD", func() any { return NumThread() }, "Number of worker threads (default: runtime decides)"},
	{"SMOLCHAT_CHAT_TEMPLATE", func() any { return ChatTemplate() }, "Chat template text or built-in template name"},
	{"SMOLCHAT_NO_MMAP", func() any { return NoMMap() }, "Do not memory-map the model file"},
	{"SMOLCHAT_MLOCK", func() any { return UseMLock() }, "Lock the model file in memory"},
	{"SMOLCHAT_TEMPERATURE", func() any { return Temperature() }, "Sampling temperature (default: 0.8)"},
	{"SMOLCHAT_MIN_P", func() any { return MinP() }, "Min-p sampling threshold (default: 0.1)"},
	{"SMOLCHAT_STORE_CHATS", func() any { return StoreChats() }, "Keep the chat history across turns (default: true)"},
	{"SMOLCHAT_NOHISTORY", func() any { return NoHistory() }, "Do not keep input history in interactive mode"},
}

// AsMap gibt alle dokumentierten Variablen mit aktuellem Wert zurueck
func AsMap() map[string]EnvVar {
	m := make(map[string]EnvVar, len(documented))
	for _, d := range documented {
		m[d.name] = EnvVar{Name: d.name, Value: d.value(), Description: d.desc}
	}
	return m
}

// Values gibt die aktuellen Werte als Strings zurueck, etwa fuer Debug-Logs
func Values() map[string]string {
	vals := make(map[string]string, len(documented))
	for _, d := range documented {
		vals[d.name] = fmt.Sprint(d.value())
	}
	return vals
}
