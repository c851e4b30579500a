// config.go - Haupt-Konfigurationsfunktionen fuer smolchat
//
// Dieses Modul enthaelt:
// - Host: Gibt Scheme und Host zurueck (SMOLCHAT_HOST)
// - AllowedOrigins: Gibt erlaubte Origins zurueck (SMOLCHAT_ORIGINS)
// - Home: Gibt das Daten-Verzeichnis zurueck (SMOLCHAT_HOME)
// - DBPath: Gibt den Pfad der Chat-Datenbank zurueck (SMOLCHAT_DB)
// - ConfigPath: Gibt den Pfad der YAML-Konfiguration zurueck (SMOLCHAT_CONFIG)
// - LogLevel: Gibt Log-Level zurueck (SMOLCHAT_DEBUG)
//
// Weitere Konfigurationen sind ausgelagert:
// - config_features.go: Session- und Sampling-Variablen
// - config_utils.go: Utility-Funktionen und AsMap/Values
// - config_file.go: YAML-Datei und .env
package envconfig

import (
	"log/slog"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// defaultPorts sind die Ports fuer SMOLCHAT_HOST ohne explizite Portangabe
var defaultPorts = map[string]string{"http": "80", "https": "443"}

// Host gibt die Adresse des Servers zurueck
// Konfigurierbar via SMOLCHAT_HOST, etwa "0.0.0.0", ":8080" oder "https://example.com"
// Default: http://127.0.0.1:11435
func Host() *url.URL {
	raw := strings.TrimSpace(Var("SMOLCHAT_HOST"))
	u := &url.URL{Scheme: "http"}
	port := "11435"

	if scheme, rest, ok := strings.Cut(raw, "://"); ok {
		u.Scheme, raw = scheme, rest
		if p, ok := defaultPorts[scheme]; ok {
			port = p
		}
	}
	raw, u.Path, _ = strings.Cut(raw, "/")

	host, p := splitHostPort(raw)
	if p != "" {
		if _, err := strconv.ParseUint(p, 10, 16); err != nil {
			slog.Warn("invalid port, using default", "port", p, "default", port)
		} else {
			port = p
		}
	}

	u.Host = net.JoinHostPort(host, port)
	return u
}

// splitHostPort trennt Host und Port; fehlt der Host ganz, gilt 127.0.0.1
func splitHostPort(s string) (host, port string) {
	if h, p, err := net.SplitHostPort(s); err == nil {
		return h, p
	}

	if s = strings.Trim(s, "[]"); s == "" {
		return "127.0.0.1", ""
	}
	return s, ""
}

// AllowedOrigins gibt die erlaubten CORS-Origins zurueck
// Konfigurierbar via SMOLCHAT_ORIGINS (komma-separiert), lokale Origins sind immer erlaubt
func AllowedOrigins() []string {
	var origins []string
	if s := Var("SMOLCHAT_ORIGINS"); s != "" {
		origins = strings.Split(s, ",")
	}

	for _, host := range []string{"localhost", "127.0.0.1", "0.0.0.0"} {
		for _, h := range []string{host, net.JoinHostPort(host, "*")} {
			origins = append(origins, "http://"+h, "https://"+h)
		}
	}
	return origins
}

// Home gibt das Daten-Verzeichnis zurueck
// Konfigurierbar via SMOLCHAT_HOME
// Default: $HOME/.smolchat
func Home() string {
	if s := Var("SMOLCHAT_HOME"); s != "" {
		return s
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".smolchat"
	}

	return filepath.Join(home, ".smolchat")
}

// DBPath gibt den Pfad der SQLite-Chat-Datenbank zurueck
// Konfigurierbar via SMOLCHAT_DB
// Default: $SMOLCHAT_HOME/chats.sqlite
func DBPath() string {
	if s := Var("SMOLCHAT_DB"); s != "" {
		return s
	}

	return filepath.Join(Home(), "chats.sqlite")
}

// ConfigPath gibt den Pfad der YAML-Konfigurationsdatei zurueck
// Konfigurierbar via SMOLCHAT_CONFIG
// Default: $SMOLCHAT_HOME/config.yaml
func ConfigPath() string {
	if s := Var("SMOLCHAT_CONFIG"); s != "" {
		return s
	}

	return filepath.Join(Home(), "config.yaml")
}

// LogLevel gibt das Log-Level zurueck
// Konfigurierbar via SMOLCHAT_DEBUG
// Werte: 0/false = INFO (Default), 1/true = DEBUG, 2 = TRACE
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("SMOLCHAT_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}

	return level
}

// Var gibt eine Environment-Variable zurueck
// Entfernt fuehrende/trailing Quotes und Leerzeichen
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}
