// config_file.go - YAML-Konfigurationsdatei und .env Unterstuetzung
//
// Dieses Modul enthaelt:
// - LoadDotEnv: Laedt .env Dateien in die Prozess-Umgebung
// - LoadFile: Liest die YAML-Konfiguration als Options-Map
//
// Rangfolge: Defaults <- Environment <- Config-Datei <- Flags
package envconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LoadDotEnv laedt ./.env und $SMOLCHAT_HOME/.env
// Bereits gesetzte Variablen werden nicht ueberschrieben.
func LoadDotEnv() {
	for _, p := range []string{".env", filepath.Join(Home(), ".env")} {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			slog.Warn("failed to load env file", "path", p, "error", err)
			continue
		}
		slog.Debug("loaded env file", "path", p)
	}
}

// LoadFile liest eine YAML-Konfigurationsdatei
// Eine fehlende Datei ist kein Fehler und ergibt eine leere Map.
func LoadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]any{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	m := make(map[string]any)
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return m, nil
}
