package logutil

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLoggerTraceLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LevelTrace)
	logger.Log(t.Context(), LevelTrace, "hallo", "k", 1)

	out := buf.String()
	if !strings.Contains(out, "level=TRACE") {
		t.Errorf("Ausgabe %q sollte level=TRACE enthalten", out)
	}
	if !strings.Contains(out, "source=logutil_test.go:") {
		t.Errorf("Ausgabe %q sollte kurzen Quellpfad enthalten", out)
	}
}

func TestNewLoggerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)
	logger.Debug("unsichtbar")
	logger.Log(t.Context(), LevelTrace, "auch unsichtbar")

	if buf.Len() != 0 {
		t.Errorf("Ausgabe = %q, erwartet leer", buf.String())
	}
}
