//go:build !unix

package bytegram

import (
	"io"
	"log/slog"
	"os"
)

// mapFile liest f vollstaendig ein; Memory-Mapping gibt es hier nicht
func mapFile(f *os.File, size int64, lock bool) ([]byte, func() error, error) {
	if lock {
		slog.Warn("mlock is not supported on this platform")
	}

	data := make([]byte, size)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, nil, err
	}

	return data, func() error { return nil }, nil
}
