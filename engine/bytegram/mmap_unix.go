//go:build unix

package bytegram

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// mapFile bildet f read-only in den Speicher ab und sperrt ihn optional im RAM.
// release hebt Sperre und Abbildung wieder auf.
func mapFile(f *os.File, size int64, lock bool) (data []byte, release func() error, err error) {
	data, err = unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, fmt.Errorf("mmap: %w", err)
	}

	locked := false
	if lock {
		if err := unix.Mlock(data); err != nil {
			_ = unix.Munmap(data)
			return nil, nil, fmt.Errorf("mlock: %w", err)
		}
		locked = true
	}

	return data, func() error {
		if locked {
			if err := unix.Munlock(data); err != nil {
				return err
			}
		}
		return unix.Munmap(data)
	}, nil
}
