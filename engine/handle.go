// handle.go - Exklusiver Zugriff auf eine Engine
//
// Sessions und Benchmark teilen sich eine Engine; der Handle laesst
// immer nur einen Benutzer gleichzeitig zu.
package engine

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/semaphore"
)

// ErrEngineBusy wird zurueckgegeben wenn die Engine bereits benutzt wird
var ErrEngineBusy = errors.New("engine is in use")

// Handle kapselt eine Engine mit einem Single-Writer-Lock
type Handle struct {
	engine Engine
	sem    *semaphore.Weighted
}

func NewHandle(e Engine) *Handle {
	return &Handle{
		engine: e,
		sem:    semaphore.NewWeighted(1),
	}
}

// Engine gibt die gekapselte Engine zurueck.
// Aufrufe sind nur zwischen Acquire und Release erlaubt.
func (h *Handle) Engine() Engine {
	return h.engine
}

// Acquire wartet bis die Engine frei ist oder ctx endet
func (h *Handle) Acquire(ctx context.Context) error {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("acquire engine: %w", err)
	}
	return nil
}

// TryAcquire belegt die Engine ohne zu warten
func (h *Handle) TryAcquire() error {
	if !h.sem.TryAcquire(1) {
		return ErrEngineBusy
	}
	return nil
}

// Release gibt die Engine wieder frei
func (h *Handle) Release() {
	h.sem.Release(1)
}

// Close schliesst die Engine
func (h *Handle) Close() error {
	return h.engine.Close()
}
