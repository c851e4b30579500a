package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/mock/gomock"
)

func TestPromptBatch(t *testing.T) {
	b := PromptBatch([]int{5, 6, 7}, 10)

	want := &Batch{
		Tokens:    []int{5, 6, 7},
		Positions: []int{10, 11, 12},
		SeqIDs:    []int{0, 0, 0},
		Logits:    []bool{false, false, true},
	}
	if diff := cmp.Diff(want, b); diff != "" {
		t.Errorf("PromptBatch() mismatch (-want +got):\n%s", diff)
	}
	if err := b.Validate(); err != nil {
		t.Errorf("Validate() Fehler: %v", err)
	}
}

func TestBatchClear(t *testing.T) {
	b := NewBatch(4)
	b.Add(1, 0, true, 0)
	b.Add(2, 1, true, 1)
	b.Clear()

	if b.NumTokens() != 0 {
		t.Errorf("NumTokens() = %d, erwartet 0", b.NumTokens())
	}
	if cap(b.Tokens) < 2 {
		t.Error("Clear() sollte den Speicher behalten")
	}

	var nilBatch *Batch
	if nilBatch.NumTokens() != 0 {
		t.Error("NumTokens() auf nil sollte 0 sein")
	}
}

func TestBatchValidate(t *testing.T) {
	b := &Batch{Tokens: []int{1, 2}, Positions: []int{0}, SeqIDs: []int{0, 0}, Logits: []bool{true, true}}
	if err := b.Validate(); err == nil {
		t.Error("Validate() sollte inkonsistenten Batch erkennen")
	}
}

func TestHandleExclusive(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewHandle(NewMockEngine(ctrl))

	if err := h.TryAcquire(); err != nil {
		t.Fatalf("TryAcquire() Fehler: %v", err)
	}
	if err := h.TryAcquire(); !errors.Is(err, ErrEngineBusy) {
		t.Errorf("TryAcquire() = %v, erwartet ErrEngineBusy", err)
	}

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()
	if err := h.Acquire(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Acquire() = %v, erwartet DeadlineExceeded", err)
	}

	h.Release()
	if err := h.Acquire(t.Context()); err != nil {
		t.Errorf("Acquire() nach Release Fehler: %v", err)
	}
	h.Release()
}

func TestHandleClose(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := NewMockEngine(ctrl)
	m.EXPECT().Close().Return(nil)

	if err := NewHandle(m).Close(); err != nil {
		t.Errorf("Close() Fehler: %v", err)
	}
}
