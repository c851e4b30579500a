// MODUL: harness
// ZWECK: Durchsatz-Messung einer Engine mit synthetischen Prompt- und Generierungs-Batches
// INPUT: engine.Handle, Params (pp, tg, pl, nr)
// OUTPUT: Report mit Mittelwert und Standardabweichung in Token/s
// NEBENEFFEKTE: Leert den KV-Cache der Engine vor und nach jeder Wiederholung
// ABHAENGIGKEITEN: engine, gonum (Statistik)
// HINWEISE: Haelt den Engine-Handle fuer den gesamten Lauf; Decode-Fehler brechen nicht ab

package bench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/smolchat/smolchat/engine"
)

// Token-IDs der synthetischen Batches
const (
	promptToken     = 1
	generationToken = 0
)

// Params beschreibt einen Benchmark-Lauf
type Params struct {
	PP int `json:"pp"` // Prompt-Laenge
	TG int `json:"tg"` // Generierungsschritte
	PL int `json:"pl"` // parallele Sequenzen pro Schritt
	NR int `json:"nr"` // Wiederholungen
}

// Validate prueft die Parameter
func (p Params) Validate() error {
	switch {
	case p.PP <= 0:
		return fmt.Errorf("pp must be positive, got %d", p.PP)
	case p.TG <= 0:
		return fmt.Errorf("tg must be positive, got %d", p.TG)
	case p.PL <= 0:
		return fmt.Errorf("pl must be positive, got %d", p.PL)
	case p.NR <= 0:
		return fmt.Errorf("nr must be positive, got %d", p.NR)
	}
	return nil
}

// Harness fuehrt Benchmarks auf einer Engine aus
type Harness struct {
	Handle *engine.Handle
}

// Run fuehrt p.NR Wiederholungen aus.
// Ist die Engine durch eine Session belegt, wird engine.ErrEngineBusy zurueckgegeben.
func (h *Harness) Run(ctx context.Context, p Params) (*Report, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if h.Handle == nil {
		return nil, errors.New("bench: no engine")
	}

	if err := h.Handle.TryAcquire(); err != nil {
		return nil, err
	}
	defer h.Handle.Release()

	eng := h.Handle.Engine()
	slog.Info("benchmark started", "n_ctx", eng.ContextSize(), "pp", p.PP, "tg", p.TG, "pl", p.PL, "nr", p.NR)

	batch := engine.NewBatch(max(p.PP, p.PL))
	ppSpeeds := make([]float64, 0, p.NR)
	tgSpeeds := make([]float64, 0, p.NR)
	failures := 0

	for nri := range p.NR {
		if err := ctx.Err(); err != nil {
			eng.ClearMemory()
			return nil, err
		}

		slog.Info("benchmark prompt processing", "pp", p.PP, "repetition", nri+1)

		batch.Clear()
		for i := range p.PP {
			batch.Add(promptToken, i, i == p.PP-1, 0)
		}
		eng.ClearMemory()

		start := time.Now()
		if err := eng.Decode(batch); err != nil {
			slog.Error("decode failed during prompt processing", "error", err)
			failures++
		}
		tPP := time.Since(start)

		slog.Info("benchmark text generation", "tg", p.TG, "pl", p.PL, "repetition", nri+1)

		eng.ClearMemory()
		start = time.Now()
		for i := range p.TG {
			batch.Clear()
			for j := range p.PL {
				batch.Add(generationToken, i, true, j)
			}

			if err := eng.Decode(batch); err != nil {
				slog.Error("decode failed during text generation", "step", i, "error", err)
				failures++
			}
		}
		tTG := time.Since(start)

		eng.ClearMemory()

		speedPP := speed(p.PP, tPP)
		speedTG := speed(p.PL*p.TG, tTG)
		ppSpeeds = append(ppSpeeds, speedPP)
		tgSpeeds = append(tgSpeeds, speedTG)

		slog.Info("benchmark repetition finished", "pp_tps", speedPP, "tg_tps", speedTG)
	}

	info := eng.Info()
	return &Report{
		Model:    info,
		Params:   p,
		Failures: failures,
		Results: []Result{
			{Test: fmt.Sprintf("pp %d", p.PP), Speed: summarize(ppSpeeds)},
			{Test: fmt.Sprintf("tg %d", p.TG), Speed: summarize(tgSpeeds)},
		},
	}, nil
}

// speed rechnet n Token in d in Token/s um
func speed(n int, d time.Duration) float64 {
	if d <= 0 {
		d = time.Nanosecond
	}
	return float64(n) / d.Seconds()
}
