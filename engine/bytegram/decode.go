// decode.go - Decode eines Batches
//
// Sequenzen werden unabhaengig voneinander verarbeitet und parallel
// auf bis zu NumThread (bzw. NumBatchThread) Worker verteilt.
package bytegram

import (
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/smolchat/smolchat/engine"
)

type seqWork struct {
	id      int
	indices []int
	end     window
	utf8    utf8State
}

func (m *Model) Decode(batch *engine.Batch) error {
	if err := batch.Validate(); err != nil {
		return err
	}

	n := batch.NumTokens()
	if n == 0 {
		return errors.New("decode: empty batch")
	}

	if m.cells+n > m.numCtx {
		return engine.ErrKvCacheFull
	}

	var work []*seqWork
	byID := make(map[int]*seqWork)
	for i, token := range batch.Tokens {
		if token < 0 || token >= vocabSize {
			return fmt.Errorf("decode: invalid token %d at %d", token, i)
		}

		id := batch.SeqIDs[i]
		sw, ok := byID[id]
		if !ok {
			sw = &seqWork{id: id}
			byID[id] = sw
			work = append(work, sw)
		}

		next := len(sw.indices)
		if seq, ok := m.seqs[id]; ok {
			next += seq.n
		}
		if batch.Positions[i] != next {
			return fmt.Errorf("decode: sequence %d expects position %d, got %d", id, next, batch.Positions[i])
		}

		sw.indices = append(sw.indices, i)
	}

	threads := m.numThread
	if n > 1 {
		threads = m.numBatchThread
	}

	outputs := make([][]float32, n)

	var g errgroup.Group
	g.SetLimit(threads)
	for _, sw := range work {
		w, u := emptyWindow(), utf8State{}
		if seq, ok := m.seqs[sw.id]; ok {
			w, u = seq.w, seq.utf8
		}

		g.Go(func() error {
			for _, i := range sw.indices {
				w = w.push(batch.Tokens[i])
				u = u.next(batch.Tokens[i])
				if batch.Logits[i] {
					out := make([]float32, vocabSize)
					m.counts.logits(w, out)
					u.mask(out)
					outputs[i] = out
				}
			}
			sw.end, sw.utf8 = w, u
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for _, sw := range work {
		seq, ok := m.seqs[sw.id]
		if !ok {
			seq = &sequence{}
			m.seqs[sw.id] = seq
		}
		seq.w = sw.end
		seq.utf8 = sw.utf8
		seq.n += len(sw.indices)
	}
	m.cells += n

	for i := n - 1; i >= 0; i-- {
		if outputs[i] != nil {
			m.last = outputs[i]
			break
		}
	}

	return nil
}
