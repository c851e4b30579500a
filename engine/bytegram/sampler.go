// sampler.go - Sampler-Kette min-p -> Temperatur -> Verteilung
package bytegram

import (
	"math"
	"math/rand/v2"
)

type sampler struct {
	temperature float32
	minP        float32
	rng         *rand.Rand

	weights []float64
}

// newSampler erstellt einen Sampler; ein negativer Seed waehlt einen zufaelligen
func newSampler(temperature, minP float32, seed int) *sampler {
	s := uint64(seed)
	if seed < 0 {
		s = rand.Uint64()
	}

	return &sampler{
		temperature: temperature,
		minP:        minP,
		rng:         rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15)),
		weights:     make([]float64, vocabSize),
	}
}

func (s *sampler) sample(logits []float32) int {
	best := argmax(logits)
	if s.temperature <= 0 {
		return best
	}

	maxLogit := float64(logits[best])
	threshold := math.Inf(-1)
	if s.minP > 0 {
		// p >= minP * pmax
		threshold = maxLogit + math.Log(float64(s.minP))
	}

	var sum float64
	for t, l := range logits {
		if float64(l) < threshold {
			s.weights[t] = 0
			continue
		}

		w := math.Exp((float64(l) - maxLogit) / float64(s.temperature))
		s.weights[t] = w
		sum += w
	}

	r := s.rng.Float64() * sum
	for t, w := range s.weights[:len(logits)] {
		if r < w {
			return t
		}
		r -= w
	}

	return best
}

func argmax(logits []float32) int {
	best := 0
	for t, l := range logits {
		if l > logits[best] {
			best = t
		}
	}
	return best
}
