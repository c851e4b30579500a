package bench

import (
	"gonum.org/v1/gonum/stat"
)

// Speed ist Mittelwert und Stichproben-Standardabweichung in Token/s
type Speed struct {
	Mean    float64   `json:"mean"`
	StdDev  float64   `json:"stddev"`
	Samples []float64 `json:"samples"`
}

// summarize berechnet Mittelwert und Standardabweichung; bei weniger als
// zwei Werten ist die Standardabweichung 0
func summarize(samples []float64) Speed {
	if len(samples) == 0 {
		return Speed{}
	}

	if len(samples) == 1 {
		return Speed{Mean: samples[0], Samples: samples}
	}

	mean, std := stat.MeanStdDev(samples, nil)
	return Speed{Mean: mean, StdDev: std, Samples: samples}
}
