// metrics.go - Prometheus-Metriken des Servers
package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "smolchat"

type metrics struct {
	Requests         *prometheus.CounterVec
	CompletionErrors *prometheus.CounterVec
	PromptTokens     prometheus.Counter
	GeneratedTokens  prometheus.Counter
	TokensPerSecond  prometheus.Histogram
	ContextUsed      prometheus.Gauge
	Waiting          prometheus.Gauge
}

func newMetrics(reg *prometheus.Registry) *metrics {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)
	return &metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		CompletionErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completion_errors_total",
			Help:      "Failed chat turns by kind.",
		}, []string{"kind"}),
		PromptTokens: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prompt_tokens_total",
			Help:      "Prompt tokens submitted to the engine.",
		}),
		GeneratedTokens: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generated_tokens_total",
			Help:      "Tokens sampled by the engine.",
		}),
		TokensPerSecond: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_tokens_per_second",
			Help:      "Generation rate per chat turn.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		ContextUsed: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "context_cells_used",
			Help:      "KV cache cells in use after the last chat turn.",
		}),
		Waiting: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "requests_waiting",
			Help:      "Chat requests waiting for the session.",
		}),
	}
}
