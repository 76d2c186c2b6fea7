package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once          sync.Once
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
	filesScanned  prom.Gauge
	cardsRendered *prom.GaugeVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "gatewaygen",
			Name:      "build_duration_seconds",
			Help:      "Total gateway build duration",
			Buckets:   prom.DefBuckets,
		})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "gatewaygen",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"})
		pr.filesScanned = prom.NewGauge(prom.GaugeOpts{
			Namespace: "gatewaygen",
			Name:      "files_scanned",
			Help:      "Files enumerated during the last build",
		})
		pr.cardsRendered = prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "gatewaygen",
			Name:      "cards_rendered",
			Help:      "Cards rendered during the last build, by group",
		}, []string{"group"})
		reg.MustRegister(pr.buildDuration, pr.buildOutcome, pr.filesScanned, pr.cardsRendered)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) SetFilesScanned(n int) {
	if p == nil || p.filesScanned == nil {
		return
	}
	p.filesScanned.Set(float64(n))
}

func (p *PrometheusRecorder) SetCardsRendered(group string, n int) {
	if p == nil || p.cardsRendered == nil {
		return
	}
	p.cardsRendered.WithLabelValues(group).Set(float64(n))
}
