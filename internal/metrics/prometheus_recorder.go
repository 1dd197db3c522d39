package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "docsmith"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry     *prom.Registry
	pageDuration *prom.HistogramVec
	pageResults  *prom.CounterVec
	diagnostics  *prom.CounterVec
	bytesWritten *prom.CounterVec
	runDuration  prom.Histogram
	runOutcome   *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them with reg,
// or with a fresh registry when reg is nil.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,
		pageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "page_render_duration_seconds",
			Help:      "Duration of rendering and emitting a single page",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"backend"}),
		pageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pages_total",
			Help:      "Pages processed by backend and result",
		}, []string{"backend", "result"}),
		diagnostics: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "diagnostics_total",
			Help:      "Non-fatal findings such as broken links, by kind",
		}, []string{"kind"}),
		bytesWritten: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "output_bytes_total",
			Help:      "Bytes emitted (or that would have been emitted in a dry run)",
		}, []string{"backend"}),
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Total run duration",
			Buckets:   prom.DefBuckets,
		}),
		runOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "run_outcomes_total",
			Help:      "Runs by final status",
		}, []string{"outcome"}),
	}
	reg.MustRegister(pr.pageDuration, pr.pageResults, pr.diagnostics, pr.bytesWritten, pr.runDuration, pr.runOutcome)
	return pr
}

// Registry exposes the registry the metrics are registered with.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.registry }

// WriteTextfile writes the current metric values in the text exposition
// format, atomically, for the node exporter textfile collector.
func (p *PrometheusRecorder) WriteTextfile(filename string) error {
	return prom.WriteToTextfile(filename, p.registry)
}

func (p *PrometheusRecorder) ObservePageDuration(backend string, d time.Duration) {
	if p == nil {
		return
	}
	p.pageDuration.WithLabelValues(backend).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPageResult(backend string, result ResultLabel) {
	if p == nil {
		return
	}
	p.pageResults.WithLabelValues(backend, string(result)).Inc()
}

func (p *PrometheusRecorder) IncDiagnostic(kind string) {
	if p == nil {
		return
	}
	p.diagnostics.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) AddBytesWritten(backend string, n int64) {
	if p == nil {
		return
	}
	p.bytesWritten.WithLabelValues(backend).Add(float64(n))
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(outcome OutcomeLabel) {
	if p == nil {
		return
	}
	p.runOutcome.WithLabelValues(string(outcome)).Inc()
}
