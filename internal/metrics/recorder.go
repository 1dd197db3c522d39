package metrics

import "time"

// ResultLabel enumerates per-page outcomes.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
)

// OutcomeLabel enumerates whole-run outcomes.
type OutcomeLabel string

const (
	OutcomeSuccess OutcomeLabel = "success"
	OutcomeWarning OutcomeLabel = "warning" // completed with diagnostics
	OutcomeFailed  OutcomeLabel = "failed"
)

// Recorder defines observability hooks for a generation run.
type Recorder interface {
	ObservePageDuration(backend string, d time.Duration)
	IncPageResult(backend string, result ResultLabel)
	IncDiagnostic(kind string)
	AddBytesWritten(backend string, n int64)
	ObserveRunDuration(d time.Duration)
	IncRunOutcome(outcome OutcomeLabel)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObservePageDuration(string, time.Duration) {}
func (NoopRecorder) IncPageResult(string, ResultLabel)         {}
func (NoopRecorder) IncDiagnostic(string)                      {}
func (NoopRecorder) AddBytesWritten(string, int64)             {}
func (NoopRecorder) ObserveRunDuration(time.Duration)          {}
func (NoopRecorder) IncRunOutcome(OutcomeLabel)                {}
