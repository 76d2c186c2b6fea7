// Package metrics defines observability hooks for gateway builds.
package metrics

import "time"

// Outcome labels for build result counters.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// Card group labels for the rendered-cards gauge.
const (
	GroupPages = "pages"
	GroupFiles = "files"
)

// Recorder defines observability hooks for build metrics. Implementations may
// forward to Prometheus, OpenTelemetry, etc. The NoopRecorder allows optional
// injection.
type Recorder interface {
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome string)
	SetFilesScanned(n int)
	SetCardsRendered(group string, n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(time.Duration) {}
func (NoopRecorder) IncBuildOutcome(string)             {}
func (NoopRecorder) SetFilesScanned(int)                {}
func (NoopRecorder) SetCardsRendered(string, int)       {}
