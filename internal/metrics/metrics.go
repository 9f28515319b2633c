// Package metrics provides Prometheus metrics for tf invocations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every tfsclient collector. It is separate from the default
// registry so the textfile export contains only our series.
var Registry = prometheus.NewRegistry()

var (
	commandsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "tfsclient_commands_total",
			Help: "Total number of tf invocations by subcommand and outcome",
		},
		[]string{"command", "outcome"},
	)

	commandDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tfsclient_command_duration_seconds",
			Help:    "Wall time of tf invocations",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"command"},
	)

	workspacesTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "tfsclient_workspaces_total",
			Help: "Workspace create and delete attempts by result",
		},
		[]string{"action", "result"},
	)
)

// Outcomes recorded for an invocation.
const (
	OutcomeOK       = "ok"
	OutcomeExitCode = "exit_code"
	OutcomeError    = "error"
)

// RecordCommand records one finished invocation.
func RecordCommand(command, outcome string, duration time.Duration) {
	commandsTotal.WithLabelValues(command, outcome).Inc()
	commandDuration.WithLabelValues(command).Observe(duration.Seconds())
}

// RecordWorkspace records a workspace create or delete attempt.
func RecordWorkspace(action string, ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	workspacesTotal.WithLabelValues(action, result).Inc()
}

// WriteTextfile dumps all series in the node_exporter textfile format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
