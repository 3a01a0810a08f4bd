// Package metrics records backup runs for the node exporter textfile
// collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run outcomes used as the status label.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Recorder collects run metrics in its own registry so that a textfile
// only carries dupcomp series.
type Recorder struct {
	registry *prometheus.Registry

	lastRun  *prometheus.GaugeVec
	duration *prometheus.GaugeVec
	runs     *prometheus.CounterVec

	now func() time.Time
}

// NewRecorder creates a recorder with every metric registered.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		lastRun: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "dupcomp_last_run_timestamp_seconds",
				Help: "Unix time at which the last duplicity run of a group finished",
			},
			[]string{"group", "mode", "status"},
		),
		duration: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "dupcomp_run_duration_seconds",
				Help: "Wall clock duration of the last duplicity run of a group",
			},
			[]string{"group", "mode"},
		),
		runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dupcomp_runs_total",
				Help: "Number of duplicity runs per group and outcome",
			},
			[]string{"group", "mode", "status"},
		),
		now: time.Now,
	}
}

// RecordRun records one duplicity invocation of group in mode.
func (r *Recorder) RecordRun(group, mode string, elapsed time.Duration, err error) {
	if r == nil {
		return
	}
	status := StatusSuccess
	if err != nil {
		status = StatusFailure
	}

	r.lastRun.WithLabelValues(group, mode, status).Set(float64(r.now().Unix()))
	r.duration.WithLabelValues(group, mode).Set(elapsed.Seconds())
	r.runs.WithLabelValues(group, mode, status).Inc()
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes the collected metrics atomically to path.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}
