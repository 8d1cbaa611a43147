// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionStepsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submission_steps_sent_total",
			Help: "Total number of answer steps sent to the session engine",
		},
		[]string{"module"},
	)

	SubmissionRunsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submission_runs_failed_total",
			Help: "Total number of submission runs aborted by an error",
		},
		[]string{"module", "error_code"},
	)

	SubmissionRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "submission_run_duration_seconds",
			Help: "Duration of a full submission run in seconds",
		},
		[]string{"module"},
	)

	DraftSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "draft_saves_total",
			Help: "Total number of drafts persisted",
		},
		[]string{"module"},
	)

	DraftLoadFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "draft_load_failures_total",
			Help: "Total number of draft loads degraded to an empty draft",
		},
		[]string{"module"},
	)
)
