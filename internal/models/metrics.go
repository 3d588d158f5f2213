package models

import "time"

// MetricsSnapshot summarises process counters for the readiness probe.
type MetricsSnapshot struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	SubmissionsTotal         uint64    `json:"submissions_total"`
	PaymentsCompleted        uint64    `json:"payments_completed"`
	PaymentsProcessing       int64     `json:"payments_processing"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
