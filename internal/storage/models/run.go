package models

import "time"

// Run represents one completed probe batch.
type Run struct {
	ID             int64     `json:"id"`
	Provider       string    `json:"provider"`
	Strategy       string    `json:"strategy"`
	Pings          int       `json:"pings"`
	Workers        int       `json:"workers"`
	TimeoutSeconds float64   `json:"timeout_seconds"`
	Tested         int       `json:"tested"`
	Succeeded      int       `json:"succeeded"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
}
