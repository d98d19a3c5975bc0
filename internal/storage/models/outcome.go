package models

import "time"

// Outcome represents one stored per-host probe result.
type Outcome struct {
	ID          int64    `json:"id"`
	RunID       int64    `json:"run_id"`
	Source      string   `json:"source"` // originating .ovpn file name
	Host        string   `json:"host"`
	Port        int      `json:"port,omitempty"`
	CountryCode string   `json:"country_code,omitempty"`
	Status      string   `json:"status"`
	LatencyMS   *float64 `json:"latency_ms,omitempty"` // NULL unless success
	JitterMS    *float64 `json:"jitter_ms,omitempty"`  // NULL without enough samples
	PacketLoss  float64  `json:"packet_loss"`
	Attempts    int      `json:"attempts"`
	Succeeded   int      `json:"succeeded"`
	Score       float64  `json:"score"`
	TestedAt    time.Time `json:"tested_at"`
}
