package models

import "github.com/google/uuid"

// ExtractStats contains statistics from one extraction run.
type ExtractStats struct {
	RunID      string `json:"run_id"`
	Repo       string `json:"repo"`
	RangeLow   int    `json:"range_low"`
	RangeHigh  int    `json:"range_high"`
	Visited    int    `json:"visited"`
	Extracted  int    `json:"extracted"`
	Skipped    int    `json:"skipped"`
	Suspended  int    `json:"suspended"`
	DurationMs int    `json:"duration_ms"`
}

// NewRunID returns a fresh identifier for an extraction run.
func NewRunID() string {
	return uuid.New().String()
}
