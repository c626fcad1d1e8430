package models

import (
	"time"
)

// Scan processing states.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Scan represents one uploaded scan file (for internal use)
type Scan struct {
	ID          string     `json:"id"`
	SessionID   string     `json:"session_id"`
	Filename    string     `json:"filename"`
	Status      string     `json:"status"`
	Progress    int        `json:"progress"`
	ObjectKey   *string    `json:"object_key,omitempty"`
	ErrorMsg    *string    `json:"error_message,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// FilterResult is one run of the house filter over a scan's combined trace.
type FilterResult struct {
	ID        string    `json:"id"`
	ScanID    string    `json:"scan_id"`
	Low       int       `json:"low"`
	High      int       `json:"high"`
	Processed []float64 `json:"processed"`
	CreatedAt time.Time `json:"created_at"`
}
