package model

import "time"

// FileStatus is the processing state of an uploaded file.
type FileStatus string

const (
	// StatusUploaded is the initial state set when the client reports a
	// completed direct-to-storage upload.
	StatusUploaded FileStatus = "uploaded"
	// StatusProcessing means an ingestion worker has picked up the file.
	StatusProcessing FileStatus = "processing"
	// StatusDone is terminal; processing finished successfully.
	StatusDone FileStatus = "done"
	// StatusFailed is terminal; processing gave up on the file.
	StatusFailed FileStatus = "failed"
)

// Valid reports whether s is one of the known statuses.
func (s FileStatus) Valid() bool {
	switch s {
	case StatusUploaded, StatusProcessing, StatusDone, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed out of s.
func (s FileStatus) Terminal() bool {
	return s == StatusDone || s == StatusFailed
}

// CanTransitionTo reports whether the status may move from s to next.
// The lifecycle is strictly forward: uploaded -> processing -> done|failed.
// Terminal states accept nothing and uploaded is never re-entered.
func (s FileStatus) CanTransitionTo(next FileStatus) bool {
	switch s {
	case StatusUploaded:
		return next == StatusProcessing
	case StatusProcessing:
		return next == StatusDone || next == StatusFailed
	}
	return false
}

// File represents one client-initiated upload tracked by the system.
// This is a pure domain model with no database-specific dependencies or tags.
type File struct {
	ID         string     `json:"id"`
	OwnerID    string     `json:"owner_id"`
	StorageKey string     `json:"storage_key"`
	Filename   string     `json:"filename"`
	MimeType   string     `json:"mime_type"`
	Size       int64      `json:"size"`
	Status     FileStatus `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
