package tui

import "time"

// TaskID identifies a task in the TUI progress display.
type TaskID int

const (
	TaskAuth   TaskID = iota // Authenticating with GitHub
	TaskOrgs                 // Listing organizations
	TaskRepos                // Processing repositories across all organizations
	TaskReport               // Writing the bucketed reports
)

// TaskStatus represents the current status of a task.
type TaskStatus int

const (
	StatusPending TaskStatus = iota
	StatusRunning
	StatusComplete
	StatusError
	StatusSkipped
)

// Event is the interface for all TUI events.
type Event interface {
	isEvent()
}

// TaskEvent represents an update to a task's status.
type TaskEvent struct {
	Task     TaskID
	Status   TaskStatus
	Message  string  // Optional message (e.g., "3/12 orgs")
	Count    int     // Count of items (e.g., records written)
	Progress float64 // Progress from 0.0 to 1.0
	Error    error   // Error if status is StatusError
}

func (TaskEvent) isEvent() {}

// RateLimitEvent reports that the API quota ran out.
type RateLimitEvent struct {
	Limited bool
	ResetAt time.Time
}

func (RateLimitEvent) isEvent() {}

// DoneEvent signals that all work is complete.
type DoneEvent struct{}

func (DoneEvent) isEvent() {}

// BucketCount is the number of repositories written to one recency bucket.
type BucketCount struct {
	Label string // e.g. "<= 30 days"
	Count int
	Path  string // empty when the bucket went to stdout
}

// ReportEvent carries the per-bucket totals once the reports are closed.
type ReportEvent struct {
	Buckets []BucketCount
}

func (ReportEvent) isEvent() {}
