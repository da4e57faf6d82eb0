// Package service defines the backend-agnostic interface for remote task sync.
package service

// Remote task statuses.
const (
	StatusNeedsAction = "needsAction"
	StatusCompleted   = "completed"
)

// Task represents a single remote task item.
type Task struct {
	ID     string
	Title  string
	Notes  string
	Due    string // RFC 3339 timestamp, date part only is meaningful
	Status string // "needsAction" or "completed"
}

// TaskList represents a remote task list.
type TaskList struct {
	ID        string
	Title     string
	IsDefault bool
}
