package orchestrator

import (
	"time"

	"github.com/dshills/gitbridge/internal/git"
)

// Event is a notification delivered to subscribers. Concrete types are
// StatusEvent and TaskEvent.
type Event interface {
	event()
}

// StatusEvent carries a fresh status snapshot for a project. A snapshot
// with an empty RepoRoot means the project is not inside a repository or
// the query failed; subscribers render it as "no repository".
type StatusEvent struct {
	ProjectRoot string
	Status      *git.RepoStatus
}

func (StatusEvent) event() {}

// TaskEvent reports the completion of a submitted task.
type TaskEvent struct {
	// ID is the identifier returned by Submit.
	ID string

	// Name is the caller-supplied task name.
	Name string

	// Err is the task's result, nil on success.
	Err error

	// Duration is the task's run time.
	Duration time.Duration
}

func (TaskEvent) event() {}
