package domain

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Domain entity: a unit of work shown on the overview.
// Read-only from the UI's point of view.
type Task struct {
	ID          string
	Title       string
	Description string
	Status      Status
	DueAt       *time.Time
}

// Status is the enumerated state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// OrderedStatuses is the tab order used by every renderer.
var OrderedStatuses = []Status{StatusPending, StatusInProgress, StatusDone}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Label returns the human label for a status tab, e.g. "In Progress".
func (s Status) Label() string {
	words := []rune(string(s))
	for i, r := range words {
		if r == '-' || r == '_' {
			words[i] = ' '
		}
	}
	// A cases.Caser must not be shared between goroutines.
	return cases.Title(language.English).String(string(words))
}

func (s Status) String() string { return string(s) }
