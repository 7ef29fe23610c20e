package core

import "fmt"

// EventType represents the kind of change observed in a project directory.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event reports a change to one of a project's configuration files.
type Event struct {
	Type      EventType
	Dir       string // project directory
	File      string // file name inside Dir, e.g. "project.yaml"
	Timestamp int64  // Unix timestamp
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s/%s", e.Type, e.Dir, e.File)
}
