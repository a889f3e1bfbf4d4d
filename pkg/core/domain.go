package core

import (
	"fmt"
	"time"
)

// EventType represents the type of change observed on an entry.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a record file in the base directory.
type Event struct {
	Type      EventType `json:"type"`
	Entry     string    `json:"entry"`
	Timestamp int64     `json:"timestamp"` // Unix timestamp
}

// String implements fmt.Stringer (and lifecycle.Event).
func (e Event) String() string {
	return fmt.Sprintf("%s %s at %s", e.Type, e.Entry, time.Unix(e.Timestamp, 0).UTC().Format(time.RFC3339))
}
