// Package event defines resource lifecycle events.
package event

import (
	"slices"
	"time"
)

// Standard event names emitted by mutations.
const (
	Created = "created"
	Updated = "updated"
	Patched = "patched"
	Removed = "removed"
)

// Standard lists the events every resource emits.
var Standard = []string{Created, Updated, Patched, Removed}

// Event is a named payload emitted after a successful mutation.
type Event struct {
	Name       string    `json:"event"`
	Resource   string    `json:"resource"`
	Data       any       `json:"data"`
	OccurredAt time.Time `json:"occurred_at"`
}

// New stamps an event with the current time.
func New(resource, name string, data any) Event {
	return Event{Name: name, Resource: resource, Data: data, OccurredAt: time.Now().UTC()}
}

// IsStandard reports whether name is one of the built-in events.
func IsStandard(name string) bool {
	return slices.Contains(Standard, name)
}
