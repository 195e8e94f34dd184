package events

import "time"

// Event is one notification published during a planning run. Version counts
// the events of Stream, starting at 1.
type Event struct {
	Type    string
	Stream  string
	Data    any
	Time    time.Time
	Version int
}

// Handler consumes events. An error is logged and does not stop delivery to
// the remaining handlers.
type Handler func(Event) error

// Publisher accepts planning events
type Publisher interface {
	Publish(stream, eventType string, data any) error
}
