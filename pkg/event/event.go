package event

import (
	log "github.com/sirupsen/logrus"
)

// Event is a domain event emitted after a successful state transition.
type Event interface {
	Type() string
}

// Dispatcher publishes domain events to interested consumers.
type Dispatcher interface {
	Dispatch(event Event) error
}

// LogDispatcher writes events to the log instead of publishing them.
// Used when no message broker is configured.
type LogDispatcher struct{}

func (LogDispatcher) Dispatch(event Event) error {
	log.WithField("event", event.Type()).Debug("domain event")
	return nil
}
