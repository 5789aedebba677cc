package search

import (
	"context"
	"time"

	events "github.com/asaidimu/go-events"
)

// EventType names a service lifecycle event.
type EventType string

const (
	EventQueryCompiled  EventType = "query.compiled"
	EventQueryFailed    EventType = "query.failed"
	EventSearchExecuted EventType = "search.executed"
)

// Event is published on the service bus.
type Event struct {
	Type        EventType     `json:"type"`
	Query       string        `json:"query"`
	Fingerprint string        `json:"fingerprint,omitempty"`
	Cached      bool          `json:"cached,omitempty"`
	Code        string        `json:"code,omitempty"`
	Error       string        `json:"error,omitempty"`
	Rows        int           `json:"rows,omitempty"`
	Duration    time.Duration `json:"duration"`
	Timestamp   time.Time     `json:"timestamp"`
}

// EventCallback receives service events.
type EventCallback func(ctx context.Context, ev Event) error

func newBus() (*events.TypedEventBus[Event], error) {
	return events.NewTypedEventBus[Event](events.DefaultConfig())
}

// Subscribe registers cb for events of type t and returns a function that
// removes the subscription.
func (s *Service) Subscribe(t EventType, cb EventCallback) func() {
	return s.bus.Subscribe(string(t), func(ctx context.Context, ev Event) error {
		return cb(ctx, ev)
	})
}

func (s *Service) emit(ev Event) {
	ev.Timestamp = s.now()
	s.bus.Emit(string(ev.Type), ev)
}
