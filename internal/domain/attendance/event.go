package attendance

import "context"

type EventType string

const (
	EventCheckIn  EventType = "checkin"
	EventCheckOut EventType = "checkout"
)

// Event is emitted after a check-in or check-out has been persisted
type Event struct {
	Type       EventType          `json:"type"`
	Attendance AttendanceResponse `json:"attendance"`
}

// EventPublisher observes record changes. Publish must not block the caller.
type EventPublisher interface {
	Publish(ctx context.Context, event Event)
}

// Publishers fans an event out to every publisher in order
type Publishers []EventPublisher

func (p Publishers) Publish(ctx context.Context, event Event) {
	for _, pub := range p {
		pub.Publish(ctx, event)
	}
}

// PublisherFunc adapts a function to EventPublisher
type PublisherFunc func(ctx context.Context, event Event)

func (f PublisherFunc) Publish(ctx context.Context, event Event) {
	f(ctx, event)
}
