package events

import (
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/motif/internal/models"
)

// Service is an in-process publish/subscribe hub for job lifecycle events.
// Subscribers receive events on buffered channels; a slow subscriber drops
// events rather than blocking publishers.
type Service struct {
	mu     sync.Mutex
	subs   map[int]chan models.JobEvent
	nextID int
	logger arbor.ILogger
}

// NewService creates a new event service
func NewService(logger arbor.ILogger) *Service {
	return &Service{
		subs:   make(map[int]chan models.JobEvent),
		logger: logger,
	}
}

// Subscribe registers a new subscriber. The returned cancel function
// removes the subscription and closes the channel.
func (s *Service) Subscribe() (<-chan models.JobEvent, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	ch := make(chan models.JobEvent, 32)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}

	return ch, cancel
}

// Publish broadcasts an event to all subscribers.
func (s *Service) Publish(event models.JobEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, ch := range s.subs {
		select {
		case ch <- event:
		default:
			s.logger.Debug().
				Int("subscriber", id).
				Str("event", event.Type).
				Msg("Dropping event for slow subscriber")
		}
	}
}

// SubscriberCount returns the number of active subscribers.
func (s *Service) SubscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
