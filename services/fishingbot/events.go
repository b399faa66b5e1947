package fishingbot

import (
	"log/slog"
	"time"
)

type EventType string

const (
	EventStatus       EventType = "status"
	EventCatch        EventType = "catch"
	EventError        EventType = "error"
	EventStats        EventType = "stats"
	EventBaitPurchase EventType = "bait_purchase"
)

type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}

type subscriber struct {
	id int
	ch chan Event
}

// Subscribe registers a listener for bot events. Events arrive in emission
// order. The returned function unsubscribes and closes the channel; it is
// safe to call more than once.
func (s *Service) Subscribe() (<-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := &subscriber{
		id: s.nextSubID,
		ch: make(chan Event, 64),
	}
	s.nextSubID++
	s.subscribers = append(s.subscribers, sub)

	return sub.ch, func() { s.unsubscribe(sub.id) }
}

func (s *Service) unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.subscribers {
		if sub.id == id {
			s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
			close(sub.ch)
			return
		}
	}
}

// emitLocked broadcasts to every subscriber in registration order. A full
// subscriber buffer drops the event rather than blocking the loop, so one
// stalled consumer cannot hold up the bot or its other listeners.
func (s *Service) emitLocked(eventType EventType, data any) {
	event := Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
	for _, sub := range s.subscribers {
		select {
		case sub.ch <- event:
		default:
			slog.Warn("dropping bot event for slow subscriber",
				"event_type", string(eventType), "subscriber_id", sub.id)
		}
	}
}
