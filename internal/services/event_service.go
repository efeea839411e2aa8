package services

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/brazzinioc/twitter-api/internal/models"
	"github.com/brazzinioc/twitter-api/internal/storage"
	ws "github.com/brazzinioc/twitter-api/internal/websocket"
)

// FeedPublisher pushes a raw message to the live event feed.
type FeedPublisher interface {
	Publish(message []byte)
}

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	CreateEvent(eventType, level, message string, subjectID *string) error
	GetRecentEvents(limit int) ([]models.Event, error)
}

// EventService records lifecycle events to the events collection and pushes
// them to the live feed. Event recording is best-effort: failures are logged
// and never fail the operation that triggered them.
type EventService struct {
	events *storage.Collection[models.Event]
	feed   FeedPublisher
}

// NewEventService creates a new EventService. feed may be nil when no live
// feed is attached (e.g. in tests).
func NewEventService(store *storage.Store, feed FeedPublisher) *EventService {
	return &EventService{
		events: storage.NewCollection[models.Event](store, "events"),
		feed:   feed,
	}
}

// CreateEvent appends a new event and broadcasts it to feed subscribers.
func (s *EventService) CreateEvent(eventType, level, message string, subjectID *string) error {
	event := models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Level:     level,
		Message:   message,
		SubjectID: subjectID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.events.Append(event); err != nil {
		log.Error().Err(err).Str("type", eventType).Msg("Failed to record event")
		return err
	}

	if s.feed != nil {
		payload, err := json.Marshal(ws.Message{Action: "event", Payload: event})
		if err == nil {
			s.feed.Publish(payload)
		}
	}
	return nil
}

// GetRecentEvents returns up to limit events, most recent first.
func (s *EventService) GetRecentEvents(limit int) ([]models.Event, error) {
	events, err := s.events.Load()
	if err != nil {
		return nil, err
	}

	recent := make([]models.Event, 0, limit)
	for i := len(events) - 1; i >= 0 && len(recent) < limit; i-- {
		recent = append(recent, events[i])
	}
	return recent, nil
}
