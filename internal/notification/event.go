package notification

import (
	"time"

	"github.com/google/uuid"
)

// EventNew is the event name pushed to live subscribers for a new notification.
const EventNew = "newNotification"

// Payload is the JSON form of a notification, shared by the REST API and
// the push channels so subscribers see the same shape either way.
type Payload struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"userId"`
	Message   string     `json:"message"`
	Type      Type       `json:"type"`
	RelatedID *uuid.UUID `json:"relatedId,omitempty"`
	Read      bool       `json:"read"`
	CreatedAt time.Time  `json:"createdAt"`
}

func NewPayload(n *Notification) Payload {
	return Payload{
		ID:        n.ID,
		UserID:    n.OwnerID,
		Message:   n.Message,
		Type:      n.Type,
		RelatedID: n.RelatedID,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

// Event wraps a payload with its event name.
type Event struct {
	Name string  `json:"event"`
	Data Payload `json:"data"`
}

func NewEvent(n *Notification) Event {
	return Event{Name: EventNew, Data: NewPayload(n)}
}

// Notification converts a received payload back into a notification.
func (p Payload) Notification() *Notification {
	return &Notification{
		ID:        p.ID,
		OwnerID:   p.UserID,
		Message:   p.Message,
		Type:      p.Type,
		RelatedID: p.RelatedID,
		Read:      p.Read,
		CreatedAt: p.CreatedAt,
	}
}
