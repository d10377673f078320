package notification

import (
	"time"

	"github.com/google/uuid"
)

// Type classifies what raised a notification.
type Type string

const (
	TypeBudget  Type = "budget"
	TypeGoal    Type = "goal"
	TypeGeneral Type = "general"
)

// Notification is a persisted message informing an owner of a violation or conflict.
type Notification struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Message   string
	Type      Type
	RelatedID *uuid.UUID
	Read      bool
	CreatedAt time.Time
}

// Violation is the outcome of a failed budget or constraint check, or of a
// duplicate-entity conflict. It becomes a Notification once emitted.
type Violation struct {
	Message   string
	Type      Type
	RelatedID uuid.UUID
}

// New builds an unread notification for the owner from a violation.
func New(ownerID uuid.UUID, v Violation) *Notification {
	n := &Notification{
		OwnerID: ownerID,
		Message: v.Message,
		Type:    v.Type,
	}

	if v.RelatedID != uuid.Nil {
		n.RelatedID = new(v.RelatedID)
	}

	return n
}
