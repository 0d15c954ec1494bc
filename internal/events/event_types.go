package events

import (
	"time"

	"github.com/spec-kit/music-collection/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user.registered"
	EventUserPromoted   EventType = "user.promoted"
	EventUserDemoted    EventType = "user.demoted"
	EventUserDeleted    EventType = "user.deleted"
)

// Event represents an account lifecycle change emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    int64       `json:"user_id"`
	ActorID   *int64      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// UserPayload describes the account an event refers to.
type UserPayload struct {
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}
