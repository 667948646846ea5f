package ports

import (
	"context"
	"encoding/json"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// Event types pushed to subscribers.
const (
	EventOrderUpdate    = "order:update"
	EventOrderNew       = "order:new"
	EventOrderAvailable = "order:available"
)

// Audience addresses pushes. A zero ActorID addresses every subscriber with
// the role; otherwise only that actor.
type Audience struct {
	Role    kernel.Role
	ActorID kernel.UUID
}

func RoleAudience(role kernel.Role) Audience {
	return Audience{Role: role}
}

func ActorAudience(actor kernel.Actor) Audience {
	return Audience{Role: actor.Role(), ActorID: actor.ID()}
}

// IsRole reports whether the audience is a whole role rather than one actor.
func (a Audience) IsRole() bool {
	return a.ActorID.IsZero()
}

func (a Audience) String() string {
	if a.IsRole() {
		return a.Role.String()
	}
	return a.Role.String() + ":" + a.ActorID.String()
}

// Event is one push message. Order holds the JSON view of the order as the
// receiving audience may see it.
type Event struct {
	Type       string          `json:"type"`
	OrderID    kernel.UUID     `json:"orderId"`
	Transition string          `json:"transition,omitempty"`
	Order      json.RawMessage `json:"order"`
	Timestamp  time.Time       `json:"timestamp"`
}

// PushChannel delivers an event to the connected subscribers of an audience.
// Offline audiences are not an error.
type PushChannel interface {
	Push(ctx context.Context, audience Audience, event Event) error
}

// EventPublisher forwards events to the outside world, keyed by order id.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
