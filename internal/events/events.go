package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Kind names the entity an event is about.
type Kind string

// Entity kinds
const (
	KindProject Kind = "project"
	KindTask    Kind = "task"
	KindNote    Kind = "note"
)

// Action names what happened to the entity.
type Action string

// Entity actions
const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// EntityEvent describes a committed create, update or delete.
type EntityEvent struct {
	ID        uuid.UUID `json:"id"`
	Kind      Kind      `json:"kind"`
	Action    Action    `json:"action"`
	ProjectID uuid.UUID `json:"project_id"`
	// ActorID is the user whose request caused the change.
	ActorID  uuid.UUID `json:"actor_id"`
	EntityID uuid.UUID `json:"entity_id"`
	// Payload is the entity as it should be presented to clients.
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// Name returns the wire event name, e.g. "task:created".
func (e *EntityEvent) Name() string {
	return string(e.Kind) + ":" + string(e.Action)
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *EntityEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEntityEvent serializes payload and stamps the event with a new ID and the current time.
func NewEntityEvent(
	kind Kind,
	action Action,
	projectID, actorID, entityID uuid.UUID,
	payload interface{},
) (*EntityEvent, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &EntityEvent{
		ID:         uuid.New(),
		Kind:       kind,
		Action:     action,
		ProjectID:  projectID,
		ActorID:    actorID,
		EntityID:   entityID,
		Payload:    payloadBytes,
		OccurredAt: time.Now().UTC(),
	}, nil
}

// EventHandler defines an interface for components that consume entity events.
type EventHandler interface {
	HandleEvent(ctx context.Context, event *EntityEvent) error
}

// EventEmitter publishes events and reports the first handler failure.
type EventEmitter interface {
	EmitEvent(ctx context.Context, event *EntityEvent) error
}

// Notifier is the port CRUD services publish through. Notify never fails the
// caller; implementations own failure isolation.
type Notifier interface {
	Notify(ctx context.Context, event *EntityEvent)
}

// NopNotifier discards every event.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(context.Context, *EntityEvent) {}
