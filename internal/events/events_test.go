package events

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockEventHandler records the events it receives.
type MockEventHandler struct {
	HandledCount int
	LastEvent    *EntityEvent
	HandlerError error
	Panic        bool
}

func (h *MockEventHandler) HandleEvent(ctx context.Context, event *EntityEvent) error {
	h.HandledCount++
	h.LastEvent = event
	if h.Panic {
		panic("handler exploded")
	}
	return h.HandlerError
}

func TestNewEntityEvent(t *testing.T) {
	projectID, actorID, entityID := uuid.New(), uuid.New(), uuid.New()

	event, err := NewEntityEvent(KindTask, ActionUpdated, projectID, actorID, entityID,
		map[string]string{"title": "Ship"})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, "task:updated", event.Name())
	assert.Equal(t, projectID, event.ProjectID)
	assert.Equal(t, actorID, event.ActorID)
	assert.Equal(t, entityID, event.EntityID)
	assert.False(t, event.OccurredAt.IsZero())

	var payload map[string]string
	require.NoError(t, event.UnmarshalPayload(&payload))
	assert.Equal(t, "Ship", payload["title"])
}

func TestNewEntityEventUnmarshalablePayload(t *testing.T) {
	_, err := NewEntityEvent(KindNote, ActionCreated, uuid.New(), uuid.New(), uuid.New(), make(chan int))
	assert.Error(t, err)
}

func TestNopNotifier(t *testing.T) {
	assert.NotPanics(t, func() {
		NopNotifier{}.Notify(context.Background(), nil)
	})
}
