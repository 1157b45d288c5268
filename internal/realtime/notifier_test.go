package realtime

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/taskhub-api/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier(t *testing.T) {
	owner, member := uuid.New(), uuid.New()
	project := uuid.New()

	setup := func() (*Notifier, *fakeChannel, *fakeChannel) {
		r := NewRegistry(nil)
		ownerCh, memberCh := newFakeChannel(owner), newFakeChannel(member)
		r.Register(owner, ownerCh)
		r.Register(member, memberCh)
		r.Join(ProjectRoom(project), memberCh)
		return NewNotifier(r, nil), ownerCh, memberCh
	}

	t.Run("project created goes to the owner", func(t *testing.T) {
		n, ownerCh, memberCh := setup()
		event, err := events.NewEntityEvent(events.KindProject, events.ActionCreated, project, owner, project,
			map[string]string{"name": "Roadmap"})
		require.NoError(t, err)

		require.NoError(t, n.HandleEvent(context.Background(), event))

		name, data := ownerCh.last(t)
		assert.Equal(t, "project:created", name)
		assert.Equal(t, "Roadmap", data["name"])
		assert.Equal(t, owner.String(), data["userId"])
		assert.Empty(t, memberCh.events())
	})

	t.Run("other events go to the project room", func(t *testing.T) {
		n, ownerCh, memberCh := setup()
		taskID := uuid.New()
		event, err := events.NewEntityEvent(events.KindTask, events.ActionUpdated, project, owner, taskID,
			map[string]string{"id": taskID.String(), "title": "Renamed"})
		require.NoError(t, err)

		require.NoError(t, n.HandleEvent(context.Background(), event))

		assert.Empty(t, ownerCh.events(), "owner has not joined the room")
		name, data := memberCh.last(t)
		assert.Equal(t, "task:updated", name)
		assert.Equal(t, "Renamed", data["title"])
		assert.Equal(t, project.String(), data["projectId"])
		assert.NotEmpty(t, data["timestamp"])
	})

	t.Run("entity fields use camelCase", func(t *testing.T) {
		n, _, memberCh := setup()
		task := map[string]any{
			"id": uuid.New().String(), "project_id": project.String(),
			"creator_id": owner.String(), "due_date": nil, "title": "Ship",
		}
		event, err := events.NewEntityEvent(events.KindTask, events.ActionCreated, project, owner, uuid.New(), task)
		require.NoError(t, err)

		require.NoError(t, n.HandleEvent(context.Background(), event))

		_, data := memberCh.last(t)
		assert.Equal(t, owner.String(), data["creatorId"])
		assert.Equal(t, project.String(), data["projectId"])
		assert.Contains(t, data, "dueDate")
		for key := range data {
			assert.NotContains(t, key, "_", "key %q", key)
		}
	})

	t.Run("wired through the in-memory emitter", func(t *testing.T) {
		n, _, memberCh := setup()
		emitter := events.NewInMemoryEventEmitter(nil)
		emitter.RegisterHandler(n)
		event, err := events.NewEntityEvent(events.KindNote, events.ActionDeleted, project, owner, uuid.New(),
			map[string]string{"id": "n1"})
		require.NoError(t, err)

		emitter.Notify(context.Background(), event)

		assert.Equal(t, []string{"note:deleted"}, memberCh.events())
	})
}

func TestCamelKey(t *testing.T) {
	tests := map[string]string{
		"id":             "id",
		"project_id":     "projectId",
		"clear_due_date": "clearDueDate",
		"userId":         "userId",
		"trailing_":      "trailing",
	}
	for in, want := range tests {
		assert.Equal(t, want, camelKey(in), in)
	}
}
