package realtime

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type dispatchFixture struct {
	registry   *Registry
	oracle     *MockOracle
	dispatcher *Dispatcher
	project    uuid.UUID
	alice      *fakeChannel
	bob        *fakeChannel
	outsider   *fakeChannel
}

// newDispatchFixture registers three users; alice and bob have joined the project room.
func newDispatchFixture(t *testing.T) *dispatchFixture {
	t.Helper()
	f := &dispatchFixture{
		registry: NewRegistry(nil),
		oracle:   &MockOracle{},
		project:  uuid.New(),
		alice:    newFakeChannel(uuid.New()),
		bob:      newFakeChannel(uuid.New()),
		outsider: newFakeChannel(uuid.New()),
	}
	f.dispatcher = NewDispatcher(f.registry, f.oracle, nil)
	f.dispatcher.now = func() time.Time { return fixedNow }

	room := ProjectRoom(f.project)
	for _, ch := range []*fakeChannel{f.alice, f.bob, f.outsider} {
		f.registry.Register(ch.UserID(), ch)
	}
	f.registry.Join(room, f.alice)
	f.registry.Join(room, f.bob)
	t.Cleanup(func() { f.oracle.AssertExpectations(t) })
	return f
}

func (f *dispatchFixture) allow(ch *fakeChannel, ok bool) {
	f.oracle.On("IsMember", mock.Anything, ch.UserID(), f.project).Return(ok, nil).Once()
}

func (f *dispatchFixture) dispatch(t *testing.T, ch *fakeChannel, event string, data any) {
	t.Helper()
	f.dispatcher.Dispatch(context.Background(), ch, frame(t, event, data))
}

func TestDispatchPing(t *testing.T) {
	f := newDispatchFixture(t)

	f.dispatch(t, f.alice, EventPing, nil)

	event, data := f.alice.last(t)
	assert.Equal(t, EventPong, event)
	assert.Equal(t, fixedNow.Format(time.RFC3339Nano), data["timestamp"])
}

func TestDispatchRejectsBadFrames(t *testing.T) {
	tests := []struct {
		name    string
		frame   func(t *testing.T, project uuid.UUID) []byte
		message string
	}{
		{
			name:    "not json",
			frame:   func(*testing.T, uuid.UUID) []byte { return []byte("hello") },
			message: msgMalformedFrame,
		},
		{
			name:    "missing event",
			frame:   func(*testing.T, uuid.UUID) []byte { return []byte(`{"data":{}}`) },
			message: msgMalformedFrame,
		},
		{
			name:    "unknown event",
			frame:   func(t *testing.T, _ uuid.UUID) []byte { return frame(t, "project:explode", nil) },
			message: msgUnknownEvent,
		},
		{
			name:    "join without projectId",
			frame:   func(t *testing.T, _ uuid.UUID) []byte { return frame(t, EventJoinProject, map[string]string{}) },
			message: msgMissingProjectID,
		},
		{
			name: "task event with bad projectId",
			frame: func(t *testing.T, _ uuid.UUID) []byte {
				return frame(t, EventTaskCreated, map[string]string{"projectId": "not-a-uuid"})
			},
			message: msgInvalidProjectID,
		},
		{
			name:    "task event without data",
			frame:   func(t *testing.T, _ uuid.UUID) []byte { return frame(t, EventTaskUpdated, nil) },
			message: msgMalformedFrame,
		},
		{
			name:    "typing without projectId",
			frame:   func(t *testing.T, _ uuid.UUID) []byte { return frame(t, EventTypingStart, map[string]string{}) },
			message: msgMissingProjectID,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newDispatchFixture(t)

			f.dispatcher.Dispatch(context.Background(), f.alice, tc.frame(t, f.project))

			event, data := f.alice.last(t)
			assert.Equal(t, EventError, event)
			assert.Equal(t, tc.message, data["message"])
			assert.Empty(t, f.bob.events())
		})
	}
}

func TestDispatchJoin(t *testing.T) {
	t.Run("member joins and the room is told", func(t *testing.T) {
		f := newDispatchFixture(t)
		f.allow(f.outsider, true)

		f.dispatch(t, f.outsider, EventJoinProject, map[string]string{"projectId": f.project.String()})

		assert.True(t, f.registry.InRoom(ProjectRoom(f.project), f.outsider.ID()))
		event, data := f.outsider.last(t)
		assert.Equal(t, EventJoinedProject, event)
		assert.Equal(t, f.project.String(), data["projectId"])
		assert.Equal(t, []string{EventJoinedProject}, f.outsider.events())

		event, data = f.bob.last(t)
		assert.Equal(t, EventUserJoined, event)
		assert.Equal(t, f.outsider.UserID().String(), data["userId"])
		assert.Equal(t, f.project.String(), data["projectId"])
		assert.Equal(t, fixedNow.Format(time.RFC3339Nano), data["timestamp"])
	})

	t.Run("non member is refused", func(t *testing.T) {
		f := newDispatchFixture(t)
		f.allow(f.outsider, false)

		f.dispatch(t, f.outsider, EventJoinProject, map[string]string{"projectId": f.project.String()})

		assert.False(t, f.registry.InRoom(ProjectRoom(f.project), f.outsider.ID()))
		event, data := f.outsider.last(t)
		assert.Equal(t, EventError, event)
		assert.Equal(t, msgNotMember, data["message"])
		assert.Empty(t, f.bob.events())
	})

	t.Run("oracle failure is reported", func(t *testing.T) {
		f := newDispatchFixture(t)
		f.oracle.On("IsMember", mock.Anything, f.outsider.UserID(), f.project).
			Return(false, errors.New("db down")).Once()

		f.dispatch(t, f.outsider, EventJoinProject, map[string]string{"projectId": f.project.String()})

		_, data := f.outsider.last(t)
		assert.Equal(t, msgMembershipFailed, data["message"])
		assert.False(t, f.registry.InRoom(ProjectRoom(f.project), f.outsider.ID()))
	})
}

func TestDispatchLeave(t *testing.T) {
	f := newDispatchFixture(t)

	f.dispatch(t, f.alice, EventLeaveProject, map[string]string{"projectId": f.project.String()})

	assert.False(t, f.registry.InRoom(ProjectRoom(f.project), f.alice.ID()))
	event, _ := f.alice.last(t)
	assert.Equal(t, EventLeftProject, event)
	event, data := f.bob.last(t)
	assert.Equal(t, EventUserLeft, event)
	assert.Equal(t, f.alice.UserID().String(), data["userId"])
	f.oracle.AssertNotCalled(t, "IsMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatchEntityEvent(t *testing.T) {
	t.Run("relayed to the room without the sender", func(t *testing.T) {
		f := newDispatchFixture(t)
		f.allow(f.alice, true)

		f.dispatch(t, f.alice, EventTaskCreated, map[string]any{
			"projectId": f.project.String(),
			"title":     "Ship it",
		})

		assert.Empty(t, f.alice.events())
		assert.Empty(t, f.outsider.events())
		event, data := f.bob.last(t)
		assert.Equal(t, EventTaskCreated, event)
		assert.Equal(t, "Ship it", data["title"])
		assert.Equal(t, f.alice.UserID().String(), data["userId"])
		assert.Equal(t, fixedNow.Format(time.RFC3339Nano), data["timestamp"])
	})

	t.Run("membership is rechecked even after joining", func(t *testing.T) {
		f := newDispatchFixture(t)
		f.allow(f.alice, false)

		f.dispatch(t, f.alice, EventNoteCreated, map[string]any{"projectId": f.project.String()})

		event, data := f.alice.last(t)
		assert.Equal(t, EventError, event)
		assert.Equal(t, msgNotMember, data["message"])
		assert.Empty(t, f.bob.events())
	})

	t.Run("sender need not have joined", func(t *testing.T) {
		f := newDispatchFixture(t)
		f.allow(f.outsider, true)

		f.dispatch(t, f.outsider, EventProjectUpdated, map[string]any{"projectId": f.project.String()})

		assert.Equal(t, []string{EventProjectUpdated}, f.alice.events())
		assert.Equal(t, []string{EventProjectUpdated}, f.bob.events())
	})
}

func TestDispatchTypingSkipsMembershipCheck(t *testing.T) {
	f := newDispatchFixture(t)

	f.dispatch(t, f.outsider, EventTypingStart, map[string]string{"projectId": f.project.String()})
	f.dispatch(t, f.alice, EventTypingStop, map[string]string{"projectId": f.project.String()})

	assert.Equal(t, []string{EventTypingStart}, f.alice.events())
	assert.Equal(t, []string{EventTypingStart, EventTypingStop}, f.bob.events())
	_, data := f.bob.last(t)
	assert.Equal(t, f.alice.UserID().String(), data["userId"])
	f.oracle.AssertNotCalled(t, "IsMember", mock.Anything, mock.Anything, mock.Anything)
}
