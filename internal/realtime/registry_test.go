package realtime

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterUnregister(t *testing.T) {
	r := NewRegistry(nil)
	alice, bob := uuid.New(), uuid.New()
	a1, a2, b1 := newFakeChannel(alice), newFakeChannel(alice), newFakeChannel(bob)

	r.Register(alice, a1)
	r.Register(alice, a2)
	r.Register(alice, a2)
	r.Register(bob, b1)

	assert.Equal(t, 2, r.ConnectedUsers())
	assert.Equal(t, 3, r.ChannelCount())
	assert.True(t, r.IsConnected(alice))

	r.Unregister(a1)
	assert.True(t, r.IsConnected(alice), "alice still has a second channel")

	r.Unregister(a2)
	assert.False(t, r.IsConnected(alice))
	assert.Equal(t, 1, r.ConnectedUsers())
	assert.Equal(t, 1, r.ChannelCount())

	// unknown channel
	r.Unregister(newFakeChannel(uuid.New()))
	assert.Equal(t, 1, r.ChannelCount())
}

func TestRegistryRooms(t *testing.T) {
	r := NewRegistry(nil)
	user := uuid.New()
	room := ProjectRoom(uuid.New())
	ch := newFakeChannel(user)

	t.Run("unregistered channel cannot join", func(t *testing.T) {
		r.Join(room, ch)
		assert.False(t, r.InRoom(room, ch.ID()))
	})

	t.Run("join and leave", func(t *testing.T) {
		r.Register(user, ch)
		r.Join(room, ch)
		assert.True(t, r.InRoom(room, ch.ID()))

		r.Leave(room, ch)
		assert.False(t, r.InRoom(room, ch.ID()))
	})

	t.Run("unregister removes room membership", func(t *testing.T) {
		other := ProjectRoom(uuid.New())
		r.Join(room, ch)
		r.Join(other, ch)

		r.Unregister(ch)

		assert.False(t, r.InRoom(room, ch.ID()))
		assert.False(t, r.InRoom(other, ch.ID()))
		assert.Empty(t, r.rooms)
		assert.Empty(t, r.joined)
	})
}

func TestRegistrySendToUser(t *testing.T) {
	r := NewRegistry(nil)
	user := uuid.New()
	c1, c2 := newFakeChannel(user), newFakeChannel(user)
	r.Register(user, c1)
	r.Register(user, c2)

	assert.True(t, r.SendToUser(user, "project:created", map[string]string{"id": "x"}))
	assert.Equal(t, []string{"project:created"}, c1.events())
	assert.Equal(t, []string{"project:created"}, c2.events())

	assert.False(t, r.SendToUser(uuid.New(), "project:created", nil))
}

func TestRegistrySendToRoom(t *testing.T) {
	alice, bob, carol := uuid.New(), uuid.New(), uuid.New()
	room := ProjectRoom(uuid.New())

	setup := func() (*Registry, *fakeChannel, *fakeChannel, *fakeChannel, *fakeChannel) {
		r := NewRegistry(nil)
		a1, a2, b, c := newFakeChannel(alice), newFakeChannel(alice), newFakeChannel(bob), newFakeChannel(carol)
		for _, ch := range []*fakeChannel{a1, a2, b, c} {
			r.Register(ch.UserID(), ch)
		}
		r.Join(room, a1)
		r.Join(room, a2)
		r.Join(room, b)
		return r, a1, a2, b, c
	}

	t.Run("excludes every channel of the sender", func(t *testing.T) {
		r, a1, a2, b, c := setup()

		r.SendToRoom(room, "task:created", nil, alice)

		assert.Empty(t, a1.events())
		assert.Empty(t, a2.events())
		assert.Equal(t, []string{"task:created"}, b.events())
		assert.Empty(t, c.events(), "carol never joined")
	})

	t.Run("nil exclusion reaches everyone in the room", func(t *testing.T) {
		r, a1, a2, b, _ := setup()

		r.SendToRoom(room, "task:updated", nil, uuid.Nil)

		assert.Len(t, a1.events(), 1)
		assert.Len(t, a2.events(), 1)
		assert.Len(t, b.events(), 1)
	})

	t.Run("failing channel does not stop delivery", func(t *testing.T) {
		r, a1, a2, b, _ := setup()
		a1.sendErr = ErrSendBufferFull

		r.SendToRoom(room, "task:deleted", nil, uuid.Nil)

		assert.Empty(t, a1.events())
		assert.Len(t, a2.events(), 1)
		assert.Len(t, b.events(), 1)
	})

	t.Run("empty room", func(t *testing.T) {
		r, _, _, _, _ := setup()
		r.SendToRoom(ProjectRoom(uuid.New()), "task:deleted", nil, uuid.Nil)
	})
}

func TestRegistryBroadcastAndCloseAll(t *testing.T) {
	r := NewRegistry(nil)
	channels := []*fakeChannel{newFakeChannel(uuid.New()), newFakeChannel(uuid.New())}
	channels[1].sendErr = errors.New("broken pipe")
	for _, ch := range channels {
		r.Register(ch.UserID(), ch)
		r.Join(UserRoom(ch.UserID()), ch)
	}

	r.BroadcastAll("maintenance", nil)
	assert.Equal(t, []string{"maintenance"}, channels[0].events())

	r.CloseAll()

	for _, ch := range channels {
		assert.True(t, ch.isClosed())
	}
	assert.Zero(t, r.ChannelCount())
	assert.Zero(t, r.ConnectedUsers())
	assert.Empty(t, r.rooms)
}

func TestRegistryRefusesRegistrationAfterCloseAll(t *testing.T) {
	r := NewRegistry(nil)
	early := newFakeChannel(uuid.New())
	require.True(t, r.Register(early.UserID(), early))
	require.False(t, r.Closed())

	r.CloseAll()

	late := newFakeChannel(uuid.New())
	assert.True(t, r.Closed())
	assert.False(t, r.Register(late.UserID(), late))
	assert.False(t, r.IsConnected(late.UserID()))
	assert.Zero(t, r.ChannelCount())
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry(nil)
	room := ProjectRoom(uuid.New())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch := newFakeChannel(uuid.New())
			r.Register(ch.UserID(), ch)
			r.Join(room, ch)
			r.SendToRoom(room, "typing:start", nil, ch.UserID())
			r.BroadcastAll("ping", nil)
			_ = r.InRoom(room, ch.ID())
			r.Leave(room, ch)
			r.Unregister(ch)
		}()
	}
	wg.Wait()

	assert.Zero(t, r.ChannelCount())
	assert.Empty(t, r.rooms)
}
