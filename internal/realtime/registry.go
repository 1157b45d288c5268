package realtime

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Channel is one live client connection owned by exactly one user.
type Channel interface {
	ID() string
	UserID() uuid.UUID
	// Send queues an event for delivery. It must not block.
	Send(event string, data any) error
	Close() error
}

// Registry tracks live channels per user and room membership per channel.
// All methods are safe for concurrent use. Fan-out methods snapshot their
// recipients under the read lock and call Send after releasing it.
type Registry struct {
	mu       sync.RWMutex
	channels map[string]Channel
	owners   map[string]uuid.UUID
	users    map[uuid.UUID]map[string]struct{}
	rooms    map[string]map[string]struct{}
	joined   map[string]map[string]struct{} // channel id -> rooms
	closed   bool
	logger   *slog.Logger
}

// NewRegistry creates an empty Registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		channels: make(map[string]Channel),
		owners:   make(map[string]uuid.UUID),
		users:    make(map[uuid.UUID]map[string]struct{}),
		rooms:    make(map[string]map[string]struct{}),
		joined:   make(map[string]map[string]struct{}),
		logger:   logger.With(slog.String("component", "realtime_registry")),
	}
}

// Register records ch under userID. Registering the same channel again is a
// no-op. It returns false once CloseAll has run.
func (r *Registry) Register(userID uuid.UUID, ch Channel) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return false
	}
	id := ch.ID()
	if _, ok := r.channels[id]; ok {
		return true
	}
	r.channels[id] = ch
	r.owners[id] = userID
	set, ok := r.users[userID]
	if !ok {
		set = make(map[string]struct{})
		r.users[userID] = set
	}
	set[id] = struct{}{}
	return true
}

// Unregister removes ch from its user and from every room it joined.
// Unknown channels are ignored.
func (r *Registry) Unregister(ch Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := ch.ID()
	userID, ok := r.owners[id]
	if !ok {
		return
	}
	delete(r.channels, id)
	delete(r.owners, id)

	if set := r.users[userID]; set != nil {
		delete(set, id)
		if len(set) == 0 {
			delete(r.users, userID)
		}
	}

	for room := range r.joined[id] {
		r.removeFromRoomLocked(room, id)
	}
	delete(r.joined, id)
}

// Join adds ch to room. Channels that are not registered cannot join.
func (r *Registry) Join(room string, ch Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := ch.ID()
	if _, ok := r.channels[id]; !ok {
		return
	}
	members, ok := r.rooms[room]
	if !ok {
		members = make(map[string]struct{})
		r.rooms[room] = members
	}
	members[id] = struct{}{}

	rooms, ok := r.joined[id]
	if !ok {
		rooms = make(map[string]struct{})
		r.joined[id] = rooms
	}
	rooms[room] = struct{}{}
}

// Leave removes ch from room.
func (r *Registry) Leave(room string, ch Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := ch.ID()
	r.removeFromRoomLocked(room, id)
	if rooms := r.joined[id]; rooms != nil {
		delete(rooms, room)
		if len(rooms) == 0 {
			delete(r.joined, id)
		}
	}
}

func (r *Registry) removeFromRoomLocked(room, channelID string) {
	members := r.rooms[room]
	if members == nil {
		return
	}
	delete(members, channelID)
	if len(members) == 0 {
		delete(r.rooms, room)
	}
}

// InRoom reports whether the channel has joined room.
func (r *Registry) InRoom(room, channelID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rooms[room][channelID]
	return ok
}

// SendToUser delivers to every channel of userID and reports whether the user
// had any channel at all.
func (r *Registry) SendToUser(userID uuid.UUID, event string, data any) bool {
	r.mu.RLock()
	targets := make([]Channel, 0, len(r.users[userID]))
	for id := range r.users[userID] {
		targets = append(targets, r.channels[id])
	}
	r.mu.RUnlock()

	r.deliver(targets, event, data)
	return len(targets) > 0
}

// SendToRoom delivers to every channel in room except those owned by exclude.
// Pass uuid.Nil to exclude nobody.
func (r *Registry) SendToRoom(room, event string, data any, exclude uuid.UUID) {
	r.mu.RLock()
	members := r.rooms[room]
	targets := make([]Channel, 0, len(members))
	for id := range members {
		if exclude != uuid.Nil && r.owners[id] == exclude {
			continue
		}
		targets = append(targets, r.channels[id])
	}
	r.mu.RUnlock()

	r.deliver(targets, event, data)
}

// BroadcastAll delivers to every registered channel.
func (r *Registry) BroadcastAll(event string, data any) {
	r.deliver(r.snapshot(), event, data)
}

func (r *Registry) snapshot() []Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]Channel, 0, len(r.channels))
	for _, ch := range r.channels {
		all = append(all, ch)
	}
	return all
}

func (r *Registry) deliver(targets []Channel, event string, data any) {
	for _, ch := range targets {
		if err := ch.Send(event, data); err != nil {
			r.logger.Warn("failed to deliver event",
				slog.String("event", event),
				slog.String("channel_id", ch.ID()),
				slog.String("user_id", ch.UserID().String()),
				slog.String("error", err.Error()))
		}
	}
}

// ConnectedUsers returns the number of users with at least one channel.
func (r *Registry) ConnectedUsers() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

// ChannelCount returns the number of registered channels.
func (r *Registry) ChannelCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.channels)
}

// IsConnected reports whether userID has at least one channel.
func (r *Registry) IsConnected(userID uuid.UUID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.users[userID]
	return ok
}

// Closed reports whether CloseAll has run.
func (r *Registry) Closed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.closed
}

// CloseAll closes and unregisters every channel and refuses later
// registrations. Used on shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	for _, ch := range r.snapshot() {
		if err := ch.Close(); err != nil {
			r.logger.Debug("error closing channel",
				slog.String("channel_id", ch.ID()),
				slog.String("error", err.Error()))
		}
		r.Unregister(ch)
	}
}
