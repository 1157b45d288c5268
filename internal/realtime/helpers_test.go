package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type sentEvent struct {
	Event string
	Data  any
}

// fakeChannel records what it was sent.
type fakeChannel struct {
	id      string
	user    uuid.UUID
	sendErr error

	mu     sync.Mutex
	sent   []sentEvent
	closed bool
}

func newFakeChannel(user uuid.UUID) *fakeChannel {
	return &fakeChannel{id: uuid.NewString(), user: user}
}

func (c *fakeChannel) ID() string        { return c.id }
func (c *fakeChannel) UserID() uuid.UUID { return c.user }

func (c *fakeChannel) Send(event string, data any) error {
	if c.sendErr != nil {
		return c.sendErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, sentEvent{Event: event, Data: data})
	return nil
}

func (c *fakeChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeChannel) events() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.sent))
	for _, s := range c.sent {
		names = append(names, s.Event)
	}
	return names
}

func (c *fakeChannel) last(t *testing.T) (string, map[string]any) {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.sent, "channel received nothing")
	s := c.sent[len(c.sent)-1]
	return s.Event, toMap(t, s.Data)
}

func (c *fakeChannel) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// toMap round-trips data through JSON so assertions see the wire shape.
func toMap(t *testing.T, data any) map[string]any {
	t.Helper()
	b, err := json.Marshal(data)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	return m
}

func frame(t *testing.T, event string, data any) []byte {
	t.Helper()
	b, err := encodeFrame(event, data)
	require.NoError(t, err)
	return b
}

type MockOracle struct {
	mock.Mock
}

func (m *MockOracle) IsMember(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, projectID)
	return args.Bool(0), args.Error(1)
}

// memberSet is an oracle backed by a fixed membership list.
type memberSet map[uuid.UUID]map[uuid.UUID]bool

func (s memberSet) add(projectID uuid.UUID, users ...uuid.UUID) {
	if s[projectID] == nil {
		s[projectID] = map[uuid.UUID]bool{}
	}
	for _, u := range users {
		s[projectID][u] = true
	}
}

func (s memberSet) IsMember(_ context.Context, userID, projectID uuid.UUID) (bool, error) {
	return s[projectID][userID], nil
}
