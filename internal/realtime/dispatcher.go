package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskhub-api/internal/platform/logger"
)

// MembershipOracle answers whether a user may see a project's room.
type MembershipOracle interface {
	IsMember(ctx context.Context, userID, projectID uuid.UUID) (bool, error)
}

// Error messages sent back to the originating channel.
const (
	msgMalformedFrame   = "malformed message"
	msgUnknownEvent     = "unknown event"
	msgMissingProjectID = "projectId is required"
	msgInvalidProjectID = "projectId is invalid"
	msgNotMember        = "not a member of this project"
	msgMembershipFailed = "membership check failed"
)

// entityEvents are relayed to the project room after a membership check.
var entityEvents = map[string]struct{}{
	EventTaskCreated:    {},
	EventTaskUpdated:    {},
	EventTaskDeleted:    {},
	EventProjectCreated: {},
	EventProjectUpdated: {},
	EventNoteCreated:    {},
}

type projectData struct {
	ProjectID uuid.UUID `json:"projectId"`
}

type presenceData struct {
	UserID    uuid.UUID `json:"userId"`
	ProjectID uuid.UUID `json:"projectId"`
	Timestamp time.Time `json:"timestamp"`
}

type pongData struct {
	Timestamp time.Time `json:"timestamp"`
}

// Dispatcher routes inbound frames from authenticated channels.
type Dispatcher struct {
	registry *Registry
	oracle   MembershipOracle
	now      func() time.Time
	logger   *slog.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(registry *Registry, oracle MembershipOracle, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		registry: registry,
		oracle:   oracle,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger.With(slog.String("component", "realtime_dispatcher")),
	}
}

// Dispatch handles one frame from ch. Problems with the frame are reported to
// ch as an error event; the channel stays open.
func (d *Dispatcher) Dispatch(ctx context.Context, ch Channel, frame []byte) {
	var msg Message
	if err := json.Unmarshal(frame, &msg); err != nil || msg.Event == "" {
		d.reply(ch, EventError, errorData{Message: msgMalformedFrame})
		return
	}

	switch msg.Event {
	case EventPing:
		d.reply(ch, EventPong, pongData{Timestamp: d.now()})
	case EventJoinProject:
		d.join(ctx, ch, msg.Data)
	case EventLeaveProject:
		d.leave(ch, msg.Data)
	case EventTypingStart, EventTypingStop:
		d.typing(ch, msg.Event, msg.Data)
	default:
		if _, ok := entityEvents[msg.Event]; ok {
			d.relay(ctx, ch, msg.Event, msg.Data)
			return
		}
		d.reply(ch, EventError, errorData{Message: msgUnknownEvent})
	}
}

func (d *Dispatcher) join(ctx context.Context, ch Channel, data json.RawMessage) {
	projectID, ok := d.projectID(ch, data)
	if !ok || !d.authorize(ctx, ch, projectID) {
		return
	}

	room := ProjectRoom(projectID)
	d.registry.Join(room, ch)
	d.reply(ch, EventJoinedProject, projectData{ProjectID: projectID})
	d.registry.SendToRoom(room, EventUserJoined, presenceData{
		UserID:    ch.UserID(),
		ProjectID: projectID,
		Timestamp: d.now(),
	}, ch.UserID())
}

func (d *Dispatcher) leave(ch Channel, data json.RawMessage) {
	projectID, ok := d.projectID(ch, data)
	if !ok {
		return
	}

	room := ProjectRoom(projectID)
	d.registry.Leave(room, ch)
	d.reply(ch, EventLeftProject, projectData{ProjectID: projectID})
	d.registry.SendToRoom(room, EventUserLeft, presenceData{
		UserID:    ch.UserID(),
		ProjectID: projectID,
		Timestamp: d.now(),
	}, ch.UserID())
}

// typing is relayed without a membership check.
func (d *Dispatcher) typing(ch Channel, event string, data json.RawMessage) {
	projectID, ok := d.projectID(ch, data)
	if !ok {
		return
	}
	d.registry.SendToRoom(ProjectRoom(projectID), event, presenceData{
		UserID:    ch.UserID(),
		ProjectID: projectID,
		Timestamp: d.now(),
	}, ch.UserID())
}

func (d *Dispatcher) relay(ctx context.Context, ch Channel, event string, data json.RawMessage) {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		d.reply(ch, EventError, errorData{Message: msgMalformedFrame})
		return
	}
	projectID, ok := d.projectID(ch, data)
	if !ok || !d.authorize(ctx, ch, projectID) {
		return
	}

	fields["userId"] = ch.UserID()
	fields["timestamp"] = d.now()
	d.registry.SendToRoom(ProjectRoom(projectID), event, fields, ch.UserID())
}

// projectID extracts data.projectId, replying with an error when it is absent or invalid.
func (d *Dispatcher) projectID(ch Channel, data json.RawMessage) (uuid.UUID, bool) {
	var payload struct {
		ProjectID *string `json:"projectId"`
	}
	if len(data) == 0 || json.Unmarshal(data, &payload) != nil || payload.ProjectID == nil || *payload.ProjectID == "" {
		d.reply(ch, EventError, errorData{Message: msgMissingProjectID})
		return uuid.Nil, false
	}
	id, err := uuid.Parse(*payload.ProjectID)
	if err != nil {
		d.reply(ch, EventError, errorData{Message: msgInvalidProjectID})
		return uuid.Nil, false
	}
	return id, true
}

// authorize asks the oracle and tells the sender when access is denied.
func (d *Dispatcher) authorize(ctx context.Context, ch Channel, projectID uuid.UUID) bool {
	ok, err := d.oracle.IsMember(ctx, ch.UserID(), projectID)
	if err != nil {
		logger.FromContextOrDefault(ctx, d.logger).Error("membership check failed",
			slog.String("channel_id", ch.ID()),
			slog.String("user_id", ch.UserID().String()),
			slog.String("project_id", projectID.String()),
			slog.String("error", err.Error()))
		d.reply(ch, EventError, errorData{Message: msgMembershipFailed})
		return false
	}
	if !ok {
		logger.FromContextOrDefault(ctx, d.logger).Debug("membership denied",
			slog.String("channel_id", ch.ID()),
			slog.String("user_id", ch.UserID().String()),
			slog.String("project_id", projectID.String()))
		d.reply(ch, EventError, errorData{Message: msgNotMember})
		return false
	}
	return true
}

func (d *Dispatcher) reply(ch Channel, event string, data any) {
	if err := ch.Send(event, data); err != nil {
		d.logger.Warn("failed to reply",
			slog.String("event", event),
			slog.String("channel_id", ch.ID()),
			slog.String("error", err.Error()))
	}
}
