package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/taskhub-api/internal/events"
)

// Notifier forwards committed entity changes to connected clients.
// project:created goes to the owner's channels since nobody has joined the
// room yet; every other event goes to the project room.
type Notifier struct {
	registry *Registry
	logger   *slog.Logger
}

var _ events.EventHandler = (*Notifier)(nil)

// NewNotifier creates a Notifier.
func NewNotifier(registry *Registry, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		registry: registry,
		logger:   logger.With(slog.String("component", "realtime_notifier")),
	}
}

// HandleEvent implements events.EventHandler.
func (n *Notifier) HandleEvent(_ context.Context, event *events.EntityEvent) error {
	data := eventData(event)

	if event.Kind == events.KindProject && event.Action == events.ActionCreated {
		if !n.registry.SendToUser(event.ActorID, event.Name(), data) {
			n.logger.Debug("project owner not connected",
				slog.String("user_id", event.ActorID.String()),
				slog.String("project_id", event.ProjectID.String()))
		}
		return nil
	}

	n.registry.SendToRoom(ProjectRoom(event.ProjectID), event.Name(), data, uuid.Nil)
	return nil
}

// eventData presents the payload the way relayed client events look: the
// entity's fields in camelCase plus userId, projectId and timestamp.
func eventData(event *events.EntityEvent) map[string]any {
	raw := map[string]any{}
	if err := json.Unmarshal(event.Payload, &raw); err != nil || raw == nil {
		raw = map[string]any{"payload": event.Payload}
	}
	fields := make(map[string]any, len(raw)+3)
	for k, v := range raw {
		fields[camelKey(k)] = v
	}
	fields["userId"] = event.ActorID
	fields["projectId"] = event.ProjectID
	fields["timestamp"] = event.OccurredAt
	return fields
}

// camelKey converts a snake_case key such as project_id to projectId.
func camelKey(k string) string {
	if !strings.Contains(k, "_") {
		return k
	}
	parts := strings.Split(k, "_")
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	return b.String()
}
