package main

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/taskhub-api/internal/realtime"
	"github.com/phrazzld/taskhub-api/internal/webhook"
)

// Webhook event types relayed into project rooms.
const (
	webhookTaskCreated = "task.created"
	webhookTaskUpdated = "task.updated"
	webhookTaskDeleted = "task.deleted"
	webhookGitHubPing  = "ping"
)

// registerWebhookHandlers installs the startup callbacks. Task events that
// name a project are relayed to that project's room under the matching
// realtime event; GitHub ping deliveries are acknowledged.
func registerWebhookHandlers(webhooks *webhook.Registry, rooms *realtime.Registry, logger *slog.Logger) {
	logger = logger.With(slog.String("component", "webhook_relay"))

	webhooks.RegisterHandlers(map[string]webhook.HandlerFunc{
		webhookTaskCreated: relayToProject(rooms, realtime.EventTaskCreated, logger),
		webhookTaskUpdated: relayToProject(rooms, realtime.EventTaskUpdated, logger),
		webhookTaskDeleted: relayToProject(rooms, realtime.EventTaskDeleted, logger),
		webhookGitHubPing: func(_ context.Context, payload map[string]any, meta webhook.Metadata) error {
			zen, _ := payload["zen"].(string)
			logger.Info("webhook ping acknowledged", "source", meta.Source, "zen", zen)
			return nil
		},
	})
}

func relayToProject(rooms *realtime.Registry, event string, logger *slog.Logger) webhook.HandlerFunc {
	return func(_ context.Context, payload map[string]any, meta webhook.Metadata) error {
		raw, _ := payload["projectId"].(string)
		projectID, err := uuid.Parse(raw)
		if err != nil {
			logger.Debug("webhook payload has no project; not relayed",
				"source", meta.Source,
				"event", event)
			return nil
		}
		rooms.SendToRoom(realtime.ProjectRoom(projectID), event, payload, uuid.Nil)
		logger.Debug("webhook relayed to project room",
			"source", meta.Source,
			"event", event,
			"project_id", projectID)
		return nil
	}
}
