package realtime

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Message is the JSON envelope used in both directions.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Server-originated events
const (
	EventConnected     = "connected"
	EventError         = "error"
	EventJoinedProject = "joined:project"
	EventLeftProject   = "left:project"
	EventUserJoined    = "user:joined"
	EventUserLeft      = "user:left"
	EventPong          = "pong"
)

// Client-originated events
const (
	EventJoinProject    = "join:project"
	EventLeaveProject   = "leave:project"
	EventTaskCreated    = "task:created"
	EventTaskUpdated    = "task:updated"
	EventTaskDeleted    = "task:deleted"
	EventProjectCreated = "project:created"
	EventProjectUpdated = "project:updated"
	EventNoteCreated    = "note:created"
	EventTypingStart    = "typing:start"
	EventTypingStop     = "typing:stop"
	EventPing           = "ping"
)

// ProjectRoom returns the room key for a project.
func ProjectRoom(projectID uuid.UUID) string {
	return "project:" + projectID.String()
}

// UserRoom returns the room key for a user's private room.
func UserRoom(userID uuid.UUID) string {
	return "user:" + userID.String()
}

type errorData struct {
	Message string `json:"message"`
}

func encodeFrame(event string, data any) ([]byte, error) {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	return json.Marshal(Message{Event: event, Data: raw})
}
