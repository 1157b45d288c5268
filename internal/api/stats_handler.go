package api

import (
	"net/http"

	"github.com/phrazzld/taskhub-api/internal/api/shared"
)

// ConnectionStats reports realtime connection counts.
type ConnectionStats interface {
	ConnectedUsers() int
	ChannelCount() int
}

// StatsHandler serves GET /api/realtime/stats.
type StatsHandler struct {
	stats ConnectionStats
}

// NewStatsHandler creates a StatsHandler.
func NewStatsHandler(stats ConnectionStats) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// RealtimeStats writes the current connection counts.
func (h *StatsHandler) RealtimeStats(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, RealtimeStatsResponse{
		ConnectedUsers: h.stats.ConnectedUsers(),
		Channels:       h.stats.ChannelCount(),
	})
}
