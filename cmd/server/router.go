package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/taskhub-api/internal/api"
	apiMiddleware "github.com/phrazzld/taskhub-api/internal/api/middleware"
)

// setupRouter builds the HTTP surface: health, the WebSocket endpoint,
// webhook ingress and the authenticated REST API.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	r.Handle("/ws", app.realtime)
	r.Mount("/webhooks", app.webhookHandler.Routes())

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	handlers := api.Handlers{
		Projects: api.NewProjectHandler(app.projectService),
		Tasks:    api.NewTaskHandler(app.taskService),
		Notes:    api.NewNoteHandler(app.noteService),
		Stats:    api.NewStatsHandler(app.registry),
	}
	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		api.RegisterRoutes(r, handlers)
	})

	return r
}
