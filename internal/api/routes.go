package api

import "github.com/go-chi/chi/v5"

// Handlers groups the authenticated REST handlers.
type Handlers struct {
	Projects *ProjectHandler
	Tasks    *TaskHandler
	Notes    *NoteHandler
	Stats    *StatsHandler
}

// RegisterRoutes mounts the REST endpoints on r. Authentication must already
// be applied by the caller.
func RegisterRoutes(r chi.Router, h Handlers) {
	r.Route("/projects", func(r chi.Router) {
		r.Post("/", h.Projects.CreateProject)
		r.Get("/", h.Projects.ListProjects)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Projects.GetProject)
			r.Put("/", h.Projects.UpdateProject)
			r.Delete("/", h.Projects.DeleteProject)

			r.Get("/members", h.Projects.ListMembers)
			r.Post("/members", h.Projects.AddMember)
			r.Delete("/members/{userID}", h.Projects.RemoveMember)

			r.Post("/tasks", h.Tasks.CreateTask)
			r.Get("/tasks", h.Tasks.ListTasks)

			r.Post("/notes", h.Notes.CreateNote)
			r.Get("/notes", h.Notes.ListNotes)
		})
	})

	r.Route("/tasks/{id}", func(r chi.Router) {
		r.Get("/", h.Tasks.GetTask)
		r.Put("/", h.Tasks.UpdateTask)
		r.Delete("/", h.Tasks.DeleteTask)
	})

	r.Route("/notes/{id}", func(r chi.Router) {
		r.Get("/", h.Notes.GetNote)
		r.Put("/", h.Notes.UpdateNote)
		r.Delete("/", h.Notes.DeleteNote)
	})

	r.Get("/realtime/stats", h.Stats.RealtimeStats)
}
