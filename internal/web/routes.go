package web

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-clock/internal/attendance"
	"github.com/kozaktomas/face-clock/internal/web/handlers"
)

func (s *Server) setupRoutes(engine *attendance.Engine, location *time.Location) {
	workersHandler := handlers.NewWorkersHandler(engine)
	eventsHandler := handlers.NewEventsHandler(engine, location)

	// Health check
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		// Workers
		r.Post("/workers", workersHandler.Enroll)
		r.Get("/workers", workersHandler.List)
		r.Put("/workers/{identifier}", workersHandler.Update)
		r.Delete("/workers/{identifier}", workersHandler.Delete)

		// Attendance events
		r.Post("/events", eventsHandler.Record)
		r.Get("/events", eventsHandler.List)
	})
}
