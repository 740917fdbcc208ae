package routers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"peerprep/interview/internal/handlers"
)

// CandidateRoutes mounts the interviewer endpoints behind guard.
func CandidateRoutes(router *chi.Mux, candidateHandler *handlers.CandidateHandler, guard func(http.Handler) http.Handler) {
	router.Route("/api/v1/candidates", func(r chi.Router) {
		r.Use(guard)
		r.Get("/", candidateHandler.ListHandler)
		r.Delete("/", candidateHandler.ClearAllHandler)
		r.Get("/stats", candidateHandler.StatsHandler)
		r.Get("/{candidateId}", candidateHandler.DetailHandler)
	})
}
