package routers

import (
	"github.com/go-chi/chi/v5"

	"peerprep/interview/internal/handlers"
	"peerprep/interview/internal/middleware"
	"peerprep/interview/internal/models"
)

func InterviewRoutes(router *chi.Mux, interviewHandler *handlers.InterviewHandler, eventsHandler *handlers.EventsHandler) {
	router.Route("/api/v1/interview", func(r chi.Router) {
		r.Get("/session", interviewHandler.SessionHandler)
		r.Get("/transcript", interviewHandler.TranscriptHandler)
		r.Get("/events", eventsHandler.StreamHandler)

		r.Post("/upload", interviewHandler.UploadHandler)
		r.Post("/back", interviewHandler.BackHandler)
		r.With(middleware.ValidateRequest[*models.ProfileRequest]()).Post("/profile", interviewHandler.ProfileHandler)
		r.With(middleware.ValidateRequest[*models.AnswerRequest]()).Post("/answers", interviewHandler.AnswerHandler)
		r.Post("/pause", interviewHandler.PauseHandler)
		r.Post("/resume", interviewHandler.ResumeHandler)
		r.Post("/session/continue", interviewHandler.ContinueHandler)
		r.Post("/session/discard", interviewHandler.DiscardHandler)
		r.Post("/reset", interviewHandler.ResetHandler)
	})
}
