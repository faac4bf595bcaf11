package routers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iam-sarthakdev/MockMate-AI/internal/handlers"
	"github.com/iam-sarthakdev/MockMate-AI/internal/middleware"
	"github.com/iam-sarthakdev/MockMate-AI/internal/models"
)

// InterviewRoutes mounts the voice workflow's tool endpoint, which carries the
// user id in its body, next to the authenticated interview and feedback reads.
func InterviewRoutes(router chi.Router, interviewHandler *handlers.InterviewHandler, feedbackHandler *handlers.FeedbackHandler, auth func(http.Handler) http.Handler) {
	router.Route("/api/v1/vapi", func(r chi.Router) {
		r.With(middleware.ValidateRequest[*models.GenerateInterviewRequest]()).Post("/generate", interviewHandler.GenerateHandler)
		r.Get("/generate", interviewHandler.ListHandler)
	})

	router.Group(func(r chi.Router) {
		r.Use(auth)
		r.Get("/api/v1/dashboard", interviewHandler.DashboardHandler)
		r.Route("/api/v1/interviews", func(r chi.Router) {
			r.Get("/mine", interviewHandler.MineHandler)
			r.Get("/latest", interviewHandler.LatestHandler)
			r.Get("/{id}", interviewHandler.GetHandler)
			r.Get("/{id}/feedback", feedbackHandler.GetForInterviewHandler)
		})
	})
}

func FeedbackRoutes(router chi.Router, feedbackHandler *handlers.FeedbackHandler, auth func(http.Handler) http.Handler) {
	router.Route("/api/v1/feedback", func(r chi.Router) {
		r.Use(auth)
		r.With(middleware.ValidateRequest[*models.CreateFeedbackRequest]()).Post("/", feedbackHandler.CreateHandler)
		r.Get("/stats", feedbackHandler.StatsHandler)
		r.Get("/export", feedbackHandler.ExportHandler)
		r.Get("/{id}", feedbackHandler.GetHandler)
	})
}
