package routers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/iam-sarthakdev/MockMate-AI/internal/handlers"
	"github.com/iam-sarthakdev/MockMate-AI/internal/middleware"
	"github.com/iam-sarthakdev/MockMate-AI/internal/models"
)

// CallRoutes mounts the call session API. The bridge socket lives for the
// whole call, so only the plain HTTP routes get the request timeout.
func CallRoutes(router chi.Router, callHandler *handlers.CallHandler, auth func(http.Handler) http.Handler, timeout time.Duration) {
	router.Route("/api/v1/calls", func(r chi.Router) {
		r.Use(auth)
		r.Get("/{id}/ws", callHandler.SocketHandler)

		r.Group(func(r chi.Router) {
			r.Use(chimiddleware.Timeout(timeout))
			r.With(middleware.ValidateRequest[*models.CreateCallRequest]()).Post("/", callHandler.CreateHandler)
			r.Get("/{id}", callHandler.GetHandler)
			r.Post("/{id}/start", callHandler.StartHandler)
			r.Post("/{id}/events", callHandler.EventsHandler)
			r.Post("/{id}/disconnect", callHandler.DisconnectHandler)
		})
	})
}
