// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"taskmarket/internal/api/handler"
)

// NewRouter sets up and returns a new HTTP router.
func NewRouter(accountHandler *handler.AccountHandler, taskHandler *handler.TaskHandler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)                       // Add a request ID to the context
	r.Use(middleware.RealIP)                          // Use the real IP address
	r.Use(middleware.Logger)                          // Log HTTP requests
	r.Use(middleware.Recoverer)                       // Recover from panics and return 500
	r.Use(middleware.Timeout(handler.DefaultTimeout)) // Set a default timeout for requests

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Account routes
	r.Post("/register", accountHandler.Register)
	r.Post("/login", accountHandler.Login)

	// Publication routes
	r.Route("/publications", func(r chi.Router) {
		r.Post("/", taskHandler.Publish)
		r.Get("/", taskHandler.ListAll)
		r.Get("/active", taskHandler.ListActive)
		r.Post("/{publicationID}/accept", taskHandler.Accept)
		r.Post("/{publicationID}/approve", taskHandler.Approve)
		r.Post("/{publicationID}/complete", taskHandler.Complete)
		r.Post("/{publicationID}/confirm-payment", taskHandler.ConfirmPayment)
	})

	// User routes
	r.Route("/users", func(r chi.Router) {
		r.Post("/burn", accountHandler.Burn)
		r.Get("/{username}/balance", accountHandler.GetBalance)
		r.Get("/{username}/history", taskHandler.History)
		r.Get("/{username}/transactions", accountHandler.ListTransactions)
	})

	// Notification routes
	r.Get("/notifications/{username}", accountHandler.ListNotifications)
	r.Post("/notifications/mark-read", accountHandler.MarkNotificationsRead)

	return r
}
