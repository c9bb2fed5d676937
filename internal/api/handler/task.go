// internal/api/handler/task.go
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"taskmarket/internal/domain"
	"taskmarket/internal/service"
	"taskmarket/internal/util"
)

// TaskHandler handles HTTP requests for publications and their lifecycle.
type TaskHandler struct {
	service service.TaskService
	logger  *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(svc service.TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		service: svc,
		logger:  logger,
	}
}

// PublishRequest represents the request body for creating a publication.
type PublishRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	BlueCost       int64  `json:"blue_cost"`
	AuthorUsername string `json:"author_username"`
}

// Publish handles the create publication request.
// POST /publications
func (h *TaskHandler) Publish(w http.ResponseWriter, r *http.Request) {
	var req PublishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	pub, err := h.service.Publish(r.Context(), req.Title, req.Description, req.BlueCost, req.AuthorUsername)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusCreated, map[string]interface{}{
		"message":        "Publication created",
		"publication_id": pub.ID,
	})
}

// ListAll handles the list all publications request.
// GET /publications
func (h *TaskHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	pubs, err := h.service.ListAllPublications(r.Context())
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, pubs)
}

// ListActive handles the active publications request for the main panel.
// GET /publications/active?user=U
func (h *TaskHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	viewer := r.URL.Query().Get("user")

	pubs, err := h.service.ListActivePublications(r.Context(), viewer)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, pubs)
}

// ActorRequest represents the request body for lifecycle transitions.
type ActorRequest struct {
	Username string `json:"username"`
}

// Accept handles the accept transition.
// POST /publications/{publicationID}/accept
func (h *TaskHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Accept, "Request sent. Waiting for the author's approval.")
}

// Approve handles the approve transition.
// POST /publications/{publicationID}/approve
func (h *TaskHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Approve, "Approved. The other user has been notified.")
}

// Complete handles the complete transition.
// POST /publications/{publicationID}/complete
func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Complete, "Task marked as completed. Waiting for confirmation.")
}

// ConfirmPayment handles the confirm-payment transition.
// POST /publications/{publicationID}/confirm-payment
func (h *TaskHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.ConfirmPayment, "Payment confirmed and task finished.")
}

// transition parses the shared inputs of a lifecycle request and delegates
// to the given service method.
func (h *TaskHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, publicationID int64, actor string) (*domain.Publication, error),
	successMessage string,
) {
	publicationIDStr := chi.URLParam(r, "publicationID")
	publicationID, err := strconv.ParseInt(publicationIDStr, 10, 64)
	if err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	var req ActorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	pub, err := apply(r.Context(), publicationID, req.Username)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"message": successMessage,
		"status":  pub.Status,
	})
}

// History handles the user history request.
// GET /users/{username}/history
func (h *TaskHandler) History(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	history, err := h.service.GetHistory(r.Context(), username)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, history)
}
