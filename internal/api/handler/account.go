// internal/api/handler/account.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"taskmarket/internal/service"
	"taskmarket/internal/util"
)

// AccountHandler handles HTTP requests for accounts, balances, the burn
// operation, notifications and the per-user transaction feed.
type AccountHandler struct {
	service service.AccountService
	logger  *slog.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(svc service.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		service: svc,
		logger:  logger,
	}
}

// CredentialsRequest represents the request body for register and login.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles user registration.
// POST /register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	user, err := h.service.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusCreated, map[string]interface{}{
		"message":  "Registration successful",
		"username": user.Username,
	})
}

// Login handles user authentication.
// POST /login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	user, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"message":      "Login successful",
		"username":     user.Username,
		"blue_balance": user.BlueBalance,
		"red_balance":  user.RedBalance,
	})
}

// GetBalance handles the balance lookup request.
// GET /users/{username}/balance
func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.service.GetBalance(r.Context(), username)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"blue_balance": user.BlueBalance,
		"red_balance":  user.RedBalance,
	})
}

// BurnRequest represents the request body for the burn operation.
type BurnRequest struct {
	Username string `json:"username"`
	Amount   int64  `json:"amount"`
}

// Burn handles the token burn request.
// POST /users/burn
func (h *AccountHandler) Burn(w http.ResponseWriter, r *http.Request) {
	var req BurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	user, transaction, err := h.service.Burn(r.Context(), req.Username, req.Amount)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"message":        "Burn successful",
		"blue_balance":   user.BlueBalance,
		"red_balance":    user.RedBalance,
		"transaction_id": transaction.ID,
	})
}

// ListTransactions handles the transaction history request.
// GET /users/{username}/transactions
func (h *AccountHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	transactions, err := h.service.ListTransactions(r.Context(), username)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, transactions)
}

// ListNotifications handles the notification feed request.
// GET /notifications/{username}
func (h *AccountHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	notifications, err := h.service.ListNotifications(r.Context(), username)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, notifications)
}

// MarkReadRequest represents the request body for marking notifications read.
type MarkReadRequest struct {
	Username string `json:"username"`
}

// MarkNotificationsRead handles the bulk mark-read request.
// POST /notifications/mark-read
func (h *AccountHandler) MarkNotificationsRead(w http.ResponseWriter, r *http.Request) {
	var req MarkReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	count, err := h.service.MarkNotificationsRead(r.Context(), req.Username)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"updated": count,
	})
}
