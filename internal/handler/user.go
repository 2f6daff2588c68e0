package handler

import (
	"context"
	"net/http"

	"github.com/packworks/packworks/internal/domain"
	"github.com/packworks/packworks/internal/logger"
)

// UserStore is the persistence surface the user endpoints need
type UserStore interface {
	UpsertUser(ctx context.Context, user *domain.User) error
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// UserHandler serves account registration and lookup
type UserHandler struct {
	users UserStore
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users UserStore) *UserHandler {
	return &UserHandler{users: users}
}

type RegisterUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
}

// HandleRegisterUser creates an account, or returns the existing one when
// the username is already registered.
func (h *UserHandler) HandleRegisterUser(w http.ResponseWriter, r *http.Request) {
	var req RegisterUserRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Register user"); err != nil {
		return
	}

	log := logger.FromContext(r.Context())

	if existing, err := h.users.GetUserByUsername(r.Context(), req.Username); err == nil {
		respondJSON(w, http.StatusOK, existing)
		return
	}

	user := &domain.User{Username: req.Username}
	if err := h.users.UpsertUser(r.Context(), user); err != nil {
		log.Error("Failed to register user", "username", req.Username, "error", err)
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}

	log.Info("User registered", "user_id", user.ID, "username", user.Username)
	respondJSON(w, http.StatusCreated, user)
}

// HandleGetUser looks up a user by username
func (h *UserHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	username, ok := GetQueryParam(r, w, "username")
	if !ok {
		return
	}

	user, err := h.users.GetUserByUsername(r.Context(), username)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to get user", "username", username, "error", err)
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}

	respondJSON(w, http.StatusOK, user)
}
