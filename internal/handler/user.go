package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/huddleapp/huddle/internal/auth"
	"github.com/huddleapp/huddle/internal/model"
	"github.com/huddleapp/huddle/internal/service"
)

// UserHandler serves the /users routes. All operations except get/all act
// on the authenticated caller — the username always comes from the token,
// never from the request body.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// HandleGet returns the acting user's record.
//
// GET /users/get
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.users.Get(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]*model.User{"user": user})
}

// HandleGetAll returns every registered user.
//
// GET /users/get/all
func (h *UserHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]model.User{"users": users})
}

type updateUserRequest struct {
	PersonData model.PersonData `json:"personData"`
}

// HandleUpdate replaces the acting user's profile data.
//
// PATCH /users/update {"personData": {...}}
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), username, req.PersonData)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

type updatePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// HandleUpdatePassword changes the acting user's password after verifying
// the old one.
//
// PATCH /users/updatePassword {"oldPassword": ..., "newPassword": ...}
func (h *UserHandler) HandleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req updatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	user, err := h.users.UpdatePassword(r.Context(), username, req.OldPassword, req.NewPassword)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleDelete removes the acting user's account.
//
// DELETE /users/delete
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.users.Delete(r.Context(), username); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Deleted user.")
}
