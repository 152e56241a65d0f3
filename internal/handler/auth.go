package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/huddleapp/huddle/internal/model"
	"github.com/huddleapp/huddle/internal/service"
)

// AuthHandler serves /auth/register and /auth/login. Neither route
// requires a token; both issue one in the configured header on success.
type AuthHandler struct {
	auth       *service.AuthService
	headerName string
	logger     *slog.Logger
}

// NewAuthHandler creates an AuthHandler. headerName is the header the
// issued token is returned in.
func NewAuthHandler(auth *service.AuthService, headerName string, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, headerName: headerName, logger: logger}
}

// credentials mirrors the request payload's accountData object. Unlike
// model.AccountData it decodes the plaintext password.
type credentials struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	AccountData credentials      `json:"accountData"`
	PersonData  model.PersonData `json:"personData"`
}

// HandleRegister creates an account.
//
// POST /auth/register {"accountData": {...}, "personData": {...}}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	account := model.AccountData{
		Email:    req.AccountData.Email,
		Username: req.AccountData.Username,
		Password: req.AccountData.Password,
	}

	result, err := h.auth.Register(r.Context(), account, req.PersonData)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set(h.headerName, result.Token)
	writeJSON(w, http.StatusCreated, result.User)
}

type loginRequest struct {
	AccountData credentials `json:"accountData"`
}

// HandleLogin verifies credentials and issues a token.
//
// POST /auth/login {"accountData": {"username": ..., "password": ...}}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	result, err := h.auth.Login(r.Context(), req.AccountData.Username, req.AccountData.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set(h.headerName, result.Token)
	writeJSON(w, http.StatusOK, result.User)
}
