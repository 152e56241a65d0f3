package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// contextKey is unexported so only this package can read or write the
// username value in a request context.
type contextKey string

const usernameKey contextKey = "username"

// unauthorizedBody is the fixed shape of a 401 response from the
// middleware: {"status":"failed","message":...}.
type unauthorizedBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// RequireAuth enforces authentication on protected routes.
//
// The token is read from headerName (configurable via TOKEN_HEADER_NAME).
// On success the acting username is stored in the request context and the
// token is echoed back in the same response header. A missing or invalid
// token stops the chain with a 401.
func RequireAuth(tokens *TokenService, headerName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(headerName)
			if token == "" {
				writeUnauthorized(w, "Token is missing!")
				return
			}

			username, err := tokens.Validate(token)
			if err != nil {
				writeUnauthorized(w, err.Error())
				return
			}

			w.Header().Set(headerName, token)

			ctx := context.WithValue(r.Context(), usernameKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UsernameFromContext retrieves the authenticated username from the
// request context. Returns ("", false) for unauthenticated requests.
func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameKey).(string)
	return username, ok && username != ""
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	if err := json.NewEncoder(w).Encode(unauthorizedBody{Status: "failed", Message: message}); err != nil {
		slog.Error("failed to encode 401 response", slog.String("error", err.Error()))
	}
}
