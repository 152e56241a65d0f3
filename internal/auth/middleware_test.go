package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

const testHeader = "x-access-token"

// protectedEcho records whether the inner handler ran and what username it
// saw in the context.
func protectedEcho(ran *bool, username *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*ran = true
		*username, _ = UsernameFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth_MissingToken(t *testing.T) {
	svc := newTestTokenService(t)

	var ran bool
	var username string
	handler := RequireAuth(svc, testHeader)(protectedEcho(&ran, &username))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events/get_for_user", nil))

	if ran {
		t.Error("inner handler ran without a token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	var body unauthorizedBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding 401 body: %v", err)
	}
	if body.Status != "failed" {
		t.Errorf("Status = %q, want %q", body.Status, "failed")
	}
	if body.Message == "" {
		t.Error("expected a message in the 401 body")
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	svc := newTestTokenService(t)

	var ran bool
	var username string
	handler := RequireAuth(svc, testHeader)(protectedEcho(&ran, &username))

	req := httptest.NewRequest(http.MethodGet, "/groups/get_for_user", nil)
	req.Header.Set(testHeader, "garbage")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if ran {
		t.Error("inner handler ran with an invalid token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireAuth_ValidToken(t *testing.T) {
	svc := newTestTokenService(t)
	token, err := svc.Generate("alice")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	var ran bool
	var username string
	handler := RequireAuth(svc, testHeader)(protectedEcho(&ran, &username))

	req := httptest.NewRequest(http.MethodGet, "/users/get", nil)
	req.Header.Set(testHeader, token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !ran {
		t.Fatal("inner handler did not run with a valid token")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if username != "alice" {
		t.Errorf("context username = %q, want %q", username, "alice")
	}
	if got := rec.Header().Get(testHeader); got != token {
		t.Errorf("response header %s = %q, want the token echoed back", testHeader, got)
	}
}

func TestUsernameFromContext_Unauthenticated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := UsernameFromContext(req.Context()); ok {
		t.Error("UsernameFromContext() should report false for unauthenticated requests")
	}
}
