package handler

import "net/http"

// HandlePing is the liveness check.
//
// GET /ping → {"message":"pong"}
func HandlePing(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, "pong")
}
