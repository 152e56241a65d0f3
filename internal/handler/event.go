package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/huddleapp/huddle/internal/auth"
	"github.com/huddleapp/huddle/internal/model"
	"github.com/huddleapp/huddle/internal/service"
)

// EventHandler serves the /events routes.
type EventHandler struct {
	events *service.EventService
	logger *slog.Logger
}

// NewEventHandler creates an EventHandler.
func NewEventHandler(events *service.EventService, logger *slog.Logger) *EventHandler {
	return &EventHandler{events: events, logger: logger}
}

type createEventRequest struct {
	Title    string              `json:"title"`
	Group    string              `json:"group"`
	Users    []model.InvitedUser `json:"users"`
	Date     time.Time           `json:"date"`
	Repeat   model.Repeat        `json:"repeat"`
	Location string              `json:"location"`
}

// HandleCreate creates an event inside a group. The authenticated caller
// becomes its owner. Dates are RFC 3339 instants.
//
// POST /events/create
func (h *EventHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	event, err := h.events.Create(r.Context(), model.Event{
		Title:    req.Title,
		Group:    req.Group,
		Users:    req.Users,
		Owner:    username,
		Date:     req.Date,
		Repeat:   req.Repeat,
		Location: req.Location,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

// HandleGet returns one event by ID.
//
// GET /events/get/{eventID}
func (h *EventHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	event, err := h.events.Get(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, event)
}

// HandleGetForUser returns the acting user's events.
//
// GET /events/get_for_user
func (h *EventHandler) HandleGetForUser(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	events, err := h.events.ListForUser(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]model.Event{"events": events})
}

// HandleGetForGroup returns every event tied to the named group.
//
// GET /events/get_for_group/{groupName}
func (h *EventHandler) HandleGetForGroup(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.ListForGroup(r.Context(), chi.URLParam(r, "groupName"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]model.Event{"events": events})
}

// HandleGetAll returns every event.
//
// GET /events/get_all
func (h *EventHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]model.Event{"events": events})
}

type updateEventRequest struct {
	Title    string       `json:"title"`
	Date     time.Time    `json:"date"`
	Repeat   model.Repeat `json:"repeat"`
	Location string       `json:"location"`
}

// HandleUpdate patches an event.
//
// PATCH /events/update/{eventID}
func (h *EventHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	event, err := h.events.Update(r.Context(), chi.URLParam(r, "eventID"), service.UpdateEventParams{
		Title:    req.Title,
		Date:     req.Date,
		Repeat:   req.Repeat,
		Location: req.Location,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]*model.Event{"event": event})
}

// HandleDelete detaches the event from its group and removes it.
//
// DELETE /events/delete/{eventID}
func (h *EventHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.events.Delete(r.Context(), chi.URLParam(r, "eventID")); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusCreated, "Deleted event!")
}
