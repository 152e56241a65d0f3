package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/huddleapp/huddle/internal/auth"
	"github.com/huddleapp/huddle/internal/model"
	"github.com/huddleapp/huddle/internal/service"
)

// GroupHandler serves the /groups routes.
type GroupHandler struct {
	groups *service.GroupService
	logger *slog.Logger
}

// NewGroupHandler creates a GroupHandler.
func NewGroupHandler(groups *service.GroupService, logger *slog.Logger) *GroupHandler {
	return &GroupHandler{groups: groups, logger: logger}
}

type createGroupRequest struct {
	Name        string         `json:"name"`
	Members     []model.Member `json:"members"`
	Description string         `json:"description"`
	IconURL     string         `json:"iconURL"`
}

// HandleCreate creates a group. The authenticated caller becomes its
// owner.
//
// POST /groups/create
func (h *GroupHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	group, err := h.groups.Create(r.Context(), model.Group{
		Name:        req.Name,
		Members:     req.Members,
		Owner:       username,
		Description: req.Description,
		IconURL:     req.IconURL,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, group)
}

// HandleGet returns one group by ID.
//
// GET /groups/get/{groupID}
func (h *GroupHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	group, err := h.groups.Get(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, group)
}

// HandleGetForUser returns the acting user's groups.
//
// GET /groups/get_for_user
func (h *GroupHandler) HandleGetForUser(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	groups, err := h.groups.ListForMember(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]model.Group{"groups": groups})
}

// HandleGetAll returns every group.
//
// GET /groups/get_all
func (h *GroupHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groups.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]model.Group{"groups": groups})
}

type updateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IconURL     string `json:"iconURL"`
}

// HandleUpdate patches a group; a name change fans out to the group's
// events.
//
// PATCH /groups/update/{groupID}
func (h *GroupHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	group, err := h.groups.Update(r.Context(), chi.URLParam(r, "groupID"), service.UpdateGroupParams{
		Name:        req.Name,
		Description: req.Description,
		IconURL:     req.IconURL,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]*model.Group{"group": group})
}

type memberJoinedRequest struct {
	Username   string     `json:"username"`
	Rank       model.Rank `json:"rank"`
	ProfilePic string     `json:"profilePic"`
}

// HandleMemberJoined adds a member and invites them to the group's events.
//
// PATCH /groups/memberJoined/{groupID}
func (h *GroupHandler) HandleMemberJoined(w http.ResponseWriter, r *http.Request) {
	var req memberJoinedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	group, err := h.groups.Join(r.Context(), chi.URLParam(r, "groupID"), req.Username, req.Rank, req.ProfilePic)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]*model.Group{"group": group})
}

type memberLeftRequest struct {
	Username string `json:"username"`
}

// HandleMemberLeft removes a member and their invitations.
//
// PATCH /groups/memberLeft/{groupID}
func (h *GroupHandler) HandleMemberLeft(w http.ResponseWriter, r *http.Request) {
	var req memberLeftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	group, err := h.groups.Leave(r.Context(), chi.URLParam(r, "groupID"), req.Username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]*model.Group{"group": group})
}

// HandleDelete removes a group and all of its events.
//
// DELETE /groups/delete/{groupID}
func (h *GroupHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.groups.Delete(r.Context(), chi.URLParam(r, "groupID")); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusCreated, "Deleted group!")
}
