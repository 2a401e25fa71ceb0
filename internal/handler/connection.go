package handler

import (
	"net/http"

	"github.com/chatterbox-dev/chatterbox/internal/api"
	"github.com/chatterbox-dev/chatterbox/internal/middleware"
)

func (h *Handler) SendConnectionRequest(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentityFromContext(r)

	var req api.TargetUserRequest
	if err := loadAndValidateRequestBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.connection.SendRequest(identity.UserId, req.Id); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, api.Response{Success: true, Message: "Connection request sent successfully"})
}

func (h *Handler) AcceptConnectionRequest(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentityFromContext(r)

	var req api.TargetUserRequest
	if err := loadAndValidateRequestBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.connection.Accept(identity.UserId, req.Id); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, api.Response{Success: true, Message: "Connection accepted successfully"})
}

// GetUserConnections returns the caller's connections, followers, following
// and pending incoming requests in one payload.
func (h *Handler) GetUserConnections(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentityFromContext(r)

	resp, err := h.connection.GetConnections(identity.UserId)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// GetUserProfiles returns another user's public profile and their posts.
func (h *Handler) GetUserProfiles(w http.ResponseWriter, r *http.Request) {
	var req api.ProfileRequest
	if err := loadAndValidateRequestBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	profile, posts, err := h.connection.GetProfile(req.ProfileId)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, api.ProfileResponse{Success: true, Profile: &profile, Posts: posts})
}
