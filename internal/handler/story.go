package handler

import (
	"net/http"
	"strings"

	"github.com/chatterbox-dev/chatterbox/internal/api"
	"github.com/chatterbox-dev/chatterbox/internal/middleware"
	"github.com/chatterbox-dev/chatterbox/internal/utils"
)

// CreateStory creates a story from the "json" form field and the optional
// "media" file.
func (h *Handler) CreateStory(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentityFromContext(r)

	if err := parseForm(r); err != nil {
		respondError(w, err)
		return
	}

	var req api.CreateStoryRequest
	if err := utils.DecodeValidate(strings.NewReader(r.FormValue("json")), &req); err != nil {
		respondError(w, err)
		return
	}

	mediaFile, closeMedia, err := formUpload(r, "media")
	if err != nil {
		respondError(w, err)
		return
	}
	defer closeMedia()

	if _, err := h.story.Create(r.Context(), identity.UserId, req.Content, req.MediaType, req.BackgroundColor, mediaFile); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, api.Response{Success: true, Message: "Story created successfully"})
}

// GetStories returns the still-live stories of the caller's network.
func (h *Handler) GetStories(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentityFromContext(r)

	stories, err := h.story.GetFeed(identity.UserId)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, api.StoriesResponse{Success: true, Stories: stories})
}
