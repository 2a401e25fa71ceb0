package handler

import (
	"net/http"
	"strings"

	"github.com/chatterbox-dev/chatterbox/internal/api"
	"github.com/chatterbox-dev/chatterbox/internal/middleware"
	"github.com/chatterbox-dev/chatterbox/internal/utils"
)

// AddPost creates a post from the "json" form field and the optional "images"
// files.
func (h *Handler) AddPost(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentityFromContext(r)

	if err := parseForm(r); err != nil {
		respondError(w, err)
		return
	}

	var req api.AddPostRequest
	if err := utils.DecodeValidate(strings.NewReader(r.FormValue("json")), &req); err != nil {
		respondError(w, err)
		return
	}

	images, closeImages, err := formUploads(r, "images")
	if err != nil {
		respondError(w, err)
		return
	}
	defer closeImages()

	if _, err := h.post.Add(r.Context(), identity.UserId, req.Content, req.PostType, images); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, api.Response{Success: true, Message: "Post created successfully"})
}

// GetFeedPosts returns the newest posts from the caller's network.
func (h *Handler) GetFeedPosts(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentityFromContext(r)

	posts, err := h.post.Feed(identity.UserId)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, api.PostsResponse{Success: true, Posts: posts})
}

// LikePost toggles the caller's like on a post.
func (h *Handler) LikePost(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentityFromContext(r)

	var req api.LikePostRequest
	if err := loadAndValidateRequestBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	liked, err := h.post.ToggleLike(req.PostId, identity.UserId)
	if err != nil {
		respondError(w, err)
		return
	}

	message := "Post unliked"
	if liked {
		message = "Post liked"
	}
	respondJSON(w, http.StatusOK, api.Response{Success: true, Message: message})
}
