package handler

import (
	"net/http"
	"strings"

	"github.com/chatterbox-dev/chatterbox/internal/api"
	"github.com/chatterbox-dev/chatterbox/internal/domain"
	"github.com/chatterbox-dev/chatterbox/internal/middleware"
	"github.com/chatterbox-dev/chatterbox/internal/utils"
)

// GetUserData returns the caller's own profile.
func (h *Handler) GetUserData(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentityFromContext(r)

	user, err := h.user.Get(identity.UserId)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, api.UserResponse{Success: true, User: &user})
}

// UpdateProfile applies profile field changes carried in the "json" form
// field, plus the optional "profile" and "cover" image files.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentityFromContext(r)

	if err := parseForm(r); err != nil {
		respondError(w, err)
		return
	}

	var req api.UpdateProfileRequest
	if err := utils.DecodeValidate(strings.NewReader(r.FormValue("json")), &req); err != nil {
		respondError(w, err)
		return
	}

	profile, closeProfile, err := formUpload(r, "profile")
	if err != nil {
		respondError(w, err)
		return
	}
	defer closeProfile()

	cover, closeCover, err := formUpload(r, "cover")
	if err != nil {
		respondError(w, err)
		return
	}
	defer closeCover()

	upd := domain.ProfileUpdate{
		Username: req.Username,
		Bio:      req.Bio,
		Location: req.Location,
		FullName: req.FullName,
	}
	user, err := h.user.UpdateProfile(r.Context(), identity.UserId, upd, profile, cover)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, api.UserResponse{Success: true, User: &user})
}

// DiscoverUsers searches profiles by username, email, name or location.
func (h *Handler) DiscoverUsers(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentityFromContext(r)

	var req api.DiscoverRequest
	if err := loadAndValidateRequestBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	users, err := h.user.Discover(identity.UserId, req.Input)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, api.UsersResponse{Success: true, Users: users})
}

func (h *Handler) FollowUser(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentityFromContext(r)

	var req api.TargetUserRequest
	if err := loadAndValidateRequestBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.user.Follow(identity.UserId, req.Id); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, api.Response{Success: true, Message: "Now following user"})
}

func (h *Handler) UnfollowUser(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentityFromContext(r)

	var req api.TargetUserRequest
	if err := loadAndValidateRequestBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.user.Unfollow(identity.UserId, req.Id); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, api.Response{Success: true, Message: "No longer following this user"})
}
