package handler

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/chatterbox-dev/chatterbox/internal/api"
	"github.com/chatterbox-dev/chatterbox/internal/middleware"
	"github.com/chatterbox-dev/chatterbox/internal/service"
	"github.com/chatterbox-dev/chatterbox/internal/utils"
)

// SendMessage persists and dispatches a direct message. Multipart bodies
// carry the "json" form field plus the optional "image" file; plain JSON
// bodies work for text-only messages.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentityFromContext(r)

	var req api.SendMessageRequest
	var attachment *service.Upload

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := parseForm(r); err != nil {
			respondError(w, err)
			return
		}
		if err := utils.DecodeValidate(strings.NewReader(r.FormValue("json")), &req); err != nil {
			respondError(w, err)
			return
		}
		file, closeFile, err := formUpload(r, "image")
		if err != nil {
			respondError(w, err)
			return
		}
		defer closeFile()
		attachment = file
	} else {
		if err := loadAndValidateRequestBody(r, &req); err != nil {
			respondError(w, err)
			return
		}
	}

	msg, err := h.message.Send(r.Context(), identity.UserId, req.ToUserId, req.Text, attachment)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, api.MessageResponse{Success: true, Message: &msg})
}

// GetChatMessages returns the full history with the peer and marks their
// messages to the caller as seen.
func (h *Handler) GetChatMessages(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentityFromContext(r)
	peerId := mux.Vars(r)["peerId"]

	messages, err := h.message.GetConversation(identity.UserId, peerId)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, api.MessagesResponse{Success: true, Messages: messages})
}

// GetRecentMessages returns the caller's latest messages across all chats.
func (h *Handler) GetRecentMessages(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentityFromContext(r)

	messages, err := h.message.GetRecent(identity.UserId)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, api.MessagesResponse{Success: true, Messages: messages})
}
