package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/chatterbox-dev/chatterbox/internal/api"
	"github.com/chatterbox-dev/chatterbox/internal/logger"
)

// Auth provider webhook event. Only user lifecycle events are handled;
// anything else is acknowledged and ignored.
type webhookEvent struct {
	Type string `json:"type"`
	Data struct {
		Id             string `json:"id"`
		FirstName      string `json:"first_name"`
		LastName       string `json:"last_name"`
		ImageURL       string `json:"image_url"`
		EmailAddresses []struct {
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
	} `json:"data"`
}

// AuthWebhook syncs user lifecycle events from the auth provider into the
// local users table. The body must be signed with the shared webhook secret.
func (h *Handler) AuthWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxMultipartMemory))
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if !h.verifyWebhookSignature(body, r.Header.Get("Webhook-Signature")) {
		logger.Log.Warn("webhook signature verification failed")
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "user.created", "user.updated":
		email := ""
		if len(event.Data.EmailAddresses) > 0 {
			email = event.Data.EmailAddresses[0].EmailAddress
		}
		fullName := strings.TrimSpace(event.Data.FirstName + " " + event.Data.LastName)
		if err := h.user.SyncUpsert(event.Data.Id, email, fullName, event.Data.ImageURL); err != nil {
			respondError(w, err)
			return
		}
	case "user.deleted":
		if err := h.user.SyncDelete(event.Data.Id); err != nil {
			respondError(w, err)
			return
		}
	default:
		logger.Log.Debug("ignoring webhook event", "type", event.Type)
	}

	respondJSON(w, http.StatusOK, api.Response{Success: true})
}

// verifyWebhookSignature checks the hex HMAC-SHA256 of the raw body.
func (h *Handler) verifyWebhookSignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.cfg.Private.WebhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
