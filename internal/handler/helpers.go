package handler

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/chatterbox-dev/chatterbox/internal/errors"
	"github.com/chatterbox-dev/chatterbox/internal/logger"
	"github.com/chatterbox-dev/chatterbox/internal/service"
	"github.com/chatterbox-dev/chatterbox/internal/utils"
)

const maxMultipartMemory = 32 << 20

// respondJSON writes v with the given status. Every payload type carries its
// own success flag; clients key off it rather than the transport code.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// respondError maps the error to its status code (500 by default) and emits
// the {success:false} envelope.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if e, ok := err.(*errors.ErrorWithStatusCode); ok {
		status = e.StatusCode
	}
	respondJSON(w, status, errorResponse{Success: false, Error: err.Error()})
}

func loadAndValidateRequestBody(r *http.Request, body any) error {
	defer r.Body.Close()
	return utils.DecodeValidate(r.Body, body)
}

// formUpload wraps an optional multipart file as a service upload. Returns
// nil when the field is absent.
func formUpload(r *http.Request, field string) (*service.Upload, func(), error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, func() {}, nil
		}
		return nil, func() {}, &errors.ErrorWithStatusCode{Message: "Invalid file upload", StatusCode: 400}
	}
	return &service.Upload{Data: file, Filename: header.Filename}, func() { file.Close() }, nil
}

// formUploads collects every file under the field name.
func formUploads(r *http.Request, field string) ([]service.Upload, func(), error) {
	if r.MultipartForm == nil {
		return nil, func() {}, nil
	}
	headers := r.MultipartForm.File[field]
	uploads := make([]service.Upload, 0, len(headers))
	open := make([]multipart.File, 0, len(headers))
	cleanup := func() {
		for _, f := range open {
			f.Close()
		}
	}
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			cleanup()
			return nil, func() {}, &errors.ErrorWithStatusCode{Message: "Invalid file upload", StatusCode: 400}
		}
		open = append(open, f)
		uploads = append(uploads, service.Upload{Data: f, Filename: h.Filename})
	}
	return uploads, cleanup, nil
}

// parseForm handles both multipart and urlencoded bodies.
func parseForm(r *http.Request) error {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return &errors.ErrorWithStatusCode{Message: "Invalid multipart form", StatusCode: 400}
		}
		return nil
	}
	if err := r.ParseForm(); err != nil {
		return &errors.ErrorWithStatusCode{Message: "Invalid form", StatusCode: 400}
	}
	return nil
}
