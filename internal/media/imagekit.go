// Package media uploads user files to the image CDN collaborator and builds
// transformation URLs. Storage and transcoding themselves are external.
package media

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/chatterbox-dev/chatterbox/internal/config"
	"github.com/chatterbox-dev/chatterbox/internal/errors"
	"github.com/chatterbox-dev/chatterbox/internal/utils"
)

// Uploader resolves an uploaded file into a stable, transformed URL.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, fileName, folder string, width int) (string, error)
}

// ImageKit talks to the ImageKit upload REST API. Uploaded files are
// addressed through the URL endpoint with inline transformation parameters
// (auto quality, webp, width cap) so the CDN does the resizing.
type ImageKit struct {
	cfg    *config.ImageKit
	client *http.Client
}

func NewImageKit(cfg *config.ImageKit) *ImageKit {
	return &ImageKit{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type uploadResponse struct {
	FilePath string `json:"filePath"`
	URL      string `json:"url"`
}

func (ik *ImageKit) Upload(ctx context.Context, file io.Reader, fileName, folder string, width int) (string, error) {
	var body strings.Builder
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("failed to read upload data: %w", err)
	}
	if err := mw.WriteField("fileName", fileName); err != nil {
		return "", err
	}
	if folder != "" {
		if err := mw.WriteField("folder", folder); err != nil {
			return "", err
		}
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ik.cfg.UploadURL, strings.NewReader(body.String()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.SetBasicAuth(ik.cfg.PrivateKey, "")

	resp, err := ik.client.Do(req)
	if err != nil {
		return "", &errors.ErrorWithStatusCode{Message: "Media upload failed", StatusCode: http.StatusBadGateway}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &errors.ErrorWithStatusCode{
			Message:    fmt.Sprintf("Media upload failed with status %d", resp.StatusCode),
			StatusCode: http.StatusBadGateway,
		}
	}

	var parsed uploadResponse
	if err := utils.Decode(resp.Body, &parsed); err != nil {
		return "", err
	}
	if parsed.FilePath == "" {
		return "", &errors.ErrorWithStatusCode{Message: "Media upload returned no file path", StatusCode: http.StatusBadGateway}
	}

	return ik.transformedURL(parsed.FilePath, width), nil
}

// transformedURL composes the CDN URL with path transformations, matching the
// q-auto/f-webp/w-N parameters the web client expects.
func (ik *ImageKit) transformedURL(filePath string, width int) string {
	endpoint := strings.TrimSuffix(ik.cfg.URLEndpoint, "/")
	if width <= 0 {
		return endpoint + filePath
	}
	return fmt.Sprintf("%s/tr:q-auto,f-webp,w-%d%s", endpoint, width, filePath)
}
