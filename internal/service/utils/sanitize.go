package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// SanitizeText strips all HTML from user-supplied text. Content is stored and
// served as plain text; the SPA is responsible for presentation.
func SanitizeText(text string) string {
	return strings.TrimSpace(strict.Sanitize(text))
}
