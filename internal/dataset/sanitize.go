package dataset

import (
	"regexp"
	"strings"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// SanitizeFilename maps an arbitrary identifier to a safe file base name:
// every character outside [A-Za-z0-9._-] becomes an underscore.
func SanitizeFilename(name string) string {
	return strings.TrimSpace(unsafeFilenameChars.ReplaceAllString(name, "_"))
}
