package utils

import "strings"

// SanitizeFilename removes characters that can break headers or
// object keys. Path separators collapse to underscores so a filename
// can never escape its `{owner}/{fileId}/` prefix.
func SanitizeFilename(name string) string {
	clean := strings.TrimSpace(name)
	if clean == "" {
		return "download"
	}
	clean = strings.ReplaceAll(clean, "\r", "")
	clean = strings.ReplaceAll(clean, "\n", "")
	clean = strings.ReplaceAll(clean, "\"", "")
	clean = strings.ReplaceAll(clean, "/", "_")
	clean = strings.ReplaceAll(clean, "\\", "_")
	return clean
}
