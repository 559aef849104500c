package catalog

import (
	"regexp"
	"strings"
)

// Drive share links embed the file ID either in a /d/<id> path segment
// or an id=<id> query parameter.
var driveIDPattern = regexp.MustCompile(`(?:/d/|[?&]id=)([a-zA-Z0-9_-]+)`)

const bareDriveIDLength = 33

// ThumbnailURL turns an image reference into a directly embeddable
// Drive thumbnail URL. A bare 33-character identifier or a shareable
// Drive link is rewritten; any other input passes through unchanged.
func ThumbnailURL(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if len(ref) == bareDriveIDLength && !strings.Contains(ref, "http") {
		return "https://drive.google.com/thumbnail?id=" + ref + "&sz=w1000"
	}
	if !strings.Contains(ref, "drive.google.com") {
		return ref
	}
	if m := driveIDPattern.FindStringSubmatch(ref); m != nil {
		return "https://drive.google.com/thumbnail?id=" + m[1] + "&sz=w1000"
	}
	return ref
}

// FallbackURL returns the one alternative URL to try after a thumbnail
// render failure: the uc?export=view form of the same file. The second
// return is false when no fallback applies.
func FallbackURL(current string) (string, bool) {
	if !strings.Contains(current, "thumbnail") {
		return "", false
	}
	m := driveIDPattern.FindStringSubmatch(current)
	if m == nil {
		return "", false
	}
	return "https://drive.google.com/uc?export=view&id=" + m[1], true
}
