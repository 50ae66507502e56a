package backoffice

import "strings"

// Relative action paths joined onto the site URL.
const (
	ProductUpdatePath = "update"
	ProductDeletePath = "soft-delete"
	UserDeletePath    = "user-delete"
)

// JoinURL joins a base URL and a relative path with exactly one separator.
// An empty base yields the path itself, or "#" when the path is empty too.
func JoinURL(base, path string) string {
	if base == "" {
		if path == "" {
			return "#"
		}
		return path
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	if path == "" {
		return base
	}
	return base + strings.TrimPrefix(path, "/")
}

// RecordURL builds an action link for a record id.
func RecordURL(siteURL, action, id string) string {
	return JoinURL(siteURL, strings.TrimSuffix(action, "/")+"/"+id)
}
