package httpapi

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-backoffice/components/backoffice"
)

// Headers read by ViewerFromRequest. Authentication happens upstream; these
// are set by the gateway in front of the backoffice.
const (
	HeaderUserID = "X-User-ID"
	HeaderRoles  = "X-User-Roles"
)

// ViewerFunc resolves the viewer of a request.
type ViewerFunc func(*http.Request) backoffice.ViewerContext

// ViewerFromRequest reads the viewer from gateway headers and the locale from
// the query string or Accept-Language.
func ViewerFromRequest(r *http.Request) backoffice.ViewerContext {
	viewer := backoffice.ViewerContext{UserID: strings.TrimSpace(r.Header.Get(HeaderUserID))}
	for _, role := range strings.Split(r.Header.Get(HeaderRoles), ",") {
		if role = strings.TrimSpace(role); role != "" {
			viewer.Roles = append(viewer.Roles, role)
		}
	}
	if locale := strings.TrimSpace(r.URL.Query().Get("locale")); locale != "" {
		viewer.Locale = strings.ToLower(locale)
	} else {
		viewer.Locale = ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	}
	return viewer
}

// ParseAcceptLanguage returns the first language tag of the header, lower cased.
func ParseAcceptLanguage(header string) string {
	for _, token := range strings.Split(header, ",") {
		if idx := strings.Index(token, ";"); idx >= 0 {
			token = token[:idx]
		}
		if token = strings.TrimSpace(token); token != "" && token != "*" {
			return strings.ToLower(token)
		}
	}
	return ""
}
