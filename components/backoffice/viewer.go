package backoffice

import "context"

// ViewerContext captures who a view is mounted for.
type ViewerContext struct {
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles,omitempty"`
	Locale string   `json:"locale,omitempty"`
}

type viewerContextKey struct{}

// ContextWithViewer stores the viewer on the provided context.
func ContextWithViewer(ctx context.Context, viewer ViewerContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, viewerContextKey{}, viewer)
}

// ViewerFromContext extracts the viewer from the context, if present.
func ViewerFromContext(ctx context.Context) ViewerContext {
	if ctx == nil {
		return ViewerContext{}
	}
	if viewer, ok := ctx.Value(viewerContextKey{}).(ViewerContext); ok {
		return viewer
	}
	return ViewerContext{}
}
