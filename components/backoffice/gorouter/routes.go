package gorouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	gocommand "github.com/goliatone/go-command"
	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-backoffice/components/backoffice"
	"github.com/goliatone/go-backoffice/components/backoffice/commands"
	"github.com/goliatone/go-backoffice/components/backoffice/httpapi"
	"github.com/goliatone/go-backoffice/components/backoffice/queries"
)

// ViewerResolver converts a router.Context into a backoffice.ViewerContext.
type ViewerResolver func(router.Context) backoffice.ViewerContext

// Config wires go-router with the backoffice controller, commands and hooks.
type Config[T any] struct {
	Router         router.Router[T]
	Controller     httpapi.Pages
	Actions        gocommand.Commander[commands.ActionInput]
	Unmount        gocommand.Commander[commands.UnmountViewInput]
	State          gocommand.Querier[queries.ViewStateInput, backoffice.ViewState]
	Broadcast      *backoffice.BroadcastHook
	ViewerResolver ViewerResolver
	BasePath       string
	Routes         RouteConfig
	MaxUploadBytes int64
}

// RouteConfig customizes the relative paths used for backoffice endpoints.
type RouteConfig struct {
	HTML      string
	State     string
	Actions   string
	Unmount   string
	Import    string
	WebSocket string
}

// Register mounts backoffice routes (HTML, JSON, actions, CSV import,
// WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/admin"
	}
	resolver := cfg.ViewerResolver
	if resolver == nil {
		resolver = defaultViewerResolver
	}

	group := cfg.Router.Group(base)

	group.Get(routes.HTML, router.WrapHandler(func(ctx router.Context) error {
		reqCtx := backoffice.ContextWithViewer(ctx.Context(), resolver(ctx))
		view, err := cfg.Controller.Mount(reqCtx)
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		var buf bytes.Buffer
		if err := cfg.Controller.RenderTemplate(reqCtx, view, &buf); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))

	if cfg.State != nil {
		group.Get(routes.State, router.WrapHandler(func(ctx router.Context) error {
			state, err := cfg.State.Query(ctx.Context(), queries.ViewStateInput{ViewID: ctx.Param("id")})
			if err != nil {
				return respondError(ctx, httpapi.StatusFor(err), err)
			}
			return ctx.JSON(http.StatusOK, state)
		}))
	}

	if cfg.Actions != nil {
		group.Post(routes.Actions, router.WrapHandler(func(ctx router.Context) error {
			var payload commands.ActionInput
			if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
				return respondError(ctx, http.StatusBadRequest, err)
			}
			payload.ViewID = ctx.Param("id")
			if err := cfg.Actions.Execute(ctx.Context(), payload); err != nil {
				return respondError(ctx, httpapi.StatusFor(err), err)
			}
			return ctx.JSON(http.StatusAccepted, map[string]string{"status": "applied"})
		}))
	}

	if cfg.Actions != nil {
		group.Post(routes.Import, router.WrapHandler(func(ctx router.Context) error {
			status, payload := importUpload(ctx.Context(), cfg.Actions, ctx.Param("id"), ctx.Header("Content-Type"), ctx.Body(), cfg.MaxUploadBytes)
			return ctx.JSON(status, payload)
		}))
	}

	if cfg.Unmount != nil {
		group.Delete(routes.Unmount, router.WrapHandler(func(ctx router.Context) error {
			id := ctx.Param("id")
			if id == "" {
				return respondError(ctx, http.StatusBadRequest, errors.New("view id is required"))
			}
			if err := cfg.Unmount.Execute(ctx.Context(), commands.UnmountViewInput{ViewID: id}); err != nil {
				return respondError(ctx, httpapi.StatusFor(err), err)
			}
			return ctx.JSON(http.StatusOK, map[string]string{"status": "unmounted"})
		}))
	}

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}
	return nil
}

// registerWebSocket streams the events of the view named by the :id route
// param (or the view_id query value).
func registerWebSocket[T any](r router.Router[T], hook *backoffice.BroadcastHook, path string) {
	r.WebSocket(path, router.DefaultWebSocketConfig(), func(ws router.WebSocketContext) error {
		viewID := ws.Param("id")
		if viewID == "" {
			viewID = ws.Query("view_id")
		}
		if viewID == "" {
			_ = ws.WriteJSON(map[string]string{"error": "view id is required"})
			return ws.Close()
		}
		if err := streamView(ws.Context(), hook, viewID, ws.WriteJSON); err != nil {
			return err
		}
		return ws.Close()
	})
}

// streamView writes one view's events until the view unmounts, the hook
// closes the subscription or ctx ends.
func streamView(ctx context.Context, hook *backoffice.BroadcastHook, viewID string, write func(any) error) error {
	events, cancel := hook.Subscribe(viewID)
	defer cancel()
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := write(event); err != nil {
				return err
			}
			if event.Type == backoffice.EventViewUnmounted {
				return nil
			}
		case <-ctx.Done():
			return nil
		}
	}
}

func importUpload(ctx context.Context, actions gocommand.Commander[commands.ActionInput], viewID, contentType string, body []byte, limit int64) (int, any) {
	if limit <= 0 {
		limit = httpapi.DefaultMaxUploadBytes
	}
	if int64(len(body)) > limit {
		return http.StatusRequestEntityTooLarge, map[string]string{"error": "upload is too large"}
	}
	upload, err := httpapi.ReadUpload(contentType, bytes.NewReader(body), limit)
	if err != nil {
		return http.StatusBadRequest, map[string]string{"error": err.Error()}
	}
	result, err := httpapi.Import(ctx, actions, viewID, upload)
	if err != nil {
		return httpapi.StatusFor(err), map[string]string{"error": err.Error()}
	}
	if !result.Accepted {
		return http.StatusUnsupportedMediaType, map[string]string{"error": backoffice.MessageInvalidCSV, "detected": result.Detected}
	}
	return http.StatusAccepted, map[string]any{"status": "queued", "name": result.File.Name, "size": result.File.Size}
}

func defaultViewerResolver(ctx router.Context) backoffice.ViewerContext {
	var viewer backoffice.ViewerContext
	if v, ok := ctx.Locals("user_id").(string); ok {
		viewer.UserID = v
	} else {
		viewer.UserID = strings.TrimSpace(ctx.Header(httpapi.HeaderUserID))
	}
	if roles, ok := ctx.Locals("roles").([]string); ok {
		viewer.Roles = roles
	}
	viewer.Locale = inferLocale(ctx)
	return viewer
}

func inferLocale(ctx router.Context) string {
	if locale, ok := ctx.Locals("locale").(string); ok && locale != "" {
		return locale
	}
	if locale := strings.TrimSpace(ctx.Query("locale")); locale != "" {
		return strings.ToLower(locale)
	}
	return httpapi.ParseAcceptLanguage(ctx.Header("Accept-Language"))
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.HTML == "" {
		routes.HTML = "/backoffice"
	}
	if routes.State == "" {
		routes.State = "/backoffice/views/:id"
	}
	if routes.Actions == "" {
		routes.Actions = "/backoffice/views/:id/actions"
	}
	if routes.Unmount == "" {
		routes.Unmount = "/backoffice/views/:id"
	}
	if routes.Import == "" {
		routes.Import = "/backoffice/views/:id/import"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/backoffice/views/:id/events"
	}
	return routes
}
