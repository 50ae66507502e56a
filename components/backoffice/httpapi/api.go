package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-backoffice/components/backoffice"
	"github.com/goliatone/go-backoffice/components/backoffice/commands"
	"github.com/goliatone/go-backoffice/components/backoffice/queries"
)

// ImportField is the multipart field carrying the CSV upload.
const ImportField = "csv_file"

// DefaultMaxUploadBytes bounds the size of an import upload.
const DefaultMaxUploadBytes int64 = 10 << 20

// Pages mounts views and renders them as HTML.
type Pages interface {
	Mount(ctx context.Context) (*backoffice.View, error)
	RenderTemplate(ctx context.Context, view *backoffice.View, out io.Writer) error
}

// EventStreamer pushes UI events of one view to a connected client.
type EventStreamer interface {
	ServeSSE(w http.ResponseWriter, r *http.Request, viewID string)
	ServeWebSocket(w http.ResponseWriter, r *http.Request, viewID string)
}

// Handlers exposes HTTP endpoints backed by shared commands and queries.
type Handlers struct {
	Pages          Pages
	Actions        gocommand.Commander[commands.ActionInput]
	Unmount        gocommand.Commander[commands.UnmountViewInput]
	State          gocommand.Querier[queries.ViewStateInput, backoffice.ViewState]
	Events         EventStreamer
	Viewer         ViewerFunc
	Logger         logrus.FieldLogger
	MaxUploadBytes int64
}

// HandleMount mounts a view for the requesting viewer and renders the shell.
func (h *Handlers) HandleMount(w http.ResponseWriter, r *http.Request) {
	if h.Pages == nil {
		writeError(w, http.StatusNotImplemented, errors.New("pages are not configured"))
		return
	}
	ctx := backoffice.ContextWithViewer(r.Context(), h.viewer(r))
	view, err := h.Pages.Mount(ctx)
	if err != nil {
		h.fail(w, http.StatusInternalServerError, err)
		return
	}
	var buf bytes.Buffer
	if err := h.Pages.RenderTemplate(ctx, view, &buf); err != nil {
		h.fail(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// HandleState returns the JSON state of a view.
func (h *Handlers) HandleState(w http.ResponseWriter, r *http.Request, viewID string) {
	state, err := h.State.Query(r.Context(), queries.ViewStateInput{ViewID: viewID})
	if err != nil {
		h.fail(w, StatusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// HandleAction applies one named action to a view.
func (h *Handlers) HandleAction(w http.ResponseWriter, r *http.Request, viewID string) {
	var payload commands.ActionInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	payload.ViewID = viewID
	if err := h.Actions.Execute(r.Context(), payload); err != nil {
		h.fail(w, StatusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// HandleImport accepts a multipart CSV upload, hands it to the view's intake
// widget and uploads it. Rejected files answer 415 after the widget has
// raised its toast.
func (h *Handlers) HandleImport(w http.ResponseWriter, r *http.Request, viewID string) {
	limit := h.MaxUploadBytes
	if limit <= 0 {
		limit = DefaultMaxUploadBytes
	}
	upload, err := ReadUpload(r.Header.Get("Content-Type"), http.MaxBytesReader(w, r.Body, limit), limit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	result, err := Import(r.Context(), h.Actions, viewID, upload)
	if err != nil {
		h.fail(w, StatusFor(err), err)
		return
	}
	if !result.Accepted {
		writeJSON(w, http.StatusUnsupportedMediaType, map[string]string{"error": backoffice.MessageInvalidCSV, "detected": result.Detected})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"status": "queued", "name": result.File.Name, "size": result.File.Size})
}

// HandleUnmount tears a view down.
func (h *Handlers) HandleUnmount(w http.ResponseWriter, r *http.Request, viewID string) {
	if err := h.Unmount.Execute(r.Context(), commands.UnmountViewInput{ViewID: viewID}); err != nil {
		h.fail(w, StatusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleEvents streams UI events, upgrading to WebSocket when requested.
func (h *Handlers) HandleEvents(w http.ResponseWriter, r *http.Request, viewID string) {
	if h.Events == nil {
		writeError(w, http.StatusNotImplemented, errors.New("event stream is not configured"))
		return
	}
	if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
		h.Events.ServeWebSocket(w, r, viewID)
		return
	}
	h.Events.ServeSSE(w, r, viewID)
}

func (h *Handlers) viewer(r *http.Request) backoffice.ViewerContext {
	if h.Viewer != nil {
		return h.Viewer(r)
	}
	return ViewerFromRequest(r)
}

func (h *Handlers) fail(w http.ResponseWriter, status int, err error) {
	if h.Logger != nil && status >= http.StatusInternalServerError {
		h.Logger.WithError(err).Error("backoffice request failed")
	}
	writeError(w, status, err)
}

// StatusFor maps backoffice errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, backoffice.ErrViewNotFound), errors.Is(err, backoffice.ErrModalNotFound):
		return http.StatusNotFound
	case errors.Is(err, commands.ErrUnknownAction),
		errors.Is(err, backoffice.ErrInvalidSection),
		errors.Is(err, backoffice.ErrUnknownField):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
