package backoffice

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRenderer struct {
	name string
	data map[string]any
	err  error
}

func (s *stubRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	s.name = name
	if payload, ok := data.(map[string]any); ok {
		s.data = payload
	}
	if s.err != nil {
		return "", s.err
	}
	if len(out) > 0 {
		_, _ = io.WriteString(out[0], "rendered")
	}
	return "rendered", nil
}

func TestControllerRenderTemplate(t *testing.T) {
	service := newTestService(t, Options{Snapshots: NewStaticSnapshotProvider(stockSnapshot())})
	renderer := &stubRenderer{}
	controller := NewController(ControllerOptions{
		Service:  service,
		Renderer: renderer,
		Charts:   NewChartRenderer(NewChartCache(time.Minute), ""),
		BasePath: "/admin/backoffice",
	})
	ctx := context.Background()
	view, err := controller.Mount(ctx)
	require.NoError(t, err)
	view.Notify(ctx, "Welcome back", SeveritySuccess)

	var buf bytes.Buffer
	require.NoError(t, controller.RenderTemplate(ctx, view, &buf))
	assert.Equal(t, "rendered", buf.String())
	assert.Equal(t, "backoffice.html", renderer.name)

	data := renderer.data
	assert.Equal(t, view.ID, data["view_id"])
	assert.Equal(t, "/admin/backoffice/views/"+view.ID+"/actions", data["actions_url"])
	assert.Equal(t, "/admin/backoffice/views/"+view.ID+"/events", data["events_url"])
	assert.Equal(t, "public/css/home.css", data["css_url"])

	shell, ok := data["shell"].(ShellView)
	require.True(t, ok)
	assert.Equal(t, SectionDashboard, shell.ActiveSection)

	toasts, ok := data["toasts"].([]Toast)
	require.True(t, ok)
	require.Len(t, toasts, 1)

	charts, ok := data["charts"].(map[string]string)
	require.True(t, ok)
	assert.NotEmpty(t, charts["weekly_sales"])
	assert.NotEmpty(t, charts["categories"])

	modals, ok := data["modals"].([]ModalView)
	require.True(t, ok)
	assert.Len(t, modals, len(DefaultModalManifest().Modals))
}

func TestControllerRenderErrors(t *testing.T) {
	service := newTestService(t, Options{})
	ctx := context.Background()
	view, err := service.Mount(ctx)
	require.NoError(t, err)

	controller := NewController(ControllerOptions{Service: service})
	assert.Error(t, controller.RenderTemplate(ctx, view, io.Discard))

	failing := NewController(ControllerOptions{Service: service, Renderer: &stubRenderer{err: errors.New("boom")}})
	assert.EqualError(t, failing.RenderTemplate(ctx, view, io.Discard), "boom")

	_, err = failing.Payload(ctx, nil)
	assert.ErrorIs(t, err, ErrViewNotFound)

	_, err = NewController(ControllerOptions{}).Mount(ctx)
	assert.Error(t, err)
}

func TestBuildModalViews(t *testing.T) {
	scheduler := NewManualScheduler()
	modals := NewModalController(ModalOptions{Scheduler: scheduler}, DefaultModalManifest().Modals...)
	ctx := context.Background()
	require.NoError(t, modals.Open(ctx, ImportModalID))
	require.True(t, modals.SubmitForm(ctx, ImportModalID))
	require.NoError(t, modals.SetField("modal-record-stock", "quantity", "5"))

	views := BuildModalViews("https://shop.example/admin", modals.Modals())
	byID := map[string]ModalView{}
	for _, view := range views {
		byID[view.ID] = view
	}

	importView := byID[ImportModalID]
	assert.True(t, importView.Open)
	assert.True(t, importView.HasForm)
	assert.True(t, importView.Multipart)
	assert.Equal(t, "https://shop.example/admin/inventory/import", importView.Action)
	assert.True(t, importView.Buttons[0].Busy)
	assert.False(t, importView.Buttons[1].Busy)

	stock := byID["modal-record-stock"]
	values := map[string]string{}
	for _, field := range stock.Fields {
		values[field.Name] = field.Value
	}
	assert.Equal(t, "5", values["quantity"])
	assert.Equal(t, "in", values["movement"])

	assert.False(t, byID["modal-user-barcode"].HasForm)
}
