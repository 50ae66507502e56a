package gorouter

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"github.com/goliatone/go-backoffice/components/backoffice"
	"github.com/goliatone/go-backoffice/components/backoffice/commands"
	"github.com/goliatone/go-backoffice/components/backoffice/httpapi"
)

type stubActions struct {
	all []commands.ActionInput
	err error
}

func (s *stubActions) Execute(_ context.Context, msg commands.ActionInput) error {
	s.all = append(s.all, msg)
	return s.err
}

func multipartBody(t *testing.T, field, name string, content []byte) (string, []byte) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, name)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return writer.FormDataContentType(), body.Bytes()
}

func TestRegisterValidatesConfig(t *testing.T) {
	if err := Register(Config[struct{}]{}); err == nil {
		t.Fatalf("expected error when router/controller missing")
	}
}

func TestDefaultRouteConfig(t *testing.T) {
	routes := defaultRouteConfig(RouteConfig{HTML: "/pos"})
	if routes.HTML != "/pos" {
		t.Fatalf("expected custom html route to be kept, got %q", routes.HTML)
	}
	if routes.Actions != "/backoffice/views/:id/actions" {
		t.Fatalf("unexpected actions route %q", routes.Actions)
	}
	if routes.Import != "/backoffice/views/:id/import" {
		t.Fatalf("unexpected import route %q", routes.Import)
	}
	if routes.WebSocket != "/backoffice/views/:id/events" {
		t.Fatalf("unexpected websocket route %q", routes.WebSocket)
	}
}

func TestImportUploadSingleColumnCSV(t *testing.T) {
	actions := &stubActions{}
	contentType, body := multipartBody(t, httpapi.ImportField, "stock.csv", []byte("sku\nP-1\nP-2\n"))
	status, _ := importUpload(context.Background(), actions, "view-1", contentType, body, 0)
	if status != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", status)
	}
	if len(actions.all) != 2 {
		t.Fatalf("expected drop and upload, got %+v", actions.all)
	}
	drop := actions.all[0]
	if drop.Type != commands.ActionIntakeDrop || drop.ViewID != "view-1" || string(drop.Files[0].Data) != "sku\nP-1\nP-2\n" {
		t.Fatalf("unexpected drop %+v", drop)
	}
	if actions.all[1].Type != commands.ActionIntakeUpload {
		t.Fatalf("expected upload, got %q", actions.all[1].Type)
	}
}

func TestImportUploadRejections(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	contentType, body := multipartBody(t, httpapi.ImportField, "stock.csv", png)

	actions := &stubActions{}
	if status, _ := importUpload(context.Background(), actions, "view-1", contentType, body, 0); status != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", status)
	}
	if len(actions.all) != 1 {
		t.Fatalf("expected only the drop, got %+v", actions.all)
	}

	if status, _ := importUpload(context.Background(), &stubActions{}, "view-1", "application/json", []byte("{}"), 0); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for non multipart, got %d", status)
	}
	if status, _ := importUpload(context.Background(), &stubActions{}, "view-1", contentType, body, 4); status != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", status)
	}

	missing := &stubActions{err: backoffice.ErrViewNotFound}
	csvType, csvBody := multipartBody(t, httpapi.ImportField, "stock.csv", []byte("sku\n"))
	if status, _ := importUpload(context.Background(), missing, "gone", csvType, csvBody, 0); status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
}

func TestStreamViewFiltersByView(t *testing.T) {
	hook := backoffice.NewBroadcastHook()
	received := make(chan backoffice.UIEvent, 4)
	done := make(chan error, 1)
	go func() {
		done <- streamView(context.Background(), hook, "view-1", func(v any) error {
			received <- v.(backoffice.UIEvent)
			return nil
		})
	}()

	deadline := time.Now().Add(2 * time.Second)
	for hook.Subscribers() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("stream never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	ctx := context.Background()
	_ = hook.Publish(ctx, backoffice.UIEvent{ViewID: "view-2", Type: backoffice.EventToastAdded})
	_ = hook.Publish(ctx, backoffice.UIEvent{ViewID: "view-1", Type: backoffice.EventModalOpened})
	_ = hook.Publish(ctx, backoffice.UIEvent{ViewID: "view-1", Type: backoffice.EventViewUnmounted})

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("stream did not stop on unmount")
	}
	close(received)
	var types []string
	for event := range received {
		if event.ViewID != "view-1" {
			t.Fatalf("leaked event of %s", event.ViewID)
		}
		types = append(types, event.Type)
	}
	if len(types) != 2 || types[0] != backoffice.EventModalOpened || types[1] != backoffice.EventViewUnmounted {
		t.Fatalf("unexpected events %v", types)
	}
}

func TestStreamViewStopsOnWriteError(t *testing.T) {
	hook := backoffice.NewBroadcastHook()
	boom := errors.New("closed")
	done := make(chan error, 1)
	go func() {
		done <- streamView(context.Background(), hook, "view-1", func(any) error { return boom })
	}()
	for hook.Subscribers() == 0 {
		time.Sleep(5 * time.Millisecond)
	}
	_ = hook.Publish(context.Background(), backoffice.UIEvent{ViewID: "view-1", Type: backoffice.EventToastAdded})
	if err := <-done; !errors.Is(err, boom) {
		t.Fatalf("expected write error, got %v", err)
	}
	if hook.Subscribers() != 0 {
		t.Fatalf("expected subscription to be cancelled")
	}
}
