package goadmin_test

import (
	"context"
	"errors"
	"testing"

	core "github.com/goliatone/go-backoffice/components/backoffice"
	backofficepkg "github.com/goliatone/go-backoffice/pkg/backoffice"
	"github.com/goliatone/go-backoffice/pkg/goadmin"
)

type stubMenuBuilder struct {
	items []goadmin.MenuItem
	err   error
}

func (s *stubMenuBuilder) EnsureMenuItem(_ context.Context, _ string, item goadmin.MenuItem) error {
	s.items = append(s.items, item)
	return s.err
}

func TestAdminBootstrapSeedsMenu(t *testing.T) {
	builder := &stubMenuBuilder{}
	service := backofficepkg.NewService(core.Options{})
	admin, err := goadmin.New(goadmin.Config{
		EnableBackoffice: true,
		Service:          service,
		MenuBuilder:      builder,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := admin.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	if len(builder.items) != 1 || builder.items[0].Label != "Back Office" {
		t.Fatalf("expected root item, got %+v", builder.items)
	}
	if admin.Backoffice() == nil {
		t.Fatalf("expected backoffice service")
	}
}

func TestAdminBootstrapSectionItems(t *testing.T) {
	builder := &stubMenuBuilder{}
	admin, err := goadmin.New(goadmin.Config{
		EnableBackoffice: true,
		Service:          backofficepkg.NewService(core.Options{}),
		MenuBuilder:      builder,
		SectionItems:     true,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := admin.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	if len(builder.items) != 7 {
		t.Fatalf("expected root plus six sections, got %d", len(builder.items))
	}
	inventory := builder.items[3]
	if inventory.Route != "admin.backoffice.inventory" || inventory.Parent != "admin.backoffice" {
		t.Fatalf("unexpected section item %+v", inventory)
	}
}

func TestAdminBootstrapPropagatesErrors(t *testing.T) {
	builder := &stubMenuBuilder{err: errors.New("menu locked")}
	admin, _ := goadmin.New(goadmin.Config{
		EnableBackoffice: true,
		Service:          backofficepkg.NewService(core.Options{}),
		MenuBuilder:      builder,
	})
	if err := admin.Bootstrap(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestAdminRequiresServiceWhenEnabled(t *testing.T) {
	if _, err := goadmin.New(goadmin.Config{EnableBackoffice: true}); err == nil {
		t.Fatalf("expected error without service")
	}
}

func TestAdminDisabledSkipsBootstrap(t *testing.T) {
	builder := &stubMenuBuilder{}
	admin, err := goadmin.New(goadmin.Config{MenuBuilder: builder})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := admin.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	if len(builder.items) != 0 {
		t.Fatalf("expected no calls, got %d", len(builder.items))
	}
	if admin.Backoffice() != nil {
		t.Fatalf("expected nil service when disabled")
	}
}
