package backoffice

import (
	core "github.com/goliatone/go-backoffice/components/backoffice"
)

// Service exposes the underlying components/backoffice.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// View re-exports a mounted page.
type View = core.View

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}
