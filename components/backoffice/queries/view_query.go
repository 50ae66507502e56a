package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-backoffice/components/backoffice"
)

// ViewStateInput names the view to read.
type ViewStateInput struct {
	ViewID string
}

type viewService interface {
	View(id string) (*backoffice.View, error)
}

// ViewStateQuery returns the JSON state of a mounted view.
type ViewStateQuery struct {
	service viewService
}

// NewViewStateQuery builds the query.
func NewViewStateQuery(service viewService) *ViewStateQuery {
	return &ViewStateQuery{service: service}
}

var _ gocommand.Querier[ViewStateInput, backoffice.ViewState] = (*ViewStateQuery)(nil)

// Query resolves the view state, derived values included.
func (q *ViewStateQuery) Query(ctx context.Context, input ViewStateInput) (backoffice.ViewState, error) {
	view, err := q.service.View(input.ViewID)
	if err != nil {
		return backoffice.ViewState{}, err
	}
	return view.State(ctx), nil
}

// ShellQuery returns the render-ready shell of a mounted view.
type ShellQuery struct {
	service viewService
}

// NewShellQuery builds the query.
func NewShellQuery(service viewService) *ShellQuery {
	return &ShellQuery{service: service}
}

var _ gocommand.Querier[ViewStateInput, backoffice.ShellView] = (*ShellQuery)(nil)

// Query builds the shell for the view.
func (q *ShellQuery) Query(ctx context.Context, input ViewStateInput) (backoffice.ShellView, error) {
	view, err := q.service.View(input.ViewID)
	if err != nil {
		return backoffice.ShellView{}, err
	}
	return view.Shell(ctx), nil
}
