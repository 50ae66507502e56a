package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-backoffice/components/backoffice"
)

// ModalCatalogInput is empty; the catalog is shared by every view.
type ModalCatalogInput struct{}

type catalogService interface {
	ModalCatalog() *backoffice.ModalManifest
}

// ModalCatalogQuery lists the registered modal definitions.
type ModalCatalogQuery struct {
	service catalogService
}

// NewModalCatalogQuery builds the query.
func NewModalCatalogQuery(service catalogService) *ModalCatalogQuery {
	return &ModalCatalogQuery{service: service}
}

var _ gocommand.Querier[ModalCatalogInput, []backoffice.ModalDefinition] = (*ModalCatalogQuery)(nil)

// Query returns the definitions in manifest order.
func (q *ModalCatalogQuery) Query(context.Context, ModalCatalogInput) ([]backoffice.ModalDefinition, error) {
	manifest := q.service.ModalCatalog()
	if manifest == nil {
		return nil, nil
	}
	out := make([]backoffice.ModalDefinition, len(manifest.Modals))
	copy(out, manifest.Modals)
	return out, nil
}
