package posapi

import (
	"context"

	"github.com/goliatone/go-backoffice/components/backoffice"
)

// SnapshotClient fetches the dashboard payload from the POS backend.
type SnapshotClient interface {
	FetchSnapshot(ctx context.Context) (*backoffice.Snapshot, error)
}

// FormClient forwards modal form submissions to the POS backend.
type FormClient interface {
	SubmitForm(ctx context.Context, submission backoffice.Submission) error
}

// Client is a convenience union for backends that serve both calls.
type Client interface {
	SnapshotClient
	FormClient
}
