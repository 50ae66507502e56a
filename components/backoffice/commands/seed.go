package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-backoffice/components/backoffice"
)

// Seeder persists a snapshot so later page loads read it back.
type Seeder interface {
	Seed(ctx context.Context, snapshot *backoffice.Snapshot) error
}

// SeedSnapshotInput carries the snapshot to persist.
type SeedSnapshotInput struct {
	Snapshot *backoffice.Snapshot `json:"snapshot"`
}

// SeedSnapshotCommand writes a snapshot into the backing store.
type SeedSnapshotCommand struct {
	seeder    Seeder
	telemetry Telemetry
}

// NewSeedSnapshotCommand creates the command.
func NewSeedSnapshotCommand(seeder Seeder, telemetry Telemetry) *SeedSnapshotCommand {
	return &SeedSnapshotCommand{seeder: seeder, telemetry: withTelemetry(telemetry)}
}

var _ gocommand.Commander[SeedSnapshotInput] = (*SeedSnapshotCommand)(nil)

// Execute persists the snapshot.
func (c *SeedSnapshotCommand) Execute(ctx context.Context, msg SeedSnapshotInput) error {
	if c.seeder == nil {
		return errors.New("commands: seeder is required")
	}
	if msg.Snapshot == nil {
		return errors.New("commands: snapshot is required")
	}
	if err := c.seeder.Seed(ctx, msg.Snapshot); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "backoffice.snapshot.seeded", map[string]any{
		"products": len(msg.Snapshot.Products),
		"users":    len(msg.Snapshot.Users),
	})
	return nil
}
