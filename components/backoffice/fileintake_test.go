package backoffice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type intakeFixture struct {
	scheduler   *ManualScheduler
	toasts      *ToastRegion
	modals      *ModalController
	intake      *FileIntake
	submissions []Submission
}

func newIntakeFixture(t *testing.T) *intakeFixture {
	t.Helper()
	f := &intakeFixture{scheduler: NewManualScheduler()}
	f.toasts = NewToastRegion(ToastOptions{Scheduler: f.scheduler})
	f.modals = NewModalController(ModalOptions{
		Scheduler: f.scheduler,
		Submitter: FormSubmitterFunc(func(_ context.Context, s Submission) error {
			f.submissions = append(f.submissions, s)
			return nil
		}),
	}, DefaultModalManifest().Modals...)
	f.intake = NewFileIntake(IntakeOptions{
		Scheduler: f.scheduler,
		Notifier:  f.toasts,
		Modals:    f.modals,
	})
	return f
}

func TestIntakeDropAcceptsCSV(t *testing.T) {
	f := newIntakeFixture(t)
	ctx := context.Background()

	f.intake.DragEnter(ctx)
	assert.Equal(t, ZoneDragging, f.intake.State().Zone)

	ok := f.intake.Drop(ctx, []File{
		{Name: "stock.csv", Type: "text/csv; charset=utf-8"},
		{Name: "other.csv", Type: CSVMimeType},
	})
	require.True(t, ok)
	state := f.intake.State()
	assert.Equal(t, ZoneAccepted, state.Zone)
	assert.Equal(t, "Selected: stock.csv", state.DisplayName)
	require.NotNil(t, state.Selected)
	assert.Equal(t, "stock.csv", state.Selected.Name)

	f.intake.DragEnter(ctx)
	f.intake.DragLeave(ctx)
	assert.Equal(t, ZoneAccepted, f.intake.State().Zone)
}

func TestIntakeDropRejectsNonCSV(t *testing.T) {
	f := newIntakeFixture(t)
	ctx := context.Background()

	f.intake.DragEnter(ctx)
	ok := f.intake.Drop(ctx, []File{{Name: "photo.png", Type: "image/png"}})
	assert.False(t, ok)

	state := f.intake.State()
	assert.Equal(t, ZoneIdle, state.Zone)
	assert.Nil(t, state.Selected)
	assert.Equal(t, "", state.DisplayName)

	toasts := f.toasts.Toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, MessageInvalidCSV, toasts[0].Message)
	assert.Equal(t, SeverityError, toasts[0].Severity)
}

func TestIntakeRejectedDropKeepsSelection(t *testing.T) {
	f := newIntakeFixture(t)
	ctx := context.Background()

	require.True(t, f.intake.Drop(ctx, []File{{Name: "stock.csv", Type: CSVMimeType}}))
	before := f.intake.State()

	assert.False(t, f.intake.Drop(ctx, []File{{Name: "photo.png", Type: "image/png"}}))
	after := f.intake.State()
	require.NotNil(t, after.Selected)
	assert.Equal(t, "stock.csv", after.Selected.Name)
	assert.Equal(t, before.DisplayName, after.DisplayName)
	assert.Equal(t, before.Zone, after.Zone)

	toasts := f.toasts.Toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, MessageInvalidCSV, toasts[0].Message)
}

func TestIntakeDropWithoutFilesIsIgnored(t *testing.T) {
	f := newIntakeFixture(t)
	assert.False(t, f.intake.Drop(context.Background(), nil))
	assert.Empty(t, f.toasts.Toasts())
	assert.Equal(t, ZoneIdle, f.intake.State().Zone)
}

func TestIntakePickSkipsTypeCheck(t *testing.T) {
	f := newIntakeFixture(t)
	assert.True(t, f.intake.Pick(context.Background(), []File{{Name: "export.txt", Type: "text/plain"}}))
	assert.Equal(t, "Selected: export.txt", f.intake.State().DisplayName)
	assert.Empty(t, f.toasts.Toasts())
}

func TestIntakeUploadWithoutSelection(t *testing.T) {
	f := newIntakeFixture(t)
	assert.False(t, f.intake.Upload(context.Background()))
	toasts := f.toasts.Toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, MessageSelectCSV, toasts[0].Message)
	assert.False(t, f.modals.IsOpen(ImportModalID))
	state, _ := f.modals.Modal(ImportModalID)
	assert.False(t, state.Busy)
}

func TestIntakeUploadSubmitsImportModal(t *testing.T) {
	f := newIntakeFixture(t)
	ctx := context.Background()

	require.NoError(t, f.modals.Open(ctx, ImportModalID))
	require.True(t, f.intake.Drop(ctx, []File{{Name: "stock.csv", Type: CSVMimeType, Size: 12}}))
	require.True(t, f.intake.Upload(ctx))

	state, _ := f.modals.Modal(ImportModalID)
	assert.True(t, state.Busy)
	assert.Equal(t, []string{"stock.csv"}, state.Attachments)

	f.scheduler.Advance(ModalSubmitDelay)
	require.Len(t, f.submissions, 1)
	require.Len(t, f.submissions[0].Files, 1)
	assert.Equal(t, "stock.csv", f.submissions[0].Files[0].Name)
	assert.False(t, f.modals.IsOpen(ImportModalID))
	assert.NotNil(t, f.intake.State().Selected, "selection survives until the reset delay")

	f.scheduler.Advance(IntakeResetDelay - ModalSubmitDelay)
	state2 := f.intake.State()
	assert.Nil(t, state2.Selected)
	assert.Equal(t, ZoneIdle, state2.Zone)
	assert.Equal(t, "", state2.DisplayName)
}

func TestIntakeResetSkipsNewerSelection(t *testing.T) {
	f := newIntakeFixture(t)
	ctx := context.Background()

	require.True(t, f.intake.Drop(ctx, []File{{Name: "first.csv", Type: CSVMimeType}}))
	require.True(t, f.intake.Upload(ctx))
	require.True(t, f.intake.Pick(ctx, []File{{Name: "second.csv", Type: CSVMimeType}}))

	f.scheduler.Advance(IntakeResetDelay)
	require.NotNil(t, f.intake.State().Selected)
	assert.Equal(t, "second.csv", f.intake.State().Selected.Name)
}

func TestIntakeCloseCancelsReset(t *testing.T) {
	f := newIntakeFixture(t)
	ctx := context.Background()
	require.True(t, f.intake.Pick(ctx, []File{{Name: "a.csv"}}))
	require.True(t, f.intake.Upload(ctx))
	f.intake.Close()
	f.modals.Shutdown()
	assert.Zero(t, f.scheduler.Pending())
	assert.False(t, f.intake.Pick(ctx, []File{{Name: "b.csv"}}))
}
