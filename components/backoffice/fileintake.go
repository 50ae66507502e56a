package backoffice

import (
	"context"
	"strings"
	"sync"
	"time"
)

// File intake constants.
const (
	CSVMimeType      = "text/csv"
	ImportModalID    = "modal-import-csv"
	IntakeResetDelay = 1500 * time.Millisecond

	MessageInvalidCSV  = "Please upload a valid CSV file."
	MessageSelectCSV   = "Please select a CSV file first."
	selectedNamePrefix = "Selected: "
)

// File is a file handed to the intake widget. Type is the declared MIME type.
type File struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
	Data []byte `json:"-"`
}

// ZoneState is the visual state of the drop zone.
type ZoneState string

const (
	ZoneIdle     ZoneState = "idle"
	ZoneDragging ZoneState = "dragging"
	ZoneAccepted ZoneState = "accepted"
)

// IntakeState is the observable state of the widget.
type IntakeState struct {
	Zone        ZoneState `json:"zone"`
	DisplayName string    `json:"display_name"`
	Selected    *File     `json:"selected,omitempty"`
}

// ImportSubmitter is the part of the modal controller the widget drives.
type ImportSubmitter interface {
	Attach(id string, files ...File) error
	SubmitForm(ctx context.Context, id string, opts ...SubmitOption) bool
}

// IntakeOptions configures a file intake widget.
type IntakeOptions struct {
	ViewID     string
	Scheduler  Scheduler
	Notifier   Notifier
	Modals     ImportSubmitter
	Sink       EventSink
	Telemetry  Telemetry
	ResetDelay time.Duration
}

// FileIntake accepts a CSV file by drop or picker and uploads it through the
// import modal.
type FileIntake struct {
	mu         sync.Mutex
	viewID     string
	scheduler  Scheduler
	notifier   Notifier
	modals     ImportSubmitter
	sink       EventSink
	telemetry  Telemetry
	resetDelay time.Duration
	zone       ZoneState
	display    string
	selected   *File
	generation int
	timer      Timer
	closed     bool
}

// NewFileIntake builds an idle widget.
func NewFileIntake(opts IntakeOptions) *FileIntake {
	w := &FileIntake{
		viewID:     opts.ViewID,
		scheduler:  normalizeScheduler(opts.Scheduler),
		notifier:   opts.Notifier,
		modals:     opts.Modals,
		sink:       normalizeSink(opts.Sink),
		telemetry:  normalizeTelemetry(opts.Telemetry),
		resetDelay: opts.ResetDelay,
		zone:       ZoneIdle,
	}
	if w.resetDelay <= 0 {
		w.resetDelay = IntakeResetDelay
	}
	return w
}

// DragEnter highlights the drop zone.
func (w *FileIntake) DragEnter(ctx context.Context) {
	w.setZone(ctx, ZoneDragging)
}

// DragLeave removes the highlight, keeping the accepted look when a file is
// selected.
func (w *FileIntake) DragLeave(ctx context.Context) {
	w.setZone(ctx, w.restingZone())
}

// Drop accepts the first dropped file when its declared type is CSV. Other
// types raise an error toast and keep the current selection.
func (w *FileIntake) Drop(ctx context.Context, files []File) bool {
	w.setZone(ctx, w.restingZone())
	if len(files) == 0 {
		return false
	}
	file := files[0]
	if !isCSVType(file.Type) {
		w.notify(ctx, MessageInvalidCSV, SeverityError)
		w.telemetry.Record(ctx, "backoffice.intake.rejected", map[string]any{"name": file.Name, "type": file.Type})
		return false
	}
	return w.selectFile(ctx, file)
}

// Pick selects the first file chosen through the file picker.
func (w *FileIntake) Pick(ctx context.Context, files []File) bool {
	if len(files) == 0 {
		return false
	}
	return w.selectFile(ctx, files[0])
}

// Upload submits the import modal with the selected file and clears the
// selection after the reset delay. Without a selection it raises an error
// toast and does nothing else.
func (w *FileIntake) Upload(ctx context.Context) bool {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return false
	}
	if w.selected == nil {
		w.mu.Unlock()
		w.notify(ctx, MessageSelectCSV, SeverityError)
		return false
	}
	file := *w.selected
	generation := w.generation
	w.mu.Unlock()

	if w.modals != nil {
		if err := w.modals.Attach(ImportModalID, file); err != nil {
			w.telemetry.Record(ctx, "backoffice.intake.attach_error", map[string]any{"error": err.Error()})
		}
		w.modals.SubmitForm(ctx, ImportModalID)
	}

	detached := context.WithoutCancel(ctx)
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = w.scheduler.AfterFunc(w.resetDelay, func() {
		w.reset(detached, generation)
	})
	w.mu.Unlock()

	w.telemetry.Record(ctx, "backoffice.intake.upload", map[string]any{"name": file.Name, "size": file.Size})
	return true
}

// State returns a copy of the widget state.
func (w *FileIntake) State() IntakeState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stateLocked()
}

// Close cancels the pending reset.
func (w *FileIntake) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.closed = true
}

func (w *FileIntake) selectFile(ctx context.Context, file File) bool {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return false
	}
	w.selected = &file
	w.display = selectedNamePrefix + file.Name
	w.zone = ZoneAccepted
	w.generation++
	state := w.stateLocked()
	w.mu.Unlock()

	publish(ctx, w.sink, w.telemetry, w.viewID, EventIntakeChanged, map[string]any{"intake": state})
	return true
}

// reset clears the selection unless another file was chosen after the upload.
func (w *FileIntake) reset(ctx context.Context, generation int) {
	w.mu.Lock()
	if w.closed || w.generation != generation {
		w.mu.Unlock()
		return
	}
	w.selected = nil
	w.display = ""
	w.zone = ZoneIdle
	w.timer = nil
	state := w.stateLocked()
	w.mu.Unlock()

	publish(ctx, w.sink, w.telemetry, w.viewID, EventIntakeChanged, map[string]any{"intake": state})
}

func (w *FileIntake) setZone(ctx context.Context, zone ZoneState) {
	w.mu.Lock()
	if w.closed || w.zone == zone {
		w.mu.Unlock()
		return
	}
	w.zone = zone
	state := w.stateLocked()
	w.mu.Unlock()

	publish(ctx, w.sink, w.telemetry, w.viewID, EventIntakeChanged, map[string]any{"intake": state})
}

func (w *FileIntake) restingZone() ZoneState {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.selected != nil {
		return ZoneAccepted
	}
	return ZoneIdle
}

func (w *FileIntake) stateLocked() IntakeState {
	state := IntakeState{Zone: w.zone, DisplayName: w.display}
	if w.selected != nil {
		file := *w.selected
		state.Selected = &file
	}
	return state
}

func (w *FileIntake) notify(ctx context.Context, message string, severity Severity) {
	if w.notifier == nil {
		return
	}
	w.notifier.Notify(ctx, message, severity)
}

// isCSVType compares the declared MIME type, ignoring parameters such as
// charset.
func isCSVType(declared string) bool {
	mediaType, _, _ := strings.Cut(declared, ";")
	return strings.EqualFold(strings.TrimSpace(mediaType), CSVMimeType)
}
