package backoffice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ettle/strcase"
)

// Submit workflow constants.
const (
	ModalSubmitDelay = 1000 * time.Millisecond
	BusyLabel        = "Processing..."
)

var (
	ErrModalNotFound = errors.New("backoffice: modal not found")
	ErrUnknownField  = errors.New("backoffice: unknown form field")
)

// Submission is the payload handed to a FormSubmitter once the submit delay
// elapses.
type Submission struct {
	ViewID  string            `json:"view_id"`
	ModalID string            `json:"modal_id"`
	FormID  string            `json:"form_id"`
	Action  string            `json:"action"`
	Method  string            `json:"method"`
	Values  map[string]string `json:"values"`
	Files   []File            `json:"files,omitempty"`
}

// FormSubmitter performs the actual form submission. Errors are recorded but
// never keep the modal open.
type FormSubmitter interface {
	SubmitForm(ctx context.Context, submission Submission) error
}

// FormSubmitterFunc adapts a function into a FormSubmitter.
type FormSubmitterFunc func(ctx context.Context, submission Submission) error

// SubmitForm implements FormSubmitter.
func (fn FormSubmitterFunc) SubmitForm(ctx context.Context, submission Submission) error {
	return fn(ctx, submission)
}

// telemetrySubmitter records the submission and lets the browser post the form.
type telemetrySubmitter struct {
	telemetry Telemetry
}

func (s telemetrySubmitter) SubmitForm(ctx context.Context, submission Submission) error {
	s.telemetry.Record(ctx, "backoffice.modal.form_submitted", map[string]any{
		"modal":  submission.ModalID,
		"form":   submission.FormID,
		"action": submission.Action,
		"files":  len(submission.Files),
	})
	return nil
}

// ModalState is the observable state of one modal.
type ModalState struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Message     string            `json:"message,omitempty"`
	Form        *ModalForm        `json:"form,omitempty"`
	Buttons     []ModalButton     `json:"buttons"`
	Open        bool              `json:"open"`
	Busy        bool              `json:"busy"`
	Values      map[string]string `json:"values,omitempty"`
	Attachments []string          `json:"attachments,omitempty"`
}

// ModalOptions configures a modal controller.
type ModalOptions struct {
	ViewID      string
	Scheduler   Scheduler
	Submitter   FormSubmitter
	Sink        EventSink
	Telemetry   Telemetry
	SubmitDelay time.Duration
}

// SubmitOption customizes a single SubmitForm call.
type SubmitOption func(*submitConfig)

type submitConfig struct {
	onComplete func()
}

// WithSubmitCompletion runs fn after the modal closed and its form was reset.
func WithSubmitCompletion(fn func()) SubmitOption {
	return func(cfg *submitConfig) {
		cfg.onComplete = fn
	}
}

// ModalController opens, closes and submits the modals of a view.
type ModalController struct {
	mu          sync.Mutex
	viewID      string
	scheduler   Scheduler
	submitter   FormSubmitter
	sink        EventSink
	telemetry   Telemetry
	submitDelay time.Duration
	order       []string
	modals      map[string]*modalEntry
	detach      func()
	closed      bool
}

type modalEntry struct {
	def     ModalDefinition
	open    bool
	busy    bool
	buttons []ModalButton
	values  map[string]string
	files   []File
	timer   Timer
}

// NewModalController builds a controller with the given definitions.
func NewModalController(opts ModalOptions, defs ...ModalDefinition) *ModalController {
	telemetry := normalizeTelemetry(opts.Telemetry)
	c := &ModalController{
		viewID:      opts.ViewID,
		scheduler:   normalizeScheduler(opts.Scheduler),
		submitter:   opts.Submitter,
		sink:        normalizeSink(opts.Sink),
		telemetry:   telemetry,
		submitDelay: opts.SubmitDelay,
		modals:      make(map[string]*modalEntry),
	}
	if c.submitter == nil {
		c.submitter = telemetrySubmitter{telemetry: telemetry}
	}
	if c.submitDelay <= 0 {
		c.submitDelay = ModalSubmitDelay
	}
	for _, def := range defs {
		_ = c.Register(def)
	}
	return c
}

// Register adds or replaces a modal definition.
func (c *ModalController) Register(def ModalDefinition) error {
	id := normalizeModalID(def.ID)
	if id == "" {
		return fmt.Errorf("backoffice: modal id is required")
	}
	def.ID = id
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.modals[id]; !exists {
		c.order = append(c.order, id)
	}
	entry := &modalEntry{def: def}
	entry.reset()
	c.modals[id] = entry
	return nil
}

// Open reveals the modal.
func (c *ModalController) Open(ctx context.Context, id string) error {
	return c.setOpen(ctx, id, true)
}

// Close hides the modal. Closing a hidden modal is a no-op.
func (c *ModalController) Close(ctx context.Context, id string) error {
	return c.setOpen(ctx, id, false)
}

// IsOpen reports whether the modal is visible.
func (c *ModalController) IsOpen(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry := c.modals[normalizeModalID(id)]
	return entry != nil && entry.open
}

// OpenModals lists the visible modal ids in catalog order.
func (c *ModalController) OpenModals() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0)
	for _, id := range c.order {
		if c.modals[id].open {
			out = append(out, id)
		}
	}
	return out
}

// ClickOverlay closes an open modal when the click landed on its background.
// Clicks on the modal content leave it open.
func (c *ModalController) ClickOverlay(ctx context.Context, id string, onBackground bool) bool {
	if !onBackground || !c.IsOpen(id) {
		return false
	}
	return c.Close(ctx, id) == nil
}

// SetField stores a form value for the next submission.
func (c *ModalController) SetField(id, name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry := c.modals[normalizeModalID(id)]
	if entry == nil || entry.def.Form == nil {
		return fmt.Errorf("%w: %s", ErrModalNotFound, id)
	}
	if !entry.hasField(name) {
		return fmt.Errorf("%w: %s.%s", ErrUnknownField, entry.def.ID, name)
	}
	entry.values[name] = value
	return nil
}

// Attach sets the files sent with the modal form, replacing earlier ones.
func (c *ModalController) Attach(id string, files ...File) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry := c.modals[normalizeModalID(id)]
	if entry == nil || entry.def.Form == nil {
		return fmt.Errorf("%w: %s", ErrModalNotFound, id)
	}
	entry.files = append([]File(nil), files...)
	return nil
}

// Modal returns the state of one modal.
func (c *ModalController) Modal(id string) (ModalState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry := c.modals[normalizeModalID(id)]
	if entry == nil {
		return ModalState{}, false
	}
	return entry.state(), true
}

// Modals returns every modal in catalog order.
func (c *ModalController) Modals() []ModalState {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ModalState, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.modals[id].state())
	}
	return out
}

// SubmitForm runs the submit workflow: the primary button (or the delete
// button) shows the busy label, and after the submit delay the button is
// restored, the form is submitted, the modal closes and the form resets. It
// returns false without side effects when the modal has no form or no submit
// button, or a submission is already running.
func (c *ModalController) SubmitForm(ctx context.Context, id string, opts ...SubmitOption) bool {
	cfg := submitConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	id = normalizeModalID(id)

	c.mu.Lock()
	entry := c.modals[id]
	if c.closed || entry == nil || entry.def.Form == nil || entry.busy {
		c.mu.Unlock()
		return false
	}
	index := entry.submitButton()
	if index < 0 {
		c.mu.Unlock()
		return false
	}
	original := entry.buttons[index]
	entry.buttons[index].Label = BusyLabel
	entry.buttons[index].Disabled = true
	entry.busy = true
	detached := context.WithoutCancel(ctx)
	entry.timer = c.scheduler.AfterFunc(c.submitDelay, func() {
		c.completeSubmit(detached, id, entry, index, original, cfg)
	})
	c.mu.Unlock()

	publish(ctx, c.sink, c.telemetry, c.viewID, EventModalBusy, map[string]any{"id": id, "button": original.ID})
	return true
}

func (c *ModalController) completeSubmit(ctx context.Context, id string, entry *modalEntry, index int, original ModalButton, cfg submitConfig) {
	c.mu.Lock()
	if c.closed || c.modals[id] != entry || !entry.busy {
		c.mu.Unlock()
		return
	}
	entry.buttons[index] = original
	entry.busy = false
	entry.timer = nil
	submission := entry.submission(c.viewID)
	c.mu.Unlock()

	if err := c.submit(ctx, submission); err != nil {
		c.telemetry.Record(ctx, "backoffice.modal.submit_error", map[string]any{"modal": id, "error": err.Error()})
	}
	publish(ctx, c.sink, c.telemetry, c.viewID, EventModalSubmit, map[string]any{"id": id, "form": submission.FormID})
	_ = c.Close(ctx, id)

	c.mu.Lock()
	if c.modals[id] == entry {
		entry.reset()
	}
	c.mu.Unlock()

	if cfg.onComplete != nil {
		cfg.onComplete()
	}
}

func (c *ModalController) submit(ctx context.Context, submission Submission) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("backoffice: submitter panic: %v", r)
		}
	}()
	return c.submitter.SubmitForm(ctx, submission)
}

// Mount attaches the document click listener that closes a modal when its
// overlay background is the click target.
func (c *ModalController) Mount(doc *Document) {
	if doc == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.detach != nil {
		return
	}
	c.detach = doc.Listen(EventClick, func(event Event) {
		click, ok := event.(ClickEvent)
		if !ok {
			return
		}
		target := click.Target()
		if target != "" && c.IsOpen(target) {
			_ = c.Close(context.Background(), target)
		}
	})
}

// Unmount removes the document listener.
func (c *ModalController) Unmount() {
	c.mu.Lock()
	detach := c.detach
	c.detach = nil
	c.mu.Unlock()
	if detach != nil {
		detach()
	}
}

// Shutdown detaches listeners and cancels pending submissions.
func (c *ModalController) Shutdown() {
	c.Unmount()
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, entry := range c.modals {
		if entry.timer != nil {
			entry.timer.Stop()
			entry.timer = nil
		}
	}
	c.closed = true
}

func (c *ModalController) setOpen(ctx context.Context, id string, open bool) error {
	id = normalizeModalID(id)
	c.mu.Lock()
	entry := c.modals[id]
	if entry == nil {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrModalNotFound, id)
	}
	changed := entry.open != open
	entry.open = open
	c.mu.Unlock()

	if !changed {
		return nil
	}
	kind := EventModalClosed
	if open {
		kind = EventModalOpened
	}
	publish(ctx, c.sink, c.telemetry, c.viewID, kind, map[string]any{"id": id})
	return nil
}

func (e *modalEntry) reset() {
	e.buttons = append([]ModalButton(nil), e.def.Buttons...)
	e.values = make(map[string]string)
	e.files = nil
	if e.def.Form == nil {
		return
	}
	for _, field := range e.def.Form.Fields {
		e.values[field.Name] = field.Value
	}
}

func (e *modalEntry) submitButton() int {
	for _, role := range []ButtonRole{ButtonPrimary, ButtonDelete} {
		for i, button := range e.buttons {
			if button.Role == role {
				return i
			}
		}
	}
	return -1
}

func (e *modalEntry) hasField(name string) bool {
	if e.def.Form == nil {
		return false
	}
	for _, field := range e.def.Form.Fields {
		if field.Name == name {
			return true
		}
	}
	return false
}

func (e *modalEntry) submission(viewID string) Submission {
	values := make(map[string]string, len(e.values))
	for k, v := range e.values {
		values[k] = v
	}
	return Submission{
		ViewID:  viewID,
		ModalID: e.def.ID,
		FormID:  e.def.Form.ID,
		Action:  e.def.Form.Action,
		Method:  e.def.Form.Method,
		Values:  values,
		Files:   append([]File(nil), e.files...),
	}
}

func (e *modalEntry) state() ModalState {
	state := ModalState{
		ID:      e.def.ID,
		Title:   e.def.Title,
		Message: e.def.Message,
		Form:    e.def.Form,
		Buttons: append([]ModalButton(nil), e.buttons...),
		Open:    e.open,
		Busy:    e.busy,
	}
	if len(e.values) > 0 {
		state.Values = make(map[string]string, len(e.values))
		for k, v := range e.values {
			state.Values[k] = v
		}
	}
	for _, f := range e.files {
		state.Attachments = append(state.Attachments, f.Name)
	}
	return state
}

func normalizeModalID(id string) string {
	return strcase.ToKebab(strings.TrimSpace(id))
}
