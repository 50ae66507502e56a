package backoffice

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrViewNotFound = errors.New("backoffice: view not found")
	errInvalidView  = errors.New("backoffice: view id is required")
)

// Options configures the backoffice Service. Every collaborator is an
// interface so applications can swap implementations.
type Options struct {
	Snapshots   SnapshotProvider
	Preferences PreferenceStore
	Modals      *ModalManifest
	Submitter   FormSubmitter
	Audio       AudioCue
	Scheduler   Scheduler
	Events      EventSink
	Translator  TranslationService
	Telemetry   Telemetry
	NewID       func() string
	Now         func() time.Time
}

// Service mounts and tracks the views of connected pages.
type Service struct {
	opts  Options
	mu    sync.RWMutex
	views map[string]*View
}

// NewService builds a Service with safe defaults.
func NewService(opts Options) *Service {
	if opts.Snapshots == nil {
		opts.Snapshots = NewStaticSnapshotProvider(nil)
	}
	if opts.Preferences == nil {
		opts.Preferences = NewInMemoryPreferenceStore()
	}
	if opts.Modals == nil {
		opts.Modals = DefaultModalManifest()
	}
	opts.Scheduler = normalizeScheduler(opts.Scheduler)
	opts.Events = normalizeSink(opts.Events)
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{opts: opts, views: make(map[string]*View)}
}

// Mount loads a snapshot and creates a view for the viewer on ctx. Snapshot
// failures degrade to an empty snapshot.
func (s *Service) Mount(ctx context.Context) (*View, error) {
	viewer := ViewerFromContext(ctx)
	snapshot, err := s.opts.Snapshots.Snapshot(ctx)
	if err != nil {
		s.opts.Telemetry.Record(ctx, "backoffice.snapshot.load_error", map[string]any{"error": err.Error()})
		snapshot = nil
	}
	if snapshot == nil {
		snapshot = EmptySnapshot()
	}

	id := s.opts.NewID()
	doc := NewDocument()
	toasts := NewToastRegion(ToastOptions{
		ViewID:    id,
		Scheduler: s.opts.Scheduler,
		Audio:     s.opts.Audio,
		Sink:      s.opts.Events,
		Telemetry: s.opts.Telemetry,
	})
	modals := NewModalController(ModalOptions{
		ViewID:    id,
		Scheduler: s.opts.Scheduler,
		Submitter: s.opts.Submitter,
		Sink:      s.opts.Events,
		Telemetry: s.opts.Telemetry,
	}, s.opts.Modals.Modals...)
	intake := NewFileIntake(IntakeOptions{
		ViewID:    id,
		Scheduler: s.opts.Scheduler,
		Notifier:  toasts,
		Modals:    modals,
		Sink:      s.opts.Events,
		Telemetry: s.opts.Telemetry,
	})
	model := NewViewModel(ctx, ViewModelOptions{
		ViewID:      id,
		Snapshot:    snapshot,
		Preferences: s.opts.Preferences,
		Translator:  s.opts.Translator,
		Sink:        s.opts.Events,
		Telemetry:   s.opts.Telemetry,
	})
	model.Mount(doc)
	modals.Mount(doc)

	view := &View{
		ID:        id,
		Viewer:    viewer,
		MountedAt: s.opts.Now(),
		Model:     model,
		Toasts:    toasts,
		Modals:    modals,
		Intake:    intake,
		Document:  doc,
	}
	s.mu.Lock()
	s.views[id] = view
	s.mu.Unlock()

	s.opts.Telemetry.Record(ctx, "backoffice.view.mount", map[string]any{
		"view":     id,
		"products": len(snapshot.Products),
		"users":    len(snapshot.Users),
	})
	return view, nil
}

// View returns a mounted view.
func (s *Service) View(id string) (*View, error) {
	if id == "" {
		return nil, errInvalidView
	}
	s.mu.RLock()
	view, ok := s.views[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrViewNotFound, id)
	}
	return view, nil
}

// Unmount tears the view down and forgets it.
func (s *Service) Unmount(ctx context.Context, id string) error {
	if id == "" {
		return errInvalidView
	}
	s.mu.Lock()
	view, ok := s.views[id]
	delete(s.views, id)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrViewNotFound, id)
	}
	view.teardown()
	publish(ctx, s.opts.Events, s.opts.Telemetry, id, EventViewUnmounted, nil)
	s.opts.Telemetry.Record(ctx, "backoffice.view.unmount", map[string]any{"view": id})
	return nil
}

// Views returns the number of mounted views.
func (s *Service) Views() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.views)
}

// ModalCatalog returns the modal definitions every view is mounted with.
func (s *Service) ModalCatalog() *ModalManifest {
	return s.opts.Modals
}

// Close unmounts every view.
func (s *Service) Close(ctx context.Context) error {
	s.mu.RLock()
	ids := make([]string, 0, len(s.views))
	for id := range s.views {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	var errs []error
	for _, id := range ids {
		if err := s.Unmount(ctx, id); err != nil && !errors.Is(err, ErrViewNotFound) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
