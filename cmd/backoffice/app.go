package main

import (
	"context"
	"fmt"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-backoffice/components/backoffice"
	"github.com/goliatone/go-backoffice/components/backoffice/commands"
	"github.com/goliatone/go-backoffice/components/backoffice/queries"
	"github.com/goliatone/go-backoffice/components/backoffice/sqlsource"
	"github.com/goliatone/go-backoffice/internal/config"
	"github.com/goliatone/go-backoffice/pkg/posapi"
)

// app holds the collaborators shared by the serve and render commands.
type app struct {
	cfg        *config.Config
	logger     *logrus.Logger
	service    *backoffice.Service
	controller *backoffice.Controller
	hook       *backoffice.BroadcastHook
	dispatcher *commands.Dispatcher
	unmount    *commands.UnmountViewCommand
	state      *queries.ViewStateQuery
	sessions   *scs.SessionManager
	closers    []func() error
}

func newApp(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger, hook: backoffice.NewBroadcastHook()}
	a.hook.AllowOrigins(cfg.AllowedOrigins...)
	telemetry := backoffice.NewLogTelemetry(logger)

	var submitter backoffice.FormSubmitter
	var pos *posapi.HTTPClient
	if cfg.POSURL != "" {
		client, err := posapi.NewHTTPClient(posapi.HTTPConfig{BaseURL: cfg.POSURL, APIKey: cfg.POSAPIKey})
		if err != nil {
			return nil, err
		}
		pos, submitter = client, client
	}
	snapshots, err := a.snapshotProvider(ctx, pos)
	if err != nil {
		a.close()
		return nil, err
	}
	preferences, err := a.preferenceStore()
	if err != nil {
		a.close()
		return nil, err
	}
	modals := backoffice.DefaultModalManifest()
	if cfg.ModalManifest != "" {
		if modals, err = backoffice.ReadModalManifest(cfg.ModalManifest); err != nil {
			a.close()
			return nil, err
		}
	}

	a.service = backoffice.NewService(backoffice.Options{
		Snapshots:   snapshots,
		Preferences: preferences,
		Modals:      modals,
		Submitter:   submitter,
		Events:      a.hook,
		Telemetry:   telemetry,
	})
	renderer, err := backoffice.NewTemplateRenderer()
	if err != nil {
		a.close()
		return nil, fmt.Errorf("backoffice: templates: %w", err)
	}
	a.controller = backoffice.NewController(backoffice.ControllerOptions{
		Service:  a.service,
		Renderer: renderer,
		Charts:   backoffice.NewChartRenderer(backoffice.NewChartCache(cfg.ChartCacheTTL), cfg.ChartAssetsURL),
		BasePath: backoffice.JoinURL(cfg.BasePath, "backoffice"),
	})
	a.dispatcher = commands.NewDispatcher(a.service, telemetry)
	a.unmount = commands.NewUnmountViewCommand(a.service, telemetry)
	a.state = queries.NewViewStateQuery(a.service)
	return a, nil
}

func (a *app) snapshotProvider(ctx context.Context, pos *posapi.HTTPClient) (backoffice.SnapshotProvider, error) {
	switch {
	case pos != nil:
		return posapi.SnapshotProvider{Client: pos}, nil
	case a.cfg.DatabasePath != "":
		store, err := sqlsource.Open(ctx, a.cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		return store, nil
	case a.cfg.SnapshotFile != "":
		return backoffice.FileSnapshotProvider{Path: a.cfg.SnapshotFile}, nil
	default:
		a.logger.Warn("no snapshot source configured, serving an empty dashboard")
		return backoffice.NewStaticSnapshotProvider(nil), nil
	}
}

func (a *app) preferenceStore() (backoffice.PreferenceStore, error) {
	switch a.cfg.Preferences {
	case config.PreferencesRedis:
		store, err := backoffice.NewRedisPreferenceStore(backoffice.RedisPreferenceOptions{
			URL:         a.cfg.RedisURL,
			Prefix:      a.cfg.RedisPrefix,
			DialTimeout: 5 * time.Second,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		return store, nil
	case config.PreferencesSession:
		a.sessions = scs.New()
		a.sessions.Lifetime = a.cfg.SessionLifetime
		a.sessions.Cookie.Name = "backoffice_session"
		return backoffice.NewSessionPreferenceStore(a.sessions, ""), nil
	default:
		return backoffice.NewInMemoryPreferenceStore(), nil
	}
}

func (a *app) close() {
	if a.service != nil {
		if err := a.service.Close(context.Background()); err != nil {
			a.logger.WithError(err).Warn("close views")
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.WithError(err).Warn("close resource")
		}
	}
	a.closers = nil
}
