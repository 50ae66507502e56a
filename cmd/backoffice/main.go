package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"
	"github.com/dustin/go-humanize"
	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-backoffice/components/backoffice"
	"github.com/goliatone/go-backoffice/components/backoffice/commands"
	"github.com/goliatone/go-backoffice/components/backoffice/gorouter"
	"github.com/goliatone/go-backoffice/components/backoffice/httpapi"
	"github.com/goliatone/go-backoffice/components/backoffice/sqlsource"
	"github.com/goliatone/go-backoffice/internal/config"
)

type cli struct {
	EnvFile []string `name:"env-file" default:".env" help:"Dotenv files loaded before reading the environment."`

	Serve     serveCmd     `cmd:"" help:"Serve the back-office over go-router (fiber)."`
	ServeHTTP serveHTTPCmd `cmd:"" name:"serve-http" help:"Serve the back-office over net/http (chi)."`
	Render    renderCmd    `cmd:"" help:"Mount one view and write its HTML shell."`
	Summary   summaryCmd   `cmd:"" help:"Print the stat cards and stock counts of the current snapshot."`
	Modals    modalsCmd    `cmd:"" help:"List or export the modal catalog."`
	Seed      seedCmd      `cmd:"" help:"Load a JSON snapshot into the SQLite database."`
}

func main() {
	root := &cli{}
	ctx := kong.Parse(root,
		kong.Description("Retail POS back-office dashboard."),
		kong.UsageOnError(),
		kong.Bind(root),
	)
	err := ctx.Run(context.Background())
	ctx.FatalIfErrorf(err)
}

func (c *cli) load() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(c.EnvFile...)
	if err != nil {
		return nil, nil, err
	}
	logger, err := cfg.Logger()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

type serveCmd struct {
	Addr string `help:"Listen address (overrides BACKOFFICE_ADDR)."`
}

func (cmd *serveCmd) Run(root *cli) error {
	cfg, logger, err := root.load()
	if err != nil {
		return err
	}
	if cmd.Addr != "" {
		cfg.Addr = cmd.Addr
	}
	a, err := newApp(context.Background(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()
	if a.sessions != nil {
		return errors.New("serve: session preferences need the net/http transport, use serve-http")
	}

	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:     server.Router(),
		Controller: a.controller,
		Actions:    a.dispatcher,
		Unmount:    a.unmount,
		State:      a.state,
		Broadcast:  a.hook,
		BasePath:   cfg.BasePath,
	}); err != nil {
		return fmt.Errorf("serve: register routes: %w", err)
	}
	logger.WithField("addr", cfg.Addr).Infof("back-office ready at %s", backoffice.JoinURL(cfg.BasePath, "backoffice"))
	return server.Serve(cfg.Addr)
}

type serveHTTPCmd struct {
	Addr string `help:"Listen address (overrides BACKOFFICE_ADDR)."`
}

func (cmd *serveHTTPCmd) Run(root *cli) error {
	cfg, logger, err := root.load()
	if err != nil {
		return err
	}
	if cmd.Addr != "" {
		cfg.Addr = cmd.Addr
	}
	a, err := newApp(context.Background(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	handlers := &httpapi.Handlers{
		Pages:   a.controller,
		Actions: a.dispatcher,
		Unmount: a.unmount,
		State:   a.state,
		Events:  a.hook,
		Logger:  logger,
	}
	var middleware []func(http.Handler) http.Handler
	if a.sessions != nil {
		middleware = append(middleware, a.sessions.LoadAndSave)
	}
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewRouter(handlers, backoffice.JoinURL(cfg.BasePath, "backoffice"), middleware...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	errs := make(chan error, 1)
	go func() {
		logger.WithField("addr", cfg.Addr).Info("back-office listening")
		errs <- srv.ListenAndServe()
	}()
	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdown)
}

type renderCmd struct {
	Out    string `short:"o" type:"path" help:"Write the HTML to this file instead of stdout."`
	User   string `help:"Viewer user id."`
	Locale string `default:"en" help:"Viewer locale."`
}

func (cmd *renderCmd) Run(root *cli) error {
	cfg, logger, err := root.load()
	if err != nil {
		return err
	}
	a, err := newApp(context.Background(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := backoffice.ContextWithViewer(context.Background(), backoffice.ViewerContext{UserID: cmd.User, Locale: cmd.Locale})
	view, err := a.controller.Mount(ctx)
	if err != nil {
		return err
	}
	var out io.Writer = os.Stdout
	if cmd.Out != "" {
		file, err := os.Create(cmd.Out)
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		defer file.Close()
		out = file
	}
	return a.controller.RenderTemplate(ctx, view, out)
}

type summaryCmd struct{}

func (cmd *summaryCmd) Run(root *cli) error {
	cfg, logger, err := root.load()
	if err != nil {
		return err
	}
	a, err := newApp(context.Background(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()
	view, err := a.service.Mount(ctx)
	if err != nil {
		return err
	}
	shell := view.Shell(ctx)
	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	for _, stat := range shell.Stats {
		fmt.Fprintf(w, "%s\t%s\n", stat.Title, stat.Value)
	}
	snapshot := view.Model.Snapshot()
	fmt.Fprintf(w, "Products\t%s\n", humanize.Comma(int64(len(snapshot.Products))))
	fmt.Fprintf(w, "Users\t%s\n", humanize.Comma(int64(len(snapshot.Users))))
	fmt.Fprintf(w, "Transactions\t%s\n", humanize.Comma(int64(len(snapshot.Transactions))))
	for _, chip := range shell.CategoryChips {
		fmt.Fprintf(w, "  %s\t%d\n", chip.Name, chip.Count)
	}
	return w.Flush()
}

type modalsCmd struct {
	Export bool `help:"Write the catalog as a YAML manifest."`
}

func (cmd *modalsCmd) Run(root *cli) error {
	cfg, _, err := root.load()
	if err != nil {
		return err
	}
	manifest := backoffice.DefaultModalManifest()
	if cfg.ModalManifest != "" {
		if manifest, err = backoffice.ReadModalManifest(cfg.ModalManifest); err != nil {
			return err
		}
	}
	if cmd.Export {
		return manifest.Encode(os.Stdout)
	}
	defs := append([]backoffice.ModalDefinition(nil), manifest.Modals...)
	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })
	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tFORM")
	for _, def := range defs {
		form := "-"
		if def.Form != nil {
			form = def.Form.Action
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", def.ID, def.Title, form)
	}
	return w.Flush()
}

type seedCmd struct {
	Snapshot string `arg:"" type:"existingfile" help:"JSON snapshot payload to load."`
	DB       string `type:"path" help:"SQLite database path (overrides BACKOFFICE_DB_PATH)."`
}

func (cmd *seedCmd) Run(root *cli) error {
	cfg, logger, err := root.load()
	if err != nil {
		return err
	}
	path := cmd.DB
	if path == "" {
		path = cfg.DatabasePath
	}
	if path == "" {
		return errors.New("seed: database path is required (--db or BACKOFFICE_DB_PATH)")
	}
	ctx := context.Background()
	snapshot, err := backoffice.FileSnapshotProvider{Path: cmd.Snapshot}.Snapshot(ctx)
	if err != nil {
		return err
	}
	store, err := sqlsource.Open(ctx, path)
	if err != nil {
		return err
	}
	defer store.Close()

	seed := commands.NewSeedSnapshotCommand(store, backoffice.NewLogTelemetry(logger))
	if err := seed.Execute(ctx, commands.SeedSnapshotInput{Snapshot: snapshot}); err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{"db": path, "products": len(snapshot.Products)}).Info("snapshot seeded")
	return nil
}
