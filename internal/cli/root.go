package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"seller-cli/internal/api"
	"seller-cli/internal/format"
	"seller-cli/internal/logging"
	"seller-cli/internal/orders"
	"seller-cli/internal/session"
	"seller-cli/internal/store"
	"seller-cli/internal/telemetry"
	"seller-cli/internal/tui"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Version is stamped by the build.
var Version = "dev"

type App struct {
	ConfigDir  string
	BaseURL    string
	PrettyJSON bool
	Format     string
	Trace      string

	cfg      *store.Config
	log      zerolog.Logger
	closeLog func() error
	traceOut *os.File
	tel      *telemetry.Provider
	kv       *store.KV
	sess     *session.Session
	client   *api.Client
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "seller",
		Short:        "Seller point-of-sale CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  seller

  # Log in with a one-time code
  seller login request --phone +66812345678
  seller login verify --phone +66812345678 --otp 123456

  # Work the queue from scripts
  seller orders cook
  seller orders complete 0f3c2a1e

  # Receipt for an order (shortcut for: seller orders receipt <order-id>)
  seller 0f3c2a1e-9b7d-4c55-8e21-6a1b2c3d4e5f
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !format.Valid(app.Format) {
			return writeErr(cmd, fmt.Errorf("unknown format %q (expected json|yaml)", app.Format))
		}
		return nil
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return app.close(cmd.Context())
	}

	cmd.PersistentFlags().StringVar(&app.ConfigDir, "config-dir", envOr("SELLER_CONFIG_DIR", ""), "Config/session directory (default ~/.seller)")
	cmd.PersistentFlags().StringVar(&app.BaseURL, "base-url", "", "API base URL (overrides config and SELLER_BASE_URL)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("SELLER_FORMAT", "json"), "Output format (json|yaml)")
	cmd.PersistentFlags().StringVar(&app.Trace, "trace", "", "Trace exporter (none|stdout|otlp); overrides config")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newOrdersCmd(app))
	cmd.AddCommand(newStoreCmd(app))
	cmd.AddCommand(newMerchantCmd(app))
	cmd.AddCommand(newMenuCmd(app))
	cmd.AddCommand(newQueueCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newMockServerCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	if err := app.open(cmd.Context()); err != nil {
		return writeErr(cmd, err)
	}
	return tui.Run(tui.Deps{
		Session:  app.sess,
		Client:   app.client,
		Logger:   app.log,
		PageSize: app.cfg.PageSize,
		Slide:    app.cfg.Slide,
		Cook: orders.CookOptions{
			EmptyOnServerError: *app.cfg.Cook.EmptyOnServerError,
		},
	})
}

// configDir resolves --config-dir, then SELLER_CONFIG_DIR, then ~/.seller.
func (app *App) configDir() (string, error) {
	if strings.TrimSpace(app.ConfigDir) != "" {
		return app.ConfigDir, nil
	}
	d, err := store.ConfigDir()
	if err != nil {
		return "", err
	}
	app.ConfigDir = d
	return d, nil
}

// loadConfig reads config.yaml plus .env and SELLER_* overrides, then flags.
func (app *App) loadConfig() (*store.Config, error) {
	if app.cfg != nil {
		return app.cfg, nil
	}
	dir, err := app.configDir()
	if err != nil {
		return nil, err
	}
	if err := store.LoadEnv(dir); err != nil {
		return nil, err
	}
	cfg, err := store.LoadConfig(dir)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(app.BaseURL); v != "" {
		cfg.BaseURL = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(app.Trace); v != "" {
		cfg.Trace.Exporter = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	app.cfg = cfg
	return cfg, nil
}

// open wires logging, tracing, the durable session and the API client.
// Commands that talk to the backend call it first; it is idempotent.
func (app *App) open(ctx context.Context) error {
	if app.client != nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := app.loadConfig()
	if err != nil {
		return err
	}
	dir := app.ConfigDir

	log, closeLog, err := logging.Open(logging.Options{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Format:  cfg.Log.Format,
		Dir:     dir,
		Service: "seller",
	})
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	app.log, app.closeLog = log, closeLog

	var traceW io.Writer = os.Stderr
	if cfg.Trace.Exporter == telemetry.ExporterStdout && cfg.Trace.File != "" {
		path := cfg.Trace.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("open trace file: %w", err)
		}
		app.traceOut = f
		traceW = f
	}
	tel, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName: "seller-cli",
		Version:     Version,
		Exporter:    cfg.Trace.Exporter,
		Endpoint:    cfg.Trace.Endpoint,
		Writer:      traceW,
	})
	if err != nil {
		return err
	}
	app.tel = tel

	kv, err := store.OpenKV(ctx, store.SessionDBPath(dir))
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	app.kv = kv
	app.sess = session.New(kv, log)
	app.sess.Load(ctx)

	hc := tel.HTTPClient(nil)
	hc.Timeout = cfg.Timeout
	client, err := api.New(api.Options{
		BaseURL:     cfg.BaseURL,
		HTTPClient:  hc,
		Credentials: app.sess,
		Logger:      log,
		Tracer:      tel.Tracer(),
		Meter:       tel.Meter(),
	})
	if err != nil {
		return err
	}
	app.client = client
	return nil
}

func (app *App) close(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	var errs []error
	if app.tel != nil {
		sctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		errs = append(errs, app.tel.Shutdown(sctx))
		cancel()
		app.tel = nil
	}
	if app.traceOut != nil {
		errs = append(errs, app.traceOut.Close())
		app.traceOut = nil
	}
	if app.kv != nil {
		errs = append(errs, app.kv.Close())
		app.kv = nil
	}
	if app.closeLog != nil {
		errs = append(errs, app.closeLog())
		app.closeLog = nil
	}
	app.client = nil
	return errors.Join(errs...)
}

// requireLogin opens the app and fails when no token is stored.
func requireLogin(cmd *cobra.Command, app *App) error {
	if err := app.open(cmd.Context()); err != nil {
		return err
	}
	if !app.sess.IsAuthenticated() {
		return errNotLoggedIn
	}
	return nil
}

// stderrNotifier prints view-model alerts next to command output.
func stderrNotifier(cmd *cobra.Command) orders.Notifier {
	return orders.NotifierFunc(func(a orders.Alert) {
		fmt.Fprintf(cmd.ErrOrStderr(), "[%s] %s: %s\n", a.Kind, a.Title, a.Message)
	})
}

func (app *App) viewOptions(cmd *cobra.Command) orders.Options {
	return orders.Options{
		Logger:   app.log,
		Notifier: stderrNotifier(cmd),
		PageSize: app.cfg.PageSize,
	}
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
