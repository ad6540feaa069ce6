package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"seller-cli/internal/logging"
	"seller-cli/internal/mockapi"
	"seller-cli/internal/telemetry"

	"github.com/spf13/cobra"
)

func newMockServerCmd(app *App) *cobra.Command {
	var (
		addr      string
		otp       string
		seed      bool
		cookShape string
		logLevel  string
	)

	cmd := &cobra.Command{
		Use:   "mock-server",
		Short: "Run an in-memory backend for local development",
		Long: strings.TrimSpace(`
Run an in-memory stand-in for the seller backend.

It serves the same endpoints the CLI and TUI use under /api/v1, issues
one-time codes (printed to stderr) and JWT-shaped tokens, and keeps orders in
memory. Nothing survives a restart.
`),
		Example: strings.TrimSpace(`
# Fixed code and demo orders
seller mock-server --addr 127.0.0.1:8080 --otp 123456 --seed

# Point the client at it
seller --base-url http://127.0.0.1:8080/api/v1 login request --phone +66812345678
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				return writeErr(cmd, errors.New("mock-server: missing --addr"))
			}
			log, err := logging.New(cmd.ErrOrStderr(), logging.Options{Level: logLevel, Service: "seller-mock"})
			if err != nil {
				return writeErr(cmd, err)
			}
			srv := mockapi.New(mockapi.Options{
				Logger:    log,
				FixedOTP:  strings.TrimSpace(otp),
				Seed:      seed,
				CookShape: cookShape,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			exporter := app.Trace
			if exporter == "" {
				exporter = telemetry.ExporterNone
			}
			tel, err := telemetry.Setup(ctx, telemetry.Config{
				ServiceName: "seller-mock",
				Version:     Version,
				Exporter:    exporter,
				Writer:      cmd.ErrOrStderr(),
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}
			actualAddr := ln.Addr().String()
			base := "http://" + actualAddr + mockapi.DefaultPrefix

			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":      actualAddr,
					"baseUrl":   base,
					"seed":      seed,
					"fixedOtp":  otp != "",
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				"_hints": []string{"seller --base-url " + base + " login request --phone <phone>"},
			})
			fmt.Fprintf(cmd.ErrOrStderr(), "Seller mock backend running at %s\n", base)

			hs := &http.Server{
				Handler:           tel.Handler(srv.Handler(), "seller-mock"),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() { errCh <- hs.Serve(ln) }()

			select {
			case err := <-errCh:
				_ = tel.Shutdown(context.Background())
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return writeErr(cmd, err)
			case <-ctx.Done():
			}
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			err = hs.Shutdown(sctx)
			_ = tel.Shutdown(sctx)
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "Bind address (host:port or :port)")
	cmd.Flags().StringVar(&otp, "otp", "", "Issue this code for every phone instead of a random one")
	cmd.Flags().BoolVar(&seed, "seed", false, "Give every new merchant a few demo orders")
	cmd.Flags().StringVar(&cookShape, "cook-shape", mockapi.CookShapeOrdersUpper, "Cook queue envelope (Orders|orders|array|wrapped)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Request log level")
	return cmd
}

// NewMockServerCmd is the standalone mock backend command.
func NewMockServerCmd() *cobra.Command {
	app := &App{}
	cmd := newMockServerCmd(app)
	cmd.Use = "seller-mock"
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("SELLER_FORMAT", "json"), "Output format (json|yaml)")
	cmd.PersistentFlags().StringVar(&app.Trace, "trace", "", "Trace exporter (none|stdout|otlp)")
	return cmd
}
