package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"seller-cli/internal/logging"
	"seller-cli/internal/store"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change config.yaml",
	}
	cmd.AddCommand(newConfigShowCmd(app))
	cmd.AddCommand(newConfigSetCmd(app))
	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective config (file, .env, SELLER_* and flags applied)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": cfg,
				"meta": map[string]any{"path": store.ConfigPath(app.ConfigDir)},
			})
		},
	}
}

// configKeys are the settable keys, in help order.
var configKeys = []string{
	"base_url", "timeout", "page_size",
	"log.level", "log.format", "log.file",
	"trace.exporter", "trace.endpoint",
	"slide.track_width", "slide.height",
	"cook.empty_on_server_error",
}

func newConfigSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one config key and save config.yaml",
		Long:  "Keys: " + strings.Join(configKeys, ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := app.configDir()
			if err != nil {
				return writeErr(cmd, err)
			}
			// Start from the file alone so env and flag overrides are not persisted.
			cfg, err := store.LoadConfig(dir)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := setConfigKey(cfg, args[0], args[1]); err != nil {
				return writeErr(cmd, err)
			}
			if err := cfg.Validate(); err != nil {
				return writeErr(cmd, err)
			}
			if err := store.SaveConfig(dir, cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": cfg,
				"meta": map[string]any{"path": store.ConfigPath(dir), "key": args[0]},
			})
		},
	}
}

func setConfigKey(cfg *store.Config, key, value string) error {
	value = strings.TrimSpace(value)
	num := func() (float64, error) {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return 0, fmt.Errorf("%s must be a positive number: %q", key, value)
		}
		return f, nil
	}
	switch key {
	case "base_url":
		cfg.BaseURL = strings.TrimRight(value, "/")
	case "timeout":
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return fmt.Errorf("timeout must be a positive duration like 15s: %q", value)
		}
		cfg.Timeout = d
	case "page_size":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("page_size must be a positive integer: %q", value)
		}
		cfg.PageSize = n
	case "log.level":
		if _, err := logging.ParseLevel(value); err != nil {
			return err
		}
		cfg.Log.Level = value
	case "log.format":
		if value != "text" && value != "json" {
			return fmt.Errorf("log.format must be text|json: %q", value)
		}
		cfg.Log.Format = value
	case "log.file":
		cfg.Log.File = value
	case "trace.exporter":
		cfg.Trace.Exporter = value
	case "trace.endpoint":
		cfg.Trace.Endpoint = value
	case "slide.track_width":
		f, err := num()
		if err != nil {
			return err
		}
		cfg.Slide.TrackWidth = f
	case "slide.height":
		f, err := num()
		if err != nil {
			return err
		}
		cfg.Slide.Height = f
	case "cook.empty_on_server_error":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false: %q", key, value)
		}
		cfg.Cook.EmptyOnServerError = &b
	default:
		return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(configKeys, ", "))
	}
	return nil
}
