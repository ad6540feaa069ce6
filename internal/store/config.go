package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"strconv"
	"time"

	"seller-cli/internal/slide"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL  = "http://localhost:8080/api/v1"
	DefaultTimeout  = 15 * time.Second
	DefaultPageSize = 10

	configFileName = "config.yaml"
	envFileName    = ".env"
)

type Config struct {
	// BaseURL is the API root every endpoint path is appended to.
	BaseURL  string        `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	Timeout  time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	PageSize int           `yaml:"page_size,omitempty" json:"page_size,omitempty"`

	Log   LogConfig   `yaml:"log,omitempty" json:"log,omitempty"`
	Trace TraceConfig `yaml:"trace,omitempty" json:"trace,omitempty"`
	Slide SlideConfig `yaml:"slide,omitempty" json:"slide,omitempty"`
	Cook  CookConfig  `yaml:"cook,omitempty" json:"cook,omitempty"`
}

type LogConfig struct {
	// Level is one of debug|info|warn|error.
	Level string `yaml:"level,omitempty" json:"level,omitempty"`
	// File defaults to seller.log in the config dir. "-" disables logging.
	File string `yaml:"file,omitempty" json:"file,omitempty"`
	// Format is text or json.
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
}

type TraceConfig struct {
	// Exporter is none|stdout|otlp.
	Exporter string `yaml:"exporter,omitempty" json:"exporter,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	// File receives stdout-exporter spans; empty means stderr.
	File string `yaml:"file,omitempty" json:"file,omitempty"`
}

type SlideConfig struct {
	Height     float64 `yaml:"height,omitempty" json:"height,omitempty"`
	TrackWidth float64 `yaml:"track_width,omitempty" json:"track_width,omitempty"`
}

type CookConfig struct {
	// EmptyOnServerError downgrades HTTP 500 / "no data" on the cook queue to an empty list.
	EmptyOnServerError *bool `yaml:"empty_on_server_error,omitempty" json:"empty_on_server_error,omitempty"`
}

func DefaultConfig() *Config {
	on := true
	return &Config{
		BaseURL:  DefaultBaseURL,
		Timeout:  DefaultTimeout,
		PageSize: DefaultPageSize,
		Log:      LogConfig{Level: "info", Format: "text"},
		Trace:    TraceConfig{Exporter: "none"},
		Slide:    SlideConfig{Height: 60, TrackWidth: 400},
		Cook:     CookConfig{EmptyOnServerError: &on},
	}
}

// ApplyDefaults fills zero-valued fields from DefaultConfig.
func (c *Config) ApplyDefaults() {
	d := DefaultConfig()
	if strings.TrimSpace(c.BaseURL) == "" {
		c.BaseURL = d.BaseURL
	}
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.PageSize <= 0 {
		c.PageSize = d.PageSize
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Trace.Exporter == "" {
		c.Trace.Exporter = d.Trace.Exporter
	}
	if c.Slide.Height <= 0 {
		c.Slide.Height = d.Slide.Height
	}
	if c.Slide.TrackWidth <= 0 {
		c.Slide.TrackWidth = d.Slide.TrackWidth
	}
	if c.Cook.EmptyOnServerError == nil {
		c.Cook.EmptyOnServerError = d.Cook.EmptyOnServerError
	}
}

func (c *Config) Validate() error {
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("base_url must be an http(s) URL: %q", c.BaseURL)
	}
	switch c.Trace.Exporter {
	case "none", "stdout", "otlp":
	default:
		return fmt.Errorf("trace.exporter must be none|stdout|otlp: %q", c.Trace.Exporter)
	}
	if c.Slide.TrackWidth <= c.Slide.Height+slide.ReleaseMargin {
		return fmt.Errorf("slide.track_width must be larger than slide.height + %d: %v <= %v + %d",
			slide.ReleaseMargin, c.Slide.TrackWidth, c.Slide.Height, slide.ReleaseMargin)
	}
	return nil
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.seller).
	if v := strings.TrimSpace(os.Getenv("SELLER_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".seller"), nil
}

func ConfigPath(dir string) string {
	return filepath.Join(dir, configFileName)
}

// LoadConfig reads config.yaml from dir. A missing file yields defaults.
func LoadConfig(dir string) (*Config, error) {
	cfg := &Config{}
	b, err := os.ReadFile(ConfigPath(dir))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if len(b) > 0 {
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", ConfigPath(dir), err)
		}
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// LoadEnv loads dir/.env into the process environment. Variables that are
// already set win. A missing file is not an error.
func LoadEnv(dir string) error {
	path := filepath.Join(dir, envFileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides config values from SELLER_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := strings.TrimSpace(os.Getenv("SELLER_BASE_URL")); v != "" {
		c.BaseURL = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(os.Getenv("SELLER_PAGE_SIZE")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("SELLER_PAGE_SIZE must be a positive integer: %q", v)
		}
		c.PageSize = n
	}
	if v := strings.TrimSpace(os.Getenv("SELLER_LOG_LEVEL")); v != "" {
		c.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("SELLER_TRACE_EXPORTER")); v != "" {
		c.Trace.Exporter = v
	}
	if v := strings.TrimSpace(os.Getenv("SELLER_TRACE_ENDPOINT")); v != "" {
		c.Trace.Endpoint = v
	}
	return nil
}

func SaveConfig(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	path := ConfigPath(dir)

	// Keep a copy of the previous config; ignore errors so a bad backup never blocks a save.
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomicWriteFile(dir, "config.yaml.bak.*.tmp", path+".bak", prev, 0o644)
	}
	return atomicWriteFile(dir, "config.yaml.*.tmp", path, b, 0o600)
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
