package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestKV_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	path := SessionDBPath(t.TempDir())

	kv, err := OpenKV(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })

	if _, ok, err := kv.Get(ctx, "auth_token"); err != nil || ok {
		t.Fatalf("expected missing key; ok=%v err=%v", ok, err)
	}
	if err := kv.Set(ctx, "auth_token", "a.b.c"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Set(ctx, "auth_token", "d.e.f"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, ok, err := kv.Get(ctx, "auth_token")
	if err != nil || !ok || v != "d.e.f" {
		t.Fatalf("get: v=%q ok=%v err=%v", v, ok, err)
	}
	if err := kv.Delete(ctx, "auth_token"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := kv.Delete(ctx, "auth_token"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, "auth_token"); ok {
		t.Fatalf("expected key removed")
	}
}

func TestKV_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := SessionDBPath(t.TempDir())

	kv, err := OpenKV(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := kv.Set(ctx, "auth_cookies", "jwt=abc"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := kv.Set(ctx, "x", "y"); err != ErrClosed {
		t.Fatalf("expected ErrClosed after close, got %v", err)
	}

	kv2, err := OpenKV(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = kv2.Close() })
	v, ok, err := kv2.Get(ctx, "auth_cookies")
	if err != nil || !ok || v != "jwt=abc" {
		t.Fatalf("after reopen: v=%q ok=%v err=%v", v, ok, err)
	}
}

func TestLoadConfig_MissingFileYieldsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BaseURL != DefaultBaseURL || cfg.PageSize != DefaultPageSize || cfg.Timeout != DefaultTimeout {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Cook.EmptyOnServerError == nil || !*cfg.Cook.EmptyOnServerError {
		t.Fatalf("expected cook leniency on by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadConfig_ReadsYAML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	body := strings.Join([]string{
		"base_url: https://pos.example.com/api/v1/",
		"timeout: 3s",
		"page_size: 25",
		"log:",
		"  level: debug",
		"cook:",
		"  empty_on_server_error: false",
		"",
	}, "\n")
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BaseURL != "https://pos.example.com/api/v1" {
		t.Fatalf("trailing slash should be trimmed: %q", cfg.BaseURL)
	}
	if cfg.Timeout != 3*time.Second || cfg.PageSize != 25 || cfg.Log.Level != "debug" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if *cfg.Cook.EmptyOnServerError {
		t.Fatalf("expected leniency disabled")
	}
}

func TestSaveConfig_WritesBackup(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := DefaultConfig()
	if err := SaveConfig(dir, cfg); err != nil {
		t.Fatalf("save 1: %v", err)
	}
	cfg.PageSize = 50
	if err := SaveConfig(dir, cfg); err != nil {
		t.Fatalf("save 2: %v", err)
	}
	if _, err := os.Stat(ConfigPath(dir) + ".bak"); err != nil {
		t.Fatalf("expected backup file: %v", err)
	}
	got, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.PageSize != 50 {
		t.Fatalf("expected page size 50, got %d", got.PageSize)
	}
}

func TestConfig_ValidateRejectsBadValues(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.BaseURL = "ftp://nope"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected base_url error")
	}
	cfg = DefaultConfig()
	cfg.Trace.Exporter = "jaeger"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected exporter error")
	}
}

func TestConfig_ValidateSlideLeavesRoomForMargin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		track   float64
		height  float64
		wantErr bool
	}{
		{name: "defaults", track: 400, height: 60},
		{name: "just long enough", track: 111, height: 60},
		{name: "margin swallows the track", track: 110, height: 60, wantErr: true},
		{name: "shorter than margin", track: 100, height: 60, wantErr: true},
		{name: "shorter than thumb", track: 50, height: 60, wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			cfg.Slide = SlideConfig{TrackWidth: tt.track, Height: tt.height}
			err := cfg.Validate()
			if tt.wantErr != (err != nil) {
				t.Fatalf("Validate(track=%v, height=%v) err = %v, wantErr %v", tt.track, tt.height, err, tt.wantErr)
			}
		})
	}
}

func TestLoadEnv_DotEnvThenApplyEnv(t *testing.T) {
	dir := t.TempDir()
	body := "SELLER_BASE_URL=https://env.example.com/api/v1/\nSELLER_PAGE_SIZE=5\nSELLER_LOG_LEVEL=debug\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	// Already-set variables win over the file.
	t.Setenv("SELLER_LOG_LEVEL", "error")
	t.Setenv("SELLER_BASE_URL", "")
	t.Setenv("SELLER_PAGE_SIZE", "")
	_ = os.Unsetenv("SELLER_BASE_URL")
	_ = os.Unsetenv("SELLER_PAGE_SIZE")

	if err := LoadEnv(dir); err != nil {
		t.Fatalf("load env: %v", err)
	}
	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if cfg.BaseURL != "https://env.example.com/api/v1" || cfg.PageSize != 5 || cfg.Log.Level != "error" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadEnv_MissingFileIsFine(t *testing.T) {
	t.Parallel()

	if err := LoadEnv(t.TempDir()); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestApplyEnv_RejectsBadPageSize(t *testing.T) {
	t.Setenv("SELLER_PAGE_SIZE", "lots")
	if err := DefaultConfig().ApplyEnv(); err == nil {
		t.Fatalf("expected page size error")
	}
}
