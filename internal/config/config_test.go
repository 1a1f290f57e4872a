package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Download.Dir != DefaultDownloadDir {
		t.Fatalf("Download.Dir = %q, want %q", cfg.Download.Dir, DefaultDownloadDir)
	}
	if cfg.Download.MaxUploadBytes != DefaultMaxUploadBytes {
		t.Fatalf("Download.MaxUploadBytes = %d, want %d", cfg.Download.MaxUploadBytes, DefaultMaxUploadBytes)
	}
	if cfg.Session.Mode != SessionModeStore {
		t.Fatalf("Session.Mode = %q, want %q", cfg.Session.Mode, SessionModeStore)
	}
	if cfg.Session.MaxTokenBytes != DefaultMaxTokenBytes {
		t.Fatalf("Session.MaxTokenBytes = %d, want %d", cfg.Session.MaxTokenBytes, DefaultMaxTokenBytes)
	}
}

func TestLoad_FileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[telegram]
token = "123:abc"

[download]
dir = "/tmp/videos"
max_buttons = 5

[session]
mode = "token"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Telegram.Token != "123:abc" {
		t.Fatalf("Telegram.Token = %q", cfg.Telegram.Token)
	}
	if cfg.Download.Dir != "/tmp/videos" {
		t.Fatalf("Download.Dir = %q", cfg.Download.Dir)
	}
	if cfg.Download.MaxButtons != 5 {
		t.Fatalf("Download.MaxButtons = %d", cfg.Download.MaxButtons)
	}
	if cfg.Session.Mode != SessionModeToken {
		t.Fatalf("Session.Mode = %q", cfg.Session.Mode)
	}
	// Untouched sections keep defaults.
	if cfg.Server.Addr != DefaultHTTPAddr {
		t.Fatalf("Server.Addr = %q, want %q", cfg.Server.Addr, DefaultHTTPAddr)
	}
}

func TestLoad_EnvTokenOverlay(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "env-token")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Telegram.Token != "env-token" {
		t.Fatalf("Telegram.Token = %q, want env overlay", cfg.Telegram.Token)
	}
}

func TestLoad_InvalidSessionMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[session]\nmode = \"redis\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load() error = nil, want invalid mode error")
	}
}
