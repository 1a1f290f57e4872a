package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

const (
	DefaultConfigPath     = "config.toml"
	DefaultHTTPAddr       = ":8080"
	DefaultDownloadDir    = "downloads"
	DefaultContainer      = "mp4"
	DefaultMaxButtons     = 10
	DefaultMaxUploadBytes = 50 * 1024 * 1024
	DefaultMaxTokenBytes  = 64
	DefaultFetchTimeout   = 600
	DefaultProbeTimeout   = 60
	SessionModeStore      = "store"
	SessionModeToken      = "token"
)

type Config struct {
	Log      LogConfig      `toml:"log"`
	Telegram TelegramConfig `toml:"telegram"`
	Download DownloadConfig `toml:"download"`
	Session  SessionConfig  `toml:"session"`
	Server   ServerConfig   `toml:"server"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type TelegramConfig struct {
	Token string `toml:"token"`
}

type DownloadConfig struct {
	Dir                 string `toml:"dir"`
	Container           string `toml:"container"`
	MaxButtons          int    `toml:"max_buttons"`
	MaxUploadBytes      int64  `toml:"max_upload_bytes"`
	TimeoutSeconds      int    `toml:"timeout_seconds"`
	ProbeTimeoutSeconds int    `toml:"probe_timeout_seconds"`
	InstallYTDLP        bool   `toml:"install_ytdlp"`
}

type SessionConfig struct {
	Mode          string `toml:"mode"`
	MaxTokenBytes int    `toml:"max_token_bytes"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Download: DownloadConfig{
			Dir:                 DefaultDownloadDir,
			Container:           DefaultContainer,
			MaxButtons:          DefaultMaxButtons,
			MaxUploadBytes:      DefaultMaxUploadBytes,
			TimeoutSeconds:      DefaultFetchTimeout,
			ProbeTimeoutSeconds: DefaultProbeTimeout,
		},
		Session: SessionConfig{
			Mode:          SessionModeStore,
			MaxTokenBytes: DefaultMaxTokenBytes,
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			applyEnv(&cfg)
			return cfg, cfg.validate()
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	applyEnv(&cfg)
	return cfg, cfg.validate()
}

// applyEnv overlays secrets that should not live in the config file.
func applyEnv(cfg *Config) {
	if token := os.Getenv("TELEGRAM_TOKEN"); token != "" {
		cfg.Telegram.Token = token
	}
}

func (c Config) validate() error {
	switch c.Session.Mode {
	case SessionModeStore, SessionModeToken:
	default:
		return fmt.Errorf("session mode must be %q or %q, got %q", SessionModeStore, SessionModeToken, c.Session.Mode)
	}
	if c.Session.MaxTokenBytes <= 0 {
		return fmt.Errorf("session max_token_bytes must be greater than 0")
	}
	if c.Download.MaxUploadBytes <= 0 {
		return fmt.Errorf("download max_upload_bytes must be greater than 0")
	}
	if c.Download.MaxButtons <= 0 {
		return fmt.Errorf("download max_buttons must be greater than 0")
	}
	return nil
}
