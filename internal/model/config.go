package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// APIConfig points the client at the backend.
type APIConfig struct {
	// BaseURL is the root URL of the backend (e.g., http://localhost:8000).
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec bounds every HTTP request.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// AuthConfig configures the browser login round trip.
type AuthConfig struct {
	// CallbackAddr is where the backend's post-login redirect lands.
	CallbackAddr string `mapstructure:"callback_addr" yaml:"callback_addr"`

	// OpenBrowser controls whether the authorization URL is opened
	// automatically; when false it is only shown on screen.
	OpenBrowser bool `mapstructure:"open_browser" yaml:"open_browser"`
}

// SessionConfig selects where the signed-in user id is persisted.
type SessionConfig struct {
	// Backend is "sqlite" or "keyring".
	Backend string `mapstructure:"backend" yaml:"backend"`

	// DBPath is the sqlite database used by the sqlite backend.
	DBPath string `mapstructure:"db_path" yaml:"db_path"`
}

// InboxConfig holds list and sync tuning.
type InboxConfig struct {
	PageSize           int `mapstructure:"page_size" yaml:"page_size"`
	SyncMaxResults     int `mapstructure:"sync_max_results" yaml:"sync_max_results"`
	RefreshIntervalSec int `mapstructure:"refresh_interval_sec" yaml:"refresh_interval_sec"`
}

// NaverConfig holds settings for linking a Naver mailbox.
type NaverConfig struct {
	VerifyIMAP bool   `mapstructure:"verify_imap" yaml:"verify_imap"`
	IMAPAddr   string `mapstructure:"imap_addr" yaml:"imap_addr"`
}

// LogConfig controls the file logger.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	API     APIConfig     `mapstructure:"api" yaml:"api"`
	Auth    AuthConfig    `mapstructure:"auth" yaml:"auth"`
	Session SessionConfig `mapstructure:"session" yaml:"session"`
	Inbox   InboxConfig   `mapstructure:"inbox" yaml:"inbox"`
	Naver   NaverConfig   `mapstructure:"naver" yaml:"naver"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// ConfigDir returns ~/.config/mailorganizer.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "mailorganizer")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/mailorganizer/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	dir := ConfigDir()
	return &AppConfig{
		API: APIConfig{
			BaseURL:    "http://localhost:8000",
			TimeoutSec: 30,
		},
		Auth: AuthConfig{
			CallbackAddr: "localhost:3000",
			OpenBrowser:  true,
		},
		Session: SessionConfig{
			Backend: "sqlite",
			DBPath:  filepath.Join(dir, "session.db"),
		},
		Inbox: InboxConfig{
			PageSize:       20,
			SyncMaxResults: 50,
		},
		Naver: NaverConfig{
			IMAPAddr: "imap.naver.com:993",
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(dir, "mailorganizer.log"),
		},
	}
}

// setDefaults mirrors defaultAppConfig so that missing keys and
// MAILORG_* environment overrides resolve against the same values.
func setDefaults(v *viper.Viper, d *AppConfig) {
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout_sec", d.API.TimeoutSec)
	v.SetDefault("auth.callback_addr", d.Auth.CallbackAddr)
	v.SetDefault("auth.open_browser", d.Auth.OpenBrowser)
	v.SetDefault("session.backend", d.Session.Backend)
	v.SetDefault("session.db_path", d.Session.DBPath)
	v.SetDefault("inbox.page_size", d.Inbox.PageSize)
	v.SetDefault("inbox.sync_max_results", d.Inbox.SyncMaxResults)
	v.SetDefault("inbox.refresh_interval_sec", d.Inbox.RefreshIntervalSec)
	v.SetDefault("naver.verify_imap", d.Naver.VerifyIMAP)
	v.SetDefault("naver.imap_addr", d.Naver.IMAPAddr)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// Environment variables prefixed with MAILORG_ override file values
// (MAILORG_API_BASE_URL sets api.base_url). A missing file is not an error.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("MAILORG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, defaultAppConfig())

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathErr *os.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")
	if cfg.Inbox.PageSize <= 0 || cfg.Inbox.PageSize > 100 {
		cfg.Inbox.PageSize = 20
	}
	if cfg.Inbox.SyncMaxResults <= 0 {
		cfg.Inbox.SyncMaxResults = 50
	}
	if cfg.Session.Backend != "sqlite" && cfg.Session.Backend != "keyring" {
		return nil, fmt.Errorf("config %s: unknown session backend %q", path, cfg.Session.Backend)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api", cfg.API)
	v.Set("auth", cfg.Auth)
	v.Set("session", cfg.Session)
	v.Set("inbox", cfg.Inbox)
	v.Set("naver", cfg.Naver)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
