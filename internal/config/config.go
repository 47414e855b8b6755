package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Reader   ReaderConfig
	Frame    FrameConfig
	Database DatabaseConfig
	Log      LogConfig
}

// ReaderConfig holds reading surface settings.
type ReaderConfig struct {
	Backend    string `mapstructure:"backend"`     // epubjs | readium
	DefaultURL string `mapstructure:"default_url"` // publication opened on startup
	ScriptURL  string `mapstructure:"script_url"`  // renderer library the bootstrap page loads
	Theme      string `mapstructure:"theme"`       // light | dark | sepia
	FontSize   int    `mapstructure:"font_size"`
}

// FrameConfig holds embedded frame settings.
type FrameConfig struct {
	ListenAddr         string `mapstructure:"listen_addr"`
	SettleDelayMs      int    `mapstructure:"settle_delay_ms"`
	HandshakeTimeoutMs int    `mapstructure:"handshake_timeout_ms"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// LogConfig holds log file settings.
type LogConfig struct {
	Path  string
	Level string
}

// SettleDelay returns the frame settle delay as a duration.
func (f FrameConfig) SettleDelay() time.Duration {
	return time.Duration(f.SettleDelayMs) * time.Millisecond
}

// HandshakeTimeout returns the handshake deadline as a duration.
func (f FrameConfig) HandshakeTimeout() time.Duration {
	return time.Duration(f.HandshakeTimeoutMs) * time.Millisecond
}

// Default returns the built-in configuration, ignoring files and env.
func Default() Config {
	return Config{
		Reader: ReaderConfig{
			Backend:    "epubjs",
			DefaultURL: "https://s3.amazonaws.com/moby-dick/moby-dick.epub",
			ScriptURL:  "https://cdn.jsdelivr.net/npm/epubjs/dist/epub.min.js",
			Theme:      "light",
			FontSize:   16,
		},
		Frame: FrameConfig{
			ListenAddr:         "127.0.0.1:0",
			SettleDelayMs:      500,
			HandshakeTimeoutMs: 10000,
		},
		Database: DatabaseConfig{
			Path: filepath.Join(os.Getenv("HOME"), ".local", "share", "folio", "folio.db"),
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads configuration from file and env. Env var overrides use prefix FOLIO_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	d := Default()
	v.SetDefault("reader.backend", d.Reader.Backend)
	v.SetDefault("reader.default_url", d.Reader.DefaultURL)
	v.SetDefault("reader.script_url", d.Reader.ScriptURL)
	v.SetDefault("reader.theme", d.Reader.Theme)
	v.SetDefault("reader.font_size", d.Reader.FontSize)
	v.SetDefault("frame.listen_addr", d.Frame.ListenAddr)
	v.SetDefault("frame.settle_delay_ms", d.Frame.SettleDelayMs)
	v.SetDefault("frame.handshake_timeout_ms", d.Frame.HandshakeTimeoutMs)
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("log.path", d.Log.Path)
	v.SetDefault("log.level", d.Log.Level)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("FOLIO_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "folio"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("FOLIO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if
// needed. Used by the TUI settings flow for non-sensitive preferences.
func Save(cfg Config) error {
	path := os.Getenv("FOLIO_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "folio", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("reader.backend", cfg.Reader.Backend)
	v.Set("reader.default_url", cfg.Reader.DefaultURL)
	v.Set("reader.script_url", cfg.Reader.ScriptURL)
	v.Set("reader.theme", cfg.Reader.Theme)
	v.Set("reader.font_size", cfg.Reader.FontSize)
	v.Set("frame.listen_addr", cfg.Frame.ListenAddr)
	v.Set("frame.settle_delay_ms", cfg.Frame.SettleDelayMs)
	v.Set("frame.handshake_timeout_ms", cfg.Frame.HandshakeTimeoutMs)
	v.Set("database.path", cfg.Database.Path)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
