// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

const (
	KeyBackendFile    = "file"
	KeyBackendKeyring = "keyring"
)

// Config represents the application configuration
type Config struct {
	PollIntervalMs       int    `toml:"poll_interval_ms"`
	RetentionDays        int    `toml:"retention_days"`
	RecentLimit          int    `toml:"recent_limit"`
	PreviewChars         int    `toml:"preview_chars"`
	SearchDepth          int    `toml:"search_depth"`
	MaxPayloadBytes      int    `toml:"max_payload_bytes"`
	SweepIntervalMinutes int    `toml:"sweep_interval_minutes"`
	EventQueueSize       int    `toml:"event_queue_size"`
	DrainIntervalMs      int    `toml:"drain_interval_ms"`
	ThumbnailSize        int    `toml:"thumbnail_size"`
	KeyBackend           string `toml:"key_backend"`
	// KeyFile and Database default to the XDG data directory when empty.
	KeyFile  string `toml:"key_file"`
	Database string `toml:"database"`
	Theme    Theme  `toml:"theme_colors"`
	Keys     KeyMap `toml:"keys"`
}

// Theme defines the color palette
type Theme struct {
	TextPrimary   string `toml:"text_primary"`
	TextSecondary string `toml:"text_secondary"`
	TextFaint     string `toml:"text_faint"`
	Accent        string `toml:"accent"`
	Success       string `toml:"success"`
	Error         string `toml:"error"`
	Highlight     string `toml:"highlight"`
	Warning       string `toml:"warning"`
	BgPrimary     string `toml:"bg_primary"`
	BgSecondary   string `toml:"bg_secondary"`
	CardBg        string `toml:"card_bg"`
}

// KeyMap defines key bindings
type KeyMap struct {
	Up      []string `toml:"up"`
	Down    []string `toml:"down"`
	Accept  []string `toml:"accept"`
	Cancel  []string `toml:"cancel"`
	Toggle  []string `toml:"toggle"`
	Inspect []string `toml:"inspect"`
	Quit    []string `toml:"quit"`
	Clear   []string `toml:"clear"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		PollIntervalMs:       500,
		RetentionDays:        7,
		RecentLimit:          20,
		PreviewChars:         60,
		SearchDepth:          1000,
		MaxPayloadBytes:      10 << 20,
		SweepIntervalMinutes: 60,
		EventQueueSize:       64,
		DrainIntervalMs:      50,
		ThumbnailSize:        128,
		KeyBackend:           KeyBackendFile,
		Theme: Theme{
			// Nord Theme Defaults
			TextPrimary:   "#D8DEE9",
			TextSecondary: "#81A1C1",
			TextFaint:     "#4C566A",
			Accent:        "#88C0D0",
			Success:       "#A3BE8C",
			Error:         "#BF616A",
			Highlight:     "#8FBCBB",
			Warning:       "#D08770",
			BgPrimary:     "#2E3440",
			BgSecondary:   "#3B4252",
			CardBg:        "#434C5E",
		},
		Keys: KeyMap{
			Up:      []string{"up", "ctrl+p", "ctrl+k"},
			Down:    []string{"down", "ctrl+n", "ctrl+j"},
			Accept:  []string{"enter"},
			Cancel:  []string{"esc"},
			Toggle:  []string{"ctrl+o"},
			Inspect: []string{"tab"},
			Quit:    []string{"ctrl+c"},
			Clear:   []string{"ctrl+x"},
		},
	}
}

// ConfigPath returns the XDG-compliant config file path
func ConfigPath() (string, error) {
	return xdg.ConfigFile("clipkeep/config.toml")
}

// Load loads the config from the XDG location, creating it on first run.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the config at path, writing defaults there if it does not
// exist yet.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		// First run: create default
		cfg := DefaultConfig()
		if err := cfg.SaveTo(path); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	// Populate defaults for missing fields (migration)
	if cfg.fillDefaults() {
		// Persist defaults so the user can see/edit them; a read-only
		// config is still usable in memory.
		_ = cfg.SaveTo(path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// fillDefaults replaces missing or non-positive values and reports whether
// anything changed. thumbnail_size is only filled when zero.
func (c *Config) fillDefaults() bool {
	d := DefaultConfig()
	updated := false

	ints := []struct {
		v   *int
		def int
	}{
		{&c.PollIntervalMs, d.PollIntervalMs},
		{&c.RetentionDays, d.RetentionDays},
		{&c.RecentLimit, d.RecentLimit},
		{&c.PreviewChars, d.PreviewChars},
		{&c.SearchDepth, d.SearchDepth},
		{&c.MaxPayloadBytes, d.MaxPayloadBytes},
		{&c.SweepIntervalMinutes, d.SweepIntervalMinutes},
		{&c.EventQueueSize, d.EventQueueSize},
		{&c.DrainIntervalMs, d.DrainIntervalMs},
	}
	for _, f := range ints {
		if *f.v <= 0 {
			*f.v = f.def
			updated = true
		}
	}

	// a negative thumbnail_size turns thumbnails off
	if c.ThumbnailSize == 0 {
		c.ThumbnailSize = d.ThumbnailSize
		updated = true
	}

	if c.KeyBackend == "" {
		c.KeyBackend = d.KeyBackend
		updated = true
	}
	if c.Theme.TextPrimary == "" {
		c.Theme = d.Theme
		updated = true
	}
	if len(c.Keys.Accept) == 0 {
		c.Keys = d.Keys
		updated = true
	}
	// added after the first release
	if len(c.Keys.Clear) == 0 {
		c.Keys.Clear = d.Keys.Clear
		updated = true
	}
	return updated
}

// Validate rejects settings that cannot be filled with a default.
func (c *Config) Validate() error {
	switch c.KeyBackend {
	case KeyBackendFile, KeyBackendKeyring:
	default:
		return fmt.Errorf("unknown key_backend %q (want %q or %q)", c.KeyBackend, KeyBackendFile, KeyBackendKeyring)
	}
	if c.SearchDepth < c.RecentLimit {
		return fmt.Errorf("search_depth (%d) must be at least recent_limit (%d)", c.SearchDepth, c.RecentLimit)
	}
	return nil
}

// Save writes the config to the XDG location
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to path
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists with secure permissions
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	// Create/truncate file with secure permissions (owner read/write only)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

func (c *Config) DrainInterval() time.Duration {
	return time.Duration(c.DrainIntervalMs) * time.Millisecond
}

func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalMinutes) * time.Minute
}

// Retention is the age after which entries are swept.
func (c *Config) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// DatabasePath returns the history database location.
func (c *Config) DatabasePath() (string, error) {
	if c.Database != "" {
		return c.Database, nil
	}
	return xdg.DataFile("clipkeep/history.db")
}

// KeyFilePath returns the master key file location.
func (c *Config) KeyFilePath() (string, error) {
	if c.KeyFile != "" {
		return c.KeyFile, nil
	}
	return xdg.DataFile("clipkeep/master.key")
}

// LogPath returns where the picker writes its log while the TUI owns the
// terminal.
func LogPath() (string, error) {
	return xdg.StateFile("clipkeep/clipkeep.log")
}
