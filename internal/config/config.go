package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Scan     ScanConfig     `yaml:"scan"`
	Page     PageConfig     `yaml:"page"`
	Tables   TablesConfig   `yaml:"tables"`
	Manifest ManifestConfig `yaml:"manifest,omitempty"`
	Daemon   DaemonConfig   `yaml:"daemon,omitempty"`
	Notify   NotifyConfig   `yaml:"notify,omitempty"`
}

// ScanConfig controls file enumeration.
type ScanConfig struct {
	Directory string   `yaml:"directory"`         // target directory, defaults to "."
	Output    string   `yaml:"output"`            // output filename inside the target directory
	Exclude   []string `yaml:"exclude,omitempty"` // exact filenames to skip, in addition to built-ins
}

// PageConfig controls static copy and optional extras on the generated page.
type PageConfig struct {
	Title     string `yaml:"title"`
	Subtitle  string `yaml:"subtitle,omitempty"`
	NotesFile string `yaml:"notes_file,omitempty"` // markdown file rendered into the page header
	GitDates  bool   `yaml:"git_dates,omitempty"`  // annotate cards with last commit dates
}

// TagClass pairs a CSS class with the human label shown on a supporting-file tag.
type TagClass struct {
	Class string `yaml:"class"`
	Label string `yaml:"label"`
}

// TablesConfig holds the classification lookup tables. All of them ship with
// defaults covering the recognized keys, so a custom config only needs to list
// overrides.
type TablesConfig struct {
	PageTitles       map[string]string   `yaml:"page_titles,omitempty"` // exact HTML filename -> title
	FileTitles       map[string]string   `yaml:"file_titles,omitempty"` // exact supporting filename -> title
	TagClasses       map[string]TagClass `yaml:"tag_classes,omitempty"` // extension (no dot) -> tag
	Priority         []string            `yaml:"priority,omitempty"`    // HTML filenames pinned to the front, in order
	ConventionPrefix string              `yaml:"convention_prefix,omitempty"`
	ConventionLabel  string              `yaml:"convention_label,omitempty"`
	CategoryTag      string              `yaml:"category_tag,omitempty"` // second fixed tag on every HTML card
}

// ManifestConfig controls the optional build history store.
type ManifestConfig struct {
	Path string `yaml:"path,omitempty"` // sqlite file path, empty disables the manifest
}

// DaemonConfig controls daemon mode (watcher, scheduler, HTTP server).
type DaemonConfig struct {
	Addr            string `yaml:"addr,omitempty"`
	Watch           *bool  `yaml:"watch,omitempty"`            // rebuild on filesystem events, defaults to true
	Debounce        string `yaml:"debounce,omitempty"`         // duration string, defaults to 2s
	RebuildInterval string `yaml:"rebuild_interval,omitempty"` // duration string, empty disables periodic rebuilds
}

// NotifyConfig controls the optional NATS build-completed publisher.
type NotifyConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	URL     string `yaml:"url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// WatchEnabled reports whether the daemon should watch the scan directory.
func (d DaemonConfig) WatchEnabled() bool { return d.Watch == nil || *d.Watch }

// DebounceDuration parses the debounce setting, falling back to the default.
func (d DaemonConfig) DebounceDuration() time.Duration {
	if d.Debounce == "" {
		return 2 * time.Second
	}
	if v, err := time.ParseDuration(d.Debounce); err == nil && v > 0 {
		return v
	}
	return 2 * time.Second
}

// RebuildIntervalDuration parses the periodic rebuild interval; zero disables it.
func (d DaemonConfig) RebuildIntervalDuration() time.Duration {
	if d.RebuildInterval == "" {
		return 0
	}
	v, err := time.ParseDuration(d.RebuildInterval)
	if err != nil || v <= 0 {
		return 0
	}
	return v
}

// Load loads configuration from the specified file.
// A missing file is not an error: the baked-in defaults describe the recognized
// keys completely, so a zero-config run still produces the documented gateway.
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists; existing process env wins.
	_ = godotenv.Load()

	cfg := &Config{}
	if data, err := os.ReadFile(configPath); err == nil {
		// Expand environment variables in the YAML content
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config %s: %w", configPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyDefaults(cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Scan.Output == "" {
		return fmt.Errorf("scan.output must not be empty")
	}
	if c.Notify.Enabled && c.Notify.URL == "" {
		return fmt.Errorf("notify.enabled requires notify.url")
	}
	if c.Daemon.Debounce != "" {
		if _, err := time.ParseDuration(c.Daemon.Debounce); err != nil {
			return fmt.Errorf("invalid daemon.debounce: %w", err)
		}
	}
	if c.Daemon.RebuildInterval != "" {
		if _, err := time.ParseDuration(c.Daemon.RebuildInterval); err != nil {
			return fmt.Errorf("invalid daemon.rebuild_interval: %w", err)
		}
	}
	return nil
}
