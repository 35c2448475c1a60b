package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIURL         = "http://localhost:5001"
	DefaultRequestTimeout = 30 * time.Second
	DefaultPollInterval   = 2 * time.Second
	DefaultSearchInterval = time.Second
	DefaultSearchAttempts = 30
)

// Config is the client runtime configuration. Everything here is injected
// explicitly into the api client, registry, and poller at construction.
type Config struct {
	APIURL         string
	StateDir       string
	RequestTimeout time.Duration
	PollInterval   time.Duration
	SearchInterval time.Duration
	SearchAttempts int
}

// yamlConfig holds the file representation; durations are strings like "2s".
type yamlConfig struct {
	APIURL         string `yaml:"api_url"`
	StateDir       string `yaml:"state_dir"`
	RequestTimeout string `yaml:"request_timeout"`
	PollInterval   string `yaml:"poll_interval"`
	SearchInterval string `yaml:"search_interval"`
	SearchAttempts int    `yaml:"search_attempts"`
}

func Default() Config {
	return Config{
		APIURL:         DefaultAPIURL,
		StateDir:       defaultStateDir(),
		RequestTimeout: DefaultRequestTimeout,
		PollInterval:   DefaultPollInterval,
		SearchInterval: DefaultSearchInterval,
		SearchAttempts: DefaultSearchAttempts,
	}
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".songs-downloader"
	}
	return filepath.Join(home, ".songs-downloader")
}

// DefaultConfigPath is where Load looks for a settings file when none is
// given explicitly.
func DefaultConfigPath() string {
	return filepath.Join(defaultStateDir(), "config.yaml")
}

// Load builds the effective configuration: defaults, then the YAML file if it
// exists, then environment overrides. A missing file is fine; a malformed one
// is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultConfigPath()
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if cfg, err = applyYAML(cfg, data); err != nil {
			return Config{}, fmt.Errorf("config file %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// defaults stand
	default:
		return Config{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	cfg = applyEnv(cfg)
	return normalize(cfg), nil
}

func applyYAML(cfg Config, data []byte) (Config, error) {
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse YAML: %w", err)
	}
	if v := strings.TrimSpace(yc.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(yc.StateDir); v != "" {
		cfg.StateDir = v
	}
	var err error
	if cfg.RequestTimeout, err = parseDuration(yc.RequestTimeout, cfg.RequestTimeout); err != nil {
		return Config{}, fmt.Errorf("request_timeout: %w", err)
	}
	if cfg.PollInterval, err = parseDuration(yc.PollInterval, cfg.PollInterval); err != nil {
		return Config{}, fmt.Errorf("poll_interval: %w", err)
	}
	if cfg.SearchInterval, err = parseDuration(yc.SearchInterval, cfg.SearchInterval); err != nil {
		return Config{}, fmt.Errorf("search_interval: %w", err)
	}
	if yc.SearchAttempts > 0 {
		cfg.SearchAttempts = yc.SearchAttempts
	}
	return cfg, nil
}

func applyEnv(cfg Config) Config {
	if v := strings.TrimSpace(os.Getenv("SONGS_API_URL")); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv("SONGS_STATE_DIR")); v != "" {
		cfg.StateDir = v
	}
	if v := strings.TrimSpace(os.Getenv("SONGS_POLL_INTERVAL")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.PollInterval = d
		}
	}
	if v := strings.TrimSpace(os.Getenv("SONGS_SEARCH_ATTEMPTS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SearchAttempts = n
		}
	}
	return cfg
}

func parseDuration(raw string, fallback time.Duration) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	return d, nil
}

func normalize(cfg Config) Config {
	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if strings.TrimSpace(cfg.StateDir) == "" {
		cfg.StateDir = defaultStateDir()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.SearchInterval <= 0 {
		cfg.SearchInterval = DefaultSearchInterval
	}
	if cfg.SearchAttempts <= 0 {
		cfg.SearchAttempts = DefaultSearchAttempts
	}
	return cfg
}
