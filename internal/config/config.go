package config

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/dleads/stakeados.app-sub003/internal/dedupe"
	"github.com/dleads/stakeados.app-sub003/internal/domain"
	"github.com/dleads/stakeados.app-sub003/internal/processing"
	"github.com/dleads/stakeados.app-sub003/internal/schedule"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

const (
	EnvAPIURL   = "NEWSDESK_API_URL"
	EnvLogLevel = "NEWSDESK_LOG_LEVEL"
)

type APIConfig struct {
	BaseURL           string  `yaml:"base_url"`
	Timeout           string  `yaml:"timeout"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

type DuplicatesConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	DateRangeDays       int     `yaml:"date_range_days"`
	RiskLevel           string  `yaml:"risk_level"`
	IncludeProcessed    bool    `yaml:"include_processed"`
}

type ScheduleConfig struct {
	DefaultPattern string `yaml:"default_pattern"`
}

type ReferenceConfig struct {
	TTL string `yaml:"ttl"`
}

type ProcessingConfig struct {
	DefaultOptions []string `yaml:"default_options"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Source is an RSS source the operator keeps an eye on.
type Source struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Category string `yaml:"category,omitempty"`
	Language string `yaml:"language,omitempty"`
	Enabled  bool   `yaml:"enabled"`
}

type Config struct {
	API        APIConfig        `yaml:"api"`
	Duplicates DuplicatesConfig `yaml:"duplicates"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
	Reference  ReferenceConfig  `yaml:"reference"`
	Processing ProcessingConfig `yaml:"processing"`
	Log        LogConfig        `yaml:"log"`
	Sources    []Source         `yaml:"sources"`
}

func (c *Config) APITimeout() time.Duration {
	d, err := ParseDuration(c.API.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

func (c *Config) ReferenceTTL() time.Duration {
	d, err := ParseDuration(c.Reference.TTL)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

// DuplicateFilter converts the duplicates section into detector knobs.
func (c *Config) DuplicateFilter() (dedupe.Filter, error) {
	risk, err := dedupe.ParseRiskLevel(c.Duplicates.RiskLevel)
	if err != nil {
		return dedupe.Filter{}, err
	}
	f := dedupe.Filter{
		SimilarityThreshold: c.Duplicates.SimilarityThreshold,
		DateRangeDays:       c.Duplicates.DateRangeDays,
		RiskLevel:           risk,
		IncludeProcessed:    c.Duplicates.IncludeProcessed,
	}
	return f, f.Validate()
}

// DefaultPattern returns the configured pattern, or none when unset or unknown.
func (c *Config) DefaultPattern() schedule.Pattern {
	p, err := schedule.ParsePattern(c.Schedule.DefaultPattern)
	if err != nil {
		return schedule.PatternNone
	}
	return p
}

func (c *Config) ProcessingOptions() (processing.Options, error) {
	return processing.ParseOptions(c.Processing.DefaultOptions)
}

func (c *Config) EnabledSources() []Source {
	var out []Source
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

// DomainSources returns the enabled sources as CMS source records.
func (c *Config) DomainSources() []domain.Source {
	var out []domain.Source
	for _, s := range c.EnabledSources() {
		out = append(out, domain.Source{
			Name:     s.Name,
			URL:      s.URL,
			Category: s.Category,
			Language: s.Language,
			Enabled:  true,
		})
	}
	return out
}

// ParseDuration accepts time.ParseDuration syntax plus a whole-day "Nd" form.
func ParseDuration(s string) (time.Duration, error) {
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(s)
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "newsdesk", "config.yaml")
}

func CachePath() string {
	return filepath.Join(xdg.CacheHome, "newsdesk", "newsdesk.db")
}

// LogPath is where the interactive screen writes its log.
func LogPath() string {
	return filepath.Join(xdg.StateHome, "newsdesk", "newsdesk.log")
}

// LoadEnvFile loads KEY=value pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads the config at path (the XDG default when empty) on top of the
// embedded defaults and applies environment overrides. On first run the
// defaults are written to path.
func Load(path string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, err
	}
	defaults, _ := loadDefaults()

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Non-fatal: the embedded defaults still apply
		_ = writeDefaults(path)
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
		mergeDefaultSources(cfg, defaults)
	}

	applyEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		cfg.API.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Log.Level = v
	}
}

// mergeDefaultSources appends default sources the user file does not list.
// Sources are matched by name; user entries are never changed.
func mergeDefaultSources(cfg, defaults *Config) {
	have := make(map[string]bool, len(cfg.Sources))
	for _, s := range cfg.Sources {
		have[s.Name] = true
	}
	for _, s := range defaults.Sources {
		if !have[s.Name] {
			cfg.Sources = append(cfg.Sources, s)
		}
	}
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("url %q has no host", raw)
	}
	return nil
}

func validate(cfg *Config) error {
	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if err := validateHTTPURL(cfg.API.BaseURL); err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if cfg.API.Timeout != "" {
		if _, err := ParseDuration(cfg.API.Timeout); err != nil {
			return fmt.Errorf("api.timeout: %w", err)
		}
	}
	if cfg.API.RequestsPerSecond < 0 {
		return fmt.Errorf("api.requests_per_second must not be negative")
	}

	if _, err := cfg.DuplicateFilter(); err != nil {
		return fmt.Errorf("duplicates: %w", err)
	}

	if _, err := schedule.ParsePattern(cfg.Schedule.DefaultPattern); err != nil {
		return fmt.Errorf("schedule.default_pattern: %w", err)
	}
	if cfg.Reference.TTL != "" {
		if _, err := ParseDuration(cfg.Reference.TTL); err != nil {
			return fmt.Errorf("reference.ttl: %w", err)
		}
	}
	if _, err := cfg.ProcessingOptions(); err != nil {
		return fmt.Errorf("processing.default_options: %w", err)
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q (valid: debug, info, warn, error)", cfg.Log.Level)
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q (valid: text, json)", cfg.Log.Format)
	}

	for i, s := range cfg.Sources {
		if s.Name == "" {
			return fmt.Errorf("source %d: name is required", i)
		}
		if s.URL == "" {
			return fmt.Errorf("source %q: url is required", s.Name)
		}
		if err := validateHTTPURL(s.URL); err != nil {
			return fmt.Errorf("source %q: %w", s.Name, err)
		}
	}
	return nil
}
