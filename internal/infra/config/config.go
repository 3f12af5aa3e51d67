// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server       ServerConfig            `yaml:"server"`
	Aggregate    AggregateConfig         `yaml:"aggregate"`
	Providers    []string                `yaml:"providers" default:"[\"youtube\"]" validate:"min=1,dive,oneof=youtube spotify"`
	YouTube      YouTubeConfig           `yaml:"youtube"`
	Spotify      SpotifyConfig           `yaml:"spotify"`
	Filters      map[string]FilterConfig `yaml:"filters"`
	Presentation PresentationConfig      `yaml:"presentation"`
	Messages     MessagesConfig          `yaml:"messages"`
}

// ServerConfig represents server configuration.
type ServerConfig struct {
	Addr              string      `yaml:"addr" default:":8080"`
	AllowedOrigins    []string    `yaml:"allowed_origins"`
	APIToken          string      `yaml:"api_token"`
	RequestTimeoutSec int         `yaml:"request_timeout_sec" default:"30" validate:"gte=1,lte=300"`
	Hooks             HooksConfig `yaml:"hooks"`
}

// HooksConfig represents lifecycle hooks configuration.
type HooksConfig struct {
	OnStarted []string `yaml:"on_started"`
	OnStopped []string `yaml:"on_stopped"`
}

// AggregateConfig represents playlist aggregation settings.
type AggregateConfig struct {
	PageSize             int `yaml:"page_size" default:"50" validate:"gte=1,lte=50"`
	MaxConcurrentBatches int `yaml:"max_concurrent_batches" default:"8" validate:"gte=1,lte=64"`
}

// YouTubeConfig represents YouTube Data API configuration.
// The key is optional at load time; requests fail until it is set.
type YouTubeConfig struct {
	APIKey string `yaml:"api_key"`
}

// SpotifyConfig represents Spotify API configuration.
type SpotifyConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	Market       string `yaml:"market" validate:"omitempty,len=2" default:"JP"`
}

// FilterConfig represents a filter's configuration.
type FilterConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Settings map[string]any `yaml:"settings,omitempty"`
}

// PresentationConfig represents the derived figures returned with a summary.
type PresentationConfig struct {
	Speeds           []float64 `yaml:"speeds" default:"[1.25,1.5,1.75,2]" validate:"dive,gt=0,lte=16"`
	BingeHoursPerDay []float64 `yaml:"binge_hours_per_day" default:"[1,2,4,8]" validate:"dive,gt=0,lte=24"`
}

// MessagesConfig represents user-facing error messages.
type MessagesConfig struct {
	InvalidInput      string `yaml:"invalid_input" default:"Please enter a valid playlist URL."`
	NotFound          string `yaml:"not_found" default:"Playlist not found. Make sure it exists and is public."`
	Forbidden         string `yaml:"forbidden" default:"Access to this playlist is not allowed."`
	InvalidCredential string `yaml:"invalid_credential" default:"The server's catalog API credentials are invalid."`
	RateLimited       string `yaml:"rate_limited" default:"Too many requests. Please try again later."`
	Unauthorized      string `yaml:"unauthorized" default:"A valid API token is required."`
	DefaultError      string `yaml:"default_error" default:"Something went wrong while fetching the playlist."`
}

// Default returns a configuration with every default applied and no file.
func Default() (*Config, error) {
	var cfg Config
	cfg.overrideFromEnv()
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}
	return &cfg, nil
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values for sensitive fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		c.YouTube.APIKey = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Spotify.ClientSecret = v
	}
	if v := os.Getenv("PLAYTIME_API_TOKEN"); v != "" {
		c.Server.APIToken = v
	}
}

// GetMessage returns the user-facing message for the given error kind.
func (c *Config) GetMessage(kind string) string {
	switch kind {
	case "invalid_input":
		return c.Messages.InvalidInput
	case "not_found":
		return c.Messages.NotFound
	case "forbidden":
		return c.Messages.Forbidden
	case "invalid_credential":
		return c.Messages.InvalidCredential
	case "rate_limited":
		return c.Messages.RateLimited
	case "unauthorized":
		return c.Messages.Unauthorized
	default:
		return c.Messages.DefaultError
	}
}

// HasProvider checks if the given catalog provider is enabled.
func (c *Config) HasProvider(name string) bool {
	for _, p := range c.Providers {
		if p == name {
			return true
		}
	}
	return false
}

// RequestTimeout returns the per-request timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutSec) * time.Second
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	if err := c.validateProviders(); err != nil {
		return err
	}

	return nil
}

// validateProviders checks that each enabled provider has what it needs
// and is listed once.
func (c *Config) validateProviders() error {
	seen := make(map[string]bool, len(c.Providers))
	for _, p := range c.Providers {
		if seen[p] {
			return errors.Newf("provider %s is listed more than once", p)
		}
		seen[p] = true
	}

	if c.HasProvider("spotify") && (c.Spotify.ClientID == "" || c.Spotify.ClientSecret == "") {
		return errors.New("spotify provider requires client_id and client_secret")
	}
	return nil
}

// IsFilterEnabled checks if a filter is enabled.
func (c *Config) IsFilterEnabled(filterName string) bool {
	if f, ok := c.Filters[filterName]; ok {
		return f.Enabled
	}
	return false
}
