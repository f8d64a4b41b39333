package config

import (
	"errors"
	"fmt"
	"net/mail"
	"os"
	"time"

	"w9booking/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Google     GoogleConfig     `yaml:"google"`
	Booking    BookingConfig    `yaml:"booking"`
	Redis      RedisConfig      `yaml:"redis"`
	API        APIConfig        `yaml:"api"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

// GoogleConfig holds the OAuth client and the fixed business calendar and
// mailbox every request is served against.
type GoogleConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURI  string `yaml:"redirect_uri"`
	RefreshToken string `yaml:"refresh_token"`
	CalendarID   string `yaml:"calendar_id"`
	BusinessName string `yaml:"business_name"`
}

type BookingConfig struct {
	Timezone       string `yaml:"timezone"`
	StudioLocation string `yaml:"studio_location"`
	ContactPhone   string `yaml:"contact_phone"`
	Website        string `yaml:"website"`
	UpcomingDays   int    `yaml:"upcoming_days"`
	IdempotencyTTL int    `yaml:"idempotency_ttl"` // seconds

	// loc is resolved from Timezone during Validate.
	loc *time.Location
}

// Location returns the resolved business timezone, falling back to UTC
// when the name cannot be resolved.
func (b *BookingConfig) Location() *time.Location {
	if b.loc == nil {
		loc, err := time.LoadLocation(b.Timezone)
		if err != nil {
			return time.UTC
		}
		b.loc = loc
	}
	return b.loc
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type APIConfig struct {
	HTTP      APIHTTPConfig      `yaml:"http"`
	Auth      APIAuthConfig      `yaml:"auth"`
	RateLimit APIRateLimitConfig `yaml:"rate_limit"`
	SetupPath string             `yaml:"setup_path"`
}

type APIHTTPConfig struct {
	Port int `yaml:"port"`
}

type APIAuthConfig struct {
	Enabled      bool           `yaml:"enabled"`
	HeaderAPIKey string         `yaml:"header_api_key"`
	APIKeys      []APIClientKey `yaml:"api_keys"`
}

type APIClientKey struct {
	Key         string   `yaml:"key"`
	Name        string   `yaml:"name"`
	Permissions []string `yaml:"permissions"`
}

type APIRateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

// Load reads a YAML config file, expanding ${ENV_VAR} references after
// loading .env when present.
func Load(configPath string) (*Config, error) {
	// .env is optional; environment variables may come from the runtime.
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Google.ClientID == "" || c.Google.ClientSecret == "" {
		return errors.New("google oauth client id and secret are required")
	}
	if c.Google.CalendarID == "" {
		return errors.New("google calendar id is required")
	}
	if _, err := mail.ParseAddress(c.Google.CalendarID); err != nil {
		return fmt.Errorf("google calendar id must be a mailbox address: %w", err)
	}

	loc, err := time.LoadLocation(c.Booking.Timezone)
	if err != nil {
		return fmt.Errorf("invalid booking timezone %q: %w", c.Booking.Timezone, err)
	}
	c.Booking.loc = loc

	if c.Redis.Enabled && c.Redis.Address == "" {
		return errors.New("redis address is required when redis is enabled")
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "w9booking"
	}
	if c.API.HTTP.Port == 0 {
		c.API.HTTP.Port = 8080
	}
	if c.API.SetupPath == "" {
		c.API.SetupPath = "/admin/setup"
	}
	if c.API.Auth.HeaderAPIKey == "" {
		c.API.Auth.HeaderAPIKey = "x-api-key"
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Booking.Timezone == "" {
		c.Booking.Timezone = models.DefaultBusinessTimezone
	}
	if c.Booking.UpcomingDays == 0 {
		c.Booking.UpcomingDays = models.DefaultUpcomingDays
	}
	if c.Booking.IdempotencyTTL == 0 {
		c.Booking.IdempotencyTTL = models.DefaultIdempotencyTTL
	}
}
