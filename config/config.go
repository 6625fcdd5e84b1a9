package config

import (
	"fmt"
	"log"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	Auth       AuthConfig       `yaml:"auth"`
	Flight     FlightConfig     `yaml:"flight"`
	Reminder   ReminderConfig   `yaml:"reminder"`
	View       ViewConfig       `yaml:"view"`
	LogLevel   string           `yaml:"log_level"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int      `yaml:"port"`
	RequestIPHeader string   `yaml:"request_ip_header"`
	RateLimitPerSec float64  `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int      `yaml:"rate_limit_burst"`
	CacheTTLSeconds int      `yaml:"cache_ttl_seconds"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
}

// DatabaseConfig holds the database connection configuration. A DSN starting with "file:"
// or ending in ".db" opens SQLite, anything else PostgreSQL.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogSQL                 bool   `yaml:"log_sql"`
}

// AuthConfig holds token signing and sign-in settings.
type AuthConfig struct {
	JWTSecret        string        `yaml:"jwt_secret"`
	AccessTTLMinutes int           `yaml:"access_ttl_minutes"`
	RefreshTTLHours  int           `yaml:"refresh_ttl_hours"`
	AccessTTL        time.Duration `yaml:"-"`
	RefreshTTL       time.Duration `yaml:"-"`
	GoogleClientID   string        `yaml:"google_client_id"`
	RedisAddr        string        `yaml:"redis_addr"`
	BcryptCost       int           `yaml:"bcrypt_cost"`
}

// FlightConfig configures the flight status provider. Without a URL a static provider is used.
type FlightConfig struct {
	ProviderURL     string        `yaml:"provider_url"`
	APIKey          string        `yaml:"api_key"`
	TimeoutSeconds  int           `yaml:"timeout_seconds"`
	Timeout         time.Duration `yaml:"-"`
	CacheTTLSeconds int           `yaml:"cache_ttl_seconds"`
	CacheTTL        time.Duration `yaml:"-"`
	MaxRetries      int           `yaml:"max_retries"`
}

// ReminderConfig configures the pickup reminder loop.
type ReminderConfig struct {
	Enabled         bool          `yaml:"enabled"`
	IntervalSeconds int           `yaml:"interval_seconds"`
	Interval        time.Duration `yaml:"-"` // Ignored by YAML parser
	LeadMinutes     int           `yaml:"lead_minutes"`
	Lead            time.Duration `yaml:"-"`
}

// ViewConfig holds the calendar settings of the reservation views.
type ViewConfig struct {
	Timezone string         `yaml:"timezone"`
	PageSize int            `yaml:"page_size"`
	Location *time.Location `yaml:"-"`
}

// Load reads the configuration from the given path. Values from a .env file in the working
// directory and the PARKD_* environment variables override the file.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("could not read .env: %v", err)
	}
	applyEnv(&cfg)

	if err := cfg.setDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	overrides := map[string]*string{
		"PARKD_JWT_SECRET":        &cfg.Auth.JWTSecret,
		"PARKD_DATABASE_DSN":      &cfg.Database.DSN,
		"PARKD_VAPID_PUBLIC_KEY":  &cfg.Push.PublicKey,
		"PARKD_VAPID_PRIVATE_KEY": &cfg.Push.PrivateKey,
		"PARKD_REDIS_ADDR":        &cfg.Auth.RedisAddr,
		"PARKD_GOOGLE_CLIENT_ID":  &cfg.Auth.GoogleClientID,
	}
	for key, dst := range overrides {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
}

func (cfg *Config) setDefaults() error {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 30
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if cfg.Auth.AccessTTLMinutes <= 0 {
		cfg.Auth.AccessTTLMinutes = 24 * 60
	}
	if cfg.Auth.RefreshTTLHours <= 0 {
		cfg.Auth.RefreshTTLHours = 7 * 24
	}
	cfg.Auth.AccessTTL = time.Duration(cfg.Auth.AccessTTLMinutes) * time.Minute
	cfg.Auth.RefreshTTL = time.Duration(cfg.Auth.RefreshTTLHours) * time.Hour

	if cfg.Flight.TimeoutSeconds <= 0 {
		cfg.Flight.TimeoutSeconds = 10
	}
	cfg.Flight.Timeout = time.Duration(cfg.Flight.TimeoutSeconds) * time.Second
	if cfg.Flight.CacheTTLSeconds <= 0 {
		cfg.Flight.CacheTTLSeconds = 300
	}
	cfg.Flight.CacheTTL = time.Duration(cfg.Flight.CacheTTLSeconds) * time.Second
	if cfg.Flight.MaxRetries < 0 {
		cfg.Flight.MaxRetries = 0
	}

	if cfg.Reminder.IntervalSeconds <= 0 {
		cfg.Reminder.IntervalSeconds = 60
	}
	cfg.Reminder.Interval = time.Duration(cfg.Reminder.IntervalSeconds) * time.Second
	if cfg.Reminder.LeadMinutes <= 0 {
		cfg.Reminder.LeadMinutes = 60
	}
	cfg.Reminder.Lead = time.Duration(cfg.Reminder.LeadMinutes) * time.Minute

	if cfg.View.PageSize <= 0 {
		cfg.View.PageSize = 5
	}
	if cfg.View.Timezone == "" {
		cfg.View.Timezone = "Europe/Warsaw"
	}
	loc, err := time.LoadLocation(cfg.View.Timezone)
	if err != nil {
		return fmt.Errorf("view.timezone: %w", err)
	}
	cfg.View.Location = loc

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return nil
}
