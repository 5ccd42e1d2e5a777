// config/config.go
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	CredentialsCookie   = "cookie"
	CredentialsPostgres = "postgres"
)

type Config struct {
	Server   ServerConfig   `toml:"server"`
	API      APIConfig      `toml:"api"`
	Session  SessionConfig  `toml:"session"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
}

type ServerConfig struct {
	Addr           string   `toml:"addr"`
	ReadTimeout    Duration `toml:"read_timeout"`
	WriteTimeout   Duration `toml:"write_timeout"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

type APIConfig struct {
	BaseURL string   `toml:"base_url"`
	Timeout Duration `toml:"timeout"`
}

type SessionConfig struct {
	CookieName string `toml:"cookie_name"`
	Secret     string `toml:"secret"`
	MaxAge     int    `toml:"max_age"`
	Secure     bool   `toml:"secure"`
	// Credentials selects where the bearer token lives: "cookie" or "postgres".
	Credentials string   `toml:"credentials"`
	CacheSize   int      `toml:"cache_size"`
	GuardWait   Duration `toml:"guard_wait"`
	InitTimeout Duration `toml:"init_timeout"`
}

type DatabaseConfig struct {
	DSN          string `toml:"dsn"`
	MaxOpenConns int    `toml:"max_open_conns"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

// Duration is a time.Duration that reads from TOML strings like "15s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:         ":8181",
			ReadTimeout:  Duration{15 * time.Second},
			WriteTimeout: Duration{15 * time.Second},
		},
		API: APIConfig{
			BaseURL: "http://localhost:8000",
			Timeout: Duration{10 * time.Second},
		},
		Session: SessionConfig{
			CookieName:  "questpath_session",
			MaxAge:      86400 * 7,
			Credentials: CredentialsCookie,
			CacheSize:   4096,
			GuardWait:   Duration{2 * time.Second},
			InitTimeout: Duration{10 * time.Second},
		},
		Database: DatabaseConfig{
			MaxOpenConns: 25,
		},
		Log: LogConfig{
			Level:  slog.LevelInfo,
			Format: "pretty",
		},
	}
}

// Load reads the TOML file at path on top of Default, then applies
// QUESTPATH_* environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("decode config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	c.Server.Addr = getEnv("QUESTPATH_ADDR", c.Server.Addr)
	c.API.BaseURL = getEnv("QUESTPATH_API_BASE_URL", c.API.BaseURL)
	c.Session.Secret = getEnv("QUESTPATH_SESSION_SECRET", c.Session.Secret)
	c.Session.Credentials = getEnv("QUESTPATH_CREDENTIALS", c.Session.Credentials)
	c.Database.DSN = getEnv("QUESTPATH_DATABASE_DSN", c.Database.DSN)
	c.Log.Format = getEnv("QUESTPATH_LOG_FORMAT", c.Log.Format)

	if v := os.Getenv("QUESTPATH_ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("QUESTPATH_SESSION_SECURE"); v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("QUESTPATH_SESSION_SECURE: %w", err)
		}
		c.Session.Secure = secure
	}
	if v := os.Getenv("QUESTPATH_LOG_LEVEL"); v != "" {
		if err := c.Log.Level.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("QUESTPATH_LOG_LEVEL: %w", err)
		}
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("api.base_url is required"))
	}
	if len(c.Session.Secret) < 16 {
		errs = append(errs, errors.New("session.secret must be at least 16 characters"))
	}
	switch c.Session.Credentials {
	case CredentialsCookie:
	case CredentialsPostgres:
		if c.Database.DSN == "" {
			errs = append(errs, errors.New("database.dsn is required when session.credentials is postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("session.credentials: unknown store %q", c.Session.Credentials))
	}
	if c.Session.CacheSize <= 0 {
		errs = append(errs, errors.New("session.cache_size must be positive"))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
