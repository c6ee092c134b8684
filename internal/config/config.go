package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/MrJamesThe3rd/spendingtracker/internal/database"
)

type Config struct {
	App struct {
		Name      string `envconfig:"APP_NAME" default:"Spending Tracker"`
		Port      int    `envconfig:"PORT" default:"8080"`
		LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
		LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

		// TUILogPath receives the terminal UI's logs. Empty discards them.
		TUILogPath string `envconfig:"TUI_LOG_PATH"`
	}

	DB struct {
		Driver   string `envconfig:"DB_DRIVER" default:"sqlite"`
		Path     string `envconfig:"DB_PATH" default:"./data/spending.db"`
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"spending"`
	}

	API struct {
		JWTSecret      string   `envconfig:"API_JWT_SECRET"`
		AllowedOrigins []string `envconfig:"API_ALLOWED_ORIGINS" default:"*"`
	}

	Receipt struct {
		MaxSize     int `envconfig:"RECEIPT_MAX_SIZE" default:"500"`
		JPEGQuality int `envconfig:"RECEIPT_JPEG_QUALITY" default:"50"`
	}
}

// DSN returns the data source name for the configured driver.
func (c *Config) DSN() string {
	if c.DB.Driver == database.DriverPostgres {
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
			c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
	}

	return c.DB.Path
}

func (c *Config) Validate() error {
	var problems []string

	switch c.DB.Driver {
	case database.DriverSQLite:
		if strings.TrimSpace(c.DB.Path) == "" {
			problems = append(problems, "DB_PATH cannot be empty when using sqlite")
		}
	case database.DriverPostgres:
		if c.DB.Name == "" {
			problems = append(problems, "DB_NAME cannot be empty when using postgres")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid DB_DRIVER %q: must be %q or %q", c.DB.Driver, database.DriverSQLite, database.DriverPostgres))
	}

	if c.Receipt.MaxSize < 16 || c.Receipt.MaxSize > 4096 {
		problems = append(problems, fmt.Sprintf("invalid RECEIPT_MAX_SIZE %d: must be between 16 and 4096", c.Receipt.MaxSize))
	}

	if c.Receipt.JPEGQuality < 1 || c.Receipt.JPEGQuality > 100 {
		problems = append(problems, fmt.Sprintf("invalid RECEIPT_JPEG_QUALITY %d: must be between 1 and 100", c.Receipt.JPEGQuality))
	}

	if c.App.LogFormat != "text" && c.App.LogFormat != "json" {
		problems = append(problems, fmt.Sprintf("invalid LOG_FORMAT %q: must be text or json", c.App.LogFormat))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}

	return nil
}

// LogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	return slog.LevelInfo
}

// NewLogger builds the process logger writing to w.
func (c *Config) NewLogger(w *os.File) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel()}

	if c.App.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
