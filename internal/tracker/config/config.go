// Package config loads the tracker settings. Values are layered: built-in
// defaults, then the YAML file, then TRACKER_* environment variables (a
// .env file in the working directory is read into the environment first).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gartstein/employee-tracker/internal/tracker/db"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	envPrefix   = "TRACKER_"
	defaultPath = "config.yaml"
)

type Config struct {
	Database Database `yaml:"database" envPrefix:"DB_"`
	Kafka    Kafka    `yaml:"kafka" envPrefix:"KAFKA_"`
	Log      Log      `yaml:"log" envPrefix:"LOG_"`
	Prompt   Prompt   `yaml:"prompt" envPrefix:"PROMPT_"`
}

type Database struct {
	Driver         string        `yaml:"driver" env:"DRIVER"`
	Host           string        `yaml:"host" env:"HOST"`
	Port           int           `yaml:"port" env:"PORT"`
	User           string        `yaml:"user" env:"USER"`
	Password       string        `yaml:"password" env:"PASSWORD"`
	Name           string        `yaml:"name" env:"NAME"`
	SSLMode        string        `yaml:"sslmode" env:"SSLMODE"`
	Path           string        `yaml:"path" env:"PATH"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"CONNECT_TIMEOUT"`
}

// Kafka is optional; with no brokers change events are discarded.
type Kafka struct {
	Brokers []string `yaml:"brokers" env:"BROKERS"`
	Topic   string   `yaml:"topic" env:"TOPIC"`
	GroupID string   `yaml:"group_id" env:"GROUP_ID"`
}

type Log struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Output string `yaml:"output" env:"OUTPUT"`
}

type Prompt struct {
	PageSize int `yaml:"page_size" env:"PAGE_SIZE"`
}

func Default() *Config {
	return &Config{
		Database: Database{
			Driver:         db.DriverPostgres,
			Host:           "localhost",
			Port:           5432,
			User:           "postgres",
			Name:           "employee_tracker",
			SSLMode:        "disable",
			Path:           "tracker.db",
			ConnectTimeout: 30 * time.Second,
		},
		Kafka: Kafka{
			Topic:   "tracker-events",
			GroupID: "tracker-audit",
		},
		Log: Log{
			Level:  "info",
			Output: "tracker.log",
		},
		Prompt: Prompt{PageSize: 10},
	}
}

// Load reads the configuration from path. An empty path falls back to
// TRACKER_CONFIG and then to config.yaml. Missing files are not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if path == "" {
		path = os.Getenv(envPrefix + "CONFIG")
	}
	if path == "" {
		path = defaultPath
	}

	cfg := Default()
	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		aggErr := env.AggregateError{}
		if errors.As(err, &aggErr) && len(aggErr.Errors) > 0 {
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case db.DriverPostgres:
		if strings.TrimSpace(c.Database.Host) == "" {
			return errors.New("config: database.host is required for postgres")
		}
		if strings.TrimSpace(c.Database.Name) == "" {
			return errors.New("config: database.name is required for postgres")
		}
	case db.DriverSQLite:
		if strings.TrimSpace(c.Database.Path) == "" {
			return errors.New("config: database.path is required for sqlite")
		}
	default:
		return fmt.Errorf("config: unsupported database.driver %q", c.Database.Driver)
	}

	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return errors.New("config: kafka.topic is required when brokers are set")
	}
	return nil
}

// EventsEnabled reports whether change events should be sent to Kafka.
func (c *Config) EventsEnabled() bool {
	return len(c.Kafka.Brokers) > 0
}

func (c *Config) DatabaseConfig() *db.Config {
	return &db.Config{
		Driver:         c.Database.Driver,
		Host:           c.Database.Host,
		Port:           c.Database.Port,
		User:           c.Database.User,
		Password:       c.Database.Password,
		DBName:         c.Database.Name,
		SSLMode:        c.Database.SSLMode,
		Path:           c.Database.Path,
		ConnectTimeout: c.Database.ConnectTimeout,
	}
}
