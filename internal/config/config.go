package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Server holds all configuration for the realm server.
type Server struct {
	// Network
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`

	// Origins allowed to open WebSocket connections. Connections without
	// an Origin header are always accepted.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// Database
	Database DatabaseConfig `yaml:"database"`

	// Admin allowlist file (line-delimited usernames, watched for changes)
	AdminFile string `yaml:"admin_file"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Autosave interval in seconds
	AutosaveInterval int `yaml:"autosave_interval"`

	// dsnOverride is set from DB_PATH; empty means use the database block.
	dsnOverride string
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Default returns Server config with sensible defaults.
func Default() Server {
	return Server{
		BindAddress: "0.0.0.0",
		Port:        8080,
		AllowedOrigins: []string{
			"http://localhost:5173",
			"http://localhost:8080",
			"https://play.realmd.dev",
		},
		AdminFile:        "config/admins.txt",
		LogLevel:         "info",
		AutosaveInterval: 30,
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "realmd",
			Password: "realmd",
			DBName:   "realmd",
			SSLMode:  "disable",
		},
	}
}

// Load loads server config from a YAML file and applies environment
// overrides. If the file doesn't exist, returns defaults.
func Load(path string) (Server, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv applies PORT, DB_PATH and REALMD_ADMIN_FILE overrides.
// DB_PATH carries a full DSN and wins over the yaml database block.
func (c *Server) applyEnv() {
	if p := os.Getenv("PORT"); p != "" {
		if port, err := strconv.Atoi(p); err == nil && port > 0 {
			c.Port = port
		}
	}
	if dsn := os.Getenv("DB_PATH"); dsn != "" {
		c.dsnOverride = dsn
	}
	if f := os.Getenv("REALMD_ADMIN_FILE"); f != "" {
		c.AdminFile = f
	}
}

// DSN returns the effective database connection string.
func (c Server) DSN() string {
	if c.dsnOverride != "" {
		return c.dsnOverride
	}
	return c.Database.DSN()
}
