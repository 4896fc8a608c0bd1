package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv    = "MINDBOARD_CONFIG"
	portEnv          = "PORT"
	ginModeEnv       = "GIN_MODE"
	databaseURLEnv   = "DATABASE_URL"
	jwtSecretEnv     = "JWT_SECRET"
	sessionSecretEnv = "SESSION_SECRET"
	logLevelEnv      = "LOG_LEVEL"

	defaultTokenTTL = 7 * 24 * time.Hour

	// DefaultJWTSecret is only fit for local development.
	DefaultJWTSecret = "jwt_secret_change_me"
)

// Config holds the settings shared by the server and the CLI.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // gin mode: debug, release, test
}

// DatabaseConfig describes the Postgres connection.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// AuthConfig wires token signing and the cookie session store.
type AuthConfig struct {
	JWTSecret     string `yaml:"jwtSecret"`
	SessionSecret string `yaml:"sessionSecret"`
	TokenTTL      string `yaml:"tokenTTL"`
}

// TTL parses TokenTTL, falling back to seven days.
func (a AuthConfig) TTL() time.Duration {
	if a.TokenTTL == "" {
		return defaultTokenTTL
	}
	d, err := time.ParseDuration(a.TokenTTL)
	if err != nil || d <= 0 {
		return defaultTokenTTL
	}
	return d
}

// UsesDefaultSecret reports whether tokens would be signed with the built-in secret.
func (a AuthConfig) UsesDefaultSecret() bool {
	return a.JWTSecret == DefaultJWTSecret
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads the YAML file named by MINDBOARD_CONFIG (if set) and applies
// environment overrides on top of the defaults.
func Load() (Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg = mergeConfig(cfg, fileCfg)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// LoadFile parses a single YAML file without defaults or overrides.
func LoadFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(portEnv); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv(ginModeEnv); v != "" {
		c.Server.Mode = v
	}
	if v := os.Getenv(databaseURLEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(jwtSecretEnv); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv(sessionSecretEnv); v != "" {
		c.Auth.SessionSecret = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Log.Level = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Server.Port != "" {
		base.Server.Port = override.Server.Port
	}
	if override.Server.Mode != "" {
		base.Server.Mode = override.Server.Mode
	}
	if override.Database.DSN != "" {
		base.Database.DSN = override.Database.DSN
	}
	if override.Auth.JWTSecret != "" {
		base.Auth.JWTSecret = override.Auth.JWTSecret
	}
	if override.Auth.SessionSecret != "" {
		base.Auth.SessionSecret = override.Auth.SessionSecret
	}
	if override.Auth.TokenTTL != "" {
		base.Auth.TokenTTL = override.Auth.TokenTTL
	}
	if override.Log.Level != "" {
		base.Log.Level = override.Log.Level
	}
	return base
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{Port: "8001", Mode: "debug"},
		Database: DatabaseConfig{
			// Fallback for local dev if not set
			DSN: "host=localhost user=postgres password=postgres dbname=mindboard port=5432 sslmode=disable TimeZone=UTC",
		},
		Auth: AuthConfig{
			JWTSecret:     DefaultJWTSecret,
			SessionSecret: "secret_key_change_me",
			TokenTTL:      "168h",
		},
		Log: LogConfig{Level: "info"},
	}
}
