/*
Package config loads server and engine settings.

PURPOSE:
  One place that decides how the service starts: listen port, database
  path, CORS origins, log level and the engine options the calculator
  starts with.

PRECEDENCE (lowest to highest):
  1. Defaults()
  2. YAML file given to Load (missing file is not an error)
  3. .env in the working directory (only fills variables not already set)
  4. SAJU_* environment variables
  5. Command-line flags (applied by the caller)

YAML:
  server:
    port: 8080
    db_path: saju.db
    allowed_origins: ["http://localhost:5173"]
  log:
    level: info
  default_location: "Tokyo, Japan"
  engine:
    use_local_time: true
    use_dst: true
    reference_standard_meridian: 135
    regional_adjustments:
      - time_zone: Asia/Tokyo
        from: 1900-01-01
        minutes: 3

ENVIRONMENT:
  SAJU_PORT, SAJU_DB_PATH, SAJU_ALLOWED_ORIGINS (comma separated),
  SAJU_LOG_LEVEL, SAJU_DEFAULT_LOCATION, SAJU_USE_LOCAL_TIME, SAJU_USE_DST,
  SAJU_USE_HISTORICAL_DST, SAJU_USE_STANDARD_TIME_ZONE,
  SAJU_USE_SECONDS_PRECISION, SAJU_USE_INTERNATIONAL_MODE,
  SAJU_REFERENCE_MERIDIAN
*/
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/warp/saju-engine/saju"
)

// Config is the full service configuration.
type Config struct {
	Server          ServerConfig `yaml:"server"`
	Log             LogConfig    `yaml:"log"`
	DefaultLocation string       `yaml:"default_location"`
	Engine          saju.Config  `yaml:"engine"`
}

// ServerConfig configures the HTTP listener and storage.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	DBPath          string        `yaml:"db_path"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LogConfig configures zap.
type LogConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			DBPath:          "saju.db",
			AllowedOrigins:  []string{"http://localhost:5173", "http://localhost:8080"},
			ShutdownTimeout: 30 * time.Second,
		},
		Log:             LogConfig{Level: "info"},
		DefaultLocation: "Tokyo, Japan",
		Engine:          saju.DefaultConfig(),
	}
}

// Load reads path over the defaults, then applies .env and SAJU_*
// overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.DBPath) == "" {
		return fmt.Errorf("server.db_path is required")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

func (c *Config) applyEnvOverrides(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("SAJU_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SAJU_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v, ok := get("SAJU_DB_PATH"); ok {
		c.Server.DBPath = v
	}
	if v, ok := get("SAJU_ALLOWED_ORIGINS"); ok {
		c.Server.AllowedOrigins = splitList(v)
	}
	if v, ok := get("SAJU_LOG_LEVEL"); ok {
		c.Log.Level = strings.ToLower(v)
	}
	if v, ok := get("SAJU_DEFAULT_LOCATION"); ok {
		c.DefaultLocation = v
	}

	flags := []struct {
		key string
		dst *bool
	}{
		{"SAJU_USE_LOCAL_TIME", &c.Engine.UseLocalTime},
		{"SAJU_USE_DST", &c.Engine.UseDST},
		{"SAJU_USE_HISTORICAL_DST", &c.Engine.UseHistoricalDST},
		{"SAJU_USE_STANDARD_TIME_ZONE", &c.Engine.UseStandardTimeZone},
		{"SAJU_USE_SECONDS_PRECISION", &c.Engine.UseSecondsPrecision},
		{"SAJU_USE_INTERNATIONAL_MODE", &c.Engine.UseInternationalMode},
	}
	for _, f := range flags {
		v, ok := get(f.key)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", f.key, err)
		}
		*f.dst = b
	}

	if v, ok := get("SAJU_REFERENCE_MERIDIAN"); ok {
		m, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("SAJU_REFERENCE_MERIDIAN: %w", err)
		}
		c.Engine.ReferenceStandardMeridian = m
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// =============================================================================
// LOGGER
// =============================================================================

// Build creates the zap logger described by the config. verbose forces
// debug level.
func (l LogConfig) Build(verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if l.Development {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
