package utils

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	DefaultConfigFile = "config.yaml"
	DefaultBodyLimit  = 32 << 20
)

type Config struct {
	// Server
	AppAddr          string `yaml:"APP_ADDR" validate:"required"`
	CORSAllowOrigins string `yaml:"CORS_ALLOW_ORIGINS"`
	RateLimitMax     int    `yaml:"RATE_LIMIT_MAX" validate:"gte=0"`
	SessionTTL       string `yaml:"SESSION_TTL" validate:"omitempty,duration"`
	BodyLimit        int    `yaml:"BODY_LIMIT" validate:"gte=0"` // bytes, image uploads included

	// Backend
	BackendURL       string `yaml:"BACKEND_URL" validate:"required,url"`
	BackendAPIPrefix string `yaml:"BACKEND_API_PREFIX"`
	BackendTimeout   string `yaml:"BACKEND_TIMEOUT" validate:"omitempty,duration"`
	IntakeHistory    bool   `yaml:"INTAKE_HISTORY"`

	// Logging
	LogLevel string `yaml:"LOG_LEVEL" validate:"omitempty,oneof=trace debug info warn error"`
	LogFile  string `yaml:"LOG_FILE"`
}

func defaultConfig() Config {
	return Config{
		AppAddr:          ":3000",
		CORSAllowOrigins: "*",
		RateLimitMax:     10,
		SessionTTL:       "30m",
		BodyLimit:        DefaultBodyLimit,
		BackendAPIPrefix: "/api",
		LogLevel:         "info",
	}
}

// LoadConfig reads .env, then the yaml file, then lets environment variables
// override individual keys. The result is validated.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, reading environment variables")
	}

	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = DefaultConfigFile
	}

	cfg, err := loadConfigFile(path)
	if err != nil {
		return Config{}, err
	}
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadConfigFile(path string) (Config, error) {
	cfg := defaultConfig()

	file, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Infof("config file %s not found, using defaults and environment", path)
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("error reading YAML file: %w", err)
	}

	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return Config{}, fmt.Errorf("error parsing YAML file: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	stringKeys := map[string]*string{
		"APP_ADDR":           &cfg.AppAddr,
		"CORS_ALLOW_ORIGINS": &cfg.CORSAllowOrigins,
		"SESSION_TTL":        &cfg.SessionTTL,
		"BACKEND_URL":        &cfg.BackendURL,
		"BACKEND_API_PREFIX": &cfg.BackendAPIPrefix,
		"BACKEND_TIMEOUT":    &cfg.BackendTimeout,
		"LOG_LEVEL":          &cfg.LogLevel,
		"LOG_FILE":           &cfg.LogFile,
	}
	for key, dst := range stringKeys {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv("RATE_LIMIT_MAX"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitMax = n
		} else {
			log.Warnf("ignoring RATE_LIMIT_MAX=%q: %v", v, err)
		}
	}
	if v, ok := os.LookupEnv("BODY_LIMIT"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.BodyLimit = n
		} else {
			log.Warnf("ignoring BODY_LIMIT=%q: %v", v, err)
		}
	}
	if v, ok := os.LookupEnv("INTAKE_HISTORY"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.IntakeHistory = b
		} else {
			log.Warnf("ignoring INTAKE_HISTORY=%q: %v", v, err)
		}
	}
}

func (c Config) Validate() error {
	InitValidator()
	if err := Validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (c Config) SessionTTLDuration() time.Duration {
	return parseDuration(c.SessionTTL)
}

func (c Config) BackendTimeoutDuration() time.Duration {
	return parseDuration(c.BackendTimeout)
}

func (c Config) FiberLogLevel() log.Level {
	switch strings.ToLower(c.LogLevel) {
	case "trace":
		return log.LevelTrace
	case "debug":
		return log.LevelDebug
	case "warn":
		return log.LevelWarn
	case "error":
		return log.LevelError
	default:
		return log.LevelInfo
	}
}

func parseDuration(s string) time.Duration {
	if s == "" {
		return 0
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}
