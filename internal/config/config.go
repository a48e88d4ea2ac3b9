package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	LedgerPostgres = "postgres"
	LedgerMemory   = "memory"

	LockMemory   = "memory"
	LockRedis    = "redis"
	LockPostgres = "postgres"
)

type Config struct {
	// Server
	Port           int      `envconfig:"PORT" default:"8080"`
	Environment    string   `envconfig:"ENV" default:"development"`
	LogLevel       string   `envconfig:"LOG_LEVEL"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:8080"`

	// Storage
	DatabaseURL   string `envconfig:"DATABASE_URL"`
	LedgerBackend string `envconfig:"LEDGER_BACKEND" default:"postgres"`
	AutoMigrate   bool   `envconfig:"AUTO_MIGRATE" default:"false"`

	// Attendance day boundary
	Timezone string `envconfig:"TIMEZONE" default:"Local"`

	// Face recognition
	FaceProvider         string        `envconfig:"FACE_PROVIDER" default:"http"`
	FaceServiceURL       string        `envconfig:"FACE_SERVICE_URL" default:"http://localhost:5001"`
	FaceVerifyEndpoint   string        `envconfig:"FACE_VERIFY_ENDPOINT" default:"/api/face/verify-face"`
	FaceRegisterEndpoint string        `envconfig:"FACE_REGISTER_ENDPOINT" default:"/api/face/register-face"`
	FaceServiceTimeout   time.Duration `envconfig:"FACE_SERVICE_TIMEOUT" default:"10s"`

	// AWS Rekognition
	AWSRegion             string  `envconfig:"AWS_REGION" default:"us-east-1"`
	RekognitionCollection string  `envconfig:"REKOGNITION_COLLECTION" default:"bundyclock-employees"`
	RekognitionThreshold  float64 `envconfig:"REKOGNITION_THRESHOLD" default:"0.8"`

	// Per-employee clock lock
	LockBackend   string        `envconfig:"LOCK_BACKEND" default:"memory"`
	LockTTL       time.Duration `envconfig:"LOCK_TTL" default:"30s"`
	LockWait      time.Duration `envconfig:"LOCK_WAIT" default:"10s"`
	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`

	// Clock endpoint throttling
	ClockRateLimit float64 `envconfig:"CLOCK_RATE_LIMIT" default:"5"`
	ClockRateBurst int     `envconfig:"CLOCK_RATE_BURST" default:"10"`
}

// Load reads an optional .env file and then the process environment
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.LedgerBackend {
	case LedgerPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when LEDGER_BACKEND=postgres")
		}
	case LedgerMemory:
	default:
		return fmt.Errorf("unknown LEDGER_BACKEND %q", c.LedgerBackend)
	}

	switch c.LockBackend {
	case LockMemory, LockRedis:
	case LockPostgres:
		if c.LedgerBackend != LedgerPostgres {
			return errors.New("LOCK_BACKEND=postgres requires LEDGER_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("unknown LOCK_BACKEND %q", c.LockBackend)
	}

	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured timezone used for the attendance day window
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
