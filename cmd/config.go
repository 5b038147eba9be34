package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverFirestore = "firestore"
	StoreDriverMemory    = "memory"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	StoreDriver             string
	FirebaseProjectID       string
	FirebaseCredentialsFile string

	RedisAddress  string
	RedisPassword string

	GoogleMapsAPIKey string

	DESKey string
	DESIV  string

	RetrySchedule       string
	MaxPendingAttempts  int
	AssignmentTimeout   time.Duration
	LockTTL             time.Duration
	OrderStreamInterval time.Duration

	LogLevel  string
	LogFormat string
}

// LoadConfig reads .env when present, then the environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		HTTPPort:   env("HTTP_PORT", "8080"),
		DBHost:     env("DB_HOST", "localhost"),
		DBPort:     env("DB_PORT", "5432"),
		DBUser:     env("DB_USER", "postgres"),
		DBPassword: env("DB_PASSWORD", "postgres"),
		DBName:     env("DB_NAME", "dispatch"),
		DBSslMode:  env("DB_SSLMODE", "disable"),

		StoreDriver:             strings.ToLower(env("STORE_DRIVER", StoreDriverFirestore)),
		FirebaseProjectID:       env("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentialsFile: env("FIREBASE_CREDENTIALS_FILE", ""),

		RedisAddress:  env("REDIS_ADDRESS", ""),
		RedisPassword: env("REDIS_PASSWORD", ""),

		GoogleMapsAPIKey: env("GOOGLE_MAPS_API_KEY", ""),

		DESKey: env("DES_KEY", "firebase"),
		DESIV:  env("DES_IV", "esaberif"),

		RetrySchedule: env("RETRY_SCHEDULE", "0 * * * * *"),

		LogLevel:  env("LOG_LEVEL", "info"),
		LogFormat: env("LOG_FORMAT", "console"),
	}

	var err error
	if cfg.MaxPendingAttempts, err = envInt("MAX_PENDING_ATTEMPTS", 0); err != nil {
		return Config{}, err
	}
	if cfg.AssignmentTimeout, err = envDuration("ASSIGNMENT_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.LockTTL, err = envDuration("LOCK_TTL", 30*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.OrderStreamInterval, err = envDuration("ORDER_STREAM_INTERVAL", 6*time.Second); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var problems []error
	switch c.StoreDriver {
	case StoreDriverMemory:
	case StoreDriverFirestore:
		if c.FirebaseProjectID == "" {
			problems = append(problems, errors.New("FIREBASE_PROJECT_ID is required for the firestore store driver"))
		}
	default:
		problems = append(problems, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}
	if c.MaxPendingAttempts < 0 {
		problems = append(problems, errors.New("MAX_PENDING_ATTEMPTS must not be negative"))
	}
	return errors.Join(problems...)
}

// DSN is the gorm postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func env(key string, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	raw := env(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := env(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}
