package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

var (
	ErrUnknownDriver    = errors.New("unknown storage driver")
	ErrMissingRedisAddr = errors.New("REDIS_ADDR is required for the redis driver")
	ErrMissingDBHost    = errors.New("DB_HOST is required for the postgres driver")
	ErrMissingSecret    = errors.New("SESSION_SECRET is required in production")
)

type Config struct {
	AppEnv   string
	AppPort  string
	LogLevel string

	StorageDriver  string
	StorageDir     string
	CartStorageKey string
	RedisAddr      string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	SessionSecret string
	SessionTTL    time.Duration
	SessionIdle   time.Duration
	CORSOrigin    string

	StoreName        string
	WhatsAppNumber   string
	BankName         string
	BankAccount      string
	BankHolder       string
	InstructionDelay time.Duration
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getenv("APP_ENV", "development"),
		AppPort:  getenv("APP_PORT", "8080"),
		LogLevel: os.Getenv("LOG_LEVEL"),

		StorageDriver:  getenv("STORAGE_DRIVER", DriverFile),
		StorageDir:     getenv("STORAGE_DIR", "./data"),
		CartStorageKey: getenv("CART_STORAGE_KEY", "restoCart"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),

		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     getenv("DB_PORT", "5432"),

		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionTTL:    getduration("SESSION_TTL", 720*time.Hour),
		SessionIdle:   getduration("SESSION_IDLE_TTL", 30*time.Minute),
		CORSOrigin:    getenv("CORS_ORIGIN", "http://localhost:3000"),

		StoreName:        getenv("STORE_NAME", "Lezat Lumer"),
		WhatsAppNumber:   getenv("WHATSAPP_NUMBER", "6287773033706"),
		BankName:         getenv("BANK_NAME", "BCA"),
		BankAccount:      getenv("BANK_ACCOUNT", "3621274994"),
		BankHolder:       getenv("BANK_HOLDER", "Muhammad Faiz Anugrah"),
		InstructionDelay: getduration("INSTRUCTION_DELAY", 800*time.Millisecond),
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	return cfg
}

// Validate checks that the selected storage driver has what it needs to connect.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverMemory, DriverFile:
	case DriverRedis:
		if c.RedisAddr == "" {
			return ErrMissingRedisAddr
		}
	case DriverPostgres:
		if c.DBHost == "" {
			return ErrMissingDBHost
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.StorageDriver)
	}

	if c.AppEnv == "production" && c.SessionSecret == "" {
		return ErrMissingSecret
	}

	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid duration for %s (%q), using %s", key, v, fallback)
		return fallback
	}
	return d
}
