package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultEnv             = "development"
	defaultDBPath          = "./dev.db"
	defaultPort            = "8080"
	defaultLogLevel        = "info"
	defaultReportCacheTTL  = time.Minute
	defaultShutdownTimeout = 10 * time.Second
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env             string
	DBPath          string
	Port            string
	LogLevel        string
	RedisURL        string
	ReportCacheTTL  time.Duration
	AutoMigrate     bool
	SeedDemoData    bool
	ShutdownTimeout time.Duration
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	return LoadFrom(".env")
}

// LoadFrom is Load with an explicit dotenv path. Variables already set in the
// process environment win over the file.
func LoadFrom(dotenvPath string) Config {
	if err := godotenv.Load(dotenvPath); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: could not read %s: %v", dotenvPath, err)
	}

	cfg := Config{
		Env:             getEnv("APP_ENV", defaultEnv),
		DBPath:          getEnv("DB_PATH", defaultDBPath),
		Port:            getEnv("PORT", defaultPort),
		LogLevel:        getEnv("LOG_LEVEL", defaultLogLevel),
		RedisURL:        os.Getenv("REDIS_URL"),
		ReportCacheTTL:  getEnvAsDuration("REPORT_CACHE_TTL", defaultReportCacheTTL),
		AutoMigrate:     getEnvAsBool("AUTO_MIGRATE", true),
		SeedDemoData:    getEnvAsBool("SEED_DEMO_DATA", false),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	if cfg.RedisURL == "" {
		log.Print("warning: REDIS_URL is not set, report cache disabled")
	}

	return cfg
}

// IsDev reports whether the service runs in development mode.
func (c Config) IsDev() bool {
	return c.Env == defaultEnv || c.Env == "dev"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
