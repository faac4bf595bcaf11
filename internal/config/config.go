package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// app config, loaded once at startup from the environment
type Config struct {
	Port   string
	AppEnv string

	// AI provider
	Provider          string
	GenerationTimeout time.Duration

	// persistence
	StoreDriver  string // "mongo" | "postgres" | "sqlite"
	MongoURI     string
	MongoDB      string
	DatabaseURL  string
	SQLitePath   string
	RedisAddr    string // optional, lifecycle events are disabled when empty
	AllowOrigins []string

	// auth collaborator
	AuthSecret string
	AuthCookie string

	// call collaborator
	WorkflowID           string
	InterviewerID        string
	CallConnectTimeout   time.Duration
	CallIdleTTL          time.Duration
	CallErrorEndsSession bool
	ReaperSchedule       string
}

var supportedStores = map[string]bool{
	"mongo":    true,
	"postgres": true,
	"sqlite":   true,
}

// loads configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		Port:                 getEnvOrDefault("PORT", "8080"),
		AppEnv:               getEnvOrDefault("APP_ENV", "production"),
		Provider:             getEnvOrDefault("AI_PROVIDER", "gemini"),
		GenerationTimeout:    getEnvDuration("GENERATION_TIMEOUT", 60*time.Second),
		StoreDriver:          strings.ToLower(getEnvOrDefault("STORE_DRIVER", "mongo")),
		MongoURI:             os.Getenv("MONGODB_URI"),
		MongoDB:              getEnvOrDefault("MONGODB_DB", "mockinterview"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		SQLitePath:           getEnvOrDefault("SQLITE_PATH", "mockinterview.db"),
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		AllowOrigins:         getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		AuthSecret:           os.Getenv("AUTH_SECRET"),
		AuthCookie:           getEnvOrDefault("AUTH_COOKIE", "session-token"),
		WorkflowID:           os.Getenv("VAPI_WORKFLOW_ID"),
		InterviewerID:        getEnvOrDefault("VAPI_INTERVIEWER_ID", "interviewer"),
		CallConnectTimeout:   getEnvDuration("CALL_CONNECT_TIMEOUT", 30*time.Second),
		CallIdleTTL:          getEnvDuration("CALL_IDLE_TTL", 30*time.Minute),
		CallErrorEndsSession: getEnvBool("CALL_ERROR_ENDS_SESSION", false),
		ReaperSchedule:       getEnvOrDefault("REAPER_SCHEDULE", "@every 30s"),
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func validateConfig(config *Config) error {
	if config.Provider != "gemini" {
		return errors.New("unsupported AI provider: " + config.Provider + ". Currently supported: gemini")
	}
	// Gemini validation is handled by gemini.NewConfig()
	if !supportedStores[config.StoreDriver] {
		return errors.New("unsupported store driver: " + config.StoreDriver + ". Supported: mongo, postgres, sqlite")
	}
	if config.StoreDriver == "mongo" && config.MongoURI == "" {
		return errors.New("MONGODB_URI environment variable is required for the mongo store")
	}
	if config.StoreDriver == "postgres" && config.DatabaseURL == "" {
		return errors.New("DATABASE_URL environment variable is required for the postgres store")
	}
	if config.AuthSecret == "" {
		return errors.New("AUTH_SECRET environment variable is required")
	}
	if config.GenerationTimeout <= 0 || config.CallConnectTimeout <= 0 || config.CallIdleTTL <= 0 {
		return errors.New("timeouts must be positive durations")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
