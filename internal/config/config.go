package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort string

	// Database
	DatabaseType string
	DatabasePath string
	DatabaseURL  string

	// Sessions
	SessionSecret   string
	SessionDuration time.Duration

	// Grading and login requests allowed per client per minute
	RateLimitPerMinute int
	// Proxies (addresses or CIDRs) whose X-Forwarded-For is believed
	TrustedProxies []string

	Debug      bool
	AppBaseURL string

	// Email (Amazon SES)
	AWSRegion    string
	SESFromEmail string
	SESFromName  string

	// Reminder job
	ReminderInterval time.Duration
	ReminderLeadDays int
	RunOnce          bool
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:         getEnv("PORT", "8080"),
		DatabaseType:       strings.ToLower(getEnv("DB_TYPE", "sqlite")),
		DatabasePath:       getEnv("DB_PATH", "./revisao_estudos.db"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		SessionSecret:      getEnv("SECRET_KEY", "change-me"),
		SessionDuration:    getEnvDuration("SESSION_DURATION", 24*time.Hour),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		TrustedProxies:     getEnvList("TRUSTED_PROXIES"),
		Debug:              getEnvBool("DEBUG", false),
		AppBaseURL:         getEnv("BASE_URL", "http://localhost:8080"),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail:       getEnv("SES_FROM_EMAIL", ""),
		SESFromName:        getEnv("SES_FROM_NAME", "Study Review"),
		ReminderInterval:   getEnvDuration("REMINDER_INTERVAL", time.Hour),
		ReminderLeadDays:   getEnvInt("REMINDER_LEAD_DAYS", 1),
		RunOnce:            getEnvBool("RUN_ONCE", false),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool accepts 1/true/yes (any case) as true
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	switch strings.ToLower(value) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// getEnvList splits a comma-separated variable, dropping empty entries
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("90m") or a plain number of seconds
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
