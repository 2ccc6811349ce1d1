package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	Relay   RelayConfig
	Archive ArchiveConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type RelayConfig struct {
	// LinkTTL of 0 means links never expire.
	LinkTTL                time.Duration
	MessageTTL             time.Duration
	EmptyConversationGrace time.Duration
	SweepInterval          time.Duration
	MaxMessageLength       int
}

type ArchiveConfig struct {
	Enabled bool
	Path    string
	Topic   string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Relay: RelayConfig{
			LinkTTL:                getEnvAsDuration("LINK_TTL", 6*time.Hour),
			MessageTTL:             getEnvAsDuration("MESSAGE_TTL", 24*time.Hour),
			EmptyConversationGrace: getEnvAsDuration("EMPTY_CONVERSATION_GRACE", time.Hour),
			SweepInterval:          getEnvAsDuration("SWEEP_INTERVAL", time.Hour),
			MaxMessageLength:       getEnvAsInt("MAX_MESSAGE_LENGTH", 2000),
		},
		Archive: ArchiveConfig{
			Enabled: getEnvAsBool("ARCHIVE_ENABLED", false),
			Path:    getEnv("ARCHIVE_PATH", "data/archive"),
			Topic:   getEnv("ARCHIVE_TOPIC", "ARCHIVE_MESSAGE"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
