package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Pipeline PipelineConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	SessionStore       string // "memory" or "redis"
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	Provider        string // "ollama" or "gemini"
	Model           string // e.g. "llama3", "gemini-1.5-flash"
	OllamaBaseURL   string
	GeminiAPIKey    string
	ProviderTimeout time.Duration
}

type PipelineConfig struct {
	SessionTTL      time.Duration
	SweepInterval   time.Duration
	UsageBufferSize int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			SessionStore:       getEnv("SESSION_STORE", "memory"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			Provider:        getEnv("LLM_PROVIDER", "ollama"),
			Model:           getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL:   getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			GeminiAPIKey:    getEnv("GOOGLE_GEMINI_API_KEY", ""),
			ProviderTimeout: getEnvAsDuration("LLM_TIMEOUT_SECONDS", 120) * time.Second,
		},
		Pipeline: PipelineConfig{
			SessionTTL:      getEnvAsDuration("SESSION_TTL_MINUTES", 30) * time.Minute,
			SweepInterval:   getEnvAsDuration("SESSION_SWEEP_MINUTES", 5) * time.Minute,
			UsageBufferSize: getEnvAsInt("USAGE_BUFFER_SIZE", 256),
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

func getEnvAsDuration(key string, fallback int) time.Duration {
	return time.Duration(getEnvAsInt(key, fallback))
}
