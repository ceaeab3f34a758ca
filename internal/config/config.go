package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Keys      APIKeys
	Ai        AIConfig
	Telemetry TelemetryConfig
}

type AppConfig struct {
	Port        string
	Environment string
	LogFilePath string
	BodyLimitMB int
}

type DatabaseConfig struct {
	Connection             string
	MaxIdleConns           int
	MaxOpenConns           int
	ConnMaxLifetimeMinutes int
}

type APIKeys struct {
	OpenAI string
}

type AIConfig struct {
	OpenAIBaseURL  string
	DefaultModel   string
	Temperature    float64
	MaxTokens      int
	TimeoutSeconds int
}

type TelemetryConfig struct {
	OtelEnabled    bool
	OtelEndpoint   string
	ServiceName    string
	MetricsEnabled bool
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// DatabaseConfigured reports whether DATABASE_URL was provided.
func (c *Config) DatabaseConfigured() bool {
	return c.Database.Connection != ""
}

// OpenAIConfigured reports whether OPENAI_API_KEY was provided.
func (c *Config) OpenAIConfigured() bool {
	return c.Keys.OpenAI != ""
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:        getEnv("APP_PORT", "3000"),
			Environment: getEnv("GO_ENV", "development"),
			LogFilePath: getEnv("LOG_FILE_PATH", "logs/app.log"),
			BodyLimitMB: getEnvAsInt("BODY_LIMIT_MB", 1),
		},
		Database: DatabaseConfig{
			Connection:             getEnv("DATABASE_URL", ""),
			MaxIdleConns:           getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:           getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			ConnMaxLifetimeMinutes: getEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 60),
		},
		Keys: APIKeys{
			OpenAI: getEnv("OPENAI_API_KEY", ""),
		},
		Ai: AIConfig{
			OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			DefaultModel:   getEnv("OPENAI_DEFAULT_MODEL", "gpt-3.5-turbo"),
			Temperature:    getEnvAsFloat("OPENAI_TEMPERATURE", 0.7),
			MaxTokens:      getEnvAsInt("OPENAI_MAX_TOKENS", 1000),
			TimeoutSeconds: getEnvAsInt("OPENAI_TIMEOUT_SECONDS", 30),
		},
		Telemetry: TelemetryConfig{
			OtelEnabled:    getEnvAsBool("OTEL_ENABLED", false),
			OtelEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "ai-chat-backend"),
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
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

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
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
