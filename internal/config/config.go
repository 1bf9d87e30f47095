package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	SeedDemoData       bool
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini       string
	RecordChangedTopic string
}

type AIConfig struct {
	LLMProvider    string // "gemini" or "ollama"
	LLMModel       string // e.g. "gemini-2.5-flash", "llama3"
	SynthesisModel string // multimodal model for document OCR
	OllamaBaseURL  string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			SeedDemoData:       getEnvAsBool("SEED_DEMO_DATA", true),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini:       getEnv("GOOGLE_GEMINI_API_KEY", ""),
			RecordChangedTopic: getEnv("RECORD_CHANGED_TOPIC_NAME", "RECORD_CHANGED"),
		},
		Ai: AIConfig{
			LLMProvider:    getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:       getEnv("LLM_MODEL", "gemini-2.5-flash"),
			SynthesisModel: getEnv("SYNTHESIS_MODEL", "gemini-2.5-flash"),
			OllamaBaseURL:  getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
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
