package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	Session SessionConfig
	Ai      AIConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	RedisURL           string
	BodyLimitMB        int
}

type SessionConfig struct {
	TTLHours int
}

type AIConfig struct {
	OpenAIBaseURL      string
	TranscriptionModel string
	NoteModel          string
	CostModel          string
	EventsTopic        string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			RedisURL:           getEnv("REDIS_URL", ""),
			BodyLimitMB:        getEnvAsInt("BODY_LIMIT_MB", 25),
		},
		Session: SessionConfig{
			TTLHours: getEnvAsInt("SESSION_TTL_HOURS", 12),
		},
		Ai: AIConfig{
			OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
			TranscriptionModel: getEnv("TRANSCRIPTION_MODEL", "whisper-1"),
			NoteModel:          getEnv("NOTE_MODEL", "gpt-4o-2024-08-06"),
			CostModel:          getEnv("COST_MODEL", "gpt-4o"),
			EventsTopic:        getEnv("SCRIBE_EVENTS_TOPIC_NAME", "SCRIBE_EVENTS"),
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
