// File: /config/config.go
package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	// Telegram Mini App
	TelegramBotToken string
	BotUsername      string

	// Object storage upload-URL service
	UploadServiceURL string
	UploadNamespace  string

	// AI assistant
	AnthropicAPIKey string
	AnthropicModel  string
	ChatHistorySize int

	// Geocoding
	NominatimURL string

	// Draft photo cap, bytes
	MaxPhotoSize int64
}

func Load() *Config {
	historySize, _ := strconv.Atoi(getEnv("CHAT_HISTORY_SIZE", "10"))
	maxPhoto, _ := strconv.ParseInt(getEnv("MAX_PHOTO_SIZE", "10485760"), 10, 64)

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", "user:password@tcp(localhost:3306)/injoy?charset=utf8mb4&parseTime=True&loc=Local"),
		JWTSecret:   getEnv("JWT_SECRET", "your-secret-key"),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		BotUsername:      getEnv("BOT_USERNAME", "injoy_travel_bot"),

		UploadServiceURL: getEnv("UPLOAD_SERVICE_URL", "https://fastapi-yandex-upload.onrender.com"),
		UploadNamespace:  getEnv("UPLOAD_NAMESPACE", "miniINJOY"),

		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-3-5-sonnet-latest"),
		ChatHistorySize: historySize,

		NominatimURL: getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),

		MaxPhotoSize: maxPhoto,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
