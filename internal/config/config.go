package config

import (
	"os"
	"strconv"
)

// Config holds all runtime configuration. It is built once in main and
// passed by reference into each component constructor; nothing reads the
// environment after startup.
type Config struct {
	Port     string
	LogLevel string

	// MySQL
	DBHost string
	DBUser string
	DBPass string
	DBName string
	DBPort int

	// Gemini
	GoogleAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	// S3 archival of raw uploads; disabled when S3Endpoint is empty
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3BucketName      string
	S3UseSSL          bool

	// Upload limits
	MaxFileSize int64
}

// Load reads configuration from the environment with local-dev defaults.
// An empty GOOGLE_API_KEY is not an error: the service runs and records a
// placeholder analysis instead of calling the model.
func Load() *Config {
	return &Config{
		Port:              getEnv("PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBUser:            getEnv("DB_USER", "root"),
		DBPass:            getEnv("DB_PASS", "tiger"),
		DBName:            getEnv("DB_NAME", "lexify_db"),
		DBPort:            getEnvInt("DB_PORT", 3306),
		GoogleAPIKey:      getEnv("GOOGLE_API_KEY", ""),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.5-flash-preview-05-20"),
		GeminiBaseURL:     getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", "minioadmin"),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", "minioadmin"),
		S3BucketName:      getEnv("S3_BUCKET_NAME", "documents"),
		S3UseSSL:          getEnv("S3_USE_SSL", "false") == "true",
		MaxFileSize:       getEnvInt64("MAX_FILE_SIZE", 16<<20),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
