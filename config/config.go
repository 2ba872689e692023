package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port       string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	JWTSecret  string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string

	VisionAPIKey   string
	VisionBaseURL  string
	VisionModel    string
	PDFConvertURL  string
	PDFConvertKey  string
	ArchiveScrapes bool

	// Scraper defaults; per-request options override these.
	PolicyFile     string
	CacheTTL       time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
	NavTimeout     time.Duration
	IdleWaitCap    time.Duration
	ViewportWidth  int
	ViewportHeight int
	UserAgent      string
	Locale         string
}

func LoadConfig() Config {
	// Missing .env is fine; system environment still applies.
	_ = godotenv.Load()

	return Config{
		Port:       getEnv("PORT", "8000"),
		DBUser:     getEnv("DB_USER", ""),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBHost:     getEnv("DB_HOST", ""),
		DBPort:     getEnv("DB_PORT", ""),
		DBName:     getEnv("DB_NAME", ""),
		JWTSecret:  getEnv("JWT_SECRET", ""),

		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinIOBucket:    getEnv("MINIO_BUCKET", "scout"),

		VisionAPIKey:   getEnv("VISION_API_KEY", ""),
		VisionBaseURL:  getEnv("VISION_BASE_URL", "https://api.openai.com/v1/chat/completions"),
		VisionModel:    getEnv("VISION_MODEL", "gpt-4o-mini"),
		PDFConvertURL:  getEnv("PDF_CONVERT_URL", ""),
		PDFConvertKey:  getEnv("PDF_CONVERT_KEY", ""),
		ArchiveScrapes: getEnvBool("ARCHIVE_SCRAPES", false),

		PolicyFile:     getEnv("SCRAPE_POLICY_FILE", ""),
		CacheTTL:       getEnvDuration("SCRAPE_CACHE_TTL", 1800*time.Second),
		MaxRetries:     getEnvInt("SCRAPE_MAX_RETRIES", 2),
		RetryDelay:     getEnvDuration("SCRAPE_RETRY_DELAY", time.Second),
		NavTimeout:     getEnvDuration("SCRAPE_NAV_TIMEOUT", 30*time.Second),
		IdleWaitCap:    getEnvDuration("SCRAPE_IDLE_WAIT_CAP", 10*time.Second),
		ViewportWidth:  getEnvInt("SCRAPE_VIEWPORT_WIDTH", 1920),
		ViewportHeight: getEnvInt("SCRAPE_VIEWPORT_HEIGHT", 1080),
		UserAgent: getEnv("SCRAPE_USER_AGENT",
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		Locale: getEnv("SCRAPE_LOCALE", "en-US"),
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
