package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string

	JWTSecret       string
	JWTAccessExpiry time.Duration

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string

	// Path to a Firebase service-account file. When set, bearer ID tokens
	// are verified through Firebase Auth; otherwise the Google tokeninfo
	// endpoint is used.
	FirebaseCredentials string

	// Base URL of the classification functions. Individual endpoints may be
	// overridden; when they are empty they are derived from the base.
	FunctionsBaseEndpoint string
	ClassifierEndpoint    string
	ExtractorEndpoint     string

	SyncBatchSize   int
	ShortBodyMin    int
	MaxSummaryWords int
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	accessExpiry := 15 * time.Minute
	if exp := os.Getenv("JWT_ACCESS_EXPIRY"); exp != "" {
		if parsed, err := time.ParseDuration(exp); err == nil {
			accessExpiry = parsed
		}
	}

	cfg := &Config{
		Port:                  getEnv("PORT", "8080"),
		DatabaseURL:           getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=jobtrack port=5432 sslmode=disable"),
		JWTSecret:             getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTAccessExpiry:       accessExpiry,
		GoogleClientID:        getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:    getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:     getEnv("GOOGLE_REDIRECT_URI", "http://localhost:8080/auth-redirect"),
		FirebaseCredentials:   getEnv("FIREBASE_CREDENTIALS", ""),
		FunctionsBaseEndpoint: strings.TrimRight(getEnv("BASE_FUNCTIONS_ENDPOINT", ""), "/"),
		ClassifierEndpoint:    getEnv("CLASSIFIER_ENDPOINT", ""),
		ExtractorEndpoint:     getEnv("EXTRACT_ENDPOINT", ""),
		SyncBatchSize:         getEnvInt("SYNC_BATCH_SIZE", 35),
		ShortBodyMin:          getEnvInt("SHORT_BODY_MIN", 10),
		MaxSummaryWords:       getEnvInt("MAX_SUMMARY_WORDS", 50),
	}

	if cfg.ClassifierEndpoint == "" && cfg.FunctionsBaseEndpoint != "" {
		cfg.ClassifierEndpoint = cfg.FunctionsBaseEndpoint + "/classifytext"
	}
	if cfg.ExtractorEndpoint == "" && cfg.FunctionsBaseEndpoint != "" {
		cfg.ExtractorEndpoint = cfg.FunctionsBaseEndpoint + "/extracttextentities"
	}

	return cfg
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
