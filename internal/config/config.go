package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetBoolEnv returns a bool environment variable or a default value.
func GetBoolEnv(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(val)); err == nil {
			return b
		}
	}
	return defaultVal
}

// GetDurationEnv returns a duration environment variable ("15m", "24h") or a default value.
func GetDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(val)); err == nil {
			return d
		}
	}
	return defaultVal
}

// IsProduction checks if the app runs in production mode.
func IsProduction() bool {
	return GetEnv("ENV", "development") == "production"
}

// Fee source backends
const (
	BackendPostgres  = "postgres"
	BackendFirestore = "firestore"
)

// Duplicate collection policies
const (
	DuplicatePolicyReject = "reject"
	DuplicatePolicyAllow  = "allow"
)

// AppConfig is the typed view of the environment, assembled once at startup.
type AppConfig struct {
	Port           string
	AllowedOrigins string

	FeeSourceBackend  string
	FirestoreProject  string
	FirestoreCredFile string
	FeeSourceCacheTTL time.Duration

	ExhaustiveScan  bool
	DuplicatePolicy string
	BatchWorkers    int
	BatchMaxItems   int

	LoginRateLimit int
}

// Load reads the application configuration from the environment.
func Load() AppConfig {
	cfg := AppConfig{
		Port:              GetEnv("PORT", "8080"),
		AllowedOrigins:    GetEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
		FeeSourceBackend:  strings.ToLower(GetEnv("FEE_SOURCE_BACKEND", BackendPostgres)),
		FirestoreProject:  GetEnv("FIRESTORE_PROJECT_ID", ""),
		FirestoreCredFile: GetEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		FeeSourceCacheTTL: GetDurationEnv("FEE_SOURCE_CACHE_TTL", 10*time.Minute),
		ExhaustiveScan:    GetBoolEnv("FEE_EXHAUSTIVE_SCAN", true),
		DuplicatePolicy:   strings.ToLower(GetEnv("COLLECTION_DUPLICATE_POLICY", DuplicatePolicyReject)),
		BatchWorkers:      GetIntEnv("COLLECTION_BATCH_WORKERS", 4),
		BatchMaxItems:     GetIntEnv("COLLECTION_BATCH_MAX_ITEMS", 200),
		LoginRateLimit:    GetIntEnv("LOGIN_RATE_LIMIT", 5),
	}

	if cfg.FeeSourceBackend != BackendFirestore {
		cfg.FeeSourceBackend = BackendPostgres
	}
	if cfg.DuplicatePolicy != DuplicatePolicyAllow {
		cfg.DuplicatePolicy = DuplicatePolicyReject
	}
	if cfg.BatchWorkers <= 0 {
		cfg.BatchWorkers = 1
	}
	return cfg
}
