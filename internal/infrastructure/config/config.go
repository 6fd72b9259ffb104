// internal/infrastructure/config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion  string
	ServiceName string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// MongoDB
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// Session auth
	JWTSecret string

	// Places provider
	PlacesBaseURL   string
	PlacesAPIKey    string
	PlacesRateRPS   float64
	PlacesRateBurst int

	// Field-service vendor
	FieldServiceBaseURL     string
	FieldServiceTokenURL    string
	FieldServiceClientID    string
	FieldServiceSecret      string
	FieldServiceStaticToken string
	FieldServiceTimeout     time.Duration

	// Pipeline tuning
	SuggestDebounce  time.Duration
	AutosaveDebounce time.Duration
	DraftIdleTTL     time.Duration
	CatalogTTL       time.Duration
	VehicleLimit     int
	FeedLimit        int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		AppVersion:  getEnv("APP_VERSION", "1.0.0"),
		ServiceName: getEnv("SERVICE_NAME", "resident_request_service"),

		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		MongoURI:      getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "resident"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),

		PlacesBaseURL:   getEnv("PLACES_BASE_URL", "https://maps.googleapis.com/maps/api/place"),
		PlacesAPIKey:    getEnv("PLACES_API_KEY", ""),
		PlacesRateRPS:   getEnvAsFloat("PLACES_RATE_RPS", 10),
		PlacesRateBurst: getEnvAsInt("PLACES_RATE_BURST", 5),

		FieldServiceBaseURL:     getEnv("FIELDSERVICE_BASE_URL", ""),
		FieldServiceTokenURL:    getEnv("FIELDSERVICE_TOKEN_URL", ""),
		FieldServiceClientID:    getEnv("FIELDSERVICE_CLIENT_ID", ""),
		FieldServiceSecret:      getEnv("FIELDSERVICE_CLIENT_SECRET", ""),
		FieldServiceStaticToken: getEnv("FIELDSERVICE_TOKEN", ""),
		FieldServiceTimeout:     time.Duration(getEnvAsInt("FIELDSERVICE_TIMEOUT", 30)) * time.Second,

		SuggestDebounce:  time.Duration(getEnvAsInt("SUGGEST_DEBOUNCE_MS", 700)) * time.Millisecond,
		AutosaveDebounce: time.Duration(getEnvAsInt("AUTOSAVE_DEBOUNCE_MS", 1000)) * time.Millisecond,
		DraftIdleTTL:     time.Duration(getEnvAsInt("DRAFT_IDLE_TTL", 1800)) * time.Second,
		CatalogTTL:       time.Duration(getEnvAsInt("CATALOG_TTL", 600)) * time.Second,
		VehicleLimit:     getEnvAsInt("VEHICLE_LIMIT", 2),
		FeedLimit:        getEnvAsInt("NOTIFICATION_FEED_LIMIT", 100),
	}

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}
