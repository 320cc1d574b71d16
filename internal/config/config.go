package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	JWTSecret   string
	MongoURI    string
	DBName      string
	SkipAuth    bool
	Environment string
	AppId       string

	SourceDriver string // "postgres" or "mysql" for the relational provider
	SourceDSN    string // connection string for the relational provider

	BIBaseURL string // base URL of the BI dataset service
	BIApiKey  string // bearer token for the BI dataset service

	SchemaCacheTTL time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		JWTSecret:      getEnv("JWT_SECRET", "secret"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:         getEnv("DB_NAME", "go-reports"),
		SkipAuth:       getEnv("SKIP_AUTH", "false") == "true",
		Environment:    getEnv("ENVIRONMENT", "development"),
		AppId:          getEnv("APP_ID", "go-reports"),
		SourceDriver:   getEnv("SOURCE_DRIVER", "postgres"),
		SourceDSN:      getEnv("SOURCE_DSN", ""),
		BIBaseURL:      getEnv("BI_BASE_URL", ""),
		BIApiKey:       getEnv("BI_API_KEY", ""),
		SchemaCacheTTL: getDurationEnv("SCHEMA_CACHE_TTL_SECONDS", 300),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallbackSeconds int) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return time.Duration(fallbackSeconds) * time.Second
}
