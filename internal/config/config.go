// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Storage     StorageConfig
	Listing     ListingConfig
}

type ServerConfig struct {
	Port           string
	Host           string
	ReadTimeout    int
	WriteTimeout   int
	IdleTimeout    int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

type JWTConfig struct {
	SecretKey      string
	AccessTokenTTL int // in hours
}

type StorageConfig struct {
	UploadDir       string
	AWSRegion       string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	MaxUploadBytes  int64
}

// ListingConfig carries the paging and ranking knobs of the search
// surfaces. The per-page values are fixed per surface; only the API list
// accepts a caller-supplied per_page (capped at 50).
type ListingConfig struct {
	PerPage        int
	AgentPerPage   int
	AdminPerPage   int
	FeaturedLimit  int
	SimilarLimit   int // id (API) surface
	SimilarPreview int // slug (page) surface
	SuggestLimit   int
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
			AllowedOrigins: strings.Split(
				getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"), ","),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "gharkhoj"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "silent"),
		},
		JWT: JWTConfig{
			SecretKey:      getEnv("JWT_SECRET", "dev-secret-key"),
			AccessTokenTTL: getEnvAsInt("JWT_ACCESS_TTL", 24),
		},
		Storage: StorageConfig{
			UploadDir:       getEnv("UPLOAD_DIR", "./uploads"),
			AWSRegion:       getEnv("AWS_REGION", "ap-south-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", "gharkhoj-media"),
			MaxUploadBytes:  int64(getEnvAsInt("MAX_UPLOAD_MB", 16)) * 1024 * 1024,
		},
		Listing: ListingConfig{
			PerPage:        getEnvAsInt("PROPERTIES_PER_PAGE", 12),
			AgentPerPage:   getEnvAsInt("AGENT_PER_PAGE", 10),
			AdminPerPage:   getEnvAsInt("ADMIN_PER_PAGE", 20),
			FeaturedLimit:  getEnvAsInt("FEATURED_LIMIT", 10),
			SimilarLimit:   getEnvAsInt("SIMILAR_LIMIT", 6),
			SimilarPreview: getEnvAsInt("SIMILAR_PREVIEW_LIMIT", 4),
			SuggestLimit:   getEnvAsInt("SUGGEST_LIMIT", 5),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.JWT.SecretKey == "dev-secret-key" && c.Environment == "production" {
		return fmt.Errorf("JWT secret key must be changed in production")
	}

	if c.Database.Password == "" && c.Environment == "production" {
		return fmt.Errorf("database password is required in production")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
