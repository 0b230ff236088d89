package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	PostgreSQL PostgreSQLConfig
	Server     ServerConfig
	LLM        LLMConfig
	KB         KBConfig
}

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	DSN                string // full connection string, takes precedence when set
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// LLMConfig holds configuration for the OpenAI-compatible completion API
type LLMConfig struct {
	APIKey              string
	APIBase             string
	ExtractModel        string  // model for structured listing extraction
	AdvisorModel        string  // model for the advisory generation step
	ExtractTemperature  float64 // near-deterministic
	AdvisorTemperature  float64 // low but nonzero
	ExtractMaxTokens    int
	AdvisorMaxTokens    int
	EmbeddingModel      string
	EmbeddingDimensions int
	BatchSize           int
	Timeout             int // seconds
	Enabled             bool
}

// KBConfig holds the knowledge base location
type KBConfig struct {
	CSVPath string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("POSTGRESQL_URI", getEnv("PG_DSN", ""))),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "autoadvisor"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 25),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 5),
		},
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization"),
		},
		LLM: LLMConfig{
			APIKey:              getEnv("LLM_API_KEY", ""),
			APIBase:             getEnv("LLM_API_BASE", "https://api.mistral.ai/v1"),
			ExtractModel:        getEnv("LLM_EXTRACT_MODEL", "mistral-small-latest"),
			AdvisorModel:        getEnv("LLM_ADVISOR_MODEL", "mistral-tiny-latest"),
			ExtractTemperature:  getEnvAsFloat("LLM_EXTRACT_TEMPERATURE", 0.0),
			AdvisorTemperature:  getEnvAsFloat("LLM_ADVISOR_TEMPERATURE", 0.2),
			ExtractMaxTokens:    getEnvAsInt("LLM_EXTRACT_MAX_TOKENS", 400),
			AdvisorMaxTokens:    getEnvAsInt("LLM_ADVISOR_MAX_TOKENS", 700),
			EmbeddingModel:      getEnv("LLM_EMBEDDING_MODEL", "mistral-embed"),
			EmbeddingDimensions: getEnvAsInt("LLM_EMBEDDING_DIMENSIONS", 1024),
			BatchSize:           getEnvAsInt("LLM_BATCH_SIZE", 100),
			Timeout:             getEnvAsInt("LLM_TIMEOUT", 45),
			Enabled:             getEnv("LLM_API_KEY", "") != "",
		},
		KB: KBConfig{
			CSVPath: getEnv("KB_CSV", "data/knowledge_base.csv"),
		},
	}

	return cfg, nil
}

// Validate checks that required external configuration is present. Failures
// are fatal at startup and never retryable.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("missing LLM_API_KEY in environment")
	}
	if c.KB.CSVPath == "" {
		return fmt.Errorf("missing KB_CSV in environment")
	}
	return nil
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default %f", key, defaultValue)
		return defaultValue
	}
	return value
}
