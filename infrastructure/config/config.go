package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion     string
	DynamoDBTable string
	IndexName     string
	EventBusName  string

	// Storage backend: "dynamodb" or "memory"
	StorageBackend string

	// Authentication
	JWTSecret        string
	JWTIssuer        string
	JWTSigningMethod string
	JWTPublicKey     string

	// Logging
	LogLevel string

	// Feature flags
	EnableTracing bool
	EnableCORS    bool

	// Tracing
	OTLPEndpoint string

	// Graph tuning overlay file (optional, hot reloaded)
	TuningFile string

	// Layout streaming
	TickIntervalMillis int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		AWSRegion:     getEnv("AWS_REGION", "us-west-2"),
		DynamoDBTable: getEnv("TABLE_NAME", "mindgraph"),
		IndexName:     getEnv("INDEX_NAME", "NoteIndex"),
		EventBusName:  getEnv("EVENT_BUS_NAME", "mindgraph-events"),

		StorageBackend: getEnv("STORAGE_BACKEND", "dynamodb"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTIssuer:        getEnv("JWT_ISSUER", "mindgraph-backend"),
		JWTSigningMethod: getEnv("JWT_SIGNING_METHOD", "HS256"),
		JWTPublicKey:     getEnv("JWT_PUBLIC_KEY", ""),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableTracing: getEnvBool("ENABLE_TRACING", false),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),
		OTLPEndpoint:  getEnv("OTLP_ENDPOINT", ""),

		TuningFile: getEnv("GRAPH_TUNING_FILE", ""),

		TickIntervalMillis: getEnvInt("LAYOUT_TICK_INTERVAL_MS", 33),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.Environment == "production" {
		if c.JWTSecret == "" && c.JWTPublicKey == "" {
			return fmt.Errorf("JWT_SECRET or JWT_PUBLIC_KEY is required in production")
		}
		if c.StorageBackend == "dynamodb" && c.DynamoDBTable == "" {
			return fmt.Errorf("TABLE_NAME is required")
		}
	}

	switch c.StorageBackend {
	case "dynamodb", "memory":
	default:
		return fmt.Errorf("unknown storage backend: %s", c.StorageBackend)
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
