// Package config provides environment configuration for the API server.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application. It is built once in
// main and passed to components at construction time.
type Config struct {
	// Application
	Env   string
	Debug bool

	// Server settings
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration

	// Database settings
	DatabaseDSN     string
	DBMaxOpenConns  int
	DBMaxIdleConns  int
	DBConnMaxLife   time.Duration
	DBAutoMigrate   bool

	// Redis settings
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// NATS settings
	NATSURL      string
	NATSCAFile   string
	NATSCertFile string
	NATSKeyFile  string
	NATSToken    string
	NATSEnabled  bool

	// Keycloak settings
	KeycloakServerURL string
	KeycloakRealm     string
	KeycloakClientID  string
	JWKSCacheTTL      time.Duration

	// WhatsApp gateway (WAHA) settings
	WahaBaseURL string
	WahaAPIPath string
	WahaSession string
	WahaAPIKey  string
	WahaTimeout time.Duration

	// Agent router (H2H) settings
	AgentRouterBaseURL string
	AgentRouterAPIKey  string
	AgentRouterTimeout time.Duration
	AgentRelayTimeout  time.Duration

	// Session lifecycle
	SessionIdleTimeout time.Duration

	// Rate limiting
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Logging
	LogLevel string

	// Tracing
	TracingEndpoint string
	TracingEnabled  bool
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		// Application
		Env:   getEnv("ENV", "development"),
		Debug: getBoolEnv("DEBUG", true),

		// Server
		ServerPort:         getEnv("PORT", "8080"),
		ServerReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
		ServerWriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 120*time.Second),

		// Database
		DatabaseDSN:    getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=cs_service port=5432 sslmode=disable"),
		DBMaxOpenConns: getIntEnv("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns: getIntEnv("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLife:  getDurationEnv("DB_CONN_MAX_LIFE", time.Hour),
		DBAutoMigrate:  getBoolEnv("DB_AUTO_MIGRATE", true),

		// Redis
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		// NATS
		NATSURL:      getEnv("NATS_URL", "nats://localhost:4222"),
		NATSCAFile:   getEnv("NATS_CA_FILE", ""),
		NATSCertFile: getEnv("NATS_CERT_FILE", ""),
		NATSKeyFile:  getEnv("NATS_KEY_FILE", ""),
		NATSToken:    getEnv("NATS_TOKEN", ""),
		NATSEnabled:  getBoolEnv("NATS_ENABLED", false),

		// Keycloak
		KeycloakServerURL: getEnv("KEYCLOAK_SERVER_URL", "http://localhost:8180"),
		KeycloakRealm:     getEnv("KEYCLOAK_REALM", "hotel"),
		KeycloakClientID:  getEnv("KEYCLOAK_CLIENT_ID", "cs-service"),
		JWKSCacheTTL:      getDurationEnv("JWKS_CACHE_TTL", time.Hour),

		// WAHA
		WahaBaseURL: getEnv("WAHA_BASE_URL", "http://localhost:3000"),
		WahaAPIPath: getEnv("WAHA_API_PATH", "/api/sendText"),
		WahaSession: getEnv("WAHA_SESSION", "default"),
		WahaAPIKey:  getEnv("WAHA_API_KEY", ""),
		WahaTimeout: getDurationEnv("WAHA_TIMEOUT", 30*time.Second),

		// Agent router
		AgentRouterBaseURL: getEnv("AGENT_ROUTER_BASE_URL", "http://localhost:9000"),
		AgentRouterAPIKey:  getEnv("AGENT_ROUTER_API_KEY", ""),
		AgentRouterTimeout: getDurationEnv("AGENT_ROUTER_TIMEOUT", 30*time.Second),
		AgentRelayTimeout:  getDurationEnv("AGENT_RELAY_TIMEOUT", 60*time.Second),

		// Session lifecycle
		SessionIdleTimeout: getDurationEnv("SESSION_IDLE_TIMEOUT", 30*time.Minute),

		// Rate limiting
		RateLimitRequests: getIntEnv("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Tracing
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingEnabled:  getBoolEnv("TRACING_ENABLED", false),
	}
}

// IsProduction reports whether the app runs in the production environment.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
