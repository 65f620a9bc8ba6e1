package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Session  SessionConfig
	Banking  BankingConfig
	Ai       AIConfig
	Security SecurityConfig
	Events   EventsConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	DeskLogFilePath    string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	OtelEnabled        bool
}

type DatabaseConfig struct {
	Connection      string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	Debug           bool
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type SessionConfig struct {
	Backend         string // "memory" or "redis"
	PhoneTTL        time.Duration
	SMSTTL          time.Duration
	WebVoiceTTL     time.Duration
	WebChatTTL      time.Duration
	MaxAuthAttempts int
}

type BankingConfig struct {
	PersistenceTimeout time.Duration
	FastPathEnabled    bool
	PersistentEnabled  bool
}

type AIConfig struct {
	LLMProvider         string // "ollama" or "huggingface"
	LLMModel            string
	LLMBaseURL          string
	LLMAPIKey           string
	ClassifierEnabled   bool
	ClassifierThreshold float64
}

type SecurityConfig struct {
	JWTSecret      string
	WebhookSecret  string
	CustomerRefKey string
}

type EventsConfig struct {
	StatementTopic string
	NatsEnabled    bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.json"),
			DeskLogFilePath:    getEnv("DESK_LOG_FILE_PATH", "escalations.log.json"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Database: DatabaseConfig{
			Connection:      getEnv("DB_CONNECTION_STRING", ""),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 20),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			Debug:           getEnvAsBool("DB_DEBUG", false),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Vaulta Bank"),
		},
		Session: SessionConfig{
			Backend:         getEnv("SESSION_BACKEND", "memory"),
			PhoneTTL:        getEnvAsDuration("SESSION_TTL_PHONE", 300*time.Second),
			SMSTTL:          getEnvAsDuration("SESSION_TTL_SMS", 24*time.Hour),
			WebVoiceTTL:     getEnvAsDuration("SESSION_TTL_WEB_VOICE", 300*time.Second),
			WebChatTTL:      getEnvAsDuration("SESSION_TTL_WEB_CHAT", 30*time.Minute),
			MaxAuthAttempts: getEnvAsInt("MAX_AUTH_ATTEMPTS", 3),
		},
		Banking: BankingConfig{
			PersistenceTimeout: getEnvAsDuration("PERSISTENCE_TIMEOUT", 3*time.Second),
			FastPathEnabled:    getEnvAsBool("FASTPATH_ENABLED", true),
			PersistentEnabled:  getEnvAsBool("PERSISTENT_ENABLED", true),
		},
		Ai: AIConfig{
			LLMProvider:         getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:            getEnv("LLM_MODEL", "llama3"),
			LLMBaseURL:          getEnv("LLM_BASE_URL", "http://localhost:11434"),
			LLMAPIKey:           getEnv("LLM_API_KEY", ""),
			ClassifierEnabled:   getEnvAsBool("LLM_CLASSIFIER_ENABLED", false),
			ClassifierThreshold: getEnvAsFloat("CLASSIFIER_THRESHOLD", 0.6),
		},
		Security: SecurityConfig{
			JWTSecret:      getEnv("JWT_SECRET", ""),
			WebhookSecret:  getEnv("VAPI_WEBHOOK_SECRET", ""),
			CustomerRefKey: getEnv("CUSTOMER_REF_KEY", ""),
		},
		Events: EventsConfig{
			StatementTopic: getEnv("STATEMENT_TOPIC_NAME", "STATEMENT_REQUESTED"),
			NatsEnabled:    getEnvAsBool("NATS_ENABLED", false),
		},
	}
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Environment, "production")
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go duration strings ("30s", "5m") or a bare
// number of seconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
