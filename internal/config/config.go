package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string

	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	SessionTTL    time.Duration

	AWSRegion               string
	AWSEndpointOverride     string
	BedrockModelID          string
	BedrockEmbeddingModelID string

	// Conversation engine tuning.
	CompanyName            string
	AgentName              string
	ContextTokenBudget     int
	KnowledgeDocBudget     int
	MaxContextMessages     int
	KeepVerbatimMessages   int
	RetrievalTopK          int
	AmbiguityWindow        int
	InterestWindow         int
	ConfirmationRetryLimit int
	NIDCountry             string

	// External call discipline.
	ExternalCallTimeout time.Duration
	RetryMaxAttempts    int
	RetryBaseDelay      time.Duration
	RetryMaxDelay       time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
		SessionTTL:    getEnvAsDuration("SESSION_TTL", 24*time.Hour),

		AWSRegion:               getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointOverride:     getEnv("AWS_ENDPOINT_OVERRIDE", ""),
		BedrockModelID:          getEnv("BEDROCK_MODEL_ID", "anthropic.claude-3-5-sonnet-20240620-v1:0"),
		BedrockEmbeddingModelID: getEnv("BEDROCK_EMBEDDING_MODEL_ID", "amazon.titan-embed-text-v2:0"),

		CompanyName:            getEnv("COMPANY_NAME", "Everbright Life"),
		AgentName:              getEnv("AGENT_NAME", "Alex"),
		ContextTokenBudget:     getEnvAsInt("CONTEXT_TOKEN_BUDGET", 8000),
		KnowledgeDocBudget:     getEnvAsInt("KNOWLEDGE_DOC_BUDGET", 400),
		MaxContextMessages:     getEnvAsInt("MAX_CONTEXT_MESSAGES", 50),
		KeepVerbatimMessages:   getEnvAsInt("KEEP_VERBATIM_MESSAGES", 30),
		RetrievalTopK:          getEnvAsInt("RETRIEVAL_TOP_K", 3),
		AmbiguityWindow:        getEnvAsInt("AMBIGUITY_WINDOW", 5),
		InterestWindow:         getEnvAsInt("INTEREST_WINDOW", 10),
		ConfirmationRetryLimit: getEnvAsInt("CONFIRMATION_RETRY_LIMIT", 2),
		NIDCountry:             strings.ToUpper(strings.TrimSpace(getEnv("NID_COUNTRY", "BD"))),

		ExternalCallTimeout: getEnvAsDuration("EXTERNAL_CALL_TIMEOUT", 15*time.Second),
		RetryMaxAttempts:    getEnvAsInt("RETRY_MAX_ATTEMPTS", 3),
		RetryBaseDelay:      getEnvAsDuration("RETRY_BASE_DELAY", 500*time.Millisecond),
		RetryMaxDelay:       getEnvAsDuration("RETRY_MAX_DELAY", 10*time.Second),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
