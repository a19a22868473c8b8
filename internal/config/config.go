package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// SessionBackendMemory keeps conversation history in process memory.
	SessionBackendMemory = "memory"
	// SessionBackendRedis keeps conversation history in Redis.
	SessionBackendRedis = "redis"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string
	LLMTimeout   time.Duration

	TwilioAccountSID     string
	TwilioAuthToken      string
	TwilioWhatsAppNumber string
	TwilioContentSID     string
	SendTimeout          time.Duration

	SessionBackend string
	SessionTTL     time.Duration
	RedisAddr      string
	RedisPassword  string
	RedisTLS       bool

	AssistantName   string
	ExtraGreetings  []string
	TemplateDate    string
	TemplateTime    string
	DispatchTrigger string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8000"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		GeminiAPIKey: getEnv("GOOGLE_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		LLMTimeout:   getEnvAsDuration("LLM_TIMEOUT", 30*time.Second),

		TwilioAccountSID:     getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:      getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioWhatsAppNumber: getEnv("TWILIO_WHATSAPP_NUMBER", "whatsapp:+14155238886"),
		TwilioContentSID:     getEnv("TWILIO_CONTENT_SID", ""),
		SendTimeout:          getEnvAsDuration("SEND_TIMEOUT", 10*time.Second),

		SessionBackend: strings.ToLower(strings.TrimSpace(getEnv("SESSION_BACKEND", SessionBackendMemory))),
		SessionTTL:     getEnvAsDuration("SESSION_TTL", 0),
		RedisAddr:      getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisTLS:       getEnvAsBool("REDIS_TLS", false),

		AssistantName:   getEnv("ASSISTANT_NAME", "TravelMate AI"),
		ExtraGreetings:  getEnvAsList("EXTRA_GREETINGS"),
		TemplateDate:    getEnv("TEMPLATE_DATE", "12/1"),
		TemplateTime:    getEnv("TEMPLATE_TIME", "3pm"),
		DispatchTrigger: getEnv("DISPATCH_TRIGGER", "appointment"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
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

// getEnvAsList splits a comma-separated environment variable, dropping empty items.
func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
