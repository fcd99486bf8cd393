package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Session  SessionConfig
	Keys     APIKeys
	Ai       AIConfig
	Trends   TrendsConfig
	News     NewsConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	PagesConfigPath    string
	ServiceName        string
}

type DatabaseConfig struct {
	Connection string // empty keeps campaigns in memory
	Verbose    bool
}

type SessionConfig struct {
	Backend         string // "memory" or "redis"
	TTL             time.Duration
	CleanupInterval time.Duration
	Secret          string
	CookieName      string
	CookieSecure    bool
}

type APIKeys struct {
	GoogleGemini string
	OpenAI       string
	Anthropic    string
}

type AIConfig struct {
	LLMProvider        string // "vertex", "ollama", "openai" or "anthropic"
	LLMModel           string
	OllamaBaseURL      string
	GCPProject         string
	GCPLocation        string
	Timeout            time.Duration
	SummaryMaxTokens   int
	SummaryTemperature float64
	TextMaxTokens      int
	TextTemperature    float64
}

type TrendsConfig struct {
	Project       string // empty disables the trends queries
	TopTermsLimit int
	RelatedLimit  int
}

type NewsConfig struct {
	BaseURL      string
	Timeout      time.Duration
	MaxBodyChars int
	WindowDays   int
}

type TracingConfig struct {
	Enabled  bool
	Endpoint string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	gcpProject := getEnv("GCP_PROJECT", "")

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			PagesConfigPath:    getEnv("PAGES_CONFIG_PATH", "config/pages.yaml"),
			ServiceName:        getEnv("OTEL_SERVICE_NAME", "marketing-insights-backend"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
			Verbose:    getEnvAsBool("DB_VERBOSE", false),
		},
		Session: SessionConfig{
			Backend:         getEnv("SESSION_BACKEND", "memory"),
			TTL:             getEnvAsDuration("SESSION_TTL", time.Hour),
			CleanupInterval: getEnvAsDuration("SESSION_CLEANUP_INTERVAL", 10*time.Minute),
			Secret:          getEnv("SESSION_SECRET", "change-me"),
			CookieName:      getEnv("SESSION_COOKIE_NAME", "mi_session"),
			CookieSecure:    getEnvAsBool("SESSION_COOKIE_SECURE", false),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			OpenAI:       getEnv("OPENAI_API_KEY", ""),
			Anthropic:    getEnv("ANTHROPIC_API_KEY", ""),
		},
		Ai: AIConfig{
			LLMProvider:        getEnv("LLM_PROVIDER", "vertex"),
			LLMModel:           getEnv("LLM_MODEL", "gemini-2.5-flash"),
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			GCPProject:         gcpProject,
			GCPLocation:        getEnv("GCP_LOCATION", "us-central1"),
			Timeout:            getEnvAsDuration("LLM_TIMEOUT", 120*time.Second),
			SummaryMaxTokens:   getEnvAsInt("SUMMARY_MAX_TOKENS", 256),
			SummaryTemperature: getEnvAsFloat("SUMMARY_TEMPERATURE", 0.2),
			TextMaxTokens:      getEnvAsInt("TEXT_MAX_TOKENS", 1024),
			TextTemperature:    getEnvAsFloat("TEXT_TEMPERATURE", 0.2),
		},
		Trends: TrendsConfig{
			Project:       getEnv("TRENDS_PROJECT", gcpProject),
			TopTermsLimit: getEnvAsInt("TRENDS_TOP_TERMS_LIMIT", 1),
			RelatedLimit:  getEnvAsInt("TRENDS_RELATED_LIMIT", 10),
		},
		News: NewsConfig{
			BaseURL:      getEnv("GDELT_BASE_URL", "https://api.gdeltproject.org/api/v2/doc/doc"),
			Timeout:      getEnvAsDuration("NEWS_TIMEOUT", 30*time.Second),
			MaxBodyChars: getEnvAsInt("NEWS_MAX_BODY_CHARS", 6000),
			WindowDays:   getEnvAsInt("NEWS_WINDOW_DAYS", 5),
		},
		Tracing: TracingConfig{
			Enabled:  getEnvAsBool("OTEL_ENABLED", false),
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}
