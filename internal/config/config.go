package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"careerpath/career-advisor/internal/logger"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	LLM       LLMConfig
	Gemini    GeminiConfig
	OpenAI    OpenAIConfig
	Qdrant    QdrantConfig
	Storage   StorageConfig
	S3        S3Config
	Redis     RedisConfig
	RabbitMQ  RabbitMQConfig
	Worker    WorkerConfig
	Analysis  AnalysisConfig
	Scheduler SchedulerConfig
	Log       logger.Config
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type LLMConfig struct {
	Provider       string // gemini, openai or groq
	MaxTokens      int
	Temperature    float32
	RequestTimeout time.Duration
	PromptsFile    string
}

type GeminiConfig struct {
	APIKey     string
	Model      string
	EmbedModel string
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
	VectorSize uint64
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	RateLimit int
	Window    time.Duration
}

type RabbitMQConfig struct {
	URL      string
	Exchange string
}

type WorkerConfig struct {
	Concurrency int
	QueueSize   int
}

type AnalysisConfig struct {
	ResumeMinChars         int
	ResumeCharBudget       int
	DefaultTimeframeMonths int
}

type SchedulerConfig struct {
	AnalyticsSpec string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logger.Info().Msg("No .env file found. Using environment and defaults.")
	}

	provider := strings.ToLower(getEnv("LLM_PROVIDER", "gemini"))

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "career_advisor"),
		},
		LLM: LLMConfig{
			Provider:       provider,
			MaxTokens:      getEnvAsInt("LLM_MAX_TOKENS", 2000),
			Temperature:    getEnvAsFloat32("LLM_TEMPERATURE", 0.7),
			RequestTimeout: getEnvAsDuration("LLM_REQUEST_TIMEOUT", "3m"),
			PromptsFile:    getEnv("PROMPTS_FILE", ""),
		},
		Gemini: GeminiConfig{
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			Model:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			EmbedModel: getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
		},
		OpenAI: openAIConfig(provider),
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", ""),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "career_memory"),
			VectorSize: uint64(getEnvAsInt("QDRANT_VECTOR_SIZE", 768)),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		S3: S3Config{
			Bucket:    getEnv("S3_BUCKET", ""),
			Region:    getEnv("S3_REGION", "auto"),
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", ""),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getEnvAsInt("REDIS_DB", 0),
			RateLimit: getEnvAsInt("ANALYZE_RATE_LIMIT", 10),
			Window:    getEnvAsDuration("ANALYZE_RATE_WINDOW", "1m"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      getEnv("RABBITMQ_URL", ""),
			Exchange: getEnv("RABBITMQ_EXCHANGE", "career_events"),
		},
		Worker: WorkerConfig{
			Concurrency: getEnvAsInt("WORKER_CONCURRENCY", 3),
			QueueSize:   getEnvAsInt("WORKER_QUEUE_SIZE", 100),
		},
		Analysis: AnalysisConfig{
			ResumeMinChars:         getEnvAsInt("RESUME_MIN_CHARS", 100),
			ResumeCharBudget:       getEnvAsInt("RESUME_CHAR_BUDGET", 3000),
			DefaultTimeframeMonths: getEnvAsInt("DEFAULT_TIMEFRAME_MONTHS", 6),
		},
		Scheduler: SchedulerConfig{
			AnalyticsSpec: getEnv("ANALYTICS_SNAPSHOT_SPEC", "@every 1h"),
		},
		Log: logger.Config{
			Level:        getEnv("LOG_LEVEL", "info"),
			Format:       getEnv("LOG_FORMAT", "json"),
			ReportCaller: getEnvAsBool("LOG_REPORT_CALLER", false),
		},
	}
}

// openAIConfig fills the OpenAI-compatible settings. Groq speaks the same API under its own
// base URL and key.
func openAIConfig(provider string) OpenAIConfig {
	if provider == "groq" {
		return OpenAIConfig{
			APIKey:  getEnv("GROQ_API_KEY", ""),
			BaseURL: getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
			Model:   getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
		}
	}
	return OpenAIConfig{
		APIKey:  getEnv("OPENAI_API_KEY", ""),
		BaseURL: getEnv("OPENAI_BASE_URL", ""),
		Model:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 32); err == nil {
		return float32(value)
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
