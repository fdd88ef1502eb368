package config

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds runtime configuration. Every field has a default so the
// binaries run against a local generation server with no environment set.
type Config struct {
	// Server
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Upload limits
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"` // 10MB in bytes

	// Generation backend
	LLMProvider   string        `env:"LLM_PROVIDER" envDefault:"kobold"` // "kobold" (/api/v1/generate) or "openai" (completions API)
	LLMHost       string        `env:"LLM_HOST" envDefault:"localhost:5000"`
	LLMTimeout    time.Duration `env:"LLM_TIMEOUT" envDefault:"0s"` // 0 disables the client timeout
	OpenAIKey     string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string        `env:"OPENAI_BASE_URL"`
	LLMModel      string        `env:"LLM_MODEL" envDefault:"gpt-3.5-turbo-instruct"`

	// Reply cache
	CacheProvider string `env:"CACHE_PROVIDER" envDefault:"none"` // "none" or "redis"
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	CacheTTL      int    `env:"CACHE_TTL" envDefault:"3600"` // seconds

	// Store
	StoreProvider string `env:"STORE_PROVIDER" envDefault:"postgres"`
	DBURL         string `env:"DB_URL"`

	// Queue
	QueueProvider string `env:"QUEUE_PROVIDER" envDefault:"nats"`
	QueueURL      string `env:"QUEUE_URL"`

	// Batch pipeline
	InputPath     string `env:"INPUT_PATH" envDefault:"data.txt"`
	OutputDir     string `env:"OUTPUT_DIR" envDefault:"."`
	QuestionCount int    `env:"QUESTION_COUNT" envDefault:"10"`
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}
