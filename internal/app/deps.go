package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"doc-qa/internal/cache"
	"doc-qa/internal/config"
	"doc-qa/internal/conversation"
	"doc-qa/internal/llm"
	"doc-qa/internal/logger"
	"doc-qa/internal/queue"
	"doc-qa/internal/store"
)

// Deps bundles the runtime dependencies every binary needs.
type Deps struct {
	Config config.Config
	Log    *slog.Logger
	LLM    llm.Generator
	Cache  cache.Cache
}

// ServiceDeps adds persistence and messaging for the worker and gateway.
type ServiceDeps struct {
	Deps
	Store store.Store
	Queue queue.Queue
}

// NewConversation returns a fresh client over the configured generator.
func (d Deps) NewConversation(defaultPrompt string) *conversation.Client {
	return conversation.New(d.LLM, defaultPrompt, conversation.WithLogger(d.Log))
}

// Override adjusts the loaded configuration before anything is built,
// typically from command-line flags.
type Override func(*config.Config)

// Build loads env, config, and the generation backend.
func Build(overrides ...Override) (Deps, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Deps{}, fmt.Errorf("failed to load environment variables: %w", err)
	}
	cfg := config.Load()
	for _, o := range overrides {
		o(&cfg)
	}
	log := logger.New(cfg.LogLevel)

	gen, err := buildLLM(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize LLM: %w", err)
	}
	c, err := buildCache(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize cache: %w", err)
	}
	if _, noop := c.(*cache.NoOpCache); !noop {
		gen = llm.NewCachedGenerator(gen, c, time.Duration(cfg.CacheTTL)*time.Second, log)
	}
	return Deps{
		Config: cfg,
		Log:    log,
		LLM:    gen,
		Cache:  c,
	}, nil
}

// BuildService builds Deps plus the store and queue.
func BuildService(overrides ...Override) (ServiceDeps, error) {
	deps, err := Build(overrides...)
	if err != nil {
		return ServiceDeps{}, err
	}
	st, err := buildStore(deps.Config, deps.Log)
	if err != nil {
		return ServiceDeps{}, fmt.Errorf("failed to initialize store: %w", err)
	}
	q, err := buildQueue(deps.Config, deps.Log)
	if err != nil {
		return ServiceDeps{}, fmt.Errorf("failed to initialize queue: %w", err)
	}
	return ServiceDeps{Deps: deps, Store: st, Queue: q}, nil
}

func buildLLM(cfg config.Config, log *slog.Logger) (llm.Generator, error) {
	switch cfg.LLMProvider {
	case "kobold":
		client := llm.NewKoboldClient(cfg.LLMHost, cfg.LLMTimeout)
		log.Info("using Kobold generate API", "endpoint", client.Endpoint())
		return client, nil
	case "openai":
		client, err := llm.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.LLMModel)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenAI client: %w", err)
		}
		log.Info("using OpenAI completions API", "model", cfg.LLMModel, "base_url", cfg.OpenAIBaseURL)
		return client, nil
	default:
		return nil, fmt.Errorf("invalid LLM_PROVIDER: %s (valid options: kobold, openai)", cfg.LLMProvider)
	}
}

func buildCache(cfg config.Config, log *slog.Logger) (cache.Cache, error) {
	switch cfg.CacheProvider {
	case "none", "":
		return cache.NewNoOpCache(), nil
	case "redis":
		c, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}
		log.Info("using Redis reply cache", "addr", cfg.RedisAddr)
		return c, nil
	default:
		return nil, fmt.Errorf("invalid CACHE_PROVIDER: %s (valid options: none, redis)", cfg.CacheProvider)
	}
}

func buildStore(cfg config.Config, log *slog.Logger) (store.Store, error) {
	switch cfg.StoreProvider {
	case "postgres":
		if cfg.DBURL == "" {
			return nil, fmt.Errorf("DB_URL is required when STORE_PROVIDER=postgres")
		}
		db, err := store.NewPostgres(cfg.DBURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres: %w", err)
		}
		log.Info("using Postgres store")
		return db, nil
	default:
		return nil, fmt.Errorf("invalid STORE_PROVIDER: %s (valid option: postgres)", cfg.StoreProvider)
	}
}

func buildQueue(cfg config.Config, log *slog.Logger) (queue.Queue, error) {
	switch cfg.QueueProvider {
	case "nats":
		if cfg.QueueURL == "" {
			return nil, fmt.Errorf("QUEUE_URL is required when QUEUE_PROVIDER=nats")
		}
		nc, err := nats.Connect(cfg.QueueURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		log.Info("using NATS queue")
		return queue.NewNATS(log, nc), nil
	default:
		return nil, fmt.Errorf("invalid QUEUE_PROVIDER: %s (valid option: nats)", cfg.QueueProvider)
	}
}
