package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/MrSnakeDoc/readmark/internal/config"
	"github.com/MrSnakeDoc/readmark/internal/extract"
	"github.com/MrSnakeDoc/readmark/internal/logger"
	"github.com/MrSnakeDoc/readmark/internal/redis"
	"github.com/MrSnakeDoc/readmark/internal/store"
	"github.com/MrSnakeDoc/readmark/internal/store/memory"
	redisstore "github.com/MrSnakeDoc/readmark/internal/store/redis"
	"github.com/MrSnakeDoc/readmark/internal/store/sqlstore"
	"github.com/MrSnakeDoc/readmark/internal/summarize"
)

// OpenStore connects the configured KV backend. Redis is retried with
// backoff; the SQL backends fail fast.
func OpenStore(ctx context.Context, cfg *config.Config, log logger.Logger) (store.KV, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		log.Warn("using in-memory store, bookmarks are lost on restart")
		return memory.New(), nil

	case config.BackendSQLite:
		log.Info("opening sqlite store", logger.String("path", cfg.SQLitePath))
		return sqlstore.OpenSQLite(cfg.SQLitePath)

	case config.BackendPostgres:
		log.Info("opening postgres store")
		return sqlstore.OpenPostgres(cfg.PostgresDSN)

	case config.BackendRedis:
		log.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.Connect(ctx, redis.Options{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			return nil, err
		}
		log.Info("Redis initialized successfully")
		return redisstore.NewStore(client), nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// newFetcher builds the page fetcher. Private targets stay blocked unless
// READMARK_FETCH_ALLOW_PRIVATE is set.
func newFetcher(cfg *config.Config) *extract.Fetcher {
	if cfg.FetchPrivate {
		return extract.NewFetcher(cfg.FetchTimeout, extract.AllowPrivateHosts())
	}
	return extract.NewFetcher(cfg.FetchTimeout)
}

// NewSummarizer builds the engine with the configured model backends in
// preference order: local runtime, then cloud. offline drops both, leaving
// the extractive summarizer.
func NewSummarizer(ctx context.Context, cfg *config.Config, log logger.Logger, offline bool) *summarize.Engine {
	var strategies []summarize.Strategy
	if !offline {
		if cfg.LocalAIURL != "" {
			client := &http.Client{Timeout: cfg.AITimeout}
			strategies = append(strategies, summarize.NewLocal(summarize.NewHTTPCapability(cfg.LocalAIURL, client)))
		}
		if cfg.CloudAIURL != "" {
			strategies = append(strategies, summarize.NewCloud(ctx, summarize.CloudConfig{
				Endpoint:     cfg.CloudAIURL,
				APIKey:       cfg.CloudAIKey,
				ClientID:     cfg.CloudClientID,
				ClientSecret: cfg.CloudClientSecret,
				TokenURL:     cfg.CloudTokenURL,
				Timeout:      cfg.AITimeout,
				Backoff:      cfg.CloudBackoff,
			}))
		}
	}

	names := make([]string, 0, len(strategies)+1)
	for _, s := range strategies {
		names = append(names, s.Name())
	}
	names = append(names, summarize.SourceExtractive)
	log.Info("summarizer configured", logger.String("chain", fmt.Sprint(names)))

	opts := summarize.EngineOptions{
		Strategies: strategies,
		CacheSize:  cfg.SummaryCacheSize,
		Logger:     log,
	}
	if cfg.DetectLanguage {
		opts.Detector = summarize.NewLinguaDetector()
	}
	return summarize.NewEngine(opts)
}
