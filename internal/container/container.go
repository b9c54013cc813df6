package container

import (
	"epc-api/internal/config"
	"epc-api/internal/ratelimit"
	"epc-api/internal/service/airtable"
	"epc-api/internal/service/auth"
	"epc-api/internal/service/resend"
	"epc-api/internal/service/square"
	"epc-api/pkg/logger"
	"epc-api/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *logger.Logger
	RedisClient    *redis.Client
	RateLimitStore ratelimit.Store
	Airtable       *airtable.Client
	Resend         *resend.Client
	Square         *square.Client
	Auth           *auth.Service
}

// New creates a new dependency injection container. Redis is optional: when
// it is not configured or unreachable, rate limiting falls back to the
// per-process in-memory store.
func New(cfg *config.Config, logger *logger.Logger) (*Container, error) {
	var redisClient *redis.Client
	var rateLimitStore ratelimit.Store

	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, logger.Logger)
		if err != nil {
			logger.WithError(err).Warn("Failed to initialize Redis client, falling back to in-memory rate limiting")
			rateLimitStore = ratelimit.NewMemoryStore()
		} else {
			redisClient = client
			rateLimitStore = ratelimit.NewRedisStore(client, logger)
			logger.Info("Redis-backed rate limiting initialized")
		}
	} else {
		rateLimitStore = ratelimit.NewMemoryStore()
		logger.Info("Redis URL not configured, using in-memory rate limiting")
	}

	if cfg.AirtableBaseID == "" || cfg.AirtableAPIKey == "" {
		logger.Warn("Record store credentials not configured, submissions will fail")
	}
	if cfg.ResendAPIKey == "" {
		logger.Warn("Email provider credential not configured, notifications will be skipped")
	}

	return &Container{
		Config:         cfg,
		Logger:         logger,
		RedisClient:    redisClient,
		RateLimitStore: rateLimitStore,
		Airtable:       airtable.NewClient(airtable.DefaultBaseURL, cfg.AirtableBaseID, cfg.AirtableAPIKey, cfg.IsProduction(), logger),
		Resend:         resend.NewClient(resend.DefaultBaseURL, cfg.ResendAPIKey, cfg.NotifyFrom, logger),
		Square:         square.NewClient("", cfg.SquareAccessToken, cfg.SquareApplicationID, cfg.SquareLocationID, cfg.SquareEnvironment, cfg.IsProduction(), logger),
		Auth:           auth.NewService(cfg.AdminPasswordHash, cfg.AdminJWTSecret, logger),
	}, nil
}
