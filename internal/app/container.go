package app

import (
	"context"
	"errors"
	"time"

	"persona-match/internal/config"
	"persona-match/internal/database"
	dbpostgres "persona-match/internal/database/postgres"
	"persona-match/internal/domain/matching"
	"persona-match/internal/infrastructure/cache"
	"persona-match/internal/logger"
	"persona-match/internal/repository"
	"persona-match/internal/usecase"

	"go.uber.org/zap"
)

type Container struct {
	Config config.Config
	Logger *zap.Logger
	DB     database.DB

	Engine       matching.Engine
	Cache        usecase.MatchCache
	PersonaMatch *usecase.PersonaMatch

	closers []func() error
}

func NewContainer(cfg config.Config, log *zap.Logger) (*Container, error) {
	log = logger.OrNop(log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}

	c := &Container{Config: cfg, Logger: log, DB: db}
	c.closers = append(c.closers, db.Close)

	c.Engine = matching.NewEngine(Weights(cfg.Match))
	c.Cache = c.newCache()
	c.PersonaMatch = usecase.NewPersonaMatchUsecase(
		repository.NewPostgresPersonaRepository(db),
		repository.NewPostgresJobRepository(db),
		c.Cache,
		c.Engine,
		cfg.Match.CandidateLimit,
		log.Named("match"),
	)

	return c, nil
}

func (c *Container) newCache() usecase.MatchCache {
	cacheLog := c.Logger.Named("cache")
	switch c.Config.Match.CacheBackend {
	case config.CacheBackendRedis:
		r := cache.NewRedis(c.Config.Redis, c.Config.Match.CacheTTL, cacheLog)
		c.closers = append(c.closers, r.Close)
		cacheLog.Info("match cache backend", zap.String("backend", "redis"), zap.Duration("ttl", c.Config.Match.CacheTTL))
		return r
	default:
		cacheLog.Info("match cache backend", zap.String("backend", "memory"), zap.Duration("ttl", c.Config.Match.CacheTTL))
		return cache.NewMemory(c.Config.Match.CacheTTL, cache.WithLogger(cacheLog))
	}
}

// Weights maps the configured weights onto the engine's weight set.
func Weights(m config.MatchConfig) matching.WeightConfig {
	return matching.WeightConfig{
		Skill:    m.WeightSkill,
		Salary:   m.WeightSalary,
		Location: m.WeightLocation,
		Remote:   m.WeightRemote,
		Industry: m.WeightIndustry,
	}
}

// Close releases resources in reverse order of acquisition.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
