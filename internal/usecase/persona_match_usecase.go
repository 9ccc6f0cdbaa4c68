package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"persona-match/internal/domain/matching"
	"persona-match/internal/domain/persona"
	"persona-match/internal/infrastructure/cache"
	"persona-match/internal/logger"
	"persona-match/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type MatchOptions struct {
	MinScore int
	Limit    int
	Offset   int
	// Weights overrides the default weight configuration when non-nil.
	Weights *matching.WeightConfig
}

type MatchPage struct {
	Items  []matching.MatchedJob
	Total  int
	Cached bool
}

type PersonaMatchUsecase interface {
	MatchJobsForPersona(ctx context.Context, userID, personaID uuid.UUID, opts MatchOptions) ([]matching.MatchedJob, error)
	GetMatches(ctx context.Context, userID, personaID uuid.UUID, opts MatchOptions) (MatchPage, error)
	InvalidatePersona(ctx context.Context, userID, personaID uuid.UUID)
	InvalidateUser(ctx context.Context, userID uuid.UUID)
	ClearAllCache(ctx context.Context)
	CacheStats(ctx context.Context) cache.Stats
}

type PersonaMatch struct {
	personas       repository.PersonaRepository
	jobs           repository.JobRepository
	cache          MatchCache
	engine         matching.Engine
	candidateLimit int
	logger         *zap.Logger

	flight singleflight.Group

	genMu   sync.Mutex
	userGen map[uuid.UUID]uint64
}

// NewPersonaMatchUsecase wires the orchestrator. A nil cache disables memoization.
func NewPersonaMatchUsecase(personas repository.PersonaRepository, jobs repository.JobRepository, matchCache MatchCache, engine matching.Engine, candidateLimit int, log *zap.Logger) *PersonaMatch {
	return &PersonaMatch{
		personas:       personas,
		jobs:           jobs,
		cache:          matchCache,
		engine:         engine,
		candidateLimit: candidateLimit,
		logger:         logger.OrNop(log),
	}
}

// MatchJobsForPersona scores the active candidate pool for one persona and
// returns the sorted, filtered and paginated result.
func (u *PersonaMatch) MatchJobsForPersona(ctx context.Context, userID, personaID uuid.UUID, opts MatchOptions) ([]matching.MatchedJob, error) {
	opts = normalizeOptions(opts)

	prefs, err := u.loadPreferences(ctx, userID, personaID)
	if err != nil {
		return nil, err
	}

	jobs, err := u.jobs.ListActiveJobs(ctx, u.candidateLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadJobs, err)
	}

	var weights matching.WeightConfig
	if opts.Weights != nil {
		weights = *opts.Weights
	}

	out := make([]matching.MatchedJob, 0, len(jobs))
	excluded := 0
	for _, j := range jobs {
		if matching.IsExcluded(j.Company, prefs.ExcludedCompanies) {
			excluded++
			continue
		}
		m := u.engine.Score(j, prefs, weights)
		if m.Score < opts.MinScore {
			continue
		}
		out = append(out, m)
	}

	matching.SortByScore(out)

	u.logger.Debug("persona matches computed",
		zap.Stringer("user_id", userID),
		zap.Stringer("persona_id", personaID),
		zap.Int("candidates", len(jobs)),
		zap.Int("excluded", excluded),
		zap.Int("matched", len(out)),
	)

	return matching.Paginate(out, opts.Limit, opts.Offset), nil
}

// GetMatches serves from the cache when possible. On a miss one computation of
// the full unpaginated list runs per key; concurrent callers share its result.
// Min score and pagination are applied after the cache.
func (u *PersonaMatch) GetMatches(ctx context.Context, userID, personaID uuid.UUID, opts MatchOptions) (MatchPage, error) {
	opts = normalizeOptions(opts)

	if u.cache != nil {
		if all, ok := u.cache.Get(ctx, userID, personaID); ok {
			return pageOf(all, opts, true), nil
		}
	}

	gen := u.generation(userID)
	v, err, shared := u.flight.Do(matchFlightKey(userID, personaID, gen), func() (any, error) {
		all, err := u.MatchJobsForPersona(ctx, userID, personaID, MatchOptions{Weights: opts.Weights})
		if err != nil {
			return nil, err
		}
		// A result computed before InvalidateUser is returned but not cached.
		if u.cache != nil && u.generation(userID) == gen {
			u.cache.Set(ctx, userID, personaID, all)
		}
		return all, nil
	})
	if err != nil {
		return MatchPage{}, err
	}
	if shared {
		u.logger.Debug("persona matches shared with concurrent request", zap.Stringer("persona_id", personaID))
	}

	all, _ := v.([]matching.MatchedJob)
	return pageOf(all, opts, false), nil
}

func (u *PersonaMatch) InvalidatePersona(ctx context.Context, userID, personaID uuid.UUID) {
	u.flight.Forget(matchFlightKey(userID, personaID, u.generation(userID)))
	if u.cache == nil {
		return
	}
	u.cache.Invalidate(ctx, userID, personaID)
}

func (u *PersonaMatch) InvalidateUser(ctx context.Context, userID uuid.UUID) {
	u.bumpGeneration(userID)
	if u.cache == nil {
		return
	}
	u.cache.InvalidateUser(ctx, userID)
}

func (u *PersonaMatch) generation(userID uuid.UUID) uint64 {
	u.genMu.Lock()
	defer u.genMu.Unlock()
	return u.userGen[userID]
}

func (u *PersonaMatch) bumpGeneration(userID uuid.UUID) {
	u.genMu.Lock()
	defer u.genMu.Unlock()
	if u.userGen == nil {
		u.userGen = make(map[uuid.UUID]uint64)
	}
	u.userGen[userID]++
}

func (u *PersonaMatch) ClearAllCache(ctx context.Context) {
	if u.cache == nil {
		return
	}
	u.cache.ClearAll(ctx)
}

func (u *PersonaMatch) CacheStats(ctx context.Context) cache.Stats {
	if u.cache == nil {
		return cache.Stats{}
	}
	return u.cache.Stats(ctx)
}

func (u *PersonaMatch) loadPreferences(ctx context.Context, userID, personaID uuid.UUID) (persona.Preferences, error) {
	if userID == uuid.Nil || personaID == uuid.Nil {
		return persona.Preferences{}, ErrPersonaNotFound
	}

	if _, err := u.personas.FindByIDAndUser(ctx, personaID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return persona.Preferences{}, ErrPersonaNotFound
		}
		return persona.Preferences{}, fmt.Errorf("load persona: %w", err)
	}

	doc, err := u.personas.FindPreferences(ctx, personaID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return persona.Preferences{}, ErrPreferencesNotFound
		}
		return persona.Preferences{}, fmt.Errorf("load persona preferences: %w", err)
	}

	prefs, err := persona.DecodePreferences(doc)
	if err != nil {
		return persona.Preferences{}, err
	}
	return prefs, nil
}

func normalizeOptions(opts MatchOptions) MatchOptions {
	if opts.MinScore < 0 {
		opts.MinScore = 0
	}
	if opts.MinScore > 100 {
		opts.MinScore = 100
	}
	if opts.Limit < 0 {
		opts.Limit = 0
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return opts
}

func pageOf(all []matching.MatchedJob, opts MatchOptions, cached bool) MatchPage {
	filtered := matching.FilterMinScore(all, opts.MinScore)
	return MatchPage{
		Items:  matching.Paginate(filtered, opts.Limit, opts.Offset),
		Total:  len(filtered),
		Cached: cached,
	}
}
