package usecase

import (
	"context"
	"strconv"

	"persona-match/internal/domain/matching"
	"persona-match/internal/infrastructure/cache"

	"github.com/google/uuid"
)

// MatchCache memoizes the unpaginated match list per (user, persona).
// Implementations never fail: read errors are misses and write errors are dropped.
type MatchCache interface {
	Get(ctx context.Context, userID, personaID uuid.UUID) ([]matching.MatchedJob, bool)
	Set(ctx context.Context, userID, personaID uuid.UUID, matches []matching.MatchedJob)
	Invalidate(ctx context.Context, userID, personaID uuid.UUID)
	InvalidateUser(ctx context.Context, userID uuid.UUID)
	ClearAll(ctx context.Context)
	Stats(ctx context.Context) cache.Stats
}

var (
	_ MatchCache = (*cache.Memory)(nil)
	_ MatchCache = (*cache.Redis)(nil)
)

// matchFlightKey scopes a computation to the user's current invalidation
// generation, so a user-wide invalidation detaches every flight in progress.
func matchFlightKey(userID, personaID uuid.UUID, gen uint64) string {
	return userID.String() + ":" + personaID.String() + ":" + strconv.FormatUint(gen, 10)
}
