package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"persona-match/internal/config"
	"persona-match/internal/domain/matching"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const matchKeyPrefix = "match:"

type redisEntry struct {
	CreatedAt time.Time             `json:"created_at"`
	Matches   []matching.MatchedJob `json:"matches"`
}

// Redis shares the match cache across processes. When Redis cannot be reached
// every read is a miss and every write is dropped.
type Redis struct {
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration
	now    func() time.Time

	warnedUnavailable atomic.Bool
}

func NewRedis(cfg config.RedisConfig, ttl time.Duration, logger *zap.Logger) *Redis {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = DefaultMatchTTL
	}

	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "localhost"
	}
	port := strings.TrimSpace(cfg.Port)
	if port == "" {
		port = "6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, bypassing match cache", zap.Error(err))
		_ = client.Close()
		return &Redis{logger: logger, ttl: ttl, now: time.Now}
	}

	return &Redis{client: client, logger: logger, ttl: ttl, now: time.Now}
}

func (r *Redis) isUnavailable() bool {
	return r == nil || r.client == nil
}

func (r *Redis) log() *zap.Logger {
	if r == nil || r.logger == nil {
		return zap.NewNop()
	}
	return r.logger
}

func (r *Redis) clock() time.Time {
	if r == nil || r.now == nil {
		return time.Now()
	}
	return r.now()
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r == nil {
		return
	}
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.log().Warn("redis error, treating match cache as miss", zap.Error(err))
	}
}

func (r *Redis) Close() error {
	if r.isUnavailable() {
		return nil
	}
	return r.client.Close()
}

func redisMatchKey(userID, personaID uuid.UUID) string {
	return matchKeyPrefix + userID.String() + ":" + personaID.String()
}

func redisUserPattern(userID uuid.UUID) string {
	return matchKeyPrefix + userID.String() + ":*"
}

func (r *Redis) Get(ctx context.Context, userID, personaID uuid.UUID) ([]matching.MatchedJob, bool) {
	if r.isUnavailable() {
		return nil, false
	}
	key := redisMatchKey(userID, personaID)

	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.warnUnavailableOnce(err)
		}
		return nil, false
	}

	var e redisEntry
	if err := json.Unmarshal(b, &e); err != nil {
		r.log().Warn("corrupt match cache entry", zap.String("key", key), zap.Error(err))
		_ = r.client.Del(ctx, key).Err()
		return nil, false
	}
	if r.clock().Sub(e.CreatedAt) >= r.ttl {
		_ = r.client.Del(ctx, key).Err()
		return nil, false
	}

	r.log().Debug("match cache hit", zap.String("key", key), zap.Int("matches", len(e.Matches)))
	if e.Matches == nil {
		e.Matches = []matching.MatchedJob{}
	}
	return e.Matches, true
}

// Set relies on Redis key expiry for the expired-entry sweep.
func (r *Redis) Set(ctx context.Context, userID, personaID uuid.UUID, matches []matching.MatchedJob) {
	if r.isUnavailable() {
		return
	}
	key := redisMatchKey(userID, personaID)

	b, err := json.Marshal(redisEntry{CreatedAt: r.clock().UTC(), Matches: matches})
	if err != nil {
		r.log().Warn("encode match cache entry", zap.String("key", key), zap.Error(err))
		return
	}
	if err := r.client.Set(ctx, key, b, r.ttl).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return
	}
	r.log().Debug("match cache set", zap.String("key", key), zap.Int("matches", len(matches)))
}

func (r *Redis) Invalidate(ctx context.Context, userID, personaID uuid.UUID) {
	if r.isUnavailable() {
		return
	}
	if err := r.client.Del(ctx, redisMatchKey(userID, personaID)).Err(); err != nil {
		r.warnUnavailableOnce(err)
	}
}

func (r *Redis) InvalidateUser(ctx context.Context, userID uuid.UUID) {
	if r.isUnavailable() {
		return
	}
	if _, err := r.deleteByPattern(ctx, redisUserPattern(userID)); err != nil {
		r.warnUnavailableOnce(err)
	}
}

func (r *Redis) ClearAll(ctx context.Context) {
	if r.isUnavailable() {
		return
	}
	if _, err := r.deleteByPattern(ctx, matchKeyPrefix+"*"); err != nil {
		r.warnUnavailableOnce(err)
	}
}

// Stats counts live keys; Redis drops expired keys itself.
func (r *Redis) Stats(ctx context.Context) Stats {
	if r.isUnavailable() {
		return Stats{}
	}
	n := 0
	iter := r.client.Scan(ctx, 0, matchKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		r.warnUnavailableOnce(err)
	}
	return Stats{TotalEntries: n, ValidEntries: n}
}

func (r *Redis) deleteByPattern(ctx context.Context, pattern string) (int, error) {
	deleted := 0
	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		k := iter.Val()
		if err := r.client.Del(ctx, k).Err(); err != nil {
			r.log().Warn("redis delete error", zap.String("key", k), zap.String("pattern", pattern), zap.Error(err))
			continue
		}
		deleted++
	}
	return deleted, iter.Err()
}
