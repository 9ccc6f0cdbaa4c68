package cache

import (
	"context"
	"sync"
	"time"

	"persona-match/internal/domain/matching"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type memoryEntry struct {
	matches   []matching.MatchedJob
	createdAt time.Time
}

// Memory is a process-local match cache keyed by (user, persona).
// Entries older than the TTL are treated as absent.
type Memory struct {
	mu      sync.Mutex
	entries map[matchKey]memoryEntry
	ttl     time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

type MemoryOption func(*Memory)

func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		if now != nil {
			m.now = now
		}
	}
}

func WithLogger(logger *zap.Logger) MemoryOption {
	return func(m *Memory) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func NewMemory(ttl time.Duration, opts ...MemoryOption) *Memory {
	if ttl <= 0 {
		ttl = DefaultMatchTTL
	}
	m := &Memory{
		entries: make(map[matchKey]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) valid(e memoryEntry, now time.Time) bool {
	return now.Sub(e.createdAt) < m.ttl
}

func (m *Memory) Get(_ context.Context, userID, personaID uuid.UUID) ([]matching.MatchedJob, bool) {
	k := matchKey{UserID: userID, PersonaID: personaID}

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[k]
	if !ok {
		m.logger.Debug("match cache miss", zap.Stringer("user_id", userID), zap.Stringer("persona_id", personaID))
		return nil, false
	}
	if !m.valid(e, m.now()) {
		delete(m.entries, k)
		m.logger.Debug("match cache expired", zap.Stringer("user_id", userID), zap.Stringer("persona_id", personaID))
		return nil, false
	}

	m.logger.Debug("match cache hit", zap.Stringer("user_id", userID), zap.Stringer("persona_id", personaID), zap.Int("matches", len(e.matches)))
	return cloneMatches(e.matches), true
}

// Set stores the full unpaginated list and sweeps every expired entry.
func (m *Memory) Set(_ context.Context, userID, personaID uuid.UUID, matches []matching.MatchedJob) {
	k := matchKey{UserID: userID, PersonaID: personaID}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.entries[k] = memoryEntry{matches: cloneMatches(matches), createdAt: now}

	swept := 0
	for key, e := range m.entries {
		if !m.valid(e, now) {
			delete(m.entries, key)
			swept++
		}
	}

	m.logger.Debug("match cache set",
		zap.Stringer("user_id", userID),
		zap.Stringer("persona_id", personaID),
		zap.Int("matches", len(matches)),
		zap.Int("swept", swept),
	)
}

func (m *Memory) Invalidate(_ context.Context, userID, personaID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, matchKey{UserID: userID, PersonaID: personaID})
	m.logger.Debug("match cache invalidate", zap.Stringer("user_id", userID), zap.Stringer("persona_id", personaID))
}

func (m *Memory) InvalidateUser(_ context.Context, userID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for k := range m.entries {
		if k.UserID == userID {
			delete(m.entries, k)
			removed++
		}
	}
	m.logger.Debug("match cache invalidate user", zap.Stringer("user_id", userID), zap.Int("removed", removed))
}

func (m *Memory) ClearAll(_ context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[matchKey]memoryEntry)
}

func (m *Memory) Stats(_ context.Context) Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	st := Stats{TotalEntries: len(m.entries)}
	for _, e := range m.entries {
		if m.valid(e, now) {
			st.ValidEntries++
		} else {
			st.ExpiredEntries++
		}
	}
	return st
}

func cloneMatches(in []matching.MatchedJob) []matching.MatchedJob {
	if in == nil {
		return []matching.MatchedJob{}
	}
	out := make([]matching.MatchedJob, len(in))
	copy(out, in)
	for i := range out {
		out[i].Job.Salary.Min = cloneInt(out[i].Job.Salary.Min)
		out[i].Job.Salary.Max = cloneInt(out[i].Job.Salary.Max)
	}
	return out
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
