package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"persona-match/internal/domain/job"
	"persona-match/internal/domain/matching"
	"persona-match/internal/domain/persona"
	"persona-match/internal/infrastructure/cache"
	"persona-match/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePersonaRepo struct {
	owner map[uuid.UUID]uuid.UUID
	prefs map[uuid.UUID]map[string]any
	err   error
	calls atomic.Int32
}

func (f *fakePersonaRepo) FindByIDAndUser(_ context.Context, personaID, userID uuid.UUID) (persona.Persona, error) {
	f.calls.Add(1)
	if f.err != nil {
		return persona.Persona{}, f.err
	}
	if owner, ok := f.owner[personaID]; !ok || owner != userID {
		return persona.Persona{}, repository.ErrNotFound
	}
	return persona.Persona{ID: personaID, UserID: userID, Name: "test"}, nil
}

func (f *fakePersonaRepo) FindPreferences(_ context.Context, personaID uuid.UUID) (map[string]any, error) {
	doc, ok := f.prefs[personaID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return doc, nil
}

type fakeJobRepo struct {
	jobs    []job.Job
	err     error
	calls   atomic.Int32
	release chan struct{}
}

func (f *fakeJobRepo) ListActiveJobs(_ context.Context, _ int) ([]job.Job, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.jobs, nil
}

func intPtr(v int) *int { return &v }

func dataEngineerPrefs() map[string]any {
	return map[string]any{
		"required_skills":      []any{"python"},
		"nice_to_have_skills":  []any{"sql", "docker", "aws", "kafka", "spark"},
		"min_salary":           80000,
		"max_salary":           120000,
		"remote_preference":    "remote",
		"preferred_locations":  []any{"berlin"},
		"preferred_industries": []any{"fintech", "payments"},
		"title_keywords":       []any{"data", "engineer"},
	}
}

func perfectJob() job.Job {
	return job.Job{
		ID:          uuid.New(),
		Title:       "Senior Data Engineer",
		Company:     "PayFlow",
		Location:    "Berlin, Germany",
		RemoteType:  job.RemoteTypeRemote,
		Salary:      job.SalaryRange{Min: intPtr(90000), Max: intPtr(110000)},
		Description: "Fintech payments platform",
		Keywords:    []string{"Python", "SQL", "Docker", "AWS", "Kafka", "Spark"},
		IsActive:    true,
	}
}

func fillerJob(i int) job.Job {
	return job.Job{
		ID:         uuid.New(),
		Title:      fmt.Sprintf("Clerk %d", i),
		Company:    "Paper Co",
		Location:   "Paris",
		RemoteType: job.RemoteTypeOnsite,
		Keywords:   []string{"excel"},
		IsActive:   true,
	}
}

type fixture struct {
	userID    uuid.UUID
	personaID uuid.UUID
	personas  *fakePersonaRepo
	jobs      *fakeJobRepo
}

func newFixture(jobs []job.Job) fixture {
	userID, personaID := uuid.New(), uuid.New()
	return fixture{
		userID:    userID,
		personaID: personaID,
		personas: &fakePersonaRepo{
			owner: map[uuid.UUID]uuid.UUID{personaID: userID},
			prefs: map[uuid.UUID]map[string]any{personaID: dataEngineerPrefs()},
		},
		jobs: &fakeJobRepo{jobs: jobs},
	}
}

func (f fixture) usecase(c MatchCache) *PersonaMatch {
	return NewPersonaMatchUsecase(f.personas, f.jobs, c, matching.NewEngine(matching.DefaultWeights()), 500, nil)
}

func TestMatchJobsForPersona_PersonaNotFound(t *testing.T) {
	f := newFixture(nil)
	uc := f.usecase(nil)

	_, err := uc.MatchJobsForPersona(context.Background(), uuid.New(), f.personaID, MatchOptions{})
	require.ErrorIs(t, err, ErrPersonaNotFound)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, int32(0), f.jobs.calls.Load())
}

func TestMatchJobsForPersona_PreferencesNotFound(t *testing.T) {
	f := newFixture(nil)
	delete(f.personas.prefs, f.personaID)
	uc := f.usecase(nil)

	_, err := uc.MatchJobsForPersona(context.Background(), f.userID, f.personaID, MatchOptions{})
	require.ErrorIs(t, err, ErrPreferencesNotFound)
	assert.True(t, IsNotFound(err))
}

func TestMatchJobsForPersona_LoadFailure(t *testing.T) {
	f := newFixture(nil)
	f.jobs.err = errors.New("boom")
	uc := f.usecase(nil)

	_, err := uc.MatchJobsForPersona(context.Background(), f.userID, f.personaID, MatchOptions{})
	require.ErrorIs(t, err, ErrLoadJobs)
	assert.Equal(t, "failed to load jobs: boom", err.Error())
	assert.False(t, IsNotFound(err))
}

func TestMatchJobsForPersona_EmptyPool(t *testing.T) {
	f := newFixture(nil)
	uc := f.usecase(nil)

	got, err := uc.MatchJobsForPersona(context.Background(), f.userID, f.personaID, MatchOptions{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMatchJobsForPersona_PerfectMatch(t *testing.T) {
	pj := perfectJob()
	f := newFixture([]job.Job{fillerJob(0), pj})
	uc := f.usecase(nil)

	got, err := uc.MatchJobsForPersona(context.Background(), f.userID, f.personaID, MatchOptions{})
	require.NoError(t, err)
	require.Len(t, got, 2)

	top := got[0]
	assert.Equal(t, pj.ID, top.JobID)
	assert.Equal(t, 100, top.Score)
	assert.Equal(t, matching.MaxSkillScore, top.Factors.Skill)
	assert.Equal(t, "Matches 1/1 required skills (python); Has 5 nice-to-have skills (sql, docker, aws, kafka, spark); Salary within your range; Work arrangement matches your remote preference.", top.Explanation)
	assert.Less(t, got[1].Score, 64)
}

func TestMatchJobsForPersona_MinScoreAndOrder(t *testing.T) {
	pool := make([]job.Job, 0, 50)
	for i := 0; i < 48; i++ {
		pool = append(pool, fillerJob(i))
	}
	best := perfectJob()
	near := perfectJob()
	near.Title = "Data Analyst"
	pool = append(pool[:10], append([]job.Job{near}, pool[10:]...)...)
	pool = append(pool[:30], append([]job.Job{best}, pool[30:]...)...)
	require.Len(t, pool, 50)

	f := newFixture(pool)
	uc := f.usecase(nil)

	got, err := uc.MatchJobsForPersona(context.Background(), f.userID, f.personaID, MatchOptions{MinScore: 90})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, best.ID, got[0].JobID)
	assert.Equal(t, near.ID, got[1].JobID)
	assert.GreaterOrEqual(t, got[0].Score, got[1].Score)
	assert.GreaterOrEqual(t, got[1].Score, 90)
}

func TestMatchJobsForPersona_PaginationIsStable(t *testing.T) {
	pool := make([]job.Job, 0, 50)
	for i := 0; i < 50; i++ {
		j := fillerJob(i)
		if i%3 == 0 {
			j.Keywords = []string{"python"}
		}
		if i%4 == 0 {
			j.RemoteType = job.RemoteTypeHybrid
		}
		pool = append(pool, j)
	}
	f := newFixture(pool)
	uc := f.usecase(nil)
	ctx := context.Background()

	all, err := uc.MatchJobsForPersona(ctx, f.userID, f.personaID, MatchOptions{})
	require.NoError(t, err)
	require.Len(t, all, 50)

	page, err := uc.MatchJobsForPersona(ctx, f.userID, f.personaID, MatchOptions{Limit: 10, Offset: 20})
	require.NoError(t, err)
	assert.Equal(t, all[20:30], page)

	again, err := uc.MatchJobsForPersona(ctx, f.userID, f.personaID, MatchOptions{Limit: 10, Offset: 20})
	require.NoError(t, err)
	assert.Equal(t, page, again)
}

func TestMatchJobsForPersona_ExcludedCompany(t *testing.T) {
	evil := perfectJob()
	evil.Company = "Evil Corp International"
	f := newFixture([]job.Job{evil, perfectJob()})
	f.personas.prefs[f.personaID]["excluded_companies"] = "evil corp"
	uc := f.usecase(nil)

	got, err := uc.MatchJobsForPersona(context.Background(), f.userID, f.personaID, MatchOptions{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotEqual(t, evil.ID, got[0].JobID)
}

func TestGetMatches_CacheHitSkipsRepositories(t *testing.T) {
	f := newFixture([]job.Job{perfectJob(), fillerJob(1), fillerJob(2)})
	uc := f.usecase(cache.NewMemory(time.Minute))
	ctx := context.Background()

	first, err := uc.GetMatches(ctx, f.userID, f.personaID, MatchOptions{Limit: 2})
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, 3, first.Total)
	assert.Len(t, first.Items, 2)

	f.jobs.err = errors.New("db down")
	f.personas.err = errors.New("db down")

	second, err := uc.GetMatches(ctx, f.userID, f.personaID, MatchOptions{Limit: 2})
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Items, second.Items)
	assert.Equal(t, int32(1), f.jobs.calls.Load())

	filtered, err := uc.GetMatches(ctx, f.userID, f.personaID, MatchOptions{MinScore: 90})
	require.NoError(t, err)
	assert.True(t, filtered.Cached)
	assert.Equal(t, 1, filtered.Total)
}

func TestGetMatches_CachedResultIgnoresLaterWeights(t *testing.T) {
	f := newFixture([]job.Job{perfectJob(), fillerJob(1)})
	uc := f.usecase(cache.NewMemory(time.Minute))
	ctx := context.Background()

	first, err := uc.GetMatches(ctx, f.userID, f.personaID, MatchOptions{})
	require.NoError(t, err)

	skillOnly := matching.WeightConfig{Skill: 1}
	second, err := uc.GetMatches(ctx, f.userID, f.personaID, MatchOptions{Weights: &skillOnly})
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Items, second.Items)
}

func TestGetMatches_InvalidateRecomputes(t *testing.T) {
	f := newFixture([]job.Job{perfectJob()})
	mem := cache.NewMemory(time.Minute)
	uc := f.usecase(mem)
	ctx := context.Background()

	_, err := uc.GetMatches(ctx, f.userID, f.personaID, MatchOptions{})
	require.NoError(t, err)

	uc.InvalidatePersona(ctx, f.userID, f.personaID)
	assert.Equal(t, 0, uc.CacheStats(ctx).TotalEntries)

	page, err := uc.GetMatches(ctx, f.userID, f.personaID, MatchOptions{})
	require.NoError(t, err)
	assert.False(t, page.Cached)
	assert.Equal(t, int32(2), f.jobs.calls.Load())

	uc.InvalidateUser(ctx, f.userID)
	assert.Equal(t, 0, uc.CacheStats(ctx).TotalEntries)

	_, err = uc.GetMatches(ctx, f.userID, f.personaID, MatchOptions{})
	require.NoError(t, err)
	uc.ClearAllCache(ctx)
	assert.Equal(t, cache.Stats{}, uc.CacheStats(ctx))
}

func TestGetMatches_ErrorsAreNotCached(t *testing.T) {
	f := newFixture([]job.Job{perfectJob()})
	f.jobs.err = errors.New("boom")
	mem := cache.NewMemory(time.Minute)
	uc := f.usecase(mem)
	ctx := context.Background()

	_, err := uc.GetMatches(ctx, f.userID, f.personaID, MatchOptions{})
	require.ErrorIs(t, err, ErrLoadJobs)
	assert.Equal(t, 0, uc.CacheStats(ctx).TotalEntries)
}

func TestGetMatches_ConcurrentMissesComputeOnce(t *testing.T) {
	f := newFixture([]job.Job{perfectJob(), fillerJob(1)})
	f.jobs.release = make(chan struct{})
	uc := f.usecase(cache.NewMemory(time.Minute))
	ctx := context.Background()

	const callers = 8
	var wg sync.WaitGroup
	results := make([]MatchPage, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = uc.GetMatches(ctx, f.userID, f.personaID, MatchOptions{})
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(f.jobs.release)
	wg.Wait()

	assert.Equal(t, int32(1), f.jobs.calls.Load())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0].Items, results[i].Items)
	}
}

func TestGetMatches_InvalidateUserDetachesInFlight(t *testing.T) {
	f := newFixture([]job.Job{perfectJob(), fillerJob(1)})
	f.jobs.release = make(chan struct{})
	uc := f.usecase(cache.NewMemory(time.Minute))
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	start := func(i int) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = uc.GetMatches(ctx, f.userID, f.personaID, MatchOptions{})
		}()
	}

	start(0)
	require.Eventually(t, func() bool { return f.jobs.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	uc.InvalidateUser(ctx, f.userID)
	start(1)
	require.Eventually(t, func() bool { return f.jobs.calls.Load() == 2 }, time.Second, 5*time.Millisecond)

	close(f.jobs.release)
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	page, err := uc.GetMatches(ctx, f.userID, f.personaID, MatchOptions{})
	require.NoError(t, err)
	assert.True(t, page.Cached)
	assert.Equal(t, int32(2), f.jobs.calls.Load())
}

func TestGetMatches_NoCache(t *testing.T) {
	f := newFixture([]job.Job{perfectJob()})
	uc := f.usecase(nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		page, err := uc.GetMatches(ctx, f.userID, f.personaID, MatchOptions{})
		require.NoError(t, err)
		assert.False(t, page.Cached)
	}
	assert.Equal(t, int32(2), f.jobs.calls.Load())
	assert.Equal(t, cache.Stats{}, uc.CacheStats(ctx))
}
