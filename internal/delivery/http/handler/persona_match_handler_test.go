package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"persona-match/internal/delivery/http/handler"
	"persona-match/internal/delivery/http/middleware"
	"persona-match/internal/delivery/http/routes"
	"persona-match/internal/domain/matching"
	"persona-match/internal/infrastructure/cache"
	"persona-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMatchUsecase struct {
	page        usecase.MatchPage
	err         error
	gotOpts     usecase.MatchOptions
	gotUser     uuid.UUID
	gotPersona  uuid.UUID
	invalidated int
	userCleared int
}

func (f *fakeMatchUsecase) MatchJobsForPersona(context.Context, uuid.UUID, uuid.UUID, usecase.MatchOptions) ([]matching.MatchedJob, error) {
	return f.page.Items, f.err
}

func (f *fakeMatchUsecase) GetMatches(_ context.Context, userID, personaID uuid.UUID, opts usecase.MatchOptions) (usecase.MatchPage, error) {
	f.gotUser, f.gotPersona, f.gotOpts = userID, personaID, opts
	return f.page, f.err
}

func (f *fakeMatchUsecase) InvalidatePersona(_ context.Context, userID, personaID uuid.UUID) {
	f.gotUser, f.gotPersona = userID, personaID
	f.invalidated++
}

func (f *fakeMatchUsecase) InvalidateUser(_ context.Context, userID uuid.UUID) {
	f.gotUser = userID
	f.userCleared++
}

func (f *fakeMatchUsecase) ClearAllCache(context.Context) {}

func (f *fakeMatchUsecase) CacheStats(context.Context) cache.Stats {
	return cache.Stats{TotalEntries: 3, ValidEntries: 2, ExpiredEntries: 1}
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(uc usecase.PersonaMatchUsecase) *fiber.App {
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(nil).Middleware())
	routes.NewRegistry(
		handler.NewHealthHandler(nil),
		handler.NewPersonaMatchHandler(uc, matching.DefaultWeights()),
	).Register(app)
	return app
}

func do(t *testing.T, app *fiber.App, method, target string, userID *uuid.UUID) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if userID != nil {
		req.Header.Set(middleware.HeaderUserID, userID.String())
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(body, &env), string(body))
	return resp.StatusCode, env
}

func TestGetMatches_RequiresIdentity(t *testing.T) {
	app := newTestApp(&fakeMatchUsecase{})
	status, env := do(t, app, http.MethodGet, "/api/v1/personas/"+uuid.NewString()+"/matches", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Unauthorized", env.Message)
}

func TestGetMatches_BadPersonaID(t *testing.T) {
	user := uuid.New()
	app := newTestApp(&fakeMatchUsecase{})
	status, _ := do(t, app, http.MethodGet, "/api/v1/personas/not-a-uuid/matches", &user)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestGetMatches_InvalidQuery(t *testing.T) {
	user := uuid.New()
	persona := uuid.NewString()
	app := newTestApp(&fakeMatchUsecase{})

	for _, q := range []string{"limit=abc", "limit=500", "limit=0", "min_score=101", "offset=-1", "weight_skill=-2", "weight_remote=x"} {
		status, _ := do(t, app, http.MethodGet, "/api/v1/personas/"+persona+"/matches?"+q, &user)
		assert.Equal(t, http.StatusBadRequest, status, q)
	}
}

func TestGetMatches_Success(t *testing.T) {
	user, persona := uuid.New(), uuid.New()
	jobID := uuid.New()
	uc := &fakeMatchUsecase{page: usecase.MatchPage{
		Items: []matching.MatchedJob{{
			JobID:       jobID,
			Score:       87,
			Explanation: "Salary within your range.",
			Job:         matching.JobSnapshot{Title: "Data Engineer", Company: "Acme"},
		}},
		Total:  41,
		Cached: true,
	}}
	app := newTestApp(uc)

	status, env := do(t, app, http.MethodGet, "/api/v1/personas/"+persona.String()+"/matches?min_score=40&offset=20", &user)
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, user, uc.gotUser)
	assert.Equal(t, persona, uc.gotPersona)
	assert.Equal(t, usecase.MatchOptions{MinScore: 40, Limit: 20, Offset: 20}, uc.gotOpts)

	var data struct {
		Items []struct {
			JobID       uuid.UUID `json:"job_id"`
			Score       int       `json:"score"`
			Explanation string    `json:"explanation"`
			Job         struct {
				Title string `json:"title"`
			} `json:"job"`
		} `json:"items"`
		Total  int  `json:"total"`
		Limit  int  `json:"limit"`
		Offset int  `json:"offset"`
		Cached bool `json:"cached"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Items, 1)
	assert.Equal(t, jobID, data.Items[0].JobID)
	assert.Equal(t, 87, data.Items[0].Score)
	assert.Equal(t, "Data Engineer", data.Items[0].Job.Title)
	assert.Equal(t, 41, data.Total)
	assert.Equal(t, 20, data.Limit)
	assert.Equal(t, 20, data.Offset)
	assert.True(t, data.Cached)
}

func TestGetMatches_WeightOverrides(t *testing.T) {
	user := uuid.New()
	uc := &fakeMatchUsecase{}
	app := newTestApp(uc)

	status, _ := do(t, app, http.MethodGet, "/api/v1/personas/"+uuid.NewString()+"/matches?weight_skill=1&weight_industry=0", &user)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, uc.gotOpts.Weights)

	want := matching.DefaultWeights()
	want.Skill = 1
	want.Industry = 0
	assert.Equal(t, want, *uc.gotOpts.Weights)
}

func TestGetMatches_ErrorMapping(t *testing.T) {
	user := uuid.New()
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{usecase.ErrPersonaNotFound, http.StatusNotFound, "Persona not found"},
		{usecase.ErrPreferencesNotFound, http.StatusNotFound, "Persona preferences not found"},
		{errors.Join(usecase.ErrLoadJobs, errors.New("connection refused")), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		app := newTestApp(&fakeMatchUsecase{err: tc.err})
		status, env := do(t, app, http.MethodGet, "/api/v1/personas/"+uuid.NewString()+"/matches", &user)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.message, env.Message)
		assert.NotContains(t, string(env.Data), "connection refused")
	}
}

func TestCacheEndpoints(t *testing.T) {
	user, persona := uuid.New(), uuid.New()
	uc := &fakeMatchUsecase{}
	app := newTestApp(uc)

	status, _ := do(t, app, http.MethodDelete, "/api/v1/personas/"+persona.String()+"/matches/cache", &user)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, uc.invalidated)
	assert.Equal(t, persona, uc.gotPersona)

	status, _ = do(t, app, http.MethodDelete, "/api/v1/matches/cache", &user)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, uc.userCleared)
	assert.Equal(t, user, uc.gotUser)

	status, env := do(t, app, http.MethodGet, "/api/v1/matches/cache/stats", &user)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"total_entries":3,"valid_entries":2,"expired_entries":1}`, string(env.Data))
}

func TestHealth(t *testing.T) {
	app := newTestApp(&fakeMatchUsecase{})
	status, env := do(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"database":"skipped"`)
}
