package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"persona-match/internal/delivery/http/dto"
	"persona-match/internal/delivery/http/middleware"
	"persona-match/internal/domain/matching"
	"persona-match/internal/pkg/response"
	"persona-match/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const defaultMatchLimit = 20

type PersonaMatchHandler struct {
	uc       usecase.PersonaMatchUsecase
	defaults matching.WeightConfig
	validate *validator.Validate
}

// NewPersonaMatchHandler builds the handler. defaults fill in the weights a
// request does not override.
func NewPersonaMatchHandler(uc usecase.PersonaMatchUsecase, defaults matching.WeightConfig) *PersonaMatchHandler {
	return &PersonaMatchHandler{uc: uc, defaults: defaults, validate: validator.New()}
}

func (h *PersonaMatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	personas := r.Group("/personas")
	personas.Get("/:personaId/matches", h.GetMatches)
	personas.Delete("/:personaId/matches/cache", h.InvalidatePersona)

	matches := r.Group("/matches")
	matches.Delete("/cache", h.InvalidateUser)
	matches.Get("/cache/stats", h.CacheStats)
}

type matchQuery struct {
	MinScore       int      `validate:"min=0,max=100"`
	Limit          int      `validate:"min=1,max=100"`
	Offset         int      `validate:"min=0"`
	WeightSkill    *float64 `validate:"omitempty,min=0"`
	WeightSalary   *float64 `validate:"omitempty,min=0"`
	WeightLocation *float64 `validate:"omitempty,min=0"`
	WeightRemote   *float64 `validate:"omitempty,min=0"`
	WeightIndustry *float64 `validate:"omitempty,min=0"`
}

func (q matchQuery) weights(defaults matching.WeightConfig) *matching.WeightConfig {
	if q.WeightSkill == nil && q.WeightSalary == nil && q.WeightLocation == nil && q.WeightRemote == nil && q.WeightIndustry == nil {
		return nil
	}
	w := defaults
	override := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	override(&w.Skill, q.WeightSkill)
	override(&w.Salary, q.WeightSalary)
	override(&w.Location, q.WeightLocation)
	override(&w.Remote, q.WeightRemote)
	override(&w.Industry, q.WeightIndustry)
	return &w
}

func (h *PersonaMatchHandler) GetMatches(c fiber.Ctx) error {
	userID, personaID, err := h.identify(c)
	if err != nil {
		return err
	}

	q, err := parseMatchQuery(c)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	}
	if err := h.validate.Struct(q); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid query parameters", validationDetails(err), err)
	}

	page, err := h.uc.GetMatches(c.Context(), userID, personaID, usecase.MatchOptions{
		MinScore: q.MinScore,
		Limit:    q.Limit,
		Offset:   q.Offset,
		Weights:  q.weights(h.defaults),
	})
	if err != nil {
		return mapPersonaMatchError(err)
	}

	return response.OK(c, response.Page[dto.MatchResponse]{
		Items:  dto.NewMatchResponses(page.Items),
		Total:  page.Total,
		Limit:  q.Limit,
		Offset: q.Offset,
		Cached: page.Cached,
	})
}

func (h *PersonaMatchHandler) InvalidatePersona(c fiber.Ctx) error {
	userID, personaID, err := h.identify(c)
	if err != nil {
		return err
	}
	h.uc.InvalidatePersona(c.Context(), userID, personaID)
	return response.OK(c, nil)
}

func (h *PersonaMatchHandler) InvalidateUser(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	h.uc.InvalidateUser(c.Context(), userID)
	return response.OK(c, nil)
}

func (h *PersonaMatchHandler) CacheStats(c fiber.Ctx) error {
	return response.OK(c, dto.NewCacheStatsResponse(h.uc.CacheStats(c.Context())))
}

func (h *PersonaMatchHandler) identify(c fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	userID, ok := middleware.UserID(c)
	if !ok {
		return uuid.Nil, uuid.Nil, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	personaID, err := uuid.Parse(c.Params("personaId"))
	if err != nil {
		return uuid.Nil, uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Invalid persona id", nil, err)
	}
	return userID, personaID, nil
}

func parseMatchQuery(c fiber.Ctx) (matchQuery, error) {
	q := matchQuery{Limit: defaultMatchLimit}

	ints := []struct {
		key string
		dst *int
	}{
		{"min_score", &q.MinScore},
		{"limit", &q.Limit},
		{"offset", &q.Offset},
	}
	for _, it := range ints {
		s := strings.TrimSpace(c.Query(it.key))
		if s == "" {
			continue
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return matchQuery{}, fmt.Errorf("invalid %s", it.key)
		}
		*it.dst = v
	}

	floats := []struct {
		key string
		dst **float64
	}{
		{"weight_skill", &q.WeightSkill},
		{"weight_salary", &q.WeightSalary},
		{"weight_location", &q.WeightLocation},
		{"weight_remote", &q.WeightRemote},
		{"weight_industry", &q.WeightIndustry},
	}
	for _, it := range floats {
		s := strings.TrimSpace(c.Query(it.key))
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return matchQuery{}, fmt.Errorf("invalid %s", it.key)
		}
		*it.dst = &v
	}

	return q, nil
}

func validationDetails(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[queryName(fe.Field())] = fe.Tag() + "=" + fe.Param()
	}
	return out
}

func queryName(field string) string {
	switch field {
	case "MinScore":
		return "min_score"
	case "Limit":
		return "limit"
	case "Offset":
		return "offset"
	case "WeightSkill":
		return "weight_skill"
	case "WeightSalary":
		return "weight_salary"
	case "WeightLocation":
		return "weight_location"
	case "WeightRemote":
		return "weight_remote"
	case "WeightIndustry":
		return "weight_industry"
	default:
		return strings.ToLower(field)
	}
}

func mapPersonaMatchError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrPersonaNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Persona not found", nil, err)
	case errors.Is(err, usecase.ErrPreferencesNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Persona preferences not found", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
