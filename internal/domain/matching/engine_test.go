package matching

import (
	"strings"
	"testing"

	"persona-match/internal/domain/job"
	"persona-match/internal/domain/persona"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExplain_OrderAndLimit(t *testing.T) {
	got := Explain(
		FactorResult{Reasons: []string{"a", ""}},
		FactorResult{Reasons: []string{"b"}},
		FactorResult{},
		FactorResult{Reasons: []string{"  c  ", "d"}},
		FactorResult{Reasons: []string{"e"}},
	)
	assert.Equal(t, "a; b; c; d.", got)
}

func TestExplain_Fallback(t *testing.T) {
	assert.Equal(t, FallbackExplanation, Explain(FactorResult{}, FactorResult{Reasons: []string{" "}}))
}

func TestEngine_Score(t *testing.T) {
	e := NewEngine(DefaultWeights())
	p := persona.Preferences{
		RequiredSkills:     []string{"python"},
		SalaryMin:          intPtr(80000),
		SalaryMax:          intPtr(120000),
		RemotePreference:   persona.RemotePreferenceRemote,
		PreferredLocations: []string{"berlin"},
		TitleKeywords:      []string{"data"},
	}

	a := job.Job{
		ID:         uuid.New(),
		Title:      "Data Engineer",
		Company:    "Acme",
		Location:   "Berlin, DE",
		RemoteType: job.RemoteTypeRemote,
		Salary:     job.SalaryRange{Min: intPtr(90000), Max: intPtr(110000)},
		Keywords:   []string{"Python"},
	}
	b := a
	b.ID = uuid.New()
	b.Keywords = []string{"excel"}

	ma := e.Score(a, p, WeightConfig{})
	mb := e.Score(b, p, WeightConfig{})

	require.Equal(t, a.ID, ma.JobID)
	assert.Greater(t, ma.Factors.Skill, 0.0)
	assert.Equal(t, 20.0, ma.Factors.Salary)
	assert.Equal(t, "Data Engineer", ma.Job.Title)

	assert.Equal(t, 0.0, mb.Factors.Skill)
	assert.Contains(t, strings.ToLower(mb.Explanation), "missing required skills")
	assert.Less(t, mb.Score, ma.Score)
	assert.LessOrEqual(t, mb.Score, 64)
}

func TestIsExcluded(t *testing.T) {
	assert.True(t, IsExcluded("Evil Corp International", []string{"evil corp"}))
	assert.False(t, IsExcluded("Good Co", []string{"evil corp", " "}))
	assert.False(t, IsExcluded("Anything", nil))
}

func TestPaginate(t *testing.T) {
	items := make([]MatchedJob, 50)
	for i := range items {
		items[i] = MatchedJob{Score: 100 - i}
	}

	page := Paginate(items, 10, 20)
	require.Len(t, page, 10)
	assert.Equal(t, items[20:30], page)
	assert.Equal(t, page, Paginate(items, 10, 20))

	assert.Empty(t, Paginate(items, 10, 50))
	assert.Len(t, Paginate(items, 0, 45), 5)
	assert.Len(t, Paginate(items, 10, -3), 10)
}

func TestSortAndFilter(t *testing.T) {
	items := []MatchedJob{{Score: 40}, {Score: 95}, {Score: 90}, {Score: 10}}
	SortByScore(items)
	assert.Equal(t, []int{95, 90, 40, 10}, scores(items))

	top := FilterMinScore(items, 90)
	assert.Equal(t, []int{95, 90}, scores(top))
}

func scores(items []MatchedJob) []int {
	out := make([]int, 0, len(items))
	for _, it := range items {
		out = append(out, it.Score)
	}
	return out
}
