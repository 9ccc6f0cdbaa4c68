package matching

import "math"

const (
	weightedCoreScale = 90.0
	titleBonusScale   = 10.0
)

// WeightConfig holds the relative importance of the five weighted factors.
// Values need not sum to one; Aggregator normalizes them. Title has no slot.
type WeightConfig struct {
	Skill    float64 `json:"skill"`
	Salary   float64 `json:"salary"`
	Location float64 `json:"location"`
	Remote   float64 `json:"remote"`
	Industry float64 `json:"industry"`
}

func DefaultWeights() WeightConfig {
	return WeightConfig{Skill: 0.40, Salary: 0.20, Location: 0.15, Remote: 0.15, Industry: 0.10}
}

func (w WeightConfig) sum() float64 {
	return nonNegative(w.Skill) + nonNegative(w.Salary) + nonNegative(w.Location) + nonNegative(w.Remote) + nonNegative(w.Industry)
}

func (w WeightConfig) IsZero() bool {
	return w.sum() == 0
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

type Aggregator struct {
	defaults WeightConfig
}

// NewAggregator uses defaults whenever a caller's weights sum to zero.
// Zero defaults fall back to DefaultWeights.
func NewAggregator(defaults WeightConfig) Aggregator {
	if defaults.IsZero() {
		defaults = DefaultWeights()
	}
	return Aggregator{defaults: defaults}
}

func (a Aggregator) Defaults() WeightConfig {
	if a.defaults.IsZero() {
		return DefaultWeights()
	}
	return a.defaults
}

// Normalize scales w to sum to one, substituting the defaults when w sums to zero.
func (a Aggregator) Normalize(w WeightConfig) WeightConfig {
	total := w.sum()
	if total == 0 {
		w = a.Defaults()
		total = w.sum()
	}
	return WeightConfig{
		Skill:    nonNegative(w.Skill) / total,
		Salary:   nonNegative(w.Salary) / total,
		Location: nonNegative(w.Location) / total,
		Remote:   nonNegative(w.Remote) / total,
		Industry: nonNegative(w.Industry) / total,
	}
}

// Score combines the factors into 0..100: the weighted factors fill 90 points
// and title adds an unweighted 10 point bonus.
func (a Aggregator) Score(f MatchFactors, w WeightConfig) int {
	nw := a.Normalize(w)

	weighted := unit(f.Skill, MaxSkillScore)*nw.Skill +
		unit(f.Salary, MaxSalaryScore)*nw.Salary +
		unit(f.Remote, MaxRemoteScore)*nw.Remote +
		unit(f.Location, MaxLocationScore)*nw.Location +
		unit(f.Industry, MaxIndustryScore)*nw.Industry

	total := weighted*weightedCoreScale + unit(f.Title, MaxTitleScore)*titleBonusScale
	return int(math.Round(Clamp(total, 0, 100)))
}

func unit(v, maxV float64) float64 {
	return Clamp(v/maxV, 0, 1)
}
