package matching

import (
	"persona-match/internal/domain/job"
	"persona-match/internal/domain/persona"
)

type Engine struct {
	agg Aggregator
}

func NewEngine(defaults WeightConfig) Engine {
	return Engine{agg: NewAggregator(defaults)}
}

func (e Engine) Aggregator() Aggregator {
	return e.agg
}

// Score runs the six scorers in canonical order, aggregates and explains.
func (e Engine) Score(j job.Job, p persona.Preferences, w WeightConfig) MatchedJob {
	skill := ScoreSkills(j, p)
	salary := ScoreSalary(j, p)
	remote := ScoreRemote(j, p)
	location := ScoreLocation(j, p)
	industry := ScoreIndustry(j, p)
	title := ScoreTitle(j, p)

	f := MatchFactors{
		Skill:    skill.Score,
		Salary:   salary.Score,
		Remote:   remote.Score,
		Location: location.Score,
		Industry: industry.Score,
		Title:    title.Score,
	}

	return MatchedJob{
		JobID:       j.ID,
		Score:       e.agg.Score(f, w),
		Factors:     f,
		Explanation: Explain(skill, salary, remote, location, industry, title),
		Job:         snapshotOf(j),
	}
}

// IsExcluded reports whether company contains any excluded company name.
func IsExcluded(company string, excluded []string) bool {
	for _, ex := range excluded {
		if ContainsFold(company, ex) {
			return true
		}
	}
	return false
}
