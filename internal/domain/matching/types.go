package matching

import (
	"persona-match/internal/domain/job"

	"github.com/google/uuid"
)

// Per-factor ceilings.
const (
	MaxSkillScore    = 35.0
	MaxSalaryScore   = 20.0
	MaxRemoteScore   = 15.0
	MaxLocationScore = 15.0
	MaxIndustryScore = 10.0
	MaxTitleScore    = 15.0
)

// FactorResult is the output of a single factor scorer.
type FactorResult struct {
	Score   float64
	Reasons []string
}

type MatchFactors struct {
	Skill    float64 `json:"skill"`
	Salary   float64 `json:"salary"`
	Remote   float64 `json:"remote"`
	Location float64 `json:"location"`
	Industry float64 `json:"industry"`
	Title    float64 `json:"title"`
}

// JobSnapshot is the denormalized copy of job fields needed for display.
type JobSnapshot struct {
	Title          string          `json:"title"`
	Company        string          `json:"company"`
	Location       string          `json:"location"`
	Industry       string          `json:"industry"`
	EmploymentType string          `json:"employment_type"`
	RemoteType     job.RemoteType  `json:"remote_type"`
	Salary         job.SalaryRange `json:"salary"`
}

type MatchedJob struct {
	JobID       uuid.UUID    `json:"job_id"`
	Score       int          `json:"score"`
	Factors     MatchFactors `json:"factors"`
	Explanation string       `json:"explanation"`
	Job         JobSnapshot  `json:"job"`
}

func snapshotOf(j job.Job) JobSnapshot {
	return JobSnapshot{
		Title:          j.Title,
		Company:        j.Company,
		Location:       j.Location,
		Industry:       j.Industry,
		EmploymentType: j.EmploymentType,
		RemoteType:     j.RemoteType,
		Salary:         j.Salary,
	}
}
