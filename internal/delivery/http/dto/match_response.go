package dto

import (
	"time"

	"persona-match/internal/domain/matching"
	"persona-match/internal/infrastructure/cache"

	"github.com/google/uuid"
)

type SalaryResponse struct {
	Min *int `json:"min"`
	Max *int `json:"max"`
}

type MatchJobResponse struct {
	Title          string         `json:"title"`
	Company        string         `json:"company"`
	Location       string         `json:"location"`
	Industry       string         `json:"industry"`
	EmploymentType string         `json:"employment_type"`
	RemoteType     string         `json:"remote_type"`
	Salary         SalaryResponse `json:"salary"`
}

type MatchFactorsResponse struct {
	Skill    float64 `json:"skill"`
	Salary   float64 `json:"salary"`
	Remote   float64 `json:"remote"`
	Location float64 `json:"location"`
	Industry float64 `json:"industry"`
	Title    float64 `json:"title"`
}

type MatchResponse struct {
	JobID       uuid.UUID            `json:"job_id"`
	Score       int                  `json:"score"`
	Factors     MatchFactorsResponse `json:"factors"`
	Explanation string               `json:"explanation"`
	Job         MatchJobResponse     `json:"job"`
}

type CacheStatsResponse struct {
	TotalEntries   int `json:"total_entries"`
	ValidEntries   int `json:"valid_entries"`
	ExpiredEntries int `json:"expired_entries"`
}

type HealthResponse struct {
	Database string    `json:"database"`
	Time     time.Time `json:"time"`
}

func NewMatchResponse(m matching.MatchedJob) MatchResponse {
	return MatchResponse{
		JobID: m.JobID,
		Score: m.Score,
		Factors: MatchFactorsResponse{
			Skill:    m.Factors.Skill,
			Salary:   m.Factors.Salary,
			Remote:   m.Factors.Remote,
			Location: m.Factors.Location,
			Industry: m.Factors.Industry,
			Title:    m.Factors.Title,
		},
		Explanation: m.Explanation,
		Job: MatchJobResponse{
			Title:          m.Job.Title,
			Company:        m.Job.Company,
			Location:       m.Job.Location,
			Industry:       m.Job.Industry,
			EmploymentType: m.Job.EmploymentType,
			RemoteType:     string(m.Job.RemoteType),
			Salary:         SalaryResponse{Min: m.Job.Salary.Min, Max: m.Job.Salary.Max},
		},
	}
}

func NewMatchResponses(items []matching.MatchedJob) []MatchResponse {
	out := make([]MatchResponse, 0, len(items))
	for _, it := range items {
		out = append(out, NewMatchResponse(it))
	}
	return out
}

func NewCacheStatsResponse(s cache.Stats) CacheStatsResponse {
	return CacheStatsResponse{
		TotalEntries:   s.TotalEntries,
		ValidEntries:   s.ValidEntries,
		ExpiredEntries: s.ExpiredEntries,
	}
}
