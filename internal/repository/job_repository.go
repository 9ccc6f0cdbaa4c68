package repository

import (
	"context"
	"strings"
	"time"

	"persona-match/internal/config"
	"persona-match/internal/database"
	"persona-match/internal/domain/job"

	"github.com/google/uuid"
)

type JobRepository interface {
	// ListActiveJobs returns active jobs, most recent first, at most limit rows.
	ListActiveJobs(ctx context.Context, limit int) ([]job.Job, error)
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

func (r *PostgresJobRepository) ListActiveJobs(ctx context.Context, limit int) ([]job.Job, error) {
	if limit <= 0 {
		limit = config.DefaultCandidateLimit
	}
	if limit > config.MaxCandidateLimit {
		limit = config.MaxCandidateLimit
	}

	rows, err := r.db.Query(ctx,
		`SELECT id,
		        COALESCE(title, ''),
		        COALESCE(company, ''),
		        COALESCE(location, ''),
		        COALESCE(industry, ''),
		        COALESCE(employment_type, ''),
		        COALESCE(remote_type, ''),
		        salary_min,
		        salary_max,
		        COALESCE(description, ''),
		        COALESCE(keywords, '{}'),
		        is_active,
		        created_at
		 FROM jobs
		 WHERE is_active = true
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		var row jobRow
		if err := rows.Scan(
			&row.ID,
			&row.Title,
			&row.Company,
			&row.Location,
			&row.Industry,
			&row.EmploymentType,
			&row.RemoteType,
			&row.SalaryMin,
			&row.SalaryMax,
			&row.Description,
			&row.Keywords,
			&row.IsActive,
			&row.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type jobRow struct {
	ID             uuid.UUID
	Title          string
	Company        string
	Location       string
	Industry       string
	EmploymentType string
	RemoteType     string
	SalaryMin      *int
	SalaryMax      *int
	Description    string
	Keywords       []string
	IsActive       bool
	CreatedAt      time.Time
}

func (r jobRow) toDomain() job.Job {
	keywords := make([]string, 0, len(r.Keywords))
	for _, k := range r.Keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		keywords = append(keywords, k)
	}

	salary := job.SalaryRange{Min: positive(r.SalaryMin), Max: positive(r.SalaryMax)}
	if salary.Min != nil && salary.Max != nil && *salary.Min > *salary.Max {
		salary.Min, salary.Max = salary.Max, salary.Min
	}

	return job.Job{
		ID:             r.ID,
		Title:          strings.TrimSpace(r.Title),
		Company:        strings.TrimSpace(r.Company),
		Location:       strings.TrimSpace(r.Location),
		Industry:       strings.TrimSpace(r.Industry),
		EmploymentType: strings.TrimSpace(r.EmploymentType),
		RemoteType:     job.ParseRemoteType(r.RemoteType),
		Salary:         salary,
		Description:    r.Description,
		Keywords:       keywords,
		IsActive:       r.IsActive,
		CreatedAt:      r.CreatedAt,
	}
}

func positive(v *int) *int {
	if v == nil || *v <= 0 {
		return nil
	}
	n := *v
	return &n
}
