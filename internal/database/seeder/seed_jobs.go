package seeder

import (
	"context"
	"fmt"

	"persona-match/internal/database"

	"github.com/google/uuid"
)

type JobsSeeder struct{}

func (JobsSeeder) Name() string { return "jobs" }

type demoJob struct {
	ID             string
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
}

func salary(v int) *int { return &v }

var demoJobs = []demoJob{
	{
		ID: "7d0a4f3e-1b1c-4c55-9a59-0f6a7c1e2a01", Title: "Senior Data Engineer", Company: "PayFlow",
		Location: "Berlin, Germany", Industry: "fintech", EmploymentType: "full-time", RemoteType: "remote",
		SalaryMin: salary(90000), SalaryMax: salary(110000),
		Description: "Build streaming pipelines for a fintech payments platform.",
		Keywords:    []string{"python", "sql", "kafka", "spark", "aws"},
	},
	{
		ID: "7d0a4f3e-1b1c-4c55-9a59-0f6a7c1e2a02", Title: "Backend Engineer", Company: "Ledgerly",
		Location: "Munich, Germany", Industry: "fintech", EmploymentType: "full-time", RemoteType: "hybrid",
		SalaryMin: salary(70000), SalaryMax: salary(95000),
		Description: "Go services for accounting automation.",
		Keywords:    []string{"go", "postgresql", "docker", "kubernetes"},
	},
	{
		ID: "7d0a4f3e-1b1c-4c55-9a59-0f6a7c1e2a03", Title: "Machine Learning Engineer", Company: "Medisight",
		Location: "Remote", Industry: "healthcare", EmploymentType: "full-time", RemoteType: "remote",
		SalaryMax:   salary(130000),
		Description: "Train and deploy machine learning models for diagnostic imaging.",
		Keywords:    []string{"python", "pytorch", "docker"},
	},
	{
		ID: "7d0a4f3e-1b1c-4c55-9a59-0f6a7c1e2a04", Title: "Frontend Developer", Company: "Shoply",
		Location: "Amsterdam, Netherlands", Industry: "e-commerce", EmploymentType: "contract", RemoteType: "onsite",
		Description: "React storefront for a retail marketplace.",
		Keywords:    []string{"typescript", "react", "css"},
	},
	{
		ID: "7d0a4f3e-1b1c-4c55-9a59-0f6a7c1e2a05", Title: "Data Analyst", Company: "Evil Corp",
		Location: "Berlin, Germany", Industry: "advertising", EmploymentType: "full-time", RemoteType: "onsite",
		SalaryMin: salary(50000), SalaryMax: salary(60000),
		Description: "Reporting and dashboards for ad campaigns.",
		Keywords:    []string{"sql", "python", "tableau"},
	},
}

func (JobsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "jobs",
		"id", "title", "company", "location", "industry", "employment_type", "remote_type",
		"salary_min", "salary_max", "description", "keywords", "is_active", "created_at",
	); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	for _, j := range demoJobs {
		id, err := uuid.Parse(j.ID)
		if err != nil {
			return fmt.Errorf("demo job id %q: %w", j.ID, err)
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO jobs (id, title, company, location, industry, employment_type, remote_type,
			                   salary_min, salary_max, description, keywords, is_active)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, true)
			 ON CONFLICT (id) DO NOTHING`,
			id, j.Title, j.Company, j.Location, j.Industry, j.EmploymentType, j.RemoteType,
			j.SalaryMin, j.SalaryMax, j.Description, j.Keywords,
		)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
