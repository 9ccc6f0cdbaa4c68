package seeder

import (
	"context"
	"encoding/json"
	"fmt"

	"persona-match/internal/database"

	"github.com/google/uuid"
)

// Fixed identifiers so the demo persona can be queried right after seeding.
var (
	DemoUserID    = uuid.MustParse("5b6f1c9a-2d5e-4f0b-8d3a-9e1f2a3b4c01")
	DemoPersonaID = uuid.MustParse("5b6f1c9a-2d5e-4f0b-8d3a-9e1f2a3b4c02")
)

type DemoPersonaSeeder struct{}

func (DemoPersonaSeeder) Name() string { return "demo_persona" }

func (DemoPersonaSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "personas", "id", "user_id", "name", "created_at", "updated_at"); err != nil {
		return err
	}
	if err := EnsureTableColumns(ctx, db, "persona_preferences", "persona_id", "preferences"); err != nil {
		return err
	}

	prefs, err := json.Marshal(map[string]any{
		"required_skills":      []string{"python"},
		"nice_to_have_skills":  []string{"sql", "kafka", "aws"},
		"min_salary":           80000,
		"max_salary":           120000,
		"remote_preference":    "remote",
		"preferred_locations":  []string{"berlin"},
		"preferred_industries": []string{"fintech"},
		"title_keywords":       []string{"data", "engineer"},
		"excluded_companies":   []string{"evil corp"},
	})
	if err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	if _, err := tx.Exec(ctx,
		`INSERT INTO personas (id, user_id, name) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING`,
		DemoPersonaID, DemoUserID, "Data engineer, remote",
	); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO persona_preferences (persona_id, preferences) VALUES ($1, $2::jsonb)
		 ON CONFLICT (persona_id) DO UPDATE SET preferences = EXCLUDED.preferences, updated_at = now()`,
		DemoPersonaID, string(prefs),
	); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
