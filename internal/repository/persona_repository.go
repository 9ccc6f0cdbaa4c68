package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"persona-match/internal/database"
	"persona-match/internal/domain/persona"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("not found")

type PersonaRepository interface {
	// FindByIDAndUser returns ErrNotFound unless the persona exists and belongs to userID.
	FindByIDAndUser(ctx context.Context, personaID, userID uuid.UUID) (persona.Persona, error)
	// FindPreferences returns the stored preference document or ErrNotFound.
	FindPreferences(ctx context.Context, personaID uuid.UUID) (map[string]any, error)
}

type PostgresPersonaRepository struct {
	db database.DB
}

func NewPostgresPersonaRepository(db database.DB) *PostgresPersonaRepository {
	return &PostgresPersonaRepository{db: db}
}

func (r *PostgresPersonaRepository) FindByIDAndUser(ctx context.Context, personaID, userID uuid.UUID) (persona.Persona, error) {
	var p persona.Persona
	row := r.db.QueryRow(ctx,
		`SELECT id, user_id, COALESCE(name, ''), created_at, updated_at
		 FROM personas
		 WHERE id = $1 AND user_id = $2`,
		personaID, userID,
	)
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if isNoRows(err) {
			return persona.Persona{}, ErrNotFound
		}
		return persona.Persona{}, err
	}
	p.Name = strings.TrimSpace(p.Name)
	return p, nil
}

func (r *PostgresPersonaRepository) FindPreferences(ctx context.Context, personaID uuid.UUID) (map[string]any, error) {
	var doc map[string]any
	row := r.db.QueryRow(ctx,
		`SELECT preferences FROM persona_preferences WHERE persona_id = $1`,
		personaID,
	)
	if err := row.Scan(&doc); err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}
	return doc, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}
