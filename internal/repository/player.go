package repository

import (
	"context"
	"database/sql"
	"fmt"

	"tagprostats.dev/engine/internal/core"
)

// PlayerRepository implements core.PlayerRepository backed by PostgreSQL.
type PlayerRepository struct {
	db *sql.DB
}

func NewPlayerRepository(db *sql.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) GetByID(ctx context.Context, id core.PlayerID) (*core.Player, error) {
	query := `SELECT id, name, profile FROM players WHERE id = $1`

	var p core.Player
	err := r.db.QueryRowContext(ctx, query, int(id)).Scan(&p.ID, &p.Name, &p.Profile)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("player %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return &p, nil
}

func (r *PlayerRepository) FindByName(ctx context.Context, name string) (*core.Player, error) {
	query := `SELECT id, name, profile FROM players WHERE name = $1`

	var p core.Player
	err := r.db.QueryRowContext(ctx, query, name).Scan(&p.ID, &p.Name, &p.Profile)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find player by name: %w", err)
	}
	return &p, nil
}

func (r *PlayerRepository) Create(ctx context.Context, p core.Player) (core.PlayerID, error) {
	query := `INSERT INTO players (name, profile) VALUES ($1, $2) RETURNING id`

	var id core.PlayerID
	err := r.db.QueryRowContext(ctx, query, p.Name, p.Profile).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create player: %w", err)
	}
	return id, nil
}
