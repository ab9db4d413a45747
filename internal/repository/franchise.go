package repository

import (
	"context"
	"database/sql"
	"fmt"

	"tagprostats.dev/engine/internal/core"
)

// FranchiseRepository implements core.FranchiseRepository backed by PostgreSQL.
type FranchiseRepository struct {
	db *sql.DB
}

func NewFranchiseRepository(db *sql.DB) *FranchiseRepository {
	return &FranchiseRepository{db: db}
}

func (r *FranchiseRepository) GetByID(ctx context.Context, id core.FranchiseID) (*core.Franchise, error) {
	query := `SELECT id, name, abbr, logo FROM franchises WHERE id = $1`

	var f core.Franchise
	err := r.db.QueryRowContext(ctx, query, int(id)).Scan(&f.ID, &f.Name, &f.Abbr, &f.Logo)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get franchise: %w", err)
	}
	return &f, nil
}

func (r *FranchiseRepository) List(ctx context.Context) ([]core.Franchise, error) {
	query := `SELECT id, name, abbr, logo FROM franchises ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list franchises: %w", err)
	}
	defer rows.Close()

	var franchises []core.Franchise
	for rows.Next() {
		var f core.Franchise
		if err := rows.Scan(&f.ID, &f.Name, &f.Abbr, &f.Logo); err != nil {
			return nil, fmt.Errorf("failed to scan franchise: %w", err)
		}
		franchises = append(franchises, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate franchises: %w", err)
	}
	return franchises, nil
}

func (r *FranchiseRepository) FindByName(ctx context.Context, name string) (*core.Franchise, error) {
	query := `SELECT id, name, abbr, logo FROM franchises WHERE name = $1`

	var f core.Franchise
	err := r.db.QueryRowContext(ctx, query, name).Scan(&f.ID, &f.Name, &f.Abbr, &f.Logo)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find franchise by name: %w", err)
	}
	return &f, nil
}

func (r *FranchiseRepository) Create(ctx context.Context, f core.Franchise) (core.FranchiseID, error) {
	query := `INSERT INTO franchises (name, abbr, logo) VALUES ($1, $2, $3) RETURNING id`

	var id core.FranchiseID
	err := r.db.QueryRowContext(ctx, query, f.Name, f.Abbr, f.Logo).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create franchise: %w", err)
	}
	return id, nil
}
