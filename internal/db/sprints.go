package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SaveSprint stores a compilation. Saving the same inputs again for the same
// user replaces the earlier row and keeps its ID.
func (db *DB) SaveSprint(ctx context.Context, in *SprintInput) (*Sprint, error) {
	cols, err := encodeSprint(in)
	if err != nil {
		return nil, err
	}

	s := &Sprint{
		UserID:    in.UserID,
		InputHash: in.InputHash,
		Inputs:    in.Inputs,
		Spec:      in.Spec,
		SpecHash:  in.SpecHash,
		Markdown:  in.Markdown,
		Assets:    in.Assets,
	}
	err = db.pool.QueryRow(ctx,
		`INSERT INTO brand_sprints (id, user_id, input_hash, inputs, spec, spec_hash, markdown, assets)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (user_id, input_hash) DO UPDATE
		 SET inputs = $4, spec = $5, spec_hash = $6, markdown = $7, assets = $8, updated_at = NOW()
		 RETURNING id, created_at, updated_at`,
		uuid.New(), in.UserID, in.InputHash, cols.inputs, cols.spec, in.SpecHash, in.Markdown, cols.assets,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save sprint: %w", err)
	}
	return s, nil
}

// GetSprint returns the sprint for a user and input hash, or nil if none exists
func (db *DB) GetSprint(ctx context.Context, userID uuid.UUID, inputHash string) (*Sprint, error) {
	var (
		s    Sprint
		cols sprintColumns
	)
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, input_hash, inputs, spec, spec_hash, markdown, assets, created_at, updated_at
		 FROM brand_sprints WHERE user_id = $1 AND input_hash = $2`,
		userID, inputHash,
	).Scan(&s.ID, &s.UserID, &s.InputHash, &cols.inputs, &cols.spec, &s.SpecHash, &s.Markdown, &cols.assets, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get sprint: %w", err)
	}
	if err := cols.decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSprints returns a user's sprints, newest first
func (db *DB) ListSprints(ctx context.Context, userID uuid.UUID, limit int) ([]Sprint, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, input_hash, inputs, spec, spec_hash, markdown, assets, created_at, updated_at
		 FROM brand_sprints WHERE user_id = $1
		 ORDER BY updated_at DESC, id
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sprints: %w", err)
	}
	defer rows.Close()

	sprints := []Sprint{}
	for rows.Next() {
		var (
			s    Sprint
			cols sprintColumns
		)
		if err := rows.Scan(&s.ID, &s.UserID, &s.InputHash, &cols.inputs, &cols.spec, &s.SpecHash, &s.Markdown, &cols.assets, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sprint: %w", err)
		}
		if err := cols.decode(&s); err != nil {
			return nil, err
		}
		sprints = append(sprints, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sprints: %w", err)
	}
	return sprints, nil
}
