package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/brand-compiler/internal/types"
)

// SaveCopy caches generated copy for a spec hash, replacing any earlier entry
func (db *DB) SaveCopy(ctx context.Context, specHash string, assets types.BrandAssets, model string) error {
	content, err := json.Marshal(assets)
	if err != nil {
		return &EncodeError{Column: "copy", Cause: err}
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO brand_copy (spec_hash, copy, model)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (spec_hash) DO UPDATE SET copy = $2, model = $3, created_at = NOW()`,
		specHash, content, model,
	)
	if err != nil {
		return fmt.Errorf("failed to save copy: %w", err)
	}
	return nil
}

// GetCopy returns cached copy for a spec hash, or nil if none exists
func (db *DB) GetCopy(ctx context.Context, specHash string) (*CopyRecord, error) {
	var (
		rec     CopyRecord
		content []byte
	)
	err := db.pool.QueryRow(ctx,
		`SELECT spec_hash, copy, model, created_at FROM brand_copy WHERE spec_hash = $1`,
		specHash,
	).Scan(&rec.SpecHash, &content, &rec.Model, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get copy: %w", err)
	}
	if err := json.Unmarshal(content, &rec.Assets); err != nil {
		return nil, &DecodeError{Column: "copy", Cause: err}
	}
	return &rec, nil
}
