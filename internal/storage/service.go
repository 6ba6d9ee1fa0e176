package storage

import (
	"context"
	"errors"

	"github.com/Alpha-Auxiliary/fitGenerator/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const listLimit = 50

var ErrNotFound = errors.New("export not found")

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) SaveExport(ctx context.Context, e Export) (Export, error) {
	e.ID = uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO activity_exports (id, owner_id, variant_index, format, file_name, distance_m, duration_sec, data)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at
	`, e.ID, e.OwnerID, e.VariantIndex, e.Format, e.FileName, e.DistanceM, e.DurationSec, e.Data)
	if err := row.Scan(&e.CreatedAt); err != nil {
		return Export{}, err
	}
	return e, nil
}

func (s *Service) ListExports(ctx context.Context, ownerID string) ([]Export, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, owner_id, variant_index, format, file_name, distance_m, duration_sec, created_at
		FROM activity_exports WHERE owner_id=$1
		ORDER BY created_at DESC
		LIMIT $2
	`, ownerID, listLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exports := []Export{}
	for rows.Next() {
		var e Export
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.VariantIndex, &e.Format, &e.FileName, &e.DistanceM, &e.DurationSec, &e.CreatedAt); err != nil {
			return nil, err
		}
		exports = append(exports, e)
	}
	return exports, rows.Err()
}

// GetExport loads one export of ownerID, including its file bytes.
func (s *Service) GetExport(ctx context.Context, ownerID, id string) (Export, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, owner_id, variant_index, format, file_name, distance_m, duration_sec, data, created_at
		FROM activity_exports WHERE id=$1 AND owner_id=$2
	`, id, ownerID)
	var e Export
	err := row.Scan(&e.ID, &e.OwnerID, &e.VariantIndex, &e.Format, &e.FileName, &e.DistanceM, &e.DurationSec, &e.Data, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Export{}, ErrNotFound
	}
	if err != nil {
		return Export{}, err
	}
	return e, nil
}
