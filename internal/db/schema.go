package db

import "context"

const schema = `
CREATE TABLE IF NOT EXISTS activity_exports (
	id            UUID PRIMARY KEY,
	owner_id      TEXT NOT NULL,
	variant_index INTEGER NOT NULL,
	format        TEXT NOT NULL,
	file_name     TEXT NOT NULL,
	distance_m    DOUBLE PRECISION NOT NULL,
	duration_sec  DOUBLE PRECISION NOT NULL,
	data          BYTEA NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS activity_exports_owner_idx ON activity_exports (owner_id, created_at DESC);
`

// EnsureSchema creates the tables used by the export archive.
func EnsureSchema(ctx context.Context, q Querier) error {
	_, err := q.Exec(ctx, schema)
	return err
}
