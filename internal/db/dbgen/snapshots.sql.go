package dbgen

import (
	"context"
)

const createSnapshot = `-- name: CreateSnapshot :one
INSERT INTO rig_snapshots (id, rig_id, version, scene)
VALUES ($1, $2, $3, $4)
RETURNING id, rig_id, version, scene, created_at
`

type CreateSnapshotParams struct {
	ID      string `json:"id"`
	RigID   string `json:"rig_id"`
	Version int32  `json:"version"`
	Scene   []byte `json:"scene"`
}

func (q *Queries) CreateSnapshot(ctx context.Context, arg CreateSnapshotParams) (RigSnapshot, error) {
	row := q.db.QueryRow(ctx, createSnapshot,
		arg.ID,
		arg.RigID,
		arg.Version,
		arg.Scene,
	)
	var i RigSnapshot
	err := row.Scan(
		&i.ID,
		&i.RigID,
		&i.Version,
		&i.Scene,
		&i.CreatedAt,
	)
	return i, err
}

const getLatestSnapshot = `-- name: GetLatestSnapshot :one
SELECT id, rig_id, version, scene, created_at FROM rig_snapshots
WHERE rig_id = $1
ORDER BY version DESC
LIMIT 1
`

func (q *Queries) GetLatestSnapshot(ctx context.Context, rigID string) (RigSnapshot, error) {
	row := q.db.QueryRow(ctx, getLatestSnapshot, rigID)
	var i RigSnapshot
	err := row.Scan(
		&i.ID,
		&i.RigID,
		&i.Version,
		&i.Scene,
		&i.CreatedAt,
	)
	return i, err
}
