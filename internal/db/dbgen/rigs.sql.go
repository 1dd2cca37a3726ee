package dbgen

import (
	"context"
)

const createRig = `-- name: CreateRig :one
INSERT INTO rigs (id, name, owner_id, stage_width, stage_depth, stage_height)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, name, owner_id, stage_width, stage_depth, stage_height, created_at, updated_at
`

type CreateRigParams struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	OwnerID     string  `json:"owner_id"`
	StageWidth  float64 `json:"stage_width"`
	StageDepth  float64 `json:"stage_depth"`
	StageHeight float64 `json:"stage_height"`
}

func (q *Queries) CreateRig(ctx context.Context, arg CreateRigParams) (Rig, error) {
	row := q.db.QueryRow(ctx, createRig,
		arg.ID,
		arg.Name,
		arg.OwnerID,
		arg.StageWidth,
		arg.StageDepth,
		arg.StageHeight,
	)
	var i Rig
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.OwnerID,
		&i.StageWidth,
		&i.StageDepth,
		&i.StageHeight,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const deleteRig = `-- name: DeleteRig :exec
DELETE FROM rigs WHERE id = $1
`

func (q *Queries) DeleteRig(ctx context.Context, id string) error {
	_, err := q.db.Exec(ctx, deleteRig, id)
	return err
}

const getRig = `-- name: GetRig :one
SELECT id, name, owner_id, stage_width, stage_depth, stage_height, created_at, updated_at FROM rigs
WHERE id = $1
`

func (q *Queries) GetRig(ctx context.Context, id string) (Rig, error) {
	row := q.db.QueryRow(ctx, getRig, id)
	var i Rig
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.OwnerID,
		&i.StageWidth,
		&i.StageDepth,
		&i.StageHeight,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listRigsForOwner = `-- name: ListRigsForOwner :many
SELECT id, name, owner_id, stage_width, stage_depth, stage_height, created_at, updated_at FROM rigs
WHERE owner_id = $1
ORDER BY updated_at DESC
`

func (q *Queries) ListRigsForOwner(ctx context.Context, ownerID string) ([]Rig, error) {
	rows, err := q.db.Query(ctx, listRigsForOwner, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Rig{}
	for rows.Next() {
		var i Rig
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.OwnerID,
			&i.StageWidth,
			&i.StageDepth,
			&i.StageHeight,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const touchRig = `-- name: TouchRig :exec
UPDATE rigs SET updated_at = now() WHERE id = $1
`

func (q *Queries) TouchRig(ctx context.Context, id string) error {
	_, err := q.db.Exec(ctx, touchRig, id)
	return err
}
