package dbgen

import (
	"context"
)

type Querier interface {
	CreateRig(ctx context.Context, arg CreateRigParams) (Rig, error)
	CreateSnapshot(ctx context.Context, arg CreateSnapshotParams) (RigSnapshot, error)
	CreateUser(ctx context.Context, arg CreateUserParams) (User, error)
	DeleteRig(ctx context.Context, id string) error
	GetLatestSnapshot(ctx context.Context, rigID string) (RigSnapshot, error)
	GetRig(ctx context.Context, id string) (Rig, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id string) (User, error)
	ListRigsForOwner(ctx context.Context, ownerID string) ([]Rig, error)
	TouchRig(ctx context.Context, id string) error
}

var _ Querier = (*Queries)(nil)
