package rigs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/stagerig/rigsim/backend-go/internal/beam"
	"github.com/stagerig/rigsim/backend-go/internal/db/dbgen"
	"github.com/stagerig/rigsim/backend-go/internal/document"
	"github.com/stagerig/rigsim/backend-go/internal/fixture"
	"github.com/stagerig/rigsim/backend-go/internal/rig"
	"github.com/stagerig/rigsim/backend-go/internal/typeid"
)

var (
	ErrNotFound     = errors.New("rig not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidScene = errors.New("invalid scene")
	ErrInvalidStage = errors.New("invalid stage")
)

type Service struct {
	queries dbgen.Querier
}

func NewService(queries dbgen.Querier) *Service {
	return &Service{queries: queries}
}

type Rig struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	OwnerID   string     `json:"ownerId"`
	Stage     beam.Stage `json:"stage"`
	CreatedAt string     `json:"createdAt"`
	UpdatedAt string     `json:"updatedAt"`
}

// Scene is one stored version of a rig's scene file.
type Scene struct {
	RigID   string     `json:"rigId"`
	Version int        `json:"version"`
	Stage   beam.Stage `json:"stage"`
	Scene   []byte     `json:"-"`
}

// Create stores a new rig. A zero stage means the default stage. The first
// snapshot holds the sample rig when sample is set, otherwise an empty scene.
func (s *Service) Create(ctx context.Context, name, ownerID string, stage beam.Stage, sample bool) (*Rig, error) {
	if stage == (beam.Stage{}) {
		stage = beam.DefaultStage()
	}
	if err := stage.Validate(); err != nil {
		return nil, ErrInvalidStage
	}

	scene := []byte("[]")
	if sample {
		var err error
		if scene, err = sampleScene(stage); err != nil {
			return nil, err
		}
	}

	rigID := typeid.NewRigID()
	dbRig, err := s.queries.CreateRig(ctx, dbgen.CreateRigParams{
		ID:          rigID,
		Name:        name,
		OwnerID:     ownerID,
		StageWidth:  stage.Width,
		StageDepth:  stage.Depth,
		StageHeight: stage.Height,
	})
	if err != nil {
		return nil, fmt.Errorf("create rig: %w", err)
	}

	_, err = s.queries.CreateSnapshot(ctx, dbgen.CreateSnapshotParams{
		ID:      typeid.NewSnapshotID(),
		RigID:   rigID,
		Version: 1,
		Scene:   scene,
	})
	if err != nil {
		return nil, fmt.Errorf("create initial snapshot: %w", err)
	}

	return dbRigToRig(dbRig), nil
}

// sampleScene serializes the default rig through a registry so the stored
// file has the same clamped values a loaded one would.
func sampleScene(stage beam.Stage) ([]byte, error) {
	reg := rig.NewRegistry(fixture.Env{Stage: &stage, Meshes: fixture.NewMeshPool()})
	document.Deserialize(document.SampleRig(), reg)
	data, err := document.Marshal(reg)
	if err != nil {
		return nil, fmt.Errorf("marshal sample rig: %w", err)
	}
	return data, nil
}

func (s *Service) Get(ctx context.Context, rigID, userID string) (*Rig, error) {
	dbRig, err := s.owned(ctx, rigID, userID)
	if err != nil {
		return nil, err
	}
	return dbRigToRig(dbRig), nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Rig, error) {
	dbRigs, err := s.queries.ListRigsForOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list rigs: %w", err)
	}

	rigs := make([]Rig, len(dbRigs))
	for i, r := range dbRigs {
		rigs[i] = *dbRigToRig(r)
	}
	return rigs, nil
}

func (s *Service) Delete(ctx context.Context, rigID, userID string) error {
	if _, err := s.owned(ctx, rigID, userID); err != nil {
		return err
	}
	return s.queries.DeleteRig(ctx, rigID)
}

// LatestScene returns the newest snapshot of a rig.
func (s *Service) LatestScene(ctx context.Context, rigID, userID string) (*Scene, error) {
	dbRig, err := s.owned(ctx, rigID, userID)
	if err != nil {
		return nil, err
	}

	snap, err := s.queries.GetLatestSnapshot(ctx, rigID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	return &Scene{
		RigID:   rigID,
		Version: int(snap.Version),
		Stage:   stageOf(dbRig),
		Scene:   snap.Scene,
	}, nil
}

// SaveScene stores a new snapshot. The body must parse as a scene file; a
// malformed body leaves the stored scene as it was.
func (s *Service) SaveScene(ctx context.Context, rigID, userID string, scene []byte) (int, error) {
	if _, err := document.Parse(scene); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	if _, err := s.owned(ctx, rigID, userID); err != nil {
		return 0, err
	}

	next := int32(1)
	current, err := s.queries.GetLatestSnapshot(ctx, rigID)
	switch {
	case err == nil:
		next = current.Version + 1
	case !errors.Is(err, pgx.ErrNoRows):
		return 0, fmt.Errorf("get snapshot: %w", err)
	}

	_, err = s.queries.CreateSnapshot(ctx, dbgen.CreateSnapshotParams{
		ID:      typeid.NewSnapshotID(),
		RigID:   rigID,
		Version: next,
		Scene:   scene,
	})
	if err != nil {
		return 0, fmt.Errorf("create snapshot: %w", err)
	}

	if err := s.queries.TouchRig(ctx, rigID); err != nil {
		return 0, fmt.Errorf("touch rig: %w", err)
	}
	return int(next), nil
}

func (s *Service) owned(ctx context.Context, rigID, userID string) (dbgen.Rig, error) {
	dbRig, err := s.queries.GetRig(ctx, rigID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dbgen.Rig{}, ErrNotFound
		}
		return dbgen.Rig{}, fmt.Errorf("get rig: %w", err)
	}
	if dbRig.OwnerID != userID {
		return dbgen.Rig{}, ErrForbidden
	}
	return dbRig, nil
}

func stageOf(r dbgen.Rig) beam.Stage {
	return beam.Stage{Width: r.StageWidth, Depth: r.StageDepth, Height: r.StageHeight}
}

func dbRigToRig(r dbgen.Rig) *Rig {
	return &Rig{
		ID:        r.ID,
		Name:      r.Name,
		OwnerID:   r.OwnerID,
		Stage:     stageOf(r),
		CreatedAt: r.CreatedAt.Time.Format(time.RFC3339),
		UpdatedAt: r.UpdatedAt.Time.Format(time.RFC3339),
	}
}

// Binding gives an editing session access to one user's rigs.
type Binding struct {
	service *Service
	userID  string
}

func (s *Service) For(userID string) *Binding {
	return &Binding{service: s, userID: userID}
}

func (b *Binding) LoadScene(ctx context.Context, rigID string) (beam.Stage, []byte, error) {
	sc, err := b.service.LatestScene(ctx, rigID, b.userID)
	if err != nil {
		return beam.Stage{}, nil, err
	}
	return sc.Stage, sc.Scene, nil
}

func (b *Binding) SaveScene(ctx context.Context, rigID string, scene []byte) error {
	_, err := b.service.SaveScene(ctx, rigID, b.userID, scene)
	return err
}
