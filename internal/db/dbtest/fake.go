// Package dbtest provides an in-memory dbgen.Querier for service tests.
package dbtest

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/stagerig/rigsim/backend-go/internal/db/dbgen"
)

// Fake mirrors the schema constraints the services rely on: unique emails,
// unique (rig, version) and cascading rig deletes.
type Fake struct {
	mu        sync.Mutex
	users     map[string]dbgen.User
	rigs      map[string]dbgen.Rig
	snapshots []dbgen.RigSnapshot
	clock     time.Time
}

var _ dbgen.Querier = (*Fake)(nil)

func New() *Fake {
	return &Fake{
		users: make(map[string]dbgen.User),
		rigs:  make(map[string]dbgen.Rig),
		clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
}

// now advances a fake clock so updated_at ordering is deterministic.
func (f *Fake) now() pgtype.Timestamptz {
	f.clock = f.clock.Add(time.Second)
	return pgtype.Timestamptz{Time: f.clock, Valid: true}
}

func (f *Fake) CreateUser(_ context.Context, arg dbgen.CreateUserParams) (dbgen.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == arg.Email {
			return dbgen.User{}, uniqueViolation()
		}
	}
	u := dbgen.User{
		ID:          arg.ID,
		Email:       arg.Email,
		Password:    arg.Password,
		DisplayName: arg.DisplayName,
		CreatedAt:   f.now(),
	}
	f.users[u.ID] = u
	return u, nil
}

func (f *Fake) GetUserByEmail(_ context.Context, email string) (dbgen.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return dbgen.User{}, pgx.ErrNoRows
}

func (f *Fake) GetUserByID(_ context.Context, id string) (dbgen.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return dbgen.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (f *Fake) CreateRig(_ context.Context, arg dbgen.CreateRigParams) (dbgen.Rig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rigs[arg.ID]; ok {
		return dbgen.Rig{}, uniqueViolation()
	}
	ts := f.now()
	r := dbgen.Rig{
		ID:          arg.ID,
		Name:        arg.Name,
		OwnerID:     arg.OwnerID,
		StageWidth:  arg.StageWidth,
		StageDepth:  arg.StageDepth,
		StageHeight: arg.StageHeight,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	f.rigs[r.ID] = r
	return r, nil
}

func (f *Fake) GetRig(_ context.Context, id string) (dbgen.Rig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rigs[id]
	if !ok {
		return dbgen.Rig{}, pgx.ErrNoRows
	}
	return r, nil
}

func (f *Fake) ListRigsForOwner(_ context.Context, ownerID string) ([]dbgen.Rig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []dbgen.Rig{}
	for _, r := range f.rigs {
		if r.OwnerID == ownerID {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b dbgen.Rig) int {
		return b.UpdatedAt.Time.Compare(a.UpdatedAt.Time)
	})
	return out, nil
}

func (f *Fake) DeleteRig(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rigs, id)
	f.snapshots = slices.DeleteFunc(f.snapshots, func(s dbgen.RigSnapshot) bool {
		return s.RigID == id
	})
	return nil
}

func (f *Fake) TouchRig(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.rigs[id]; ok {
		r.UpdatedAt = f.now()
		f.rigs[id] = r
	}
	return nil
}

func (f *Fake) CreateSnapshot(_ context.Context, arg dbgen.CreateSnapshotParams) (dbgen.RigSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.snapshots {
		if s.RigID == arg.RigID && s.Version == arg.Version {
			return dbgen.RigSnapshot{}, uniqueViolation()
		}
	}
	s := dbgen.RigSnapshot{
		ID:        arg.ID,
		RigID:     arg.RigID,
		Version:   arg.Version,
		Scene:     slices.Clone(arg.Scene),
		CreatedAt: f.now(),
	}
	f.snapshots = append(f.snapshots, s)
	return s, nil
}

func (f *Fake) GetLatestSnapshot(_ context.Context, rigID string) (dbgen.RigSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *dbgen.RigSnapshot
	for i := range f.snapshots {
		s := &f.snapshots[i]
		if s.RigID == rigID && (latest == nil || cmp.Less(latest.Version, s.Version)) {
			latest = s
		}
	}
	if latest == nil {
		return dbgen.RigSnapshot{}, pgx.ErrNoRows
	}
	return *latest, nil
}

// Snapshots returns how many snapshots a rig has.
func (f *Fake) Snapshots(rigID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.snapshots {
		if s.RigID == rigID {
			n++
		}
	}
	return n
}
