package rigs

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagerig/rigsim/backend-go/internal/auth"
	"github.com/stagerig/rigsim/backend-go/internal/beam"
	"github.com/stagerig/rigsim/backend-go/internal/db/dbtest"
	"github.com/stagerig/rigsim/backend-go/internal/document"
)

const (
	owner    = "user_owner"
	stranger = "user_stranger"
)

func TestCreateAndScene(t *testing.T) {
	db := dbtest.New()
	s := NewService(db)
	ctx := context.Background()

	r, err := s.Create(ctx, "Main stage", owner, beam.Stage{}, false)
	require.NoError(t, err)
	assert.Equal(t, beam.DefaultStage(), r.Stage)

	sc, err := s.LatestScene(ctx, r.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, 1, sc.Version)
	assert.JSONEq(t, "[]", string(sc.Scene))

	_, err = s.LatestScene(ctx, r.ID, stranger)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = s.Create(ctx, "Bad", owner, beam.Stage{Width: -1, Depth: 1, Height: 1}, false)
	assert.ErrorIs(t, err, ErrInvalidStage)
}

func TestCreateSample(t *testing.T) {
	s := NewService(dbtest.New())
	ctx := context.Background()

	r, err := s.Create(ctx, "Demo", owner, beam.Stage{}, true)
	require.NoError(t, err)

	sc, err := s.LatestScene(ctx, r.ID, owner)
	require.NoError(t, err)
	records, err := document.Parse(sc.Scene)
	require.NoError(t, err)
	assert.Len(t, records, 68)
}

func TestSaveScene(t *testing.T) {
	db := dbtest.New()
	s := NewService(db)
	ctx := context.Background()
	r, err := s.Create(ctx, "Main stage", owner, beam.Stage{}, false)
	require.NoError(t, err)

	scene := []byte(`[{"type":"RGBLight","position":[0,12,0],"rotation":[0,0,0],"color":255,"intensity":0.5}]`)
	v, err := s.SaveScene(ctx, r.ID, owner, scene)
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	_, err = s.SaveScene(ctx, r.ID, owner, []byte(`{"oops":true}`))
	assert.ErrorIs(t, err, ErrInvalidScene)
	assert.Equal(t, 2, db.Snapshots(r.ID))

	sc, err := s.LatestScene(ctx, r.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, 2, sc.Version)
	assert.JSONEq(t, string(scene), string(sc.Scene))

	_, err = s.SaveScene(ctx, r.ID, stranger, scene)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = s.SaveScene(ctx, "rig_missing", owner, scene)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListDelete(t *testing.T) {
	db := dbtest.New()
	s := NewService(db)
	ctx := context.Background()

	a, err := s.Create(ctx, "A", owner, beam.Stage{}, false)
	require.NoError(t, err)
	b, err := s.Create(ctx, "B", owner, beam.Stage{}, false)
	require.NoError(t, err)
	_, err = s.Create(ctx, "C", stranger, beam.Stage{}, false)
	require.NoError(t, err)

	_, err = s.SaveScene(ctx, a.ID, owner, []byte("[]"))
	require.NoError(t, err)

	list, err := s.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID, "most recently saved first")
	assert.Equal(t, b.ID, list[1].ID)

	assert.ErrorIs(t, s.Delete(ctx, a.ID, stranger), ErrForbidden)
	require.NoError(t, s.Delete(ctx, a.ID, owner))
	assert.Zero(t, db.Snapshots(a.ID))
	_, err = s.Get(ctx, a.ID, owner)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBinding(t *testing.T) {
	s := NewService(dbtest.New())
	ctx := context.Background()
	r, err := s.Create(ctx, "A", owner, beam.Stage{Width: 50, Depth: 20, Height: 4}, false)
	require.NoError(t, err)

	b := s.For(owner)
	require.NoError(t, b.SaveScene(ctx, r.ID, []byte("[]")))
	stage, scene, err := b.LoadScene(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, stage.Width)
	assert.JSONEq(t, "[]", string(scene))

	_, _, err = s.For(stranger).LoadScene(ctx, r.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func newRouter(h *Handler, userID string) http.Handler {
	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.WithUserID(req.Context(), userID)))
		})
	})
	r.HandleFunc("/api/rigs", h.List).Methods("GET")
	r.HandleFunc("/api/rigs", h.Create).Methods("POST")
	r.HandleFunc("/api/rigs/{rigId}", h.Get).Methods("GET")
	r.HandleFunc("/api/rigs/{rigId}", h.Delete).Methods("DELETE")
	r.HandleFunc("/api/rigs/{rigId}/scene", h.GetScene).Methods("GET")
	r.HandleFunc("/api/rigs/{rigId}/scene", h.PutScene).Methods("PUT")
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestHandlers(t *testing.T) {
	s := NewService(dbtest.New())
	h := NewHandler(s)
	mine := newRouter(h, owner)
	theirs := newRouter(h, stranger)

	rec := do(t, mine, http.MethodPost, "/api/rigs", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, mine, http.MethodPost, "/api/rigs", `{"name":"Main","sample":true}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created Rig
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))

	base := "/api/rigs/" + created.ID
	rec = do(t, mine, http.MethodGet, base+"/scene", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-Scene-Version"))
	original := rec.Body.Bytes()

	rec = do(t, mine, http.MethodPut, base+"/scene", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, mine, http.MethodGet, base+"/scene", "")
	assert.True(t, bytes.Equal(original, rec.Body.Bytes()), "rejected save leaves the scene")

	rec = do(t, mine, http.MethodPut, base+"/scene", `[]`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"version":2}`, rec.Body.String())

	rec = do(t, theirs, http.MethodGet, base, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, mine, http.MethodGet, "/api/rigs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []Rig
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	assert.Len(t, list, 1)

	rec = do(t, mine, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, mine, http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
