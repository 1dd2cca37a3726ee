package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/stagerig/rigsim/backend-go/internal/db/dbtest"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s := NewService(dbtest.New(), "test-secret")
	s.cost = bcrypt.MinCost
	return s
}

func TestRegisterLogin(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	res, err := s.Register(ctx, " Ada@Example.com ", "lighting123", "Ada")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", res.User.Email)

	userID, err := s.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, userID)

	_, err = s.Register(ctx, "ada@example.com", "other-pass", "Ada 2")
	assert.ErrorIs(t, err, ErrEmailTaken)

	login, err := s.Login(ctx, "ADA@example.com", "lighting123")
	require.NoError(t, err)
	assert.Equal(t, res.User, login.User)

	_, err = s.Login(ctx, "ada@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Login(ctx, "nobody@example.com", "lighting123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	u, err := s.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.DisplayName)
	_, err = s.GetUser(ctx, "user_missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestValidateToken(t *testing.T) {
	s := newTestService(t)
	res, err := s.Register(context.Background(), "bo@example.com", "lighting123", "Bo")
	require.NoError(t, err)

	other := newTestService(t)
	other.jwtSecret = []byte("another-secret")
	_, err = other.ValidateToken(res.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	s.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	_, err = s.ValidateToken(res.Token)
	assert.ErrorIs(t, err, ErrInvalidToken, "expired")

	_, err = s.ValidateToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/ws/rig/x?token=from-query", nil)
	assert.Equal(t, "from-query", TokenFromRequest(r))

	r.Header.Set("Authorization", "Bearer from-header")
	assert.Equal(t, "from-header", TokenFromRequest(r))
}

func postJSON(t *testing.T, h http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(data)))
	return rec
}

func TestHandlers(t *testing.T) {
	s := newTestService(t)
	h := NewHandler(s)

	rec := postJSON(t, h.Register, registerRequest{Email: "cy@example.com", Password: "short", DisplayName: "Cy"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, h.Register, registerRequest{Email: "cy@example.com", Password: "lighting123", DisplayName: "Cy"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var res AuthResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))

	rec = postJSON(t, h.Register, registerRequest{Email: "cy@example.com", Password: "lighting123", DisplayName: "Cy"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = postJSON(t, h.Login, loginRequest{Email: "cy@example.com", Password: "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	me := s.AuthMiddleware(http.HandlerFunc(h.Me))

	rec = httptest.NewRecorder()
	me.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+res.Token)
	rec = httptest.NewRecorder()
	me.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var u User
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&u))
	assert.Equal(t, res.User, u)
}
