package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/canvasdraw/editor/backend-go/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := store.NewSQLite(context.Background(), filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := NewService(db, "test-secret")
	s.Cost = bcrypt.MinCost
	return s
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	reg, err := s.Register(ctx, " Ada@Example.com ", "correct horse", "Ada")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", reg.User.Email)

	userID, err := s.ValidateToken(reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, userID)

	login, err := s.Login(ctx, "ADA@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, reg.User, login.User)

	_, err = s.Login(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Login(ctx, "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Register(ctx, "ada@example.com", "another one", "Ada 2")
	assert.ErrorIs(t, err, ErrEmailTaken)

	u, err := s.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.DisplayName)

	_, err = s.GetUser(ctx, "user_missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestValidateTokenRejects(t *testing.T) {
	s := newTestService(t)
	token, err := s.issueToken("user_1")
	require.NoError(t, err)

	other := NewService(nil, "other-secret")
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	s.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	_, err = s.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.ValidateToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthMiddleware(t *testing.T) {
	s := newTestService(t)
	token, err := s.issueToken("user_1")
	require.NoError(t, err)

	var seen string
	h := s.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserIDFromContext(r.Context())
	}))

	tests := []struct {
		name   string
		method string
		target string
		header string
		status int
	}{
		{"missing", http.MethodGet, "/api/drawings", "", http.StatusUnauthorized},
		{"wrong scheme", http.MethodGet, "/api/drawings", "Basic " + token, http.StatusUnauthorized},
		{"bad token", http.MethodGet, "/api/drawings", "Bearer nope", http.StatusUnauthorized},
		{"ok", http.MethodGet, "/api/drawings", "Bearer " + token, http.StatusOK},
		{"query token", http.MethodGet, "/api/drawings/x/export/png?token=" + token, "", http.StatusOK},
		{"query token on write", http.MethodDelete, "/api/drawings/x?token=" + token, "", http.StatusUnauthorized},
		{"header wins over query", http.MethodGet, "/api/drawings?token=" + token, "Bearer nope", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
	assert.Equal(t, "user_1", seen)
}

func TestHandlerRegister(t *testing.T) {
	h := NewHandler(newTestService(t))

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		h.Register(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusBadRequest, post(`{`).Code)
	assert.Equal(t, http.StatusBadRequest, post(`{"email":"a@b.c","password":"short","displayName":"A"}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(`{"email":"nope","password":"long enough","displayName":"A"}`).Code)

	rec := post(`{"email":"a@b.c","password":"long enough","displayName":"A"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var res AuthResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.NotEmpty(t, res.Token)

	assert.Equal(t, http.StatusConflict, post(`{"email":"a@b.c","password":"long enough","displayName":"A"}`).Code)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req = req.WithContext(WithUserID(req.Context(), res.User.ID))
	me := httptest.NewRecorder()
	h.Me(me, req)
	assert.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), `"displayName":"A"`)
}
