package session_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpmoralesv/finanzas-cli/pkg/api"
	"github.com/jpmoralesv/finanzas-cli/pkg/session"
	"github.com/jpmoralesv/finanzas-cli/pkg/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSession(t *testing.T, handler http.Handler) (*session.Session, *storage.Memory) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := storage.NewMemory()
	client := api.New(server.URL, store, testLogger())
	return session.New(client, store, testLogger()), store
}

func authMux(t *testing.T) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds["password"] != "secreto" {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"detail":"Credenciales inválidas"}`)
			return
		}
		io.WriteString(w, `{"access":"acc-1","refresh":"ref-1"}`)
	})
	mux.HandleFunc("/auth/profile/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer acc-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		io.WriteString(w, `{"id":1,"email":"ana@example.com","first_name":"Ana"}`)
	})
	mux.HandleFunc("/auth/logout/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/auth/token/refresh/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	return mux
}

func TestSession_Login(t *testing.T) {
	s, store := newTestSession(t, authMux(t))
	ctx := context.Background()

	require.NoError(t, s.Login(ctx, "ana@example.com", "secreto"))

	assert.True(t, s.IsAuthenticated())
	user := s.User()
	require.NotNil(t, user)
	assert.Equal(t, "ana@example.com", user.Email)

	access, ok, _ := store.Get(ctx, storage.KeyAccessToken)
	assert.True(t, ok)
	assert.Equal(t, "acc-1", access)
	refresh, ok, _ := store.Get(ctx, storage.KeyRefreshToken)
	assert.True(t, ok)
	assert.Equal(t, "ref-1", refresh)

	email, name := s.Contact()
	assert.Equal(t, "ana@example.com", email)
	assert.Equal(t, "Ana", name)
}

func TestSession_Login_BadCredentials(t *testing.T) {
	s, _ := newTestSession(t, authMux(t))

	err := s.Login(context.Background(), "ana@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Credenciales inválidas", s.LastError())
	assert.False(t, s.IsAuthenticated())
}

func TestSession_Logout_ClearsState(t *testing.T) {
	s, store := newTestSession(t, authMux(t))
	ctx := context.Background()
	require.NoError(t, s.Login(ctx, "ana@example.com", "secreto"))

	s.Logout(ctx)

	assert.False(t, s.IsAuthenticated())
	_, ok, _ := store.Get(ctx, storage.KeyAccessToken)
	assert.False(t, ok)
	_, ok, _ = store.Get(ctx, storage.KeyRefreshToken)
	assert.False(t, ok)

	email, _ := s.Contact()
	assert.Empty(t, email)
}

func TestSession_CheckAuth_NoToken(t *testing.T) {
	s, _ := newTestSession(t, authMux(t))

	// No stored token means no session, not an error.
	require.NoError(t, s.CheckAuth(context.Background()))
	assert.False(t, s.IsAuthenticated())
}

func TestSession_CheckAuth_RestoresProfile(t *testing.T) {
	s, store := newTestSession(t, authMux(t))
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, storage.KeyAccessToken, "acc-1"))

	require.NoError(t, s.CheckAuth(ctx))
	assert.True(t, s.IsAuthenticated())
}

func TestSession_Register(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/register/", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "nuevo@example.com", payload["email"])
		io.WriteString(w, `{"user":{"id":2,"email":"nuevo@example.com"},"tokens":{"access":"acc-2","refresh":"ref-2"}}`)
	})

	s, store := newTestSession(t, mux)
	ctx := context.Background()

	require.NoError(t, s.Register(ctx, map[string]any{
		"email":    "nuevo@example.com",
		"password": "secreto",
	}))

	assert.True(t, s.IsAuthenticated())
	access, _, _ := store.Get(ctx, storage.KeyAccessToken)
	assert.Equal(t, "acc-2", access)
}

func TestSession_ChangePassword(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/change-password/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "old", payload["old_password"])
		assert.Equal(t, "new", payload["new_password"])
		w.WriteHeader(http.StatusOK)
	})

	s, _ := newTestSession(t, mux)
	require.NoError(t, s.ChangePassword(context.Background(), "old", "new"))
}
