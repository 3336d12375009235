package api_test

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
	"github.com/jpmoralesv/finanzas-cli/pkg/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.Handler) (*api.Client, *storage.Memory) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := storage.NewMemory()
	return api.New(server.URL, store, testLogger()), store
}

func TestClient_Get_SendsAuthHeaders(t *testing.T) {
	var gotAuth, gotRequestID string
	client, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"ok":true}`)
	}))
	require.NoError(t, store.Set(context.Background(), storage.KeyAccessToken, "tok-123"))

	var out map[string]bool
	require.NoError(t, client.Get(context.Background(), "/ping/", nil, &out))

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.NotEmpty(t, gotRequestID)
	assert.True(t, out["ok"])
}

func TestClient_RefreshRetry(t *testing.T) {
	var calls []string
	client, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.Path)
		switch r.URL.Path {
		case "/auth/token/refresh/":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "refresh-1", body["refresh"])
			io.WriteString(w, `{"access":"fresh-access"}`)
		case "/accounts/":
			if r.Header.Get("Authorization") == "Bearer fresh-access" {
				io.WriteString(w, `[]`)
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, storage.KeyAccessToken, "stale"))
	require.NoError(t, store.Set(ctx, storage.KeyRefreshToken, "refresh-1"))

	var out []any
	require.NoError(t, client.Get(ctx, "/accounts/", nil, &out))

	// Original request, one refresh, one retry. Never more.
	assert.Equal(t, []string{"/accounts/", "/auth/token/refresh/", "/accounts/"}, calls)

	token, ok, err := store.Get(ctx, storage.KeyAccessToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "fresh-access", token)
}

func TestClient_RefreshFailure_ClearsTokens(t *testing.T) {
	client, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, storage.KeyAccessToken, "stale"))
	require.NoError(t, store.Set(ctx, storage.KeyRefreshToken, "stale-refresh"))

	err := client.Get(ctx, "/accounts/", nil, nil)
	assert.ErrorIs(t, err, api.ErrSessionExpired)

	_, ok, _ := store.Get(ctx, storage.KeyAccessToken)
	assert.False(t, ok)
	_, ok, _ = store.Get(ctx, storage.KeyRefreshToken)
	assert.False(t, ok)
}

func TestClient_NoRefreshToken(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	err := client.Get(context.Background(), "/accounts/", nil, nil)
	assert.ErrorIs(t, err, api.ErrSessionExpired)
}

func TestClient_Login401_SkipsRefresh(t *testing.T) {
	var calls []string
	client, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.Path)
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"detail":"Credenciales inválidas"}`)
	}))
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, storage.KeyRefreshToken, "ref-1"))

	err := client.Post(ctx, "/auth/login/", map[string]string{"email": "a", "password": "b"}, nil)
	require.Error(t, err)

	// Bad credentials surface as-is, with no refresh attempt.
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Credenciales inválidas", apiErr.Detail)
	assert.Equal(t, []string{"/auth/login/"}, calls)
}

func TestClient_ErrorDetail(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"detail":"Saldo insuficiente"}`)
	}))

	err := client.Post(context.Background(), "/transactions/", map[string]int{"account": 1}, nil)
	require.Error(t, err)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Saldo insuficiente", apiErr.Detail)

	assert.Equal(t, "Saldo insuficiente", api.Message(err, "fallback"))
	assert.Equal(t, "fallback", api.Message(context.Canceled, "fallback"))
}

func TestClient_Delete_NoContent(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, client.Delete(context.Background(), "/accounts/7/"))
}
