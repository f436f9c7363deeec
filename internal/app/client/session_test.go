package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"ecomapa/internal/app/client/config"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	storage, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { storage.Close() })
	return storage
}

func newTestSession(t *testing.T, baseURL string) (*SessionClient, *TokenStore) {
	t.Helper()
	tokens := NewTokenStore(newTestStorage(t))
	cfg := &config.Config{Env: config.EnvLocal, APIURL: baseURL}
	return NewSessionClient(cfg, tokens, slog.Default()), tokens
}

func TestRequest_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	session, tokens := newTestSession(t, server.URL)
	require.NoError(t, tokens.Save(context.Background(), "access-1", "refresh-1"))

	resp, err := session.Request(context.Background(), http.MethodGet, "/eco-points/collection-point/", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Bearer access-1", gotAuth)
}

func TestRequest_PublicRouteSkipsToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	session, tokens := newTestSession(t, server.URL)
	require.NoError(t, tokens.Save(context.Background(), "access-1", "refresh-1"))

	_, err := session.Request(context.Background(), http.MethodPost, "/accounts/login/",
		map[string]string{"email": "a@b.c", "password": "pw"}, nil)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestRequest_RefreshOnceThenSurfaceFailure(t *testing.T) {
	// Two consecutive 401s must yield exactly one refresh call and exactly
	// one retried request, then the failure is surfaced. Never a loop.
	var protectedCalls, refreshCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/eco-points/collection-point/", func(w http.ResponseWriter, r *http.Request) {
		protectedCalls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/accounts/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		json.NewEncoder(w).Encode(map[string]string{"access": "access-2"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	session, tokens := newTestSession(t, server.URL)
	require.NoError(t, tokens.Save(context.Background(), "access-1", "refresh-1"))

	resp, err := session.Request(context.Background(), http.MethodGet, "/eco-points/collection-point/", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, int32(2), protectedCalls.Load())
	assert.Equal(t, int32(1), refreshCalls.Load())
}

func TestRequest_RefreshSucceedsAndRetries(t *testing.T) {
	var refreshCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/eco-points/collection-point/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/accounts/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "refresh-1", body["refresh"])
		json.NewEncoder(w).Encode(map[string]string{"access": "access-2"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	session, tokens := newTestSession(t, server.URL)
	ctx := context.Background()
	require.NoError(t, tokens.Save(ctx, "stale-access", "refresh-1"))

	resp, err := session.Request(ctx, http.MethodGet, "/eco-points/collection-point/", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(1), refreshCalls.Load())

	// New access token saved alongside the unchanged refresh token
	access, err := tokens.GetAccess(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-2", access)
	refresh, err := tokens.GetRefresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, "refresh-1", refresh)
}

func TestRequest_BlacklistedTokenTriggersRefresh(t *testing.T) {
	var refreshCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/eco-points/collection-point/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer access-2" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Token is blacklisted"})
	})
	mux.HandleFunc("/accounts/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		json.NewEncoder(w).Encode(map[string]string{"access": "access-2"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	session, tokens := newTestSession(t, server.URL)
	require.NoError(t, tokens.Save(context.Background(), "blacklisted", "refresh-1"))

	resp, err := session.Request(context.Background(), http.MethodGet, "/eco-points/collection-point/", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(1), refreshCalls.Load())
}

func TestRequest_RefreshFailureClearsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/eco-points/collection-point/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/accounts/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	session, tokens := newTestSession(t, server.URL)
	ctx := context.Background()
	require.NoError(t, tokens.Save(ctx, "access-1", "refresh-1"))

	expired := false
	session.OnSessionExpired(func() { expired = true })

	_, err := session.Request(ctx, http.MethodGet, "/eco-points/collection-point/", nil, nil)
	require.ErrorIs(t, err, ErrSessionExpired)
	assert.True(t, expired)

	access, err := tokens.GetAccess(ctx)
	require.NoError(t, err)
	assert.Empty(t, access)
	refresh, err := tokens.GetRefresh(ctx)
	require.NoError(t, err)
	assert.Empty(t, refresh)
}

func TestRequest_NoRefreshTokenExpiresSession(t *testing.T) {
	var refreshCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/eco-points/collection-point/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/accounts/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	session, tokens := newTestSession(t, server.URL)
	ctx := context.Background()
	// Access token present, refresh token missing
	require.NoError(t, tokens.storage.Set(ctx, keyAccessToken, "access-1"))

	_, err := session.Request(ctx, http.MethodGet, "/eco-points/collection-point/", nil, nil)
	require.ErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, int32(0), refreshCalls.Load())
}

func TestVerifyOrRefreshTokens_NoAccessToken(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	session, _ := newTestSession(t, server.URL)

	ok, err := session.VerifyOrRefreshTokens(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int32(0), calls.Load(), "no stored token must mean no network call")
}

func TestVerifyOrRefreshTokens_VerifySucceeds(t *testing.T) {
	var verifyCalls, refreshCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/accounts/token/verify/", func(w http.ResponseWriter, r *http.Request) {
		verifyCalls.Add(1)
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "access-1", body["token"])
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/accounts/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	session, tokens := newTestSession(t, server.URL)
	require.NoError(t, tokens.Save(context.Background(), "access-1", "refresh-1"))

	ok, err := session.VerifyOrRefreshTokens(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int32(1), verifyCalls.Load())
	assert.Equal(t, int32(0), refreshCalls.Load(), "a valid token must not trigger a refresh")
}

func TestVerifyOrRefreshTokens_RefreshAfter401(t *testing.T) {
	var verifyCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/accounts/token/verify/", func(w http.ResponseWriter, r *http.Request) {
		verifyCalls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/accounts/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access": "access-2"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	session, tokens := newTestSession(t, server.URL)
	ctx := context.Background()
	require.NoError(t, tokens.Save(ctx, "expired", "refresh-1"))

	ok, err := session.VerifyOrRefreshTokens(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	// The refreshed token is trusted without a second verify call
	assert.Equal(t, int32(1), verifyCalls.Load())

	access, err := tokens.GetAccess(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-2", access)
}

func TestVerifyOrRefreshTokens_RefreshFailureClearsTokens(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/accounts/token/verify/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/accounts/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	session, tokens := newTestSession(t, server.URL)
	ctx := context.Background()
	require.NoError(t, tokens.Save(ctx, "expired", "rejected"))

	ok, err := session.VerifyOrRefreshTokens(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	access, err := tokens.GetAccess(ctx)
	require.NoError(t, err)
	assert.Empty(t, access)
}

func TestVerifyOrRefreshTokens_ServerErrorKeepsTokens(t *testing.T) {
	// An unreachable or broken verify endpoint must not destroy a possibly
	// valid session.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	session, tokens := newTestSession(t, server.URL)
	ctx := context.Background()
	require.NoError(t, tokens.Save(ctx, "access-1", "refresh-1"))

	ok, err := session.VerifyOrRefreshTokens(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	access, err := tokens.GetAccess(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-1", access)
}

func TestIsPublicRoute(t *testing.T) {
	assert.True(t, isPublicRoute("/accounts/login/"))
	assert.True(t, isPublicRoute("/accounts/token/refresh/"))
	assert.False(t, isPublicRoute("/eco-points/collection-point/"))
	assert.False(t, isPublicRoute("/accounts/logout/"))
}
