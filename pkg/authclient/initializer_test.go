// Copyright (c) 2026 Rackline. All rights reserved.

package authclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rackline/rackline/pkg/authclient"
	"github.com/rackline/rackline/pkg/authstate"
)

/*
TestInitializer_Run_Authenticated settles the store with the verified
credential.
*/
func TestInitializer_Run_Authenticated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		require.Equal(t, "/api/auth/check", request.URL.Path)
		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{
			"authenticated": true,
			"token": "verified-token",
			"user": {"id":"user-1","username":"dana","email":"dana@example.com","roleType":"user"}
		}`))
	}))
	defer server.Close()

	store := authstate.NewStore(nil)
	client := authclient.New(server.URL, store)

	initializer := authclient.NewInitializer(client, store, nil, nil)
	defer initializer.Close()

	require.NoError(t, initializer.Run(context.Background()))

	snapshot := store.Snapshot()
	assert.True(t, snapshot.Authenticated())
	assert.Equal(t, "verified-token", snapshot.Token)
	assert.False(t, snapshot.Loading)
}

/*
TestInitializer_Run_Rejected converges the store to signed-out and
redirects only when the current path is gated.
*/
func TestInitializer_Run_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusUnauthorized)
		_, _ = writer.Write([]byte(`{"authenticated":false,"token":null,"user":null,"error":"Token Expired"}`))
	}))
	defer server.Close()

	tests := []struct {
		name         string
		currentPath  string
		wantRedirect string
	}{
		{"gated_path_redirects", "/admin/dashboard", "/login?from=%2Fadmin%2Fdashboard"},
		{"public_path_stays", "/spaces", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := authstate.NewStore(nil)
			require.NoError(t, store.SetCredentials("stale-token", testUser()))

			client := authclient.New(server.URL, store)

			var navigatedTo string
			initializer := authclient.NewInitializer(client, store,
				func(target string) { navigatedTo = target },
				func() string { return tt.currentPath },
			)
			defer initializer.Close()

			err := initializer.Run(context.Background())
			require.Error(t, err, "the verification failure still propagates")

			assert.False(t, store.Snapshot().Authenticated())
			assert.Equal(t, tt.wantRedirect, navigatedTo)
		})
	}
}

/*
TestInitializer_InterceptorConvergesOn401 checks any call through the
client, not just the verification call, converges the store.
*/
func TestInitializer_InterceptorConvergesOn401(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusUnauthorized)
		_, _ = writer.Write([]byte(`{"status":"error","message":"Token Expired"}`))
	}))
	defer server.Close()

	store := authstate.NewStore(nil)
	require.NoError(t, store.SetCredentials("stale-token", testUser()))

	client := authclient.New(server.URL, store)

	var navigatedTo string
	initializer := authclient.NewInitializer(client, store,
		func(target string) { navigatedTo = target },
		func() string { return "/customer/orders" },
	)
	defer initializer.Close()

	// The interceptor is live from construction; no Run needed.
	_, err := client.Do(context.Background(), http.MethodGet, "/api/orders", nil)

	var apiErr *authclient.APIError
	require.ErrorAs(t, err, &apiErr, "the 401 still reaches the caller")
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	assert.False(t, store.Snapshot().Authenticated())
	assert.Equal(t, "/login?from=%2Fcustomer%2Forders", navigatedTo)
}

/*
TestInitializer_CloseRemovesInterceptor keeps 401 side effects from firing
after shutdown.
*/
func TestInitializer_CloseRemovesInterceptor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	store := authstate.NewStore(nil)
	require.NoError(t, store.SetCredentials("live-token", testUser()))

	client := authclient.New(server.URL, store)
	initializer := authclient.NewInitializer(client, store, nil, nil)

	initializer.Close()
	initializer.Close() // safe to repeat

	_, err := client.Do(context.Background(), http.MethodGet, "/api/orders", nil)
	require.Error(t, err)

	assert.True(t, store.Snapshot().Authenticated(),
		"without the interceptor a 401 no longer logs out")
}
