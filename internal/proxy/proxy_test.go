// Copyright (c) 2026 Rackline. All rights reserved.

package proxy_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rackline/rackline/internal/proxy"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newProxy builds a proxy pointed at the given backend.
func newProxy(t *testing.T, backendURL string) http.Handler {
	t.Helper()
	built, err := proxy.New(backendURL, testLogger())
	require.NoError(t, err)
	return built.Handler()
}

/*
TestProxy_RewritesRequest checks path translation, cookie stripping, and
the cookie-to-bearer swap.
*/
func TestProxy_RewritesRequest(t *testing.T) {
	var got struct {
		path          string
		query         string
		authorization string
		cookie        string
	}
	backend := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		got.path = request.URL.Path
		got.query = request.URL.RawQuery
		got.authorization = request.Header.Get("Authorization")
		got.cookie = request.Header.Get("Cookie")
		_, _ = writer.Write([]byte(`{"providers":[]}`))
	}))
	defer backend.Close()

	handler := newProxy(t, backend.URL)

	request := httptest.NewRequest(http.MethodGet, "/api/providers/42?region=north", nil)
	request.AddCookie(&http.Cookie{Name: "token", Value: "cookie-token"})
	request.AddCookie(&http.Cookie{Name: "user", Value: "whatever"})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "/providers/42", got.path)
	assert.Equal(t, "region=north", got.query)
	assert.Equal(t, "Bearer cookie-token", got.authorization)
	assert.Empty(t, got.cookie, "browser cookies must never reach the backend")
}

/*
TestProxy_AnonymousHasNoBearer forwards requests without a token cookie
without inventing an Authorization header.
*/
func TestProxy_AnonymousHasNoBearer(t *testing.T) {
	var authorization string
	backend := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		authorization = request.Header.Get("Authorization")
	}))
	defer backend.Close()

	handler := newProxy(t, backend.URL)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/spaces", nil))

	assert.Empty(t, authorization)
}

/*
TestProxy_NormalizesBackendErrors rewrites every non-2xx body into the
{status:"error", message} envelope while keeping the backend's status.
*/
func TestProxy_NormalizesBackendErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{"message_key", http.StatusNotFound, `{"message":"Space not found"}`, "Space not found"},
		{"error_key", http.StatusConflict, `{"error":"Duplicate booking"}`, "Duplicate booking"},
		{"html_body", http.StatusBadRequest, `<html>Bad Request</html>`, "Bad Request"},
		{"server_error", http.StatusInternalServerError, ``, "The backend reported an internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				writer.WriteHeader(tt.status)
				_, _ = writer.Write([]byte(tt.body))
			}))
			defer backend.Close()

			handler := newProxy(t, backend.URL)
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/spaces", nil))

			require.Equal(t, tt.status, recorder.Code)
			assert.Equal(t, "application/json; charset=utf-8", recorder.Header().Get("Content-Type"))

			var envelope struct {
				Status  string `json:"status"`
				Message string `json:"message"`
			}
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
			assert.Equal(t, "error", envelope.Status)
			assert.Equal(t, tt.wantMessage, envelope.Message)
		})
	}
}

/*
TestProxy_SuccessPassesThrough leaves 2xx responses untouched.
*/
func TestProxy_SuccessPassesThrough(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(http.StatusCreated)
		_, _ = writer.Write([]byte(`{"id":"booking-7"}`))
	}))
	defer backend.Close()

	handler := newProxy(t, backend.URL)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/bookings", nil))

	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.JSONEq(t, `{"id":"booking-7"}`, recorder.Body.String())
}

/*
TestProxy_TransportFailures produces the envelope with 500 for unreachable
backends and 504 when the route deadline fires.
*/
func TestProxy_TransportFailures(t *testing.T) {
	t.Run("unreachable_backend", func(t *testing.T) {
		handler := newProxy(t, "http://127.0.0.1:1")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/spaces", nil))

		require.Equal(t, http.StatusInternalServerError, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"status":"error"`)
	})

	t.Run("deadline_exceeded", func(t *testing.T) {
		backend := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			time.Sleep(300 * time.Millisecond)
		}))
		defer backend.Close()

		handler := proxy.WithTimeout(30*time.Millisecond, newProxy(t, backend.URL))
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/payments", nil))

		require.Equal(t, http.StatusGatewayTimeout, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"status":"error"`)
	})
}
