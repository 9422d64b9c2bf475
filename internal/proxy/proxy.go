// Copyright (c) 2026 Rackline. All rights reserved.

/*
Package proxy forwards API traffic to the marketplace backend.

Every edge route that is not owned by the session domain lands here. The
proxy attaches the bearer token from the session cookie, strips the cookie
header so browser cookies never reach the backend, and normalizes backend
failures into the {status:"error", message} envelope the web client parses.

# Architecture

Built on [net/http/httputil.ReverseProxy]. The Rewrite hook handles path and
header translation; ModifyResponse rewrites non-2xx bodies; ErrorHandler
converts transport failures into the same envelope so callers see exactly
one error shape regardless of where the failure happened.
*/
package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rackline/rackline/internal/platform/constants"
	requestutil "github.com/rackline/rackline/internal/platform/request"
	"github.com/rackline/rackline/internal/platform/respond"
)

// maxErrorBodyBytes caps how much of a failed backend response is read
// while extracting its message.
const maxErrorBodyBytes = 64 << 10

// edgePrefix is stripped from incoming paths before forwarding: the edge
// exposes /api/providers while the backend serves /providers.
const edgePrefix = "/api"

// Proxy is the reverse proxy to the marketplace backend.
type Proxy struct {
	target  *url.URL
	reverse *httputil.ReverseProxy
	logger  *slog.Logger
}

// New constructs a [Proxy] for the given backend base URL.
func New(backendBaseURL string, logger *slog.Logger) (*Proxy, error) {
	target, err := url.Parse(backendBaseURL)
	if err != nil {
		return nil, fmt.Errorf("proxy: invalid backend URL: %w", err)
	}

	proxy := &Proxy{target: target, logger: logger}

	proxy.reverse = &httputil.ReverseProxy{
		Rewrite:        proxy.rewrite,
		ModifyResponse: proxy.normalizeFailure,
		ErrorHandler:   proxy.transportFailure,
	}

	logger.Info("backend proxy registered", slog.String("target", backendBaseURL))

	return proxy, nil
}

// Handler returns the mountable [http.Handler].
func (proxy *Proxy) Handler() http.Handler {
	return proxy.reverse
}

// WithTimeout wraps a handler with a per-request upstream deadline.
//
// Route groups get different budgets: browse traffic uses the default,
// payment and upload routes the slow budget. When the deadline fires
// mid-proxy the transport failure handler produces the timeout envelope.
func WithTimeout(timeout time.Duration, next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, cancel := context.WithTimeout(request.Context(), timeout)
		defer cancel()
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// rewrite points the outbound request at the backend, translates the path,
// and swaps cookie auth for header auth.
func (proxy *Proxy) rewrite(proxied *httputil.ProxyRequest) {
	proxied.SetURL(proxy.target)
	proxied.SetXForwarded()

	// /api/providers/42 → /providers/42
	trimmed := strings.TrimPrefix(proxied.In.URL.Path, edgePrefix)
	if trimmed == "" {
		trimmed = "/"
	}
	proxied.Out.URL.Path = singleJoin(proxy.target.Path, trimmed)

	// The backend authenticates by bearer token only. Never forward raw
	// browser cookies upstream.
	proxied.Out.Header.Del("Cookie")
	if token := requestutil.TokenCookie(proxied.In); token != "" {
		proxied.Out.Header.Set(constants.HeaderAuthorization, "Bearer "+token)
	}
}

// normalizeFailure rewrites non-2xx backend responses into the normalized
// envelope while preserving the backend's status code.
func (proxy *Proxy) normalizeFailure(response *http.Response) error {
	if response.StatusCode >= 200 && response.StatusCode <= 299 {
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(response.Body, maxErrorBodyBytes))
	_ = response.Body.Close()
	if err != nil {
		body = nil
	}

	envelope, err := json.Marshal(respond.UpstreamErrorEnvelope{
		Status:  "error",
		Message: extractMessage(body, response.StatusCode),
	})
	if err != nil {
		return err
	}

	response.Body = io.NopCloser(bytes.NewReader(envelope))
	response.ContentLength = int64(len(envelope))
	response.Header.Set("Content-Type", "application/json; charset=utf-8")
	response.Header.Set("Content-Length", strconv.Itoa(len(envelope)))
	response.Header.Del("Transfer-Encoding")

	return nil
}

// transportFailure handles errors where no backend response exists at all.
func (proxy *Proxy) transportFailure(writer http.ResponseWriter, request *http.Request, err error) {
	proxy.logger.Error("proxy_transport_failure",
		slog.String("method", request.Method),
		slog.String("path", request.URL.Path),
		slog.Any("error", err),
	)

	if errors.Is(err, context.DeadlineExceeded) {
		respond.UpstreamError(writer, http.StatusGatewayTimeout, "The backend took too long to respond")
		return
	}

	respond.UpstreamError(writer, http.StatusInternalServerError, "Backend service is unavailable")
}

// NewPageProxy returns a pass-through proxy for the web renderer that
// serves page HTML. No path translation and no error normalization happen
// here — pages are not part of the API error contract — but transport
// failures still produce a JSON envelope rather than a blank screen.
func NewPageProxy(rendererURL string, logger *slog.Logger) (http.Handler, error) {
	target, err := url.Parse(rendererURL)
	if err != nil {
		return nil, fmt.Errorf("proxy: invalid renderer URL: %w", err)
	}

	reverse := &httputil.ReverseProxy{
		Rewrite: func(proxied *httputil.ProxyRequest) {
			proxied.SetURL(target)
			proxied.SetXForwarded()
		},
		ErrorHandler: func(writer http.ResponseWriter, request *http.Request, err error) {
			logger.Error("page_proxy_failure",
				slog.String("path", request.URL.Path),
				slog.Any("error", err),
			)
			respond.UpstreamError(writer, http.StatusInternalServerError, "The site is temporarily unavailable")
		},
	}

	logger.Info("page renderer proxy registered", slog.String("target", rendererURL))

	return reverse, nil
}

// extractMessage pulls a human-readable message out of a backend error body,
// falling back to a generic text per status class.
func extractMessage(body []byte, status int) string {
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Error != "" {
			return parsed.Error
		}
	}

	if status >= 500 {
		return "The backend reported an internal error"
	}
	return http.StatusText(status)
}

// singleJoin joins two path segments with exactly one slash.
func singleJoin(left, right string) string {
	switch {
	case strings.HasSuffix(left, "/") && strings.HasPrefix(right, "/"):
		return left + right[1:]
	case !strings.HasSuffix(left, "/") && !strings.HasPrefix(right, "/"):
		return left + "/" + right
	}
	return left + right
}
