// Copyright (c) 2026 Rackline. All rights reserved.

package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/rackline/rackline/internal/platform/apperr"
	"github.com/rackline/rackline/internal/platform/constants"
	"github.com/rackline/rackline/pkg/identity"
)

// maxBackendResponseBytes caps credential responses read from the backend.
const maxBackendResponseBytes = 1 << 20

// BackendClient exchanges credentials with the marketplace backend.
//
// # Scope
//
// Only the session domain talks to the backend through this client; every
// other backend call goes through the reverse proxy untouched.
type BackendClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewBackendClient constructs a client for the configured backend base URL.
func NewBackendClient(baseURL string, logger *slog.Logger) *BackendClient {
	return &BackendClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: constants.BackendCallTimeout,
		},
		logger: logger,
	}
}

// # Wire Shapes

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
	Remember        bool   `json:"remember"`
}

// credentialResponse is the backend's success shape for login and oauth.
type credentialResponse struct {
	Token string         `json:"token"`
	User  *identity.User `json:"user"`
}

// backendError is the backend's failure shape.
type backendError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

/*
Login exchanges user credentials for a backend-issued token.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *Credential: Token and user record on success
  - error: [apperr.AppError] carrying the backend's status (400/401/403/...)
    or a 502/504 for transport failures
*/
func (client *BackendClient) Login(context context.Context, input LoginInput) (*Credential, error) {
	return client.exchange(context, "/auth/login", input)
}

/*
ExchangeOAuthCode trades an OAuth authorization code for a session credential.

Description: The backend performs the actual code exchange with the external
identity provider; the gateway only relays code and state.

Parameters:
  - context: context.Context
  - code: authorization code from the provider callback
  - state: opaque state echoed by the provider

Returns:
  - *Credential: Token and user record on success
  - error: [apperr.AppError] with the backend's status or transport failures
*/
func (client *BackendClient) ExchangeOAuthCode(context context.Context, code, state string) (*Credential, error) {
	return client.exchange(context, "/auth/oauth", map[string]string{
		"code":  code,
		"state": state,
	})
}

/*
NotifyLogout tells the backend a token has been surrendered.

Description: Best-effort only. The cookies are cleared regardless of the
outcome, so callers may ignore the returned error after logging it.
*/
func (client *BackendClient) NotifyLogout(context context.Context, token string) error {
	request, err := http.NewRequestWithContext(context, http.MethodPost, client.baseURL+"/auth/logout", nil)
	if err != nil {
		return fmt.Errorf("session_backend_logout_request_failed: %w", err)
	}
	request.Header.Set(constants.HeaderAuthorization, "Bearer "+token)

	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("session_backend_logout_call_failed: %w", err)
	}
	defer func() { _ = response.Body.Close() }()

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(response.Body, maxBackendResponseBytes))
	return nil
}

// Ping dials the backend's health endpoint. Used by the readiness probe.
func (client *BackendClient) Ping(ctx context.Context) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, client.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("session_backend_ping_request_failed: %w", err)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("session_backend_ping_failed: %w", err)
	}
	defer func() { _ = response.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(response.Body, maxBackendResponseBytes))

	if response.StatusCode >= 500 {
		return fmt.Errorf("session_backend_unhealthy: status %d", response.StatusCode)
	}
	return nil
}

// exchange POSTs a JSON payload to the backend and decodes a credential.
func (client *BackendClient) exchange(ctx context.Context, path string, payload any) (*Credential, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("session_backend_marshal_failed: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, client.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("session_backend_request_failed: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, client.transportError(err)
	}
	defer func() { _ = response.Body.Close() }()

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, maxBackendResponseBytes))
	if err != nil {
		return nil, apperr.BadGateway("Backend response could not be read", err)
	}

	// Non-2xx: surface the backend's own message under its own status.
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, apperr.FromStatus(response.StatusCode, client.failureMessage(responseBody))
	}

	var credential credentialResponse
	if err := json.Unmarshal(responseBody, &credential); err != nil {
		return nil, apperr.BadGateway("Backend returned an unreadable credential", err)
	}

	if credential.Token == "" || credential.User == nil {
		return nil, apperr.BadGateway("Backend returned an incomplete credential", nil)
	}

	return &Credential{Token: credential.Token, User: credential.User}, nil
}

// transportError classifies network failures into timeout vs unreachable.
func (client *BackendClient) transportError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperr.GatewayTimeout("Backend authentication timed out", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.GatewayTimeout("Backend authentication timed out", err)
	}
	return apperr.BadGateway("Backend is unreachable", err)
}

// failureMessage extracts a human-readable message from a backend error body.
func (client *BackendClient) failureMessage(body []byte) string {
	var parsed backendError
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Error != "" {
			return parsed.Error
		}
	}
	return "Authentication failed"
}
