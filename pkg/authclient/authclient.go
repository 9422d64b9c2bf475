// Copyright (c) 2026 Rackline. All rights reserved.

/*
Package authclient is the outbound request layer of the Rackline SDK.

Every call reads the bearer token from the [authstate.Store] at send time,
enforces a fixed body-size ceiling in both directions, and translates the
gateway's error envelope into typed errors. Response interceptors observe
every completed round trip; the session bootstrap in initializer.go uses
one to converge the store on any 401.

# Error Contract

  - Oversized bodies fail locally with [ErrRequestTooLarge] or
    [ErrResponseTooLarge] before or instead of a generic network error.
  - HTTP 413 surfaces as an [*APIError] carrying [MessageFileTooLarge].
  - Timeouts surface as [ErrConnectionTimeout].
  - Any other non-2xx surfaces as an [*APIError] with the envelope's
    message and the response status.
*/
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rackline/rackline/pkg/authstate"
)

// maxBodyBytes caps request and response bodies at 5 MB.
const maxBodyBytes = 5 << 20

// User-facing messages substituted for raw transport errors.
const (
	MessageFileTooLarge      = "The file is too large to upload"
	MessageConnectionTimeout = "The connection timed out, please try again"
)

// Sentinel errors raised by the request layer itself.
var (
	ErrRequestTooLarge   = errors.New("authclient: request body exceeds the 5 MB limit")
	ErrResponseTooLarge  = errors.New("authclient: response body exceeds the 5 MB limit")
	ErrConnectionTimeout = errors.New(MessageConnectionTimeout)
)

// APIError is a non-2xx response from the gateway or backend.
type APIError struct {
	Status  int
	Message string
}

func (err *APIError) Error() string {
	return err.Message
}

// errorEnvelope is the normalized failure shape the gateway emits.
type errorEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// # Client

// Response is a fully-read round trip result.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Interceptor observes every completed response before errors are raised
// to the caller. Interceptors perform side effects only; they cannot
// swallow the error the caller receives.
type Interceptor func(response *Response)

// Client issues authenticated requests against the gateway.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      *authstate.Store

	decorate func(*http.Request)

	mu           sync.Mutex
	interceptors map[int]Interceptor
	nextID       int
}

// Option customizes a [Client].
type Option func(*Client)

// WithTimeout overrides the default per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(client *Client) { client.httpClient.Timeout = timeout }
}

// WithHTTPClient swaps the underlying transport, mainly for tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(client *Client) { client.httpClient = httpClient }
}

// WithRequestDecorator runs a hook on every outgoing request after the
// bearer token is attached. Non-browser hosts use it to present the
// cached credential as session cookies.
func WithRequestDecorator(decorate func(*http.Request)) Option {
	return func(client *Client) { client.decorate = decorate }
}

// New constructs a [Client] for the given gateway base URL.
func New(baseURL string, store *authstate.Store, options ...Option) *Client {
	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		store:        store,
		interceptors: make(map[int]Interceptor),
	}

	for _, option := range options {
		option(client)
	}
	return client
}

// AddInterceptor registers a response interceptor and returns its removal
// function. Registration order is not significant.
func (client *Client) AddInterceptor(interceptor Interceptor) (remove func()) {
	client.mu.Lock()
	id := client.nextID
	client.nextID++
	client.interceptors[id] = interceptor
	client.mu.Unlock()

	return func() {
		client.mu.Lock()
		delete(client.interceptors, id)
		client.mu.Unlock()
	}
}

// # Requests

// Get issues a GET and decodes a JSON response into out when out is non-nil.
func (client *Client) Get(ctx context.Context, path string, out any) error {
	response, err := client.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return decode(response, out)
}

// Post issues a POST with a JSON body and decodes the JSON response.
func (client *Client) Post(ctx context.Context, path string, payload, out any) error {
	var body []byte
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("authclient: encode request: %w", err)
		}
		body = encoded
	}

	response, err := client.Do(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	return decode(response, out)
}

/*
Do performs a single round trip.

Description: The bearer token is read from the store when the request is
built, never earlier, so a logout that happened since the caller was
created is always respected. The fully-read response is handed to every
registered interceptor before any error is raised.

Returns:
  - *Response: always non-nil when err is nil; also non-nil alongside an
    [*APIError] so callers can inspect the raw failure body
  - error: [ErrRequestTooLarge], [ErrResponseTooLarge],
    [ErrConnectionTimeout], an [*APIError], or a wrapped transport error
*/
func (client *Client) Do(ctx context.Context, method, path string, body []byte) (*Response, error) {
	if len(body) > maxBodyBytes {
		return nil, ErrRequestTooLarge
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("authclient: build request: %w", err)
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	// Token is resolved at send time from the shared store.
	if token := client.store.Token(); token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	if client.decorate != nil {
		client.decorate(request)
	}

	httpResponse, err := client.httpClient.Do(request)
	if err != nil {
		return nil, client.transportError(err)
	}
	defer func() { _ = httpResponse.Body.Close() }()

	// Read one byte past the ceiling to distinguish "at limit" from "over".
	responseBody, err := io.ReadAll(io.LimitReader(httpResponse.Body, maxBodyBytes+1))
	if err != nil {
		return nil, client.transportError(err)
	}
	if len(responseBody) > maxBodyBytes {
		return nil, ErrResponseTooLarge
	}

	response := &Response{
		Status: httpResponse.StatusCode,
		Header: httpResponse.Header,
		Body:   responseBody,
	}

	client.runInterceptors(response)

	if response.Status >= 200 && response.Status <= 299 {
		return response, nil
	}
	return response, client.statusError(response)
}

// runInterceptors invokes every registered interceptor with the response.
func (client *Client) runInterceptors(response *Response) {
	client.mu.Lock()
	interceptors := make([]Interceptor, 0, len(client.interceptors))
	for _, interceptor := range client.interceptors {
		interceptors = append(interceptors, interceptor)
	}
	client.mu.Unlock()

	for _, interceptor := range interceptors {
		interceptor(response)
	}
}

// statusError converts a non-2xx response into an [*APIError].
func (client *Client) statusError(response *Response) error {
	if response.Status == http.StatusRequestEntityTooLarge {
		return &APIError{Status: response.Status, Message: MessageFileTooLarge}
	}

	message := "Request failed"
	var envelope errorEnvelope
	if err := json.Unmarshal(response.Body, &envelope); err == nil && envelope.Message != "" {
		message = envelope.Message
	}
	return &APIError{Status: response.Status, Message: message}
}

// transportError classifies network failures, substituting the timeout
// message where applicable.
func (client *Client) transportError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrConnectionTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrConnectionTimeout
	}
	return fmt.Errorf("authclient: request failed: %w", err)
}

// decode unmarshals a response body into out, tolerating a nil target.
func decode(response *Response, out any) error {
	if out == nil || len(response.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(response.Body, out); err != nil {
		return fmt.Errorf("authclient: decode response: %w", err)
	}
	return nil
}
