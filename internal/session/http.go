// Copyright (c) 2026 Rackline. All rights reserved.

package session

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rackline/rackline/internal/platform/apperr"
	"github.com/rackline/rackline/internal/platform/ctxutil"
	requestutil "github.com/rackline/rackline/internal/platform/request"
	"github.com/rackline/rackline/internal/platform/respond"
	"github.com/rackline/rackline/internal/platform/validate"
	"github.com/rackline/rackline/pkg/identity"
)

// # Definitions & Constructors

// Handler implements the session-related HTTP endpoints.
//
// # Scope
//
// This handler owns every endpoint that can create, inspect, or destroy
// the session cookie pair. The response shapes here are a wire contract
// with the web client; do not restructure them.
type Handler struct {
	service *Service
	backend *BackendClient
	cookies *CookieCodec
}

// NewHandler constructs a new [Handler] with its dependencies.
func NewHandler(service *Service, backend *BackendClient, cookies *CookieCodec) *Handler {
	return &Handler{service: service, backend: backend, cookies: cookies}
}

// Routes returns a [chi.Router] configured with the session endpoints.
//
// # Endpoints
//   - GET  /check  : Verifies the cookie pair, clearing it on failure.
//   - GET  /status : Soft presence check, never destructive.
//   - POST /login  : Credential exchange with the backend, sets cookies.
//   - POST /logout : Clears cookies (GET allowed for plain links).
//   - POST /oauth  : OAuth code exchange, sets the same cookies.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/check", handler.check)
	router.Get("/status", handler.status)
	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)
	router.Get("/logout", handler.logout)
	router.Post("/oauth", handler.oauth)

	return router
}

// # Wire Shapes

type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
	Remember        bool   `json:"remember"`
}

type oauthRequest struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

// checkResponse always carries explicit nulls for token/user so clients can
// assign the fields without presence checks.
type checkResponse struct {
	Authenticated bool           `json:"authenticated"`
	Token         *string        `json:"token"`
	User          *identity.User `json:"user"`
	Error         string         `json:"error,omitempty"`
}

type statusResponse struct {
	Authenticated bool           `json:"authenticated"`
	Token         string         `json:"token,omitempty"`
	User          *identity.User `json:"user,omitempty"`
}

type credentialEnvelope struct {
	Success bool           `json:"success"`
	Token   string         `json:"token,omitempty"`
	User    *identity.User `json:"user,omitempty"`
	Message string         `json:"message,omitempty"`
}

/*
Check verifies the current session from its cookies.

GET /api/auth/check

Description: Decodes the token cookie's payload (no signature check) and
compares its expiry claim against the server clock. Any failure clears both
cookies in the response and returns 401; a live session returns the
credential with cookies intact.

Response:
  - 200: {authenticated:true, token, user}
  - 401: {authenticated:false, token:null, user:null, error} with one of
    "Token Not Found" | "Invalid Token Format" | "Token Expired" |
    "Authentication Error"; cookies cleared (idempotent)
*/
func (handler *Handler) check(writer http.ResponseWriter, request *http.Request) {
	tokenRaw, userRaw := handler.cookies.Read(request)
	result := handler.service.Verify(tokenRaw, userRaw)

	if !result.Authenticated {
		handler.cookies.Clear(writer)
		respond.JSON(writer, http.StatusUnauthorized, checkResponse{
			Authenticated: false,
			Error:         result.Error,
		})
		return
	}

	respond.JSON(writer, http.StatusOK, checkResponse{
		Authenticated: true,
		Token:         &result.Token,
		User:          result.User,
	})
}

/*
Status reports session presence without validating expiry.

GET /api/auth/status

Description: Best-effort read of the cookie pair. Never clears cookies and
never returns a non-200 status, so callers can poll it without triggering
logout side effects.

Response:
  - 200: {authenticated, token?, user?}
*/
func (handler *Handler) status(writer http.ResponseWriter, request *http.Request) {
	tokenRaw, userRaw := handler.cookies.Read(request)
	result := handler.service.Status(tokenRaw, userRaw)

	if !result.Authenticated {
		respond.JSON(writer, http.StatusOK, statusResponse{Authenticated: false})
		return
	}

	respond.JSON(writer, http.StatusOK, statusResponse{
		Authenticated: true,
		Token:         result.Token,
		User:          result.User,
	})
}

/*
Login authenticates against the backend and establishes the cookie session.

POST /api/auth/login

Description: Relays credentials to the backend. On success both session
cookies are written together — with a 30-day expiry when remember is set,
as session cookies otherwise.

Request:
  - Body: loginRequest (UsernameOrEmail, Password, Remember)

Response:
  - 200: {success:true, token, user}
  - 400/401/403/500: {success:false, message} with the backend's status
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		handler.failure(writer, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsernameOrEmail, input.UsernameOrEmail).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		handler.failure(writer, err)
		return
	}

	credential, err := handler.backend.Login(request.Context(), LoginInput{
		UsernameOrEmail: input.UsernameOrEmail,
		Password:        input.Password,
		Remember:        input.Remember,
	})
	if err != nil {
		handler.failure(writer, err)
		return
	}

	if err := handler.cookies.Write(writer, credential, input.Remember); err != nil {
		handler.failure(writer, apperr.Internal(err))
		return
	}

	respond.JSON(writer, http.StatusOK, credentialEnvelope{
		Success: true,
		Token:   credential.Token,
		User:    credential.User,
	})
}

/*
Logout destroys the cookie session.

POST|GET /api/auth/logout

Description: Notifies the backend on a best-effort basis, then always clears
token, user, and the legacy refreshToken cookies. Cannot fail from the
client's perspective.

Response:
  - 200: {success:true}
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	if token := requestutil.TokenCookie(request); token != "" {
		if err := handler.backend.NotifyLogout(request.Context(), token); err != nil {
			ctxutil.GetLogger(request.Context()).Warn("logout_backend_notify_failed", slog.Any("error", err))
		}
	}

	handler.cookies.Clear(writer)
	respond.JSON(writer, http.StatusOK, credentialEnvelope{Success: true})
}

/*
OAuth completes an external identity provider callback.

POST /api/auth/oauth

Description: Relays the authorization code and state to the backend, which
performs the real exchange, and persists the returned credential into the
same cookie pair as password login. OAuth sessions are session cookies —
there is no remember option on the callback.

Request:
  - Body: oauthRequest (Code, State)

Response:
  - 200: {success:true, token, user}
  - 400/401/500: {success:false, message}
*/
func (handler *Handler) oauth(writer http.ResponseWriter, request *http.Request) {
	var input oauthRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		handler.failure(writer, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldCode, input.Code).
		Required(FieldState, input.State)

	if err := validator.Err(); err != nil {
		handler.failure(writer, err)
		return
	}

	credential, err := handler.backend.ExchangeOAuthCode(request.Context(), input.Code, input.State)
	if err != nil {
		handler.failure(writer, err)
		return
	}

	if err := handler.cookies.Write(writer, credential, false); err != nil {
		handler.failure(writer, apperr.Internal(err))
		return
	}

	respond.JSON(writer, http.StatusOK, credentialEnvelope{
		Success: true,
		Token:   credential.Token,
		User:    credential.User,
	})
}

// failure writes the {success:false, message} envelope, forwarding the
// status carried by the error (500 for anything unclassified).
func (handler *Handler) failure(writer http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "An unexpected error occurred"

	if appError := apperr.As(err); appError != nil {
		status = appError.HTTPStatus
		message = appError.Message
	}

	respond.JSON(writer, status, credentialEnvelope{
		Success: false,
		Message: message,
	})
}
