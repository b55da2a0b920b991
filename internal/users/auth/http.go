// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/taibuivan/pinpoint/internal/platform/apperr"
	"github.com/taibuivan/pinpoint/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/pinpoint/internal/platform/request"
	"github.com/taibuivan/pinpoint/internal/platform/respond"
	"github.com/taibuivan/pinpoint/internal/platform/sec"
)

// # Definitions & Constructors

// Handler implements the /auth endpoints and owns the session cookie transport.
type Handler struct {
	service    *Service
	cookie     sec.SessionCookie
	loginLimit int
}

// NewHandler constructs a new [Handler]. loginLimit is attempts per minute per
// client IP on POST /login.
func NewHandler(service *Service, cookie sec.SessionCookie, loginLimit int) *Handler {
	return &Handler{service: service, cookie: cookie, loginLimit: loginLimit}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /login  : Opens a session (exempt from identity, rate limited).
//   - POST /logout : Revokes the session (exempt, always 204).
//   - GET  /users  : Login picker (exempt).
//   - GET  /me     : Current identity and permissions.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(httprate.Limit(handler.loginLimit, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(writer http.ResponseWriter, request *http.Request) {
			respond.Error(writer, request, apperr.RateLimited(60))
		}),
	)).Post("/login", handler.login)

	router.Post("/logout", handler.logout)
	router.Get("/users", handler.users)
	router.Get("/me", handler.me)

	return router
}

// # Request Payloads

type loginRequest struct {
	UserID json.RawMessage `json:"user_id"`
}

// parseUserID accepts a JSON integer only; strings, fractions and null fail.
func parseUserID(raw json.RawMessage) (int64, bool) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return 0, false
	}
	number, ok := value.(json.Number)
	if !ok {
		return 0, false
	}
	id, err := number.Int64()
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

/*
Login opens a session for a user.

POST /auth/login

Request:
  - Body: {"user_id": <positive integer>}

Response:
  - 200: Identity: User fields plus permissions[]; session cookie set
  - 400: user_id missing or not a positive integer
  - 403: Account inactive or not eligible
  - 404: User not found
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, apperr.ValidationError(msgUserIDRequired))
		return
	}

	userID, ok := parseUserID(input.UserID)
	if !ok {
		respond.Error(writer, request, apperr.ValidationError(msgUserIDRequired))
		return
	}

	result, err := handler.service.Login(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.cookie.Write(writer, result.Token)
	respond.OK(writer, result.Identity)
}

/*
Logout revokes the caller's session.

POST /auth/logout

Response:
  - 204: Always, with the cookie cleared
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Logout(request.Context(), handler.cookie.Read(request)); err != nil {
		// Logout never fails toward the client; the session expires on its own.
		ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "logout_revoke_failed",
			slog.String("error", err.Error()),
		)
	}

	handler.cookie.Clear(writer)
	respond.NoContent(writer)
}

/*
Me returns the current identity.

GET /auth/me

Response:
  - 200: Identity
  - 401: No session
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		handler.cookie.Clear(writer)
		respond.Error(writer, request, err)
		return
	}

	identity, err := handler.service.Me(request.Context(), principal)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, identity)
}

// users serves GET /auth/users.
func (handler *Handler) users(writer http.ResponseWriter, request *http.Request) {
	users, err := handler.service.UsersForLogin(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, users)
}
