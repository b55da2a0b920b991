// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/pinpoint/internal/platform/request"
	"github.com/taibuivan/pinpoint/internal/platform/respond"
	"github.com/taibuivan/pinpoint/pkg/pagination"
	"github.com/taibuivan/pinpoint/pkg/query"
)

// # Handler Implementation

// Handler implements the /users administration endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs an account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the /users router. Every route runs behind gate.
func (handler *Handler) Routes(gate func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()
	router.Use(gate)

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Route("/{userID}", func(account chi.Router) {
		account.Get("/", handler.get)
		account.Patch("/", handler.update)
		account.Delete("/sessions", handler.revokeSessions)
	})

	return router
}

/*
GET /users.

Request:
  - status: string (comma separated: pending,active,inactive)
  - page, limit: int

Response:
  - 200: []Account; totals in X-Total-Count and X-Total-Pages
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)
	filter := Filter{Statuses: query.StringSlice(request.URL.Query().Get("status"))}

	accounts, total, err := handler.service.List(request.Context(), filter, page.Limit, page.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page.WriteHeaders(writer, total)
	respond.OK(writer, accounts)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IDParam(request, "userID", "User")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, account)
}

/*
POST /users.

Response:
  - 201: Account
  - 400: Validation failure or unknown role
  - 409: Username already exists
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, account)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IDParam(request, "userID", "User")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.service.Update(request.Context(), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, account)
}

// revokeSessions serves DELETE /users/{userID}/sessions.
func (handler *Handler) revokeSessions(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IDParam(request, "userID", "User")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.RevokeSessions(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
