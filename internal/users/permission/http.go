// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package permission

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/pinpoint/internal/platform/dberr"
	requestutil "github.com/taibuivan/pinpoint/internal/platform/request"
	"github.com/taibuivan/pinpoint/internal/platform/respond"
)

// Handler implements the permission catalog endpoints.
type Handler struct {
	repository Repository
	resolver   *Resolver
}

// NewHandler constructs a new [Handler].
func NewHandler(repository Repository, resolver *Resolver) *Handler {
	return &Handler{repository: repository, resolver: resolver}
}

// Routes returns the /permissions router.
//
// # Endpoints
//   - GET /         : Catalog, behind gate.
//   - GET /allowed  : The caller's own permissions; any authenticated user.
func (handler *Handler) Routes(gate func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	router.Get("/allowed", handler.allowed)
	router.With(gate).Get("/", handler.list)

	return router
}

type allowedResponse struct {
	Permissions []string `json:"permissions"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	permissions, err := handler.repository.List(request.Context())
	if err != nil {
		respond.Error(writer, request, dberr.Wrap(err, "list permissions"))
		return
	}
	if permissions == nil {
		permissions = []Permission{}
	}
	respond.OK(writer, permissions)
}

// allowed shares the request memo with any gate that ran before it.
func (handler *Handler) allowed(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	set, err := handler.resolver.Resolve(request.Context(), principal)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, allowedResponse{Permissions: set.List()})
}
