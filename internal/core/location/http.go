// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package location

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/pinpoint/internal/platform/request"
	"github.com/taibuivan/pinpoint/internal/platform/respond"
	"github.com/taibuivan/pinpoint/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) Routes(gate func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()
	router.Use(gate)

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{locationID}", handler.get)
	router.Put("/{locationID}", handler.update)
	router.Delete("/{locationID}", handler.delete)

	return router
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)

	locations, total, err := handler.service.List(request.Context(), request.URL.Query().Get("q"), page.Limit, page.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page.WriteHeaders(writer, total)
	respond.OK(writer, locations)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IDParam(request, "locationID", "Location")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	location, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, location)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	location, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, location)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IDParam(request, "locationID", "Location")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Input
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	location, err := handler.service.Update(request.Context(), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, location)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IDParam(request, "locationID", "Location")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
