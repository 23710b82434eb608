// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/crystalbox/internal/platform/middleware"
	requestutil "github.com/taibuivan/crystalbox/internal/platform/request"
	"github.com/taibuivan/crystalbox/internal/platform/respond"
	"github.com/taibuivan/crystalbox/internal/platform/sec"
)

// Handler implements the HTTP layer for lookup tables.
type Handler struct {
	service *Service
}

// NewHandler constructs a new reference [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ColorRoutes serves the color palette. Writes require admin.
func (handler *Handler) ColorRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listColors)
	router.With(middleware.RequireRole(sec.RoleAdmin)).Post("/", handler.createColor)

	return router
}

// LookupRoutes serves one named lookup table. Writes require admin.
func (handler *Handler) LookupRoutes(kind Kind) chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listLookups(kind))
	router.With(middleware.RequireRole(sec.RoleAdmin)).Post("/", handler.createLookup(kind))

	return router
}

func (handler *Handler) listColors(writer http.ResponseWriter, request *http.Request) {
	colors, err := handler.service.ListColors(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, colors)
}

func (handler *Handler) createColor(writer http.ResponseWriter, request *http.Request) {
	var color Color
	if err := requestutil.DecodeJSON(request, &color); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.CreateColor(request.Context(), &color); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, color)
}

func (handler *Handler) listLookups(kind Kind) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		lookups, err := handler.service.ListLookups(request.Context(), kind)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, lookups)
	}
}

func (handler *Handler) createLookup(kind Kind) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		var lookup Lookup
		if err := requestutil.DecodeJSON(request, &lookup); err != nil {
			respond.Error(writer, request, err)
			return
		}

		if err := handler.service.CreateLookup(request.Context(), kind, &lookup); err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.Created(writer, lookup)
	}
}
