// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package shipment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/crystalbox/internal/platform/middleware"
	requestutil "github.com/taibuivan/crystalbox/internal/platform/request"
	"github.com/taibuivan/crystalbox/internal/platform/respond"
	"github.com/taibuivan/crystalbox/internal/platform/sec"
	"github.com/taibuivan/crystalbox/pkg/cyclespec"
	"github.com/taibuivan/crystalbox/pkg/pagination"
)

// Handler exposes shipment history and manual shipment entry.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the shipment endpoints. Recording shipments requires staff.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listShipments)
	router.Get("/{id}", handler.getShipment)

	router.With(middleware.RequireRole(sec.RoleStaff)).Post("/", handler.createShipments)

	return router
}

/*
GET /shipments.

Request:
  - subscriptionId, month, year: int (optional filters)
  - page, pageSize: int

Response:
  - 200: {data: []Shipment, paging}
*/
func (handler *Handler) listShipments(writer http.ResponseWriter, request *http.Request) {
	var filter Filter
	var err error

	if filter.SubscriptionID, err = requestutil.QueryInt(request, FieldSubscriptionID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if filter.Month, err = requestutil.QueryInt(request, FieldMonth); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if filter.Year, err = requestutil.QueryInt(request, FieldYear); err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	shipments, total, err := handler.service.ListShipments(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, shipments, pagination.NewMeta(params, total))
}

func (handler *Handler) getShipment(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	shipment, err := handler.service.GetShipment(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, shipment)
}

type createShipmentsRequest struct {
	SubscriptionID int            `json:"subscriptionId"`
	Month          int            `json:"month"`
	Year           int            `json:"year"`
	Cycle          cyclespec.Spec `json:"cycle"`
	UserCount      int            `json:"userCount"`
	CrystalIDs     []int          `json:"crystalIds"`
}

/*
POST /shipments.

Description: Records a built box. A cycle list or range creates one shipment
per cycle, all sharing the same crystals and group label.

Response:
  - 201: []Shipment
  - 409: a shipment already exists for one of the cycles
*/
func (handler *Handler) createShipments(writer http.ResponseWriter, request *http.Request) {
	var body createShipmentsRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	shipments, err := handler.service.CreateShipments(request.Context(), Draft{
		SubscriptionID: body.SubscriptionID,
		Month:          body.Month,
		Year:           body.Year,
		CycleSpec:      body.Cycle.String(),
		UserCount:      body.UserCount,
		CrystalIDs:     body.CrystalIDs,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, shipments)
}
