// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package prebuild

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/crystalbox/internal/platform/middleware"
	requestutil "github.com/taibuivan/crystalbox/internal/platform/request"
	"github.com/taibuivan/crystalbox/internal/platform/respond"
	"github.com/taibuivan/crystalbox/internal/platform/sec"
	"github.com/taibuivan/crystalbox/internal/platform/validate"
	"github.com/taibuivan/crystalbox/pkg/cyclespec"
	"github.com/taibuivan/crystalbox/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for pre-builds.
type Handler struct {
	service *Service
}

// NewHandler constructs a new pre-build [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the pre-build endpoints.
//
//   - Reads and smart-checks: any authenticated user.
//   - Staging, editing and building: staff.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listPreBuilds)
	router.Get("/{id}", handler.getPreBuild)
	router.Post("/smartCheckSelected", handler.smartCheckSelected)
	router.Post("/{id}/smartCheck", handler.smartCheck)

	router.Group(func(staff chi.Router) {
		staff.Use(middleware.RequireRole(sec.RoleStaff))

		staff.Post("/", handler.createPreBuild)
		staff.Put("/{id}", handler.updatePreBuild)
		staff.Delete("/{id}", handler.deletePreBuild)
		staff.Post("/{id}/build", handler.buildPreBuild)
	})

	return router
}

func required(field string, value *int) (int, error) {
	if value == nil {
		return 0, validate.RequiredError(field, "Is required")
	}
	return *value, nil
}

// # Smart-Check Endpoints

type smartCheckRequest struct {
	CrystalIDs     []int           `json:"crystalIds"`
	Cycle          *cyclespec.Spec `json:"cycle"`
	SubscriptionID *int            `json:"subscriptionId"`
	Month          *int            `json:"month"`
	Year           *int            `json:"year"`
	LookbackLimit  *int            `json:"lookbackLimit"`
}

/*
POST /preBuilds/{id}/smartCheck.

Request:
  - crystalIds: []int (defaults to the pre-build's crystals)
  - cycle: string or number (defaults to the pre-build's cycle)
  - subscriptionId: int (defaults to the pre-build's subscription)
  - month, year: int (required, month is 0-based)
  - lookbackLimit: int (optional history depth)

Response:
  - 200: {barredCrystalIds, outInventoryCrystalIds}
  - 400: missing or malformed fields
  - 404: unknown pre-build
*/
func (handler *Handler) smartCheck(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body smartCheckRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input := CheckInput{
		CrystalIDs:     body.CrystalIDs,
		SubscriptionID: body.SubscriptionID,
	}
	if body.Cycle != nil {
		cycle := body.Cycle.String()
		input.Cycle = &cycle
	}
	if body.LookbackLimit != nil {
		input.LookbackLimit = *body.LookbackLimit
	}
	if input.Month, err = required("month", body.Month); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if input.Year, err = required("year", body.Year); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.SmartCheck(request.Context(), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Raw(writer, result)
}

type smartCheckSelectedRequest struct {
	PrebuildIDs []int `json:"prebuildIds"`
	Month       *int  `json:"month"`
	Year        *int  `json:"year"`
}

/*
POST /preBuilds/smartCheckSelected.

Response:
  - 200: {badPrebuilds: [{id, barredCrystalIds, outInventoryCrystalIds}],
    conflictingCyclePrebuilds: [{id, conflictingIds}]}
  - 404: one of the ids is unknown
*/
func (handler *Handler) smartCheckSelected(writer http.ResponseWriter, request *http.Request) {
	var body smartCheckSelectedRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	month, err := required("month", body.Month)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	year, err := required("year", body.Year)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	report, err := handler.service.SmartCheckSelected(request.Context(), body.PrebuildIDs, month, year)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Raw(writer, report)
}

// # Staging Endpoints

func (handler *Handler) listPreBuilds(writer http.ResponseWriter, request *http.Request) {
	subscriptionID, err := requestutil.QueryInt(request, FieldSubscriptionID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	prebuilds, total, err := handler.service.ListPreBuilds(request.Context(), Filter{SubscriptionID: subscriptionID}, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, prebuilds, pagination.NewMeta(params, total))
}

func (handler *Handler) getPreBuild(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	prebuild, err := handler.service.GetPreBuild(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, prebuild)
}

type preBuildRequest struct {
	SubscriptionID int             `json:"subscriptionId"`
	Cycle          *cyclespec.Spec `json:"cycle"`
	CrystalIDs     []int           `json:"crystalIds"`
}

func (body preBuildRequest) toPreBuild() *PreBuild {
	prebuild := &PreBuild{SubscriptionID: body.SubscriptionID, CrystalIDs: body.CrystalIDs}
	if body.Cycle != nil {
		cycle := body.Cycle.String()
		prebuild.Cycle = &cycle
	}
	return prebuild
}

func (handler *Handler) createPreBuild(writer http.ResponseWriter, request *http.Request) {
	var body preBuildRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	prebuild := body.toPreBuild()
	if err := handler.service.CreatePreBuild(request.Context(), prebuild); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, prebuild)
}

func (handler *Handler) updatePreBuild(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body preBuildRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	prebuild := body.toPreBuild()
	prebuild.ID = id
	if err := handler.service.UpdatePreBuild(request.Context(), prebuild); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, prebuild)
}

func (handler *Handler) deletePreBuild(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeletePreBuild(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

type buildRequest struct {
	Month     *int `json:"month"`
	Year      *int `json:"year"`
	UserCount int  `json:"userCount"`
}

/*
POST /preBuilds/{id}/build.

Response:
  - 201: []Shipment (one per cycle)
  - 409: a shipment already exists for one of the cycles
*/
func (handler *Handler) buildPreBuild(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body buildRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input := BuildInput{UserCount: body.UserCount}
	if input.Month, err = required("month", body.Month); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if input.Year, err = required("year", body.Year); err != nil {
		respond.Error(writer, request, err)
		return
	}

	shipments, err := handler.service.BuildPreBuild(request.Context(), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, shipments)
}
