// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package crystal

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/crystalbox/internal/platform/apperr"
	"github.com/taibuivan/crystalbox/internal/platform/middleware"
	requestutil "github.com/taibuivan/crystalbox/internal/platform/request"
	"github.com/taibuivan/crystalbox/internal/platform/respond"
	"github.com/taibuivan/crystalbox/internal/platform/sec"
	"github.com/taibuivan/crystalbox/internal/platform/validate"
	"github.com/taibuivan/crystalbox/pkg/cyclespec"
	"github.com/taibuivan/crystalbox/pkg/pagination"
	"github.com/taibuivan/crystalbox/pkg/query"
)

// # Handler Implementation

// Handler implements the HTTP layer for the catalog and suggestions.
type Handler struct {
	service *Service
}

// NewHandler constructs a new crystal [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the catalog endpoints.
//
//   - Reads: any authenticated user.
//   - Create and update: staff.
//   - Delete: admin.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listCrystals)
	router.Get("/suggested", handler.suggestCrystals)
	router.Get("/{id}", handler.getCrystal)

	router.Group(func(staff chi.Router) {
		staff.Use(middleware.RequireRole(sec.RoleStaff))

		staff.Post("/", handler.createCrystal)
		staff.Patch("/{id}", handler.updateCrystal)
	})

	router.With(middleware.RequireRole(sec.RoleAdmin)).Delete("/{id}", handler.deleteCrystal)

	return router
}

// filtersFrom collects the exclusion filter keys present in the query string.
func filtersFrom(values url.Values) map[string]string {
	filters := make(map[string]string)
	for _, key := range FilterKeys {
		if values.Has(key) {
			filters[key] = values.Get(key)
		}
	}
	return filters
}

func requiredInt(request *http.Request, name string) (int, error) {
	value, err := requestutil.QueryInt(request, name)
	if err != nil {
		return 0, err
	}
	if value == nil {
		return 0, validate.RequiredError(name, "Is required")
	}
	return *value, nil
}

func idList(values url.Values, name string) ([]int, error) {
	ids, err := query.Ints(values.Get(name))
	if err != nil {
		return nil, validate.RequiredError(name, "Must be a comma-separated list of integers")
	}
	return ids, nil
}

// # Suggestion Endpoint

/*
GET /crystals/suggested.

Description: Lists crystals eligible for a box, healthiest inventory first.

Request:
  - subscriptionId, month, year: int (required, month is 0-based)
  - cycleString: string (required, e.g. "3, 7-9")
  - selectedCrystalIds, excludedCrystalIds: comma-separated ints
  - category, location, colorId: comma-separated ids to exclude
  - inventory, rarity, findAge: comma-separated labels to exclude
  - lookbackLimit: int (optional history depth)
  - page, pageSize: int

Response:
  - 200: {data: []Crystal, paging}
  - 400: malformed or missing parameters
*/
func (handler *Handler) suggestCrystals(writer http.ResponseWriter, request *http.Request) {
	input, err := parseSuggestInput(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	crystals, total, err := handler.service.SuggestCrystals(request.Context(), input, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, crystals, pagination.NewMeta(params, total))
}

func parseSuggestInput(request *http.Request) (SuggestInput, error) {
	values := request.URL.Query()
	input := SuggestInput{Filters: filtersFrom(values)}
	var err error

	if input.SubscriptionID, err = requiredInt(request, FieldSubscriptionID); err != nil {
		return input, err
	}
	if input.Month, err = requiredInt(request, "month"); err != nil {
		return input, err
	}
	if input.Year, err = requiredInt(request, "year"); err != nil {
		return input, err
	}

	cycleString := strings.TrimSpace(values.Get(FieldCycleString))
	if cycleString == "" {
		return input, validate.RequiredError(FieldCycleString, "Is required")
	}
	if input.Cycles, err = cyclespec.Parse(cycleString); err != nil {
		return input, apperr.ValidationError("Invalid cycle specification", apperr.FieldError{
			Field:   FieldCycleString,
			Message: err.Error(),
		})
	}

	if input.SelectedIDs, err = idList(values, FieldSelectedCrystalIDs); err != nil {
		return input, err
	}
	if input.ExcludedIDs, err = idList(values, FieldExcludedCrystalIDs); err != nil {
		return input, err
	}

	limit, err := requestutil.QueryInt(request, FieldLookbackLimit)
	if err != nil {
		return input, err
	}
	if limit != nil {
		input.LookbackLimit = *limit
	}

	return input, nil
}

// # Catalog Endpoints

func (handler *Handler) listCrystals(writer http.ResponseWriter, request *http.Request) {
	values := request.URL.Query()
	params := pagination.FromRequest(request)

	crystals, total, err := handler.service.ListCrystals(request.Context(), values.Get(FieldSearch), filtersFrom(values), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, crystals, pagination.NewMeta(params, total))
}

func (handler *Handler) getCrystal(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	crystal, err := handler.service.GetCrystal(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, crystal)
}

type crystalRequest struct {
	Name        string     `json:"name"`
	ColorID     *int       `json:"colorId"`
	CategoryID  *int       `json:"categoryId"`
	LocationID  *int       `json:"locationId"`
	Rarity      *Rarity    `json:"rarity"`
	FindAge     *FindAge   `json:"findAge"`
	Inventory   *Inventory `json:"inventory"`
	Description *string    `json:"description"`
	Image       *string    `json:"image"`
}

func (body crystalRequest) toCrystal() *Crystal {
	return &Crystal{
		Name:        body.Name,
		ColorID:     body.ColorID,
		CategoryID:  body.CategoryID,
		LocationID:  body.LocationID,
		Rarity:      body.Rarity,
		FindAge:     body.FindAge,
		Inventory:   body.Inventory,
		Description: body.Description,
		Image:       body.Image,
	}
}

func requestFrom(crystal *Crystal) crystalRequest {
	return crystalRequest{
		Name:        crystal.Name,
		ColorID:     crystal.ColorID,
		CategoryID:  crystal.CategoryID,
		LocationID:  crystal.LocationID,
		Rarity:      crystal.Rarity,
		FindAge:     crystal.FindAge,
		Inventory:   crystal.Inventory,
		Description: crystal.Description,
		Image:       crystal.Image,
	}
}

func (handler *Handler) createCrystal(writer http.ResponseWriter, request *http.Request) {
	var body crystalRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	crystal := body.toCrystal()
	if err := handler.service.CreateCrystal(request.Context(), crystal); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, crystal)
}

// updateCrystal applies a partial update: absent fields keep their stored
// value, explicit nulls clear optional ones.
func (handler *Handler) updateCrystal(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	existing, err := handler.service.GetCrystal(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	body := requestFrom(existing)
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	crystal := body.toCrystal()
	crystal.ID = id
	if err := handler.service.UpdateCrystal(request.Context(), crystal); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, crystal)
}

func (handler *Handler) deleteCrystal(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteCrystal(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
