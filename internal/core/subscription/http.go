// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package subscription

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/taibuivan/crystalbox/internal/platform/middleware"
	requestutil "github.com/taibuivan/crystalbox/internal/platform/request"
	"github.com/taibuivan/crystalbox/internal/platform/respond"
	"github.com/taibuivan/crystalbox/internal/platform/sec"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the subscription endpoints. Creation is restricted to admins.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listSubscriptions)
	router.Get("/{id}", handler.getSubscription)

	router.With(middleware.RequireRole(sec.RoleAdmin)).Post("/", handler.createSubscription)

	return router
}

func (handler *Handler) listSubscriptions(writer http.ResponseWriter, request *http.Request) {
	subscriptions, err := handler.service.ListSubscriptions(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, subscriptions)
}

func (handler *Handler) getSubscription(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	subscription, err := handler.service.GetSubscription(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, subscription)
}

type createSubscriptionRequest struct {
	Name        string          `json:"name"`
	ShortName   string          `json:"shortName"`
	Cost        decimal.Decimal `json:"cost"`
	CycleLength int             `json:"cycleLength"`
}

/*
POST /subscriptions.

Request:
  - name: string (required)
  - shortName: string (defaults to a slug of name)
  - cost: decimal string or number
  - cycleLength: int (defaults to the configured value)

Response:
  - 201: Subscription
  - 409: short name already taken
*/
func (handler *Handler) createSubscription(writer http.ResponseWriter, request *http.Request) {
	var body createSubscriptionRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	subscription := &Subscription{
		Name:        body.Name,
		ShortName:   body.ShortName,
		Cost:        body.Cost,
		CycleLength: body.CycleLength,
	}

	if err := handler.service.CreateSubscription(request.Context(), subscription); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, subscription)
}
