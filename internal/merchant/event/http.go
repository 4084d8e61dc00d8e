// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package event

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/merchantdesk/internal/platform/request"
	"github.com/taibuivan/merchantdesk/internal/platform/respond"
)

// Handler implements the /business-admin/events endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the event routes.
//
// # Endpoints
//   - GET  /                : Paginated events.
//   - POST /                : Create.
//   - GET  /{id}            : One event.
//   - POST /{id}/settle     : Settle with final figures.
//   - POST /{id}/end        : End.
//   - POST /{id}/liquidity  : Add or remove liquidity.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)

	router.Route("/{id}", func(r chi.Router) {
		r.Get("/", handler.get)
		r.Post("/settle", handler.settle)
		r.Post("/end", handler.end)
		r.Post("/liquidity", handler.liquidity)
	})

	return router
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	domain, err := requestutil.MerchantDomain(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	criteria, err := requestutil.Criteria(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page, err := handler.service.List(request.Context(), domain, criteria)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, page)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	domain, err := requestutil.MerchantDomain(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	event, err := handler.service.Get(request.Context(), domain, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, event)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	domain, err := requestutil.MerchantDomain(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	event, err := handler.service.Create(request.Context(), domain, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, event)
}

/*
Settle closes an active event.

POST /api/business-admin/events/{id}/settle

Request Body:
  - finalAmount: decimal string (>= 0)
  - finalPoints: integer (>= 0)

Response:
  - 200: Event
  - 400: Invalid figures
  - 409: The event is not active
*/
func (handler *Handler) settle(writer http.ResponseWriter, request *http.Request) {
	domain, err := requestutil.MerchantDomain(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input SettleInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	event, err := handler.service.Settle(request.Context(), domain, requestutil.ID(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, event)
}

func (handler *Handler) end(writer http.ResponseWriter, request *http.Request) {
	domain, err := requestutil.MerchantDomain(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	event, err := handler.service.End(request.Context(), domain, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, event)
}

func (handler *Handler) liquidity(writer http.ResponseWriter, request *http.Request) {
	domain, err := requestutil.MerchantDomain(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input LiquidityInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	event, err := handler.service.AdjustLiquidity(request.Context(), domain, requestutil.ID(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, event)
}
