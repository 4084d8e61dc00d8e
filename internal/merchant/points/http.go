// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package points

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/merchantdesk/internal/platform/request"
	"github.com/taibuivan/merchantdesk/internal/platform/respond"
)

// Handler implements the /business-admin/points endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the points routes. Reading and allocating are gated
// separately, so the caller passes one middleware for each.
//
// # Endpoints
//   - GET  /             : Balance.
//   - GET  /allocations  : Paginated allocations.
//   - POST /allocate     : Grant points to a user.
func (handler *Handler) Routes(view, allocate func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	router.With(view).Get("/", handler.info)
	router.With(view).Get("/allocations", handler.listAllocations)
	router.With(allocate).Post("/allocate", handler.allocate)

	return router
}

type allocateResponse struct {
	Allocation *Allocation `json:"allocation"`
	Info       Info        `json:"info"`
}

func (handler *Handler) info(writer http.ResponseWriter, request *http.Request) {
	domain, err := requestutil.MerchantDomain(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	info, err := handler.service.Info(request.Context(), domain)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, info)
}

func (handler *Handler) listAllocations(writer http.ResponseWriter, request *http.Request) {
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

	page, err := handler.service.ListAllocations(request.Context(), domain, criteria)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, page)
}

/*
Allocate grants points to a user.

POST /api/business-admin/points/allocate

Request Body:
  - userId: string (required)
  - points: integer (>= 1)
  - note: string (at most 200 characters)

Response:
  - 201: {allocation, info}
  - 400: Invalid input or insufficient points
  - 404: Unknown user
*/
func (handler *Handler) allocate(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	domain, err := requestutil.MerchantDomain(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input AllocateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	allocation, info, err := handler.service.Allocate(request.Context(), domain, claims.Account, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, allocateResponse{Allocation: allocation, Info: info})
}
