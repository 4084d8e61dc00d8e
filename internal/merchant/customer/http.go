// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package customer

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/merchantdesk/internal/platform/request"
	"github.com/taibuivan/merchantdesk/internal/platform/respond"
)

// Handler implements the /business-admin/users and /business-admin/orders endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the routes on a business-admin router.
//
// # Endpoints
//   - GET /users              : Paginated users.
//   - GET /users/{id}         : One user.
//   - GET /users/{id}/orders  : Paginated orders of one user.
//   - GET /orders             : Paginated orders of the merchant.
func (handler *Handler) Register(router chi.Router) {
	router.Get("/users", handler.listUsers)
	router.Get("/users/{id}", handler.getUser)
	router.Get("/users/{id}/orders", handler.listUserOrders)
	router.Get("/orders", handler.listOrders)
}

func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
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

	page, err := handler.service.ListUsers(request.Context(), domain, criteria)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, page)
}

func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	domain, err := requestutil.MerchantDomain(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.GetUser(request.Context(), domain, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

func (handler *Handler) listUserOrders(writer http.ResponseWriter, request *http.Request) {
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

	page, err := handler.service.ListUserOrders(request.Context(), domain, requestutil.ID(request, "id"), criteria)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, page)
}

func (handler *Handler) listOrders(writer http.ResponseWriter, request *http.Request) {
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

	page, err := handler.service.ListOrders(request.Context(), domain, criteria)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, page)
}
