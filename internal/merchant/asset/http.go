// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package asset

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/merchantdesk/internal/platform/request"
	"github.com/taibuivan/merchantdesk/internal/platform/respond"
)

// Handler implements GET /business-admin/assets.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the asset routes.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.get)
	return router
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	domain, err := requestutil.MerchantDomain(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	assets, err := handler.service.Get(request.Context(), domain)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, assets)
}
