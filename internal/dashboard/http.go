// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dashboard

import (
	"net/http"

	requestutil "github.com/taibuivan/merchantdesk/internal/platform/request"
	"github.com/taibuivan/merchantdesk/internal/platform/respond"
)

// Handler serves both dashboard endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// System serves GET /system-admin/dashboard.
func (handler *Handler) System(writer http.ResponseWriter, request *http.Request) {
	stats, err := handler.service.System(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, stats)
}

// Business serves GET /business-admin/dashboard.
func (handler *Handler) Business(writer http.ResponseWriter, request *http.Request) {
	domain, err := requestutil.MerchantDomain(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	stats, err := handler.service.Business(request.Context(), domain)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, stats)
}
