// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package domainconfig

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/merchantdesk/internal/platform/request"
	"github.com/taibuivan/merchantdesk/internal/platform/respond"
)

// Handler implements GET and PUT /system-admin/domain-config.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the domain configuration routes.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.get)
	router.Put("/", handler.put)
	return router
}

type putRequest struct {
	MerchantDomain string `json:"merchantDomain"`
	CallbackURL    string `json:"callbackUrl"`
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	config, err := handler.service.Get(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, config)
}

func (handler *Handler) put(writer http.ResponseWriter, request *http.Request) {
	var input putRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	config, err := handler.service.Put(request.Context(), input.MerchantDomain, input.CallbackURL)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, config)
}
