// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package signconfig

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/merchantdesk/internal/platform/request"
	"github.com/taibuivan/merchantdesk/internal/platform/respond"
)

// Handler implements the /business-admin/sign-configs endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the Sign-service configuration routes.
//
// # Endpoints
//   - GET    /               : All configurations.
//   - POST   /               : Add.
//   - POST   /test           : Check a URL.
//   - PUT    /{id}           : Edit.
//   - DELETE /{id}           : Remove.
//   - POST   /{id}/activate  : Make the only active configuration.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Post("/test", handler.test)

	router.Route("/{id}", func(r chi.Router) {
		r.Put("/", handler.update)
		r.Delete("/", handler.delete)
		r.Post("/activate", handler.activate)
	})

	return router
}

type configRequest struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

type testRequest struct {
	URL string `json:"url"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	domain, err := requestutil.MerchantDomain(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	configs, err := handler.service.List(request.Context(), domain)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, configs)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	domain, err := requestutil.MerchantDomain(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input configRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	config, err := handler.service.Create(request.Context(), domain, Input(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, config)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	domain, err := requestutil.MerchantDomain(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input configRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	config, err := handler.service.Update(request.Context(), domain, requestutil.ID(request, "id"), Input(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, config)
}

/*
Delete removes a configuration.

DELETE /api/business-admin/sign-configs/{id}

Response:
  - 200: null data
  - 404: Unknown configuration
  - 409: The configuration is the only active one
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	domain, err := requestutil.MerchantDomain(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), domain, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) activate(writer http.ResponseWriter, request *http.Request) {
	domain, err := requestutil.MerchantDomain(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	configs, err := handler.service.Activate(request.Context(), domain, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, configs)
}

func (handler *Handler) test(writer http.ResponseWriter, request *http.Request) {
	var input testRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Test(request.Context(), input.URL)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}
