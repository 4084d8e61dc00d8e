// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apikey

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/merchantdesk/internal/platform/request"
	"github.com/taibuivan/merchantdesk/internal/platform/respond"
)

// Handler implements the /business-admin/api-keys endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the API key routes.
//
// # Endpoints
//   - GET    /                 : All keys of the merchant.
//   - POST   /                 : Issue a key.
//   - PATCH  /{id}             : Rename.
//   - DELETE /{id}             : Remove.
//   - PATCH  /{id}/status      : Enable or disable.
//   - POST   /{id}/regenerate  : Replace the secret.
//   - GET    /{id}/traffic     : Usage report.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)

	router.Route("/{id}", func(r chi.Router) {
		r.Patch("/", handler.rename)
		r.Delete("/", handler.delete)
		r.Patch("/status", handler.setStatus)
		r.Post("/regenerate", handler.regenerate)
		r.Get("/traffic", handler.traffic)
	})

	return router
}

type nameRequest struct {
	Name string `json:"name"`
}

type statusRequest struct {
	Status Status `json:"status"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	domain, err := requestutil.MerchantDomain(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	keys, err := handler.service.List(request.Context(), domain)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if keys == nil {
		keys = []APIKey{}
	}
	respond.OK(writer, keys)
}

/*
Create issues a new key.

POST /api/business-admin/api-keys

Request Body:
  - name: string (required, at most 64 characters)

Response:
  - 201: APIKey
  - 400: Invalid name
  - 409: Five keys are already active
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	domain, err := requestutil.MerchantDomain(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input nameRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	key, err := handler.service.Create(request.Context(), domain, input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, key)
}

func (handler *Handler) rename(writer http.ResponseWriter, request *http.Request) {
	domain, err := requestutil.MerchantDomain(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input nameRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	key, err := handler.service.Rename(request.Context(), domain, requestutil.ID(request, "id"), input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, key)
}

func (handler *Handler) setStatus(writer http.ResponseWriter, request *http.Request) {
	domain, err := requestutil.MerchantDomain(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input statusRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	key, err := handler.service.SetStatus(request.Context(), domain, requestutil.ID(request, "id"), input.Status)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, key)
}

func (handler *Handler) regenerate(writer http.ResponseWriter, request *http.Request) {
	domain, err := requestutil.MerchantDomain(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	key, err := handler.service.Regenerate(request.Context(), domain, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, key)
}

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

func (handler *Handler) traffic(writer http.ResponseWriter, request *http.Request) {
	domain, err := requestutil.MerchantDomain(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	report, err := handler.service.Traffic(request.Context(), domain, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, report)
}
