// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package bizadmin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/merchantdesk/internal/auth"
	requestutil "github.com/taibuivan/merchantdesk/internal/platform/request"
	"github.com/taibuivan/merchantdesk/internal/platform/respond"
	"github.com/taibuivan/merchantdesk/internal/platform/sec"
)

// Handler implements the /system-admin/business-admins endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the business administrator routes. The caller mounts them
// behind the system_admin role gate.
//
// # Endpoints
//   - GET    /                    : Paginated list.
//   - POST   /                    : Create.
//   - GET    /{id}                : Detail.
//   - DELETE /{id}                : Delete.
//   - POST   /{id}/reset-password : Set a new password.
//   - PUT    /{id}/permissions    : Replace permissions.
//   - PATCH  /{id}/status         : Enable or disable.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)

	router.Route("/{id}", func(r chi.Router) {
		r.Get("/", handler.get)
		r.Delete("/", handler.delete)
		r.Post("/reset-password", handler.resetPassword)
		r.Put("/permissions", handler.updatePermissions)
		r.Patch("/status", handler.setStatus)
	})

	return router
}

type createRequest struct {
	Account        string           `json:"account"`
	Password       string           `json:"password"`
	MerchantDomain string           `json:"merchantDomain"`
	Permissions    []sec.Permission `json:"permissions"`
}

type resetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

type permissionsRequest struct {
	Permissions []sec.Permission `json:"permissions"`
}

type statusRequest struct {
	Status auth.Status `json:"status"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	criteria, err := requestutil.Criteria(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page, err := handler.service.List(request.Context(), criteria)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, page)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	admin, err := handler.service.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, admin)
}

/*
Create registers a business administrator.

POST /api/system-admin/business-admins

Response:
  - 201: The created administrator
  - 400: Validation failure
  - 409: Account already exists for the merchant
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	admin, err := handler.service.Create(request.Context(), CreateInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, admin)
}

func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.ResetPassword(request.Context(), requestutil.ID(request, "id"), input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) updatePermissions(writer http.ResponseWriter, request *http.Request) {
	var input permissionsRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	admin, err := handler.service.UpdatePermissions(request.Context(), requestutil.ID(request, "id"), input.Permissions)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, admin)
}

func (handler *Handler) setStatus(writer http.ResponseWriter, request *http.Request) {
	var input statusRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	admin, err := handler.service.SetStatus(request.Context(), requestutil.ID(request, "id"), input.Status)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, admin)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
