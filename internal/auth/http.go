// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/merchantdesk/internal/platform/middleware"
	requestutil "github.com/taibuivan/merchantdesk/internal/platform/request"
	"github.com/taibuivan/merchantdesk/internal/platform/respond"
	"github.com/taibuivan/merchantdesk/internal/platform/sec"
)

// # Definitions & Constructors

// Handler implements the /auth endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /login           : Authenticates and returns {token, user}.
//   - POST /logout          : Ends the current session.
//   - GET  /current         : Returns the caller's identity.
//   - POST /change-password : Replaces the caller's password.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/login", handler.login)

	// Logout stays reachable with an expired token; it is idempotent.
	router.Post("/logout", handler.logout)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/current", handler.current)
		r.Post("/change-password", handler.changePassword)
	})

	return router
}

// # Request Payloads

type loginRequest struct {
	MerchantDomain string   `json:"merchantDomain"`
	Account        string   `json:"account"`
	Role           sec.Role `json:"role"`
	Password       string   `json:"password"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

/*
Login authenticates an administrator.

POST /api/auth/login

Response:
  - 200: {token, user}
  - 400: Missing fields or unknown role
  - 401: Invalid credentials or disabled account
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Login(request.Context(), LoginInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
Logout terminates the current session.

POST /api/auth/logout
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	if err := handler.authService.Logout(request.Context(), requestutil.Claims(request)); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

/*
Current returns the caller's identity.

GET /api/auth/current
*/
func (handler *Handler) current(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	identity, err := handler.authService.Current(request.Context(), claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, identity)
}

/*
ChangePassword replaces the caller's password.

POST /api/auth/change-password

Response:
  - 200: null data, session revoked
  - 400: Validation failure
  - 401: Old password mismatch
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ChangePassword(request.Context(), claims, ChangePasswordInput(input)); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
