// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package transaction

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/merchantdesk/internal/platform/request"
	"github.com/taibuivan/merchantdesk/internal/platform/respond"
)

// Handler implements the deposit and withdrawal endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the routes on a system-admin router.
//
// # Endpoints
//   - GET  /deposits  : Paginated deposits.
//   - POST /deposit   : Record a deposit.
//   - GET  /withdraws : Paginated withdrawals.
//   - POST /withdraw  : Record a withdrawal.
func (handler *Handler) Register(router chi.Router) {
	router.Get("/deposits", handler.list(TypeDeposit))
	router.Post("/deposit", handler.move(TypeDeposit))
	router.Get("/withdraws", handler.list(TypeWithdraw))
	router.Post("/withdraw", handler.move(TypeWithdraw))
}

type moveRequest struct {
	Amount        string `json:"amount"`
	WalletAddress string `json:"walletAddress"`
}

func (handler *Handler) list(kind Type) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		criteria, err := requestutil.Criteria(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		page, err := handler.service.List(request.Context(), kind, criteria)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.Paginated(writer, page)
	}
}

func (handler *Handler) move(kind Type) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		var input moveRequest
		if err := requestutil.DecodeJSON(request, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}

		var (
			transaction *Transaction
			err         error
		)
		if kind == TypeDeposit {
			transaction, err = handler.service.Deposit(request.Context(), MoveInput(input))
		} else {
			transaction, err = handler.service.Withdraw(request.Context(), MoveInput(input))
		}
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.Created(writer, transaction)
	}
}
