// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package customer

import (
	"context"
	"fmt"

	"github.com/taibuivan/merchantdesk/internal/platform/apperr"
	"github.com/taibuivan/merchantdesk/pkg/pagination"
)

// Service implements the read-only user and order use cases.
type Service struct {
	repository Repository
}

// NewService constructs a new [Service].
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// ListUsers returns one page of users.
func (service *Service) ListUsers(ctx context.Context, merchantDomain string, criteria pagination.Criteria) (pagination.Page[*User], error) {
	users, total, err := service.repository.ListUsers(ctx, merchantDomain, criteria)
	if err != nil {
		return pagination.Page[*User]{}, fmt.Errorf("customer_service_list_users_failed: %w", err)
	}
	return pagination.NewPage(users, total, criteria.Params), nil
}

// GetUser returns one user of the merchant.
func (service *Service) GetUser(ctx context.Context, merchantDomain, id string) (*User, error) {
	user, err := service.repository.FindUser(ctx, merchantDomain, id)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("customer_service_get_user_failed: %w", err)
	}
	return user, nil
}

// ListUserOrders returns one page of a single user's orders. The user must
// belong to the merchant.
func (service *Service) ListUserOrders(ctx context.Context, merchantDomain, userID string, criteria pagination.Criteria) (pagination.Page[*Order], error) {
	if _, err := service.GetUser(ctx, merchantDomain, userID); err != nil {
		return pagination.Page[*Order]{}, err
	}
	return service.listOrders(ctx, merchantDomain, userID, criteria)
}

// ListOrders returns one page of every order of the merchant.
func (service *Service) ListOrders(ctx context.Context, merchantDomain string, criteria pagination.Criteria) (pagination.Page[*Order], error) {
	return service.listOrders(ctx, merchantDomain, "", criteria)
}

// CountUsers returns the number of users, used by the dashboard.
func (service *Service) CountUsers(ctx context.Context, merchantDomain string) (int, error) {
	count, err := service.repository.CountUsers(ctx, merchantDomain)
	if err != nil {
		return 0, fmt.Errorf("customer_service_count_users_failed: %w", err)
	}
	return count, nil
}

func (service *Service) listOrders(ctx context.Context, merchantDomain, userID string, criteria pagination.Criteria) (pagination.Page[*Order], error) {
	orders, total, err := service.repository.ListOrders(ctx, merchantDomain, userID, criteria)
	if err != nil {
		return pagination.Page[*Order]{}, fmt.Errorf("customer_service_list_orders_failed: %w", err)
	}
	return pagination.NewPage(orders, total, criteria.Params), nil
}
