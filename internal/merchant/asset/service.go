// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package asset

import (
	"context"
	"fmt"
)

// Service reads merchant balances.
type Service struct {
	repository Repository
}

// NewService constructs a new [Service].
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// Get returns the balance of the merchant.
func (service *Service) Get(ctx context.Context, merchantDomain string) (*Assets, error) {
	assets, err := service.repository.Get(ctx, merchantDomain)
	if err != nil {
		return nil, fmt.Errorf("asset_service_get_failed: %w", err)
	}
	return assets, nil
}
