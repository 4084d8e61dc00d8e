// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package points

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/merchantdesk/internal/platform/apperr"
	"github.com/taibuivan/merchantdesk/internal/platform/audit"
	"github.com/taibuivan/merchantdesk/pkg/ids"
	"github.com/taibuivan/merchantdesk/pkg/pagination"
)

// Service implements points use cases.
type Service struct {
	repository Repository
	audit      audit.Recorder
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs a new [Service].
func NewService(repository Repository, recorder audit.Recorder, logger *slog.Logger) *Service {
	return &Service{repository: repository, audit: recorder, logger: logger, now: time.Now}
}

// Info returns the balance of the merchant.
func (service *Service) Info(ctx context.Context, merchantDomain string) (Info, error) {
	info, err := service.repository.Info(ctx, merchantDomain)
	if err != nil {
		return Info{}, fmt.Errorf("points_service_info_failed: %w", err)
	}
	return info, nil
}

// ListAllocations returns one page of allocations.
func (service *Service) ListAllocations(ctx context.Context, merchantDomain string, criteria pagination.Criteria) (pagination.Page[*Allocation], error) {
	allocations, total, err := service.repository.ListAllocations(ctx, merchantDomain, criteria)
	if err != nil {
		return pagination.Page[*Allocation]{}, fmt.Errorf("points_service_list_allocations_failed: %w", err)
	}
	return pagination.NewPage(allocations, total, criteria.Params), nil
}

/*
Allocate grants points to one user of the merchant.

Parameters:
  - ctx: context.Context
  - merchantDomain: string
  - allocatedBy: string (account name of the caller)
  - input: AllocateInput

Returns:
  - *Allocation: The recorded allocation
  - Info: The balance after the allocation
  - error: ValidationError (including insufficient points), NotFound, or
    storage failures
*/
func (service *Service) Allocate(ctx context.Context, merchantDomain, allocatedBy string, input AllocateInput) (*Allocation, Info, error) {
	input.UserID = strings.TrimSpace(input.UserID)
	input.Note = strings.TrimSpace(input.Note)
	if err := input.Validate(); err != nil {
		return nil, Info{}, err
	}

	now := service.now().UTC()
	allocation := &Allocation{
		ID:          ids.NewAt(now),
		UserID:      input.UserID,
		Points:      input.Points,
		AllocatedAt: now,
		AllocatedBy: allocatedBy,
		Note:        input.Note,
	}

	info, err := service.repository.Allocate(ctx, merchantDomain, allocation, func(current Info) error {
		return CheckAllocation(current, input.Points)
	})
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, Info{}, err
		}
		return nil, Info{}, fmt.Errorf("points_service_allocate_failed: %w", err)
	}

	audit.Write(ctx, service.audit, audit.Entry{
		Action:     "points.allocate",
		EntityType: AuditEntity,
		EntityID:   allocation.ID,
		After:      allocation,
	})
	service.logger.Info("points_allocated",
		slog.String("id", allocation.ID),
		slog.String("user_id", allocation.UserID),
		slog.Int64("points", allocation.Points),
		slog.Int64("remaining", info.RemainingPoints),
	)
	return allocation, info, nil
}
