// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package bizadmin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/merchantdesk/internal/auth"
	"github.com/taibuivan/merchantdesk/internal/platform/audit"
	"github.com/taibuivan/merchantdesk/internal/platform/constants"
	"github.com/taibuivan/merchantdesk/internal/platform/sec"
	"github.com/taibuivan/merchantdesk/internal/platform/validate"
	"github.com/taibuivan/merchantdesk/pkg/pagination"
	"github.com/taibuivan/merchantdesk/pkg/slice"
	"github.com/taibuivan/merchantdesk/pkg/uuid"
)

const passwordTooLong = "Maximum 72 bytes"

// Service implements business administrator management.
type Service struct {
	repository Repository
	sessions   auth.SessionRepository
	audit      audit.Recorder
	logger     *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repository Repository, sessions auth.SessionRepository, recorder audit.Recorder, logger *slog.Logger) *Service {
	return &Service{repository: repository, sessions: sessions, audit: recorder, logger: logger}
}

// List returns one page of business administrators.
func (service *Service) List(ctx context.Context, criteria pagination.Criteria) (pagination.Page[BusinessAdmin], error) {
	accounts, total, err := service.repository.List(ctx, criteria)
	if err != nil {
		return pagination.Page[BusinessAdmin]{}, fmt.Errorf("bizadmin_service_list_failed: %w", err)
	}

	items := slice.Map(accounts, func(account *auth.Account) BusinessAdmin { return FromAccount(account) })
	return pagination.NewPage(items, total, criteria.Params), nil
}

// Get returns one business administrator.
func (service *Service) Get(ctx context.Context, id string) (*BusinessAdmin, error) {
	account, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	admin := FromAccount(account)
	return &admin, nil
}

// Counts returns the population used by the system dashboard.
func (service *Service) Counts(ctx context.Context) (Counts, error) {
	return service.repository.Count(ctx)
}

// CreateInput holds the creation form.
type CreateInput struct {
	Account        string
	Password       string
	MerchantDomain string
	Permissions    []sec.Permission
}

/*
Create registers a new business administrator.

Description: A nil permission list grants the default bundle; an explicit
empty list grants nothing. The account name must be unique within its
merchant domain.

Parameters:
  - ctx: context.Context
  - input: CreateInput

Returns:
  - *BusinessAdmin: The created account
  - error: ValidationError, Conflict, or storage failures
*/
func (service *Service) Create(ctx context.Context, input CreateInput) (*BusinessAdmin, error) {
	validator := &validate.Validator{}
	validator.Required(FieldAccount, input.Account).
		MinLen(FieldAccount, input.Account, constants.AccountMinLength).
		MaxLen(FieldAccount, input.Account, 64).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, auth.NewPasswordMinLength).
		Custom(FieldPassword, len(input.Password) > sec.MaxPasswordBytes, passwordTooLong).
		Domain(FieldMerchantDomain, input.MerchantDomain)
	validatePermissions(validator, input.Permissions)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	permissions := input.Permissions
	if permissions == nil {
		permissions = sec.DefaultPermissions(sec.RoleBusinessAdmin)
	}

	hash, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("bizadmin_service_hash_failed: %w", err)
	}

	account := &auth.Account{
		ID:             uuid.New(),
		Account:        input.Account,
		MerchantDomain: input.MerchantDomain,
		Role:           sec.RoleBusinessAdmin,
		Permissions:    sec.NormalizePermissions(permissions),
		PasswordHash:   hash,
		Status:         auth.StatusActive,
	}

	if err := service.repository.Create(ctx, account); err != nil {
		return nil, err
	}

	admin := FromAccount(account)
	audit.Write(ctx, service.audit, audit.Entry{
		Action: "business_admin.create", EntityType: AuditEntity, EntityID: admin.ID, After: admin,
	})
	service.logger.Info("business_admin_created",
		slog.String("id", admin.ID),
		slog.String("merchant_domain", admin.MerchantDomain),
	)

	return &admin, nil
}

// ResetPassword sets a new password and signs the account out everywhere.
func (service *Service) ResetPassword(ctx context.Context, id, newPassword string) error {
	validator := &validate.Validator{}
	validator.Required(FieldNewPassword, newPassword).
		MinLen(FieldNewPassword, newPassword, auth.NewPasswordMinLength).
		Custom(FieldNewPassword, len(newPassword) > sec.MaxPasswordBytes, passwordTooLong)
	if err := validator.Err(); err != nil {
		return err
	}

	hash, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("bizadmin_service_hash_failed: %w", err)
	}

	if err := service.repository.UpdatePassword(ctx, id, hash); err != nil {
		return err
	}

	service.revokeSessions(ctx, id)
	audit.Write(ctx, service.audit, audit.Entry{Action: "business_admin.reset_password", EntityType: AuditEntity, EntityID: id})
	service.logger.Info("business_admin_password_reset", slog.String("id", id))
	return nil
}

/*
UpdatePermissions replaces the permission bundle.

Description: Tokens embed the permission set, so live sessions are revoked
and the administrator picks up the new bundle at the next login.
*/
func (service *Service) UpdatePermissions(ctx context.Context, id string, permissions []sec.Permission) (*BusinessAdmin, error) {
	validator := &validate.Validator{}
	validator.Custom(FieldPermissions, permissions == nil, "This field is required")
	validatePermissions(validator, permissions)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	before, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	normalized := sec.NormalizePermissions(permissions)
	if err := service.repository.UpdatePermissions(ctx, id, normalized); err != nil {
		return nil, err
	}

	after := *before
	after.Permissions = normalized
	admin := FromAccount(&after)

	service.revokeSessions(ctx, id)
	audit.Write(ctx, service.audit, audit.Entry{
		Action: "business_admin.update_permissions", EntityType: AuditEntity, EntityID: id,
		Before: FromAccount(before), After: admin,
	})
	service.logger.Info("business_admin_permissions_updated", slog.String("id", id), slog.Int("count", len(normalized)))

	return &admin, nil
}

// SetStatus enables or disables an account. Disabling revokes its sessions.
func (service *Service) SetStatus(ctx context.Context, id string, status auth.Status) (*BusinessAdmin, error) {
	validator := &validate.Validator{}
	validator.OneOf(FieldStatus, string(status), string(auth.StatusActive), string(auth.StatusDisabled))
	if err := validator.Err(); err != nil {
		return nil, err
	}

	before, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := service.repository.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	after := *before
	after.Status = status
	admin := FromAccount(&after)

	if status == auth.StatusDisabled {
		service.revokeSessions(ctx, id)
	}
	audit.Write(ctx, service.audit, audit.Entry{
		Action: "business_admin.set_status", EntityType: AuditEntity, EntityID: id,
		Before: FromAccount(before), After: admin,
	})
	service.logger.Info("business_admin_status_changed", slog.String("id", id), slog.String("status", string(status)))

	return &admin, nil
}

// Delete removes an account and its sessions.
func (service *Service) Delete(ctx context.Context, id string) error {
	before, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := service.repository.Delete(ctx, id); err != nil {
		return err
	}

	service.revokeSessions(ctx, id)
	audit.Write(ctx, service.audit, audit.Entry{
		Action: "business_admin.delete", EntityType: AuditEntity, EntityID: id, Before: FromAccount(before),
	})
	service.logger.Info("business_admin_deleted", slog.String("id", id))
	return nil
}

func (service *Service) revokeSessions(ctx context.Context, id string) {
	if err := service.sessions.DeleteByAccount(ctx, id); err != nil {
		service.logger.Warn("business_admin_session_revoke_failed", slog.String("id", id), slog.Any("error", err))
	}
}

func validatePermissions(validator *validate.Validator, permissions []sec.Permission) {
	for _, permission := range permissions {
		if !permission.Valid() {
			validator.Custom(FieldPermissions, true, fmt.Sprintf("Unknown permission %q", permission))
		}
	}
}
