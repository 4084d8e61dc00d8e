// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apikey

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/merchantdesk/internal/platform/apperr"
	"github.com/taibuivan/merchantdesk/internal/platform/audit"
	"github.com/taibuivan/merchantdesk/internal/platform/validate"
	"github.com/taibuivan/merchantdesk/pkg/format"
	"github.com/taibuivan/merchantdesk/pkg/uuid"
)

// Service implements API key use cases.
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

// List returns every key of the merchant.
func (service *Service) List(ctx context.Context, merchantDomain string) ([]APIKey, error) {
	keys, err := service.repository.List(ctx, merchantDomain)
	if err != nil {
		return nil, fmt.Errorf("apikey_service_list_failed: %w", err)
	}
	return keys, nil
}

// ActiveCount returns the number of active keys, used by the dashboard.
func (service *Service) ActiveCount(ctx context.Context, merchantDomain string) (int, error) {
	keys, err := service.List(ctx, merchantDomain)
	if err != nil {
		return 0, err
	}
	return CountActive(keys), nil
}

/*
Create issues a new active key.

Parameters:
  - ctx: context.Context
  - merchantDomain: string
  - name: string

Returns:
  - *APIKey: The new key, including its secret
  - error: ValidationError, InvariantViolation when the merchant already
    holds the maximum number of keys, or storage failures
*/
func (service *Service) Create(ctx context.Context, merchantDomain, name string) (*APIKey, error) {
	name = strings.TrimSpace(name)
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	now := service.now().UTC()
	secret, err := GenerateKey(now)
	if err != nil {
		return nil, fmt.Errorf("apikey_service_generate_failed: %w", err)
	}

	created := &APIKey{ID: uuid.New(), Key: secret, Name: name, CreatedAt: now, Status: StatusActive}
	err = service.repository.Apply(ctx, merchantDomain, func(current []APIKey) (Plan, error) {
		if err := CheckCreate(current); err != nil {
			return Plan{}, err
		}
		return Plan{Insert: created}, nil
	})
	if err != nil {
		return nil, service.wrap("create", err)
	}

	service.record(ctx, "api_key.create", created.ID, nil, redact(*created))
	service.logger.Info("api_key_created", slog.String("id", created.ID), slog.String("merchant_domain", merchantDomain))
	return created, nil
}

// Rename changes the display name of a key.
func (service *Service) Rename(ctx context.Context, merchantDomain, id, name string) (*APIKey, error) {
	name = strings.TrimSpace(name)
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	return service.modify(ctx, merchantDomain, id, "api_key.rename", func(_ []APIKey, key *APIKey) error {
		key.Name = name
		return nil
	})
}

// SetStatus enables or disables a key. Enabling respects the active limit.
func (service *Service) SetStatus(ctx context.Context, merchantDomain, id string, status Status) (*APIKey, error) {
	validator := &validate.Validator{}
	validator.OneOf(FieldStatus, string(status), string(StatusActive), string(StatusDisabled))
	if err := validator.Err(); err != nil {
		return nil, err
	}

	return service.modify(ctx, merchantDomain, id, "api_key.set_status", func(current []APIKey, key *APIKey) error {
		if status == StatusActive && key.Status != StatusActive {
			if err := CheckActivation(CountActive(current)); err != nil {
				return err
			}
		}
		key.Status = status
		return nil
	})
}

// Regenerate replaces the secret of a key while keeping its identity.
func (service *Service) Regenerate(ctx context.Context, merchantDomain, id string) (*APIKey, error) {
	secret, err := GenerateKey(service.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("apikey_service_generate_failed: %w", err)
	}

	return service.modify(ctx, merchantDomain, id, "api_key.regenerate", func(_ []APIKey, key *APIKey) error {
		key.Key = secret
		return nil
	})
}

// Delete removes a key.
func (service *Service) Delete(ctx context.Context, merchantDomain, id string) error {
	var before APIKey
	err := service.repository.Apply(ctx, merchantDomain, func(current []APIKey) (Plan, error) {
		found, ok := find(current, id)
		if !ok {
			return Plan{}, apperr.NotFound(resourceName)
		}
		before = found
		return Plan{DeleteID: id}, nil
	})
	if err != nil {
		return service.wrap("delete", err)
	}

	service.record(ctx, "api_key.delete", id, redact(before), nil)
	service.logger.Info("api_key_deleted", slog.String("id", id))
	return nil
}

// Traffic returns the usage report of a key.
func (service *Service) Traffic(ctx context.Context, merchantDomain, id string) (*Traffic, error) {
	keys, err := service.List(ctx, merchantDomain)
	if err != nil {
		return nil, err
	}

	key, ok := find(keys, id)
	if !ok {
		return nil, apperr.NotFound(resourceName)
	}

	return &Traffic{
		Traffic:   key.Traffic,
		Formatted: format.Traffic(key.Traffic),
		Details:   TrafficDetails{LastUsedAt: key.LastUsedAt},
	}, nil
}

func (service *Service) modify(ctx context.Context, merchantDomain, id, action string, change func(current []APIKey, key *APIKey) error) (*APIKey, error) {
	var before, after APIKey
	err := service.repository.Apply(ctx, merchantDomain, func(current []APIKey) (Plan, error) {
		found, ok := find(current, id)
		if !ok {
			return Plan{}, apperr.NotFound(resourceName)
		}
		before, after = found, found
		if err := change(current, &after); err != nil {
			return Plan{}, err
		}
		return Plan{Update: &after}, nil
	})
	if err != nil {
		return nil, service.wrap(strings.TrimPrefix(action, "api_key."), err)
	}

	service.record(ctx, action, id, redact(before), redact(after))
	service.logger.Info("api_key_updated", slog.String("id", id), slog.String("action", action))
	return &after, nil
}

func (service *Service) record(ctx context.Context, action, id string, before, after any) {
	audit.Write(ctx, service.audit, audit.Entry{Action: action, EntityType: AuditEntity, EntityID: id, Before: before, After: after})
}

func (service *Service) wrap(operation string, err error) error {
	if apperr.IsAppError(err) {
		return err
	}
	return fmt.Errorf("apikey_service_%s_failed: %w", operation, err)
}

func find(keys []APIKey, id string) (APIKey, bool) {
	for _, key := range keys {
		if key.ID == id {
			return key, true
		}
	}
	return APIKey{}, false
}

// redact keeps secrets out of the audit trail.
func redact(key APIKey) APIKey {
	key.Key = format.Address(key.Key, 6, 4)
	return key
}
