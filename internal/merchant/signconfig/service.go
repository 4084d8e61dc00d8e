// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package signconfig

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/merchantdesk/internal/platform/apperr"
	"github.com/taibuivan/merchantdesk/internal/platform/audit"
	"github.com/taibuivan/merchantdesk/internal/platform/validate"
	"github.com/taibuivan/merchantdesk/pkg/uuid"
)

// Checker checks that a Sign-service URL answers.
type Checker interface {
	Check(ctx context.Context, url string) TestResult
}

// Service implements Sign-service configuration use cases.
type Service struct {
	repository Repository
	checker     Checker
	audit      audit.Recorder
	logger     *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repository Repository, checker Checker, recorder audit.Recorder, logger *slog.Logger) *Service {
	return &Service{repository: repository, checker: checker, audit: recorder, logger: logger}
}

// List returns the merchant's configurations, oldest first.
func (service *Service) List(ctx context.Context, merchantDomain string) ([]Config, error) {
	configs, err := service.repository.List(ctx, merchantDomain)
	if err != nil {
		return nil, fmt.Errorf("signconfig_service_list_failed: %w", err)
	}
	return configs, nil
}

/*
Create adds a configuration.

Description: New configurations are inactive, except when the merchant has
no active configuration yet, in which case the new one becomes active.

Parameters:
  - ctx: context.Context
  - merchantDomain: string
  - input: Input

Returns:
  - *Config: The stored configuration
  - error: ValidationError or storage failures
*/
func (service *Service) Create(ctx context.Context, merchantDomain string, input Input) (*Config, error) {
	input = normalize(input)
	if err := Validate(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := &Config{
		ID:          uuid.New(),
		URL:         input.URL,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := service.repository.Apply(ctx, merchantDomain, func(current []Config) (Plan, error) {
		created.IsActive = ShouldActivateNew(current)
		return Plan{Insert: created}, nil
	})
	if err != nil {
		return nil, service.wrap("create", err)
	}

	service.record(ctx, "sign_config.create", created.ID, nil, created)
	service.logger.Info("sign_config_created",
		slog.String("id", created.ID),
		slog.String("merchant_domain", merchantDomain),
		slog.Bool("active", created.IsActive),
	)
	return created, nil
}

// Update replaces the URL and description of a configuration.
func (service *Service) Update(ctx context.Context, merchantDomain, id string, input Input) (*Config, error) {
	input = normalize(input)
	if err := Validate(input); err != nil {
		return nil, err
	}

	var before, after Config
	err := service.repository.Apply(ctx, merchantDomain, func(current []Config) (Plan, error) {
		found, ok := find(current, id)
		if !ok {
			return Plan{}, apperr.NotFound(MessageNotFound)
		}
		before, after = found, found
		after.URL, after.Description, after.UpdatedAt = input.URL, input.Description, time.Now().UTC()
		return Plan{Updates: []Config{after}}, nil
	})
	if err != nil {
		return nil, service.wrap("update", err)
	}

	service.record(ctx, "sign_config.update", id, before, after)
	service.logger.Info("sign_config_updated", slog.String("id", id))
	return &after, nil
}

// Delete removes a configuration unless it is the only active one.
func (service *Service) Delete(ctx context.Context, merchantDomain, id string) error {
	var before Config
	err := service.repository.Apply(ctx, merchantDomain, func(current []Config) (Plan, error) {
		if err := CheckRemove(current, id); err != nil {
			return Plan{}, err
		}
		before, _ = find(current, id)
		return Plan{DeleteID: id}, nil
	})
	if err != nil {
		return service.wrap("delete", err)
	}

	service.record(ctx, "sign_config.delete", id, before, nil)
	service.logger.Info("sign_config_deleted", slog.String("id", id))
	return nil
}

// Activate makes id the only active configuration of the merchant.
func (service *Service) Activate(ctx context.Context, merchantDomain, id string) ([]Config, error) {
	var result []Config
	err := service.repository.Apply(ctx, merchantDomain, func(current []Config) (Plan, error) {
		activated, err := Activate(current, id)
		if err != nil {
			return Plan{}, err
		}

		now := time.Now().UTC()
		var changed []Config
		for i := range activated {
			if activated[i].IsActive != current[i].IsActive {
				activated[i].UpdatedAt = now
				changed = append(changed, activated[i])
			}
		}
		result = activated
		return Plan{Updates: changed}, nil
	})
	if err != nil {
		return nil, service.wrap("activate", err)
	}

	service.record(ctx, "sign_config.activate", id, nil, map[string]string{"activeId": id})
	service.logger.Info("sign_config_activated", slog.String("id", id), slog.String("merchant_domain", merchantDomain))
	return result, nil
}

// Test checks url. An unreachable service is a failed result, not an error.
func (service *Service) Test(ctx context.Context, url string) (*TestResult, error) {
	url = strings.TrimSpace(url)

	validator := &validate.Validator{}
	validator.Required(FieldURL, url).URL(FieldURL, url)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	result := service.checker.Check(ctx, url)
	service.logger.Info("sign_config_tested", slog.String("url", url), slog.Bool("success", result.Success))
	return &result, nil
}

func (service *Service) record(ctx context.Context, action, id string, before, after any) {
	audit.Write(ctx, service.audit, audit.Entry{Action: action, EntityType: AuditEntity, EntityID: id, Before: before, After: after})
}

func (service *Service) wrap(operation string, err error) error {
	if apperr.IsAppError(err) {
		return err
	}
	return fmt.Errorf("signconfig_service_%s_failed: %w", operation, err)
}

func normalize(input Input) Input {
	return Input{URL: strings.TrimSpace(input.URL), Description: strings.TrimSpace(input.Description)}
}
