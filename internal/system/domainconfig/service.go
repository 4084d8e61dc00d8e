// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package domainconfig

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/merchantdesk/internal/platform/apperr"
	"github.com/taibuivan/merchantdesk/internal/platform/audit"
	"github.com/taibuivan/merchantdesk/internal/platform/validate"
)

// Service reads and replaces the domain configuration.
type Service struct {
	repository Repository
	audit      audit.Recorder
	logger     *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repository Repository, recorder audit.Recorder, logger *slog.Logger) *Service {
	return &Service{repository: repository, audit: recorder, logger: logger}
}

// Get returns the current configuration.
func (service *Service) Get(ctx context.Context) (*DomainConfig, error) {
	return service.repository.Get(ctx)
}

// MerchantDomain returns the configured merchant domain, the merchant a
// system administrator manages by default.
func (service *Service) MerchantDomain(ctx context.Context) (string, error) {
	config, err := service.repository.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("domainconfig_service_get_failed: %w", err)
	}
	if config == nil || config.MerchantDomain == "" {
		return "", apperr.NotFound("Domain configuration")
	}
	return config.MerchantDomain, nil
}

// Put validates and stores a new configuration.
func (service *Service) Put(ctx context.Context, merchantDomain, callbackURL string) (*DomainConfig, error) {
	merchantDomain = strings.TrimSpace(merchantDomain)
	callbackURL = strings.TrimSpace(callbackURL)

	validator := &validate.Validator{}
	validator.Required(FieldMerchantDomain, merchantDomain).
		Domain(FieldMerchantDomain, merchantDomain).
		Required(FieldCallbackURL, callbackURL).
		URL(FieldCallbackURL, callbackURL)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	before, err := service.repository.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("domainconfig_service_get_failed: %w", err)
	}

	now := time.Now().UTC()
	config := &DomainConfig{MerchantDomain: merchantDomain, CallbackURL: callbackURL, UpdatedAt: &now}
	if err := service.repository.Put(ctx, config); err != nil {
		return nil, fmt.Errorf("domainconfig_service_put_failed: %w", err)
	}

	audit.Write(ctx, service.audit, audit.Entry{
		Action: "domain_config.update", EntityType: "domain_config", EntityID: "1", Before: before, After: config,
	})
	service.logger.Info("domain_config_updated", slog.String("merchant_domain", merchantDomain))
	return config, nil
}
