// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package domainconfig stores the platform's merchant domain and callback URL.
package domainconfig

import (
	"context"
	"time"
)

// DomainConfig is the single platform-wide domain configuration.
type DomainConfig struct {
	MerchantDomain string     `json:"merchantDomain"`
	CallbackURL    string     `json:"callbackUrl"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
}

// Repository persists the configuration.
type Repository interface {
	// Get returns the stored configuration, or a zero value when none exists.
	Get(context context.Context) (*DomainConfig, error)

	// Put replaces the configuration.
	Put(context context.Context, config *DomainConfig) error
}

const (
	FieldMerchantDomain = "merchantDomain"
	FieldCallbackURL    = "callbackUrl"
)
