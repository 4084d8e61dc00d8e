// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package signconfig

import (
	"strings"

	"github.com/taibuivan/merchantdesk/internal/platform/apperr"
	"github.com/taibuivan/merchantdesk/internal/platform/validate"
)

// Messages reported for invariant breaches.
const (
	MessageKeepOneActive = "At least one active Sign service configuration is required"
	MessageNotFound      = "Sign service configuration"
)

// Validate checks a create or update form.
func Validate(input Input) error {
	validator := &validate.Validator{}
	validator.Required(FieldURL, input.URL).
		URL(FieldURL, strings.TrimSpace(input.URL)).
		Required(FieldDescription, input.Description).
		MaxLen(FieldDescription, input.Description, MaxDescriptionLength)
	return validator.Err()
}

func find(configs []Config, id string) (Config, bool) {
	for _, config := range configs {
		if config.ID == id {
			return config, true
		}
	}
	return Config{}, false
}

func activeCount(configs []Config) int {
	count := 0
	for _, config := range configs {
		if config.IsActive {
			count++
		}
	}
	return count
}

// ShouldActivateNew reports whether a configuration added to configs must
// be created active, which is the case when none is active yet.
func ShouldActivateNew(configs []Config) bool {
	return activeCount(configs) == 0
}

// CheckRemove rejects removing the only active configuration.
func CheckRemove(configs []Config, id string) error {
	target, ok := find(configs, id)
	if !ok {
		return apperr.NotFound(MessageNotFound)
	}
	if target.IsActive && activeCount(configs) <= 1 {
		return apperr.InvariantViolation(MessageKeepOneActive)
	}
	return nil
}

// CheckDeactivate rejects clearing the flag of the only active configuration.
func CheckDeactivate(configs []Config, id string) error {
	return CheckRemove(configs, id)
}

// Activate returns a copy of configs where only id is active.
func Activate(configs []Config, id string) ([]Config, error) {
	if _, ok := find(configs, id); !ok {
		return nil, apperr.NotFound(MessageNotFound)
	}

	out := make([]Config, len(configs))
	for i, config := range configs {
		config.IsActive = config.ID == id
		out[i] = config
	}
	return out, nil
}
