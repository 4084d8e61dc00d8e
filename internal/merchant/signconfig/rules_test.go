// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package signconfig_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/merchantdesk/internal/merchant/signconfig"
	"github.com/taibuivan/merchantdesk/internal/platform/apperr"
)

func configs() []signconfig.Config {
	return []signconfig.Config{
		{ID: "a", URL: "https://sign-a.example.com", IsActive: true},
		{ID: "b", URL: "https://sign-b.example.com"},
	}
}

/*
TestCheckRemove protects the only active configuration.
*/
func TestCheckRemove(t *testing.T) {
	tests := []struct {
		name     string
		configs  []signconfig.Config
		id       string
		wantCode string
	}{
		{"inactive", configs(), "b", ""},
		{"only_active_with_others", configs(), "a", apperr.CodeInvariant},
		{"sole_config", configs()[:1], "a", apperr.CodeInvariant},
		{"missing", configs(), "zzz", apperr.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := signconfig.CheckRemove(tt.configs, tt.id)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperr.IsCode(err, tt.wantCode), "got %v", err)
		})
	}

	assert.True(t, apperr.IsCode(signconfig.CheckDeactivate(configs(), "a"), apperr.CodeInvariant))
}

/*
TestActivate leaves exactly one active configuration and does not touch its input.
*/
func TestActivate(t *testing.T) {
	input := configs()

	activated, err := signconfig.Activate(input, "b")
	require.NoError(t, err)

	assert.False(t, activated[0].IsActive)
	assert.True(t, activated[1].IsActive)
	assert.True(t, input[0].IsActive, "input must not change")

	again, err := signconfig.Activate(activated, "b")
	require.NoError(t, err)
	assert.Equal(t, activated, again)

	_, err = signconfig.Activate(input, "zzz")
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

/*
TestValidate covers the form rules.
*/
func TestValidate(t *testing.T) {
	assert.NoError(t, signconfig.Validate(signconfig.Input{URL: "https://sign.example.com", Description: "Primary"}))
	assert.Error(t, signconfig.Validate(signconfig.Input{URL: "sign.example.com", Description: "Primary"}))
	assert.Error(t, signconfig.Validate(signconfig.Input{URL: "https://sign.example.com", Description: " "}))
	assert.True(t, signconfig.ShouldActivateNew(nil))
	assert.False(t, signconfig.ShouldActivateNew(configs()))
}
