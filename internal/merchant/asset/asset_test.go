// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package asset_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/merchantdesk/internal/merchant/asset"
	"github.com/taibuivan/merchantdesk/internal/platform/ctxutil"
	"github.com/taibuivan/merchantdesk/internal/platform/sec"
)

type memoryRepository map[string]*asset.Assets

func (m memoryRepository) Get(_ context.Context, merchantDomain string) (*asset.Assets, error) {
	if assets, ok := m[merchantDomain]; ok {
		return assets, nil
	}
	return asset.New(decimal.Zero, decimal.Zero, ""), nil
}

/*
TestNew derives remaining from total and used without float rounding.
*/
func TestNew(t *testing.T) {
	assets := asset.New(decimal.RequireFromString("1000000.10"), decimal.RequireFromString("250000.05"), "0xabc")

	assert.Equal(t, "1000000.1", assets.TotalAssets)
	assert.Equal(t, "750000.05", assets.RemainingAssets)
	assert.Equal(t, "0xabc", assets.WalletAddress)
}

/*
TestHandler_ScopedToMerchant serves the caller's own merchant balance.
*/
func TestHandler_ScopedToMerchant(t *testing.T) {
	repository := memoryRepository{
		"a.example.com": asset.New(decimal.NewFromInt(100), decimal.NewFromInt(40), "0xa"),
		"b.example.com": asset.New(decimal.NewFromInt(9), decimal.Zero, "0xb"),
	}
	handler := asset.NewHandler(asset.NewService(repository))

	tests := []struct {
		name      string
		claims    *sec.AuthClaims
		status    int
		remaining string
	}{
		{"merchant_a", &sec.AuthClaims{Role: sec.RoleBusinessAdmin, MerchantDomain: "a.example.com"}, http.StatusOK, "60"},
		{"unknown_merchant", &sec.AuthClaims{Role: sec.RoleBusinessAdmin, MerchantDomain: "c.example.com"}, http.StatusOK, "0"},
		{"no_domain", &sec.AuthClaims{Role: sec.RoleBusinessAdmin}, http.StatusForbidden, ""},
		{"anonymous", nil, http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.claims != nil {
				request = request.WithContext(ctxutil.WithClaims(request.Context(), tt.claims))
			}
			recorder := httptest.NewRecorder()

			handler.Routes().ServeHTTP(recorder, request)
			require.Equal(t, tt.status, recorder.Code)

			if tt.status != http.StatusOK {
				return
			}
			var body struct {
				Code int          `json:"code"`
				Data asset.Assets `json:"data"`
			}
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Equal(t, 0, body.Code)
			assert.Equal(t, tt.remaining, body.Data.RemainingAssets)
		})
	}
}
