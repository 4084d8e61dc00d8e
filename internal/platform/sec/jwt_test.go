// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/merchantdesk/internal/platform/sec"
)

func newTokenService(t *testing.T, issuer string) *sec.TokenService {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return sec.NewTokenServiceFromKeys(key, &key.PublicKey, issuer)
}

/*
TestTokenService_RoundTrip signs and verifies a business-admin token.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTokenService(t, "merchantdesk.test")

	token, err := service.GenerateAccessToken(sec.TokenSubject{
		UserID:         "acc-1",
		Account:        "business_admin_1",
		Role:           sec.RoleBusinessAdmin,
		MerchantDomain: "test.yc365.com",
		Permissions:    []sec.Permission{sec.PermViewAssets, sec.PermConfigureSign},
	}, "session-1", time.Minute)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)

	assert.Equal(t, "acc-1", claims.UserID)
	assert.Equal(t, "session-1", claims.SessionID())
	assert.Equal(t, sec.RoleBusinessAdmin, claims.Role)
	assert.True(t, claims.Can(sec.PermConfigureSign))
	assert.False(t, claims.Can(sec.PermAllocatePoint))
}

/*
TestTokenService_Rejects covers expired, foreign-issuer and foreign-key tokens.
*/
func TestTokenService_Rejects(t *testing.T) {
	service := newTokenService(t, "merchantdesk.test")
	subject := sec.TokenSubject{UserID: "acc-1", Role: sec.RoleSystemAdmin}

	expired, err := service.GenerateAccessToken(subject, "s", -time.Minute)
	require.NoError(t, err)
	_, err = service.VerifyToken(expired)
	assert.Error(t, err)

	foreignIssuer, err := newTokenService(t, "elsewhere").GenerateAccessToken(subject, "s", time.Minute)
	require.NoError(t, err)
	_, err = service.VerifyToken(foreignIssuer)
	assert.Error(t, err)

	_, err = service.VerifyToken("not-a-token")
	assert.Error(t, err)
}

/*
TestPermissions covers the role defaults and normalization.
*/
func TestPermissions(t *testing.T) {
	assert.Empty(t, sec.DefaultPermissions(sec.RoleSystemAdmin))
	assert.Len(t, sec.DefaultPermissions(sec.RoleBusinessAdmin), 6)

	normalized := sec.NormalizePermissions([]sec.Permission{
		sec.PermConfigureSign, sec.PermViewAssets, sec.PermConfigureSign, "bogus",
	})
	assert.Equal(t, []sec.Permission{sec.PermViewAssets, sec.PermConfigureSign}, normalized)

	assert.True(t, sec.RoleSystemAdmin.Valid())
	assert.False(t, sec.Role("root").Valid())
}

/*
TestRandomString draws from the base62 alphabet.
*/
func TestRandomString(t *testing.T) {
	value, err := sec.RandomString(32)
	require.NoError(t, err)
	assert.Len(t, value, 32)
	assert.Regexp(t, `^[0-9A-Za-z]{32}$`, value)
}
