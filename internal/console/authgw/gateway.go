// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package authgw turns login submissions into a console session.

Online, credentials go to POST /auth/login. Offline, the gateway fabricates
an identity the way the fixture backend would. Either way the session store
is written only after the whole identity is known, so a failed login leaves
the previous session untouched.
*/
package authgw

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/taibuivan/merchantdesk/internal/auth"
	"github.com/taibuivan/merchantdesk/internal/console/resource"
	"github.com/taibuivan/merchantdesk/internal/console/session"
	"github.com/taibuivan/merchantdesk/internal/platform/apperr"
	"github.com/taibuivan/merchantdesk/internal/platform/sec"
	"github.com/taibuivan/merchantdesk/internal/platform/validate"
	"github.com/taibuivan/merchantdesk/pkg/uuid"
)

// API paths used by the gateway.
const (
	PathLogin  = "/auth/login"
	PathLogout = "/auth/logout"
)

// OfflineTokenPrefix starts every token minted without a backend.
const OfflineTokenPrefix = "mock-jwt-token-"

// logoutTimeout bounds the best-effort logout notification.
const logoutTimeout = 5 * time.Second

// Credentials is a login form submission.
type Credentials struct {
	MerchantDomain string   `json:"merchantDomain"`
	Account        string   `json:"account"`
	Role           sec.Role `json:"role"`
	Password       string   `json:"password"`
}

// Validate requires every field and a known role.
func (c Credentials) Validate() error {
	validator := &validate.Validator{}
	validator.Required(auth.FieldMerchantDomain, c.MerchantDomain).
		Required(auth.FieldAccount, c.Account).
		Required(auth.FieldPassword, c.Password).
		OneOf(auth.FieldRole, string(c.Role), string(sec.RoleSystemAdmin), string(sec.RoleBusinessAdmin))
	return validator.Err()
}

// Gateway writes the session store on login and clears it on logout.
type Gateway struct {
	client  *resource.Client
	store   *session.Store
	offline bool
	now     func() time.Time
	logger  zerolog.Logger
}

// New returns a gateway. client may be nil when offline is true.
func New(client *resource.Client, store *session.Store, offline bool, logger zerolog.Logger) *Gateway {
	return &Gateway{client: client, store: store, offline: offline, now: time.Now, logger: logger}
}

/*
Login validates credentials and opens a session.

Returns:
  - session.Session: The authenticated snapshot
  - error: ValidationError for missing fields, GenericFailure (or the
    classified transport error) when the backend refuses
*/
func (gateway *Gateway) Login(ctx context.Context, credentials Credentials) (session.Session, error) {
	credentials.MerchantDomain = strings.TrimSpace(credentials.MerchantDomain)
	credentials.Account = strings.TrimSpace(credentials.Account)

	if err := credentials.Validate(); err != nil {
		return gateway.store.Snapshot(), err
	}

	var (
		result *auth.LoginResult
		err    error
	)
	if gateway.offline {
		result = gateway.simulate(credentials)
	} else {
		result, err = gateway.remote(ctx, credentials)
	}
	if err != nil {
		gateway.logger.Debug().Err(err).Str("account", credentials.Account).Msg("console_login_failed")
		return gateway.store.Snapshot(), err
	}

	if err := gateway.store.SetIdentity(ctx, result.User, result.Token); err != nil {
		return gateway.store.Snapshot(), apperr.GenericFailure(0, fmt.Sprintf("Could not save session: %v", err))
	}

	gateway.logger.Info().
		Str("account", result.User.Account).
		Str("role", string(result.User.Role)).
		Bool("offline", gateway.offline).
		Msg("console_login_succeeded")

	return gateway.store.Snapshot(), nil
}

func (gateway *Gateway) remote(ctx context.Context, credentials Credentials) (*auth.LoginResult, error) {
	result, err := resource.Do[auth.LoginResult](ctx, gateway.client.Anonymous(), http.MethodPost, PathLogin, credentials)
	if err != nil {
		// A 401 here means bad credentials, not an expired session.
		if failure := apperr.As(err); failure != nil && failure.Code == apperr.CodeUnauthorized {
			return nil, apperr.GenericFailure(failure.HTTPStatus, failure.Message)
		}
		return nil, err
	}
	if result.Token == "" || result.User.ID == "" {
		return nil, apperr.GenericFailure(0, "Login response is missing the session")
	}
	return &result, nil
}

// simulate builds the identity an offline login receives.
func (gateway *Gateway) simulate(credentials Credentials) *auth.LoginResult {
	now := gateway.now().UTC()

	return &auth.LoginResult{
		Token: fmt.Sprintf("%s%d", OfflineTokenPrefix, now.UnixMilli()),
		User: auth.Identity{
			ID:             uuid.New(),
			Account:        credentials.Account,
			Role:           credentials.Role,
			MerchantDomain: credentials.MerchantDomain,
			Permissions:    sec.DefaultPermissions(credentials.Role),
			CreatedAt:      now,
			LastLoginAt:    &now,
		},
	}
}

// Logout clears the session first, then tells the backend on a best-effort
// basis using the token that was just discarded.
func (gateway *Gateway) Logout(ctx context.Context) error {
	token := gateway.store.Token()
	clearErr := gateway.store.Clear(ctx)

	if gateway.offline || gateway.client == nil || token == "" {
		return clearErr
	}

	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), logoutTimeout)
	defer cancel()

	if err := gateway.client.WithToken(token).Post(notifyCtx, PathLogout, nil, nil); err != nil {
		gateway.logger.Debug().Err(err).Msg("console_logout_notify_failed")
	}
	return clearErr
}
