// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/taibuivan/merchantdesk/internal/platform/apperr"
	"github.com/taibuivan/merchantdesk/internal/platform/sec"
	"github.com/taibuivan/merchantdesk/internal/platform/validate"
	"github.com/taibuivan/merchantdesk/pkg/uuid"
)

// # Contracts & Types

// TokenProvider signs and verifies access tokens.
type TokenProvider interface {
	GenerateAccessToken(subject sec.TokenSubject, sessionID string, timeToLive time.Duration) (string, error)
	VerifyToken(token string) (*sec.AuthClaims, error)
}

// Service implements console authentication use cases.
type Service struct {
	accounts AccountRepository
	sessions SessionRepository
	tokens   TokenProvider
	tokenTTL time.Duration
	logger   *slog.Logger
	logins   *prometheus.CounterVec
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	accounts AccountRepository,
	sessions SessionRepository,
	tokens TokenProvider,
	tokenTTL time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{
		accounts: accounts,
		sessions: sessions,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		logger:   logger,
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "merchantdesk",
			Name:      "auth_logins_total",
			Help:      "Login attempts by role and result.",
		}, []string{"role", "result"}),
	}
}

// Collectors exposes the service metrics for registration.
func (service *Service) Collectors() []prometheus.Collector {
	return []prometheus.Collector{service.logins}
}

// # Authentication Flow

// LoginInput holds a login form submission.
type LoginInput struct {
	MerchantDomain string
	Account        string
	Role           sec.Role
	Password       string
}

// LoginResult is the `{token, user}` payload of a successful login.
type LoginResult struct {
	Token string   `json:"token"`
	User  Identity `json:"user"`
}

/*
Login validates credentials and opens a session.

Description: Every field is required. The account must match the merchant
domain, account name and role, be active, and the password must verify.
Failures share one message to prevent account enumeration.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginResult: Signed token and identity
  - error: ValidationError, Unauthorized, or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginResult, error) {
	validator := &validate.Validator{}
	validator.Required(FieldMerchantDomain, input.MerchantDomain).
		Required(FieldAccount, input.Account).
		Required(FieldPassword, input.Password).
		OneOf(FieldRole, string(input.Role), string(sec.RoleSystemAdmin), string(sec.RoleBusinessAdmin))
	if err := validator.Err(); err != nil {
		return nil, err
	}

	account, err := service.accounts.FindByLogin(context, input.MerchantDomain, input.Account, input.Role)
	if err != nil {
		if apperr.IsCode(err, apperr.CodeNotFound) {
			service.logins.WithLabelValues(string(input.Role), "rejected").Inc()
			return nil, apperr.Unauthorized("Invalid login credentials")
		}
		return nil, fmt.Errorf("auth_service_login_failed: %w", err)
	}

	// Constant-time comparison inside bcrypt
	if account.Status != StatusActive || !sec.PasswordMatches(account.PasswordHash, input.Password) {
		service.logins.WithLabelValues(string(input.Role), "rejected").Inc()
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	now := time.Now().UTC()
	account.LastLoginAt = &now

	token, err := service.openSession(context, account)
	if err != nil {
		return nil, err
	}

	if err := service.accounts.TouchLastLogin(context, account.ID, now); err != nil {
		service.logger.Warn("auth_last_login_update_failed", slog.String("account_id", account.ID), slog.Any("error", err))
	}

	service.logins.WithLabelValues(string(input.Role), "accepted").Inc()
	service.logger.Info("auth_login_succeeded",
		slog.String("account_id", account.ID),
		slog.String("role", string(account.Role)),
	)

	return &LoginResult{Token: token, User: account.Identity()}, nil
}

// openSession signs a token and records its jti in the session store.
func (service *Service) openSession(context context.Context, account *Account) (string, error) {
	identity := account.Identity()
	sessionID := uuid.New()

	token, err := service.tokens.GenerateAccessToken(sec.TokenSubject{
		UserID:         account.ID,
		Account:        account.Account,
		Role:           account.Role,
		MerchantDomain: account.MerchantDomain,
		Permissions:    identity.Permissions,
	}, sessionID, service.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	if err := service.sessions.Create(context, sessionID, account.ID, service.tokenTTL); err != nil {
		return "", fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return token, nil
}

/*
VerifyToken checks the token signature and that its session is still live.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - *sec.AuthClaims: Verified claims
  - error: Unauthorized when invalid, expired or logged out
*/
func (service *Service) VerifyToken(context context.Context, token string) (*sec.AuthClaims, error) {
	claims, err := service.tokens.VerifyToken(token)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired token")
	}

	live, err := service.sessions.Exists(context, claims.SessionID())
	if err != nil {
		return nil, fmt.Errorf("auth_service_session_lookup_failed: %w", err)
	}
	if !live {
		return nil, apperr.Unauthorized("Session has ended")
	}

	return claims, nil
}

/*
Logout ends the session behind the given claims.

Description: Idempotent. A session that is already gone counts as success.
*/
func (service *Service) Logout(context context.Context, claims *sec.AuthClaims) error {
	if claims == nil {
		return nil
	}

	if err := service.sessions.Delete(context, claims.SessionID()); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	service.logger.Info("auth_logout", slog.String("account_id", claims.UserID))
	return nil
}

// Current returns the identity of an account.
func (service *Service) Current(context context.Context, accountID string) (*Identity, error) {
	account, err := service.accounts.FindByID(context, accountID)
	if err != nil {
		return nil, err
	}
	identity := account.Identity()
	return &identity, nil
}

// ChangePasswordInput holds a password change request.
type ChangePasswordInput struct {
	OldPassword string
	NewPassword string
}

/*
ChangePassword replaces the caller's password.

Description: The old password must verify, and the new one must have at
least eight characters and differ from the old. The current session is
revoked afterwards so the console signs in again.

Parameters:
  - context: context.Context
  - claims: *sec.AuthClaims
  - input: ChangePasswordInput

Returns:
  - error: ValidationError, Unauthorized, or storage failures
*/
func (service *Service) ChangePassword(context context.Context, claims *sec.AuthClaims, input ChangePasswordInput) error {
	validator := &validate.Validator{}
	validator.Required(FieldOldPassword, input.OldPassword).
		Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, NewPasswordMinLength).
		Custom(FieldNewPassword, len(input.NewPassword) > sec.MaxPasswordBytes, "Maximum 72 bytes").
		Custom(FieldNewPassword, input.NewPassword != "" && input.NewPassword == input.OldPassword,
			"New password must differ from the old one")
	if err := validator.Err(); err != nil {
		return err
	}

	account, err := service.accounts.FindByID(context, claims.UserID)
	if err != nil {
		return err
	}

	if !sec.PasswordMatches(account.PasswordHash, input.OldPassword) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	hash, err := sec.HashPassword(input.NewPassword)
	if err != nil {
		return fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	if err := service.accounts.UpdatePassword(context, account.ID, hash); err != nil {
		return fmt.Errorf("auth_service_change_password_failed: %w", err)
	}

	if err := service.sessions.Delete(context, claims.SessionID()); err != nil {
		service.logger.Warn("auth_session_revoke_failed", slog.String("account_id", account.ID), slog.Any("error", err))
	}

	service.logger.Info("auth_password_changed", slog.String("account_id", account.ID))
	return nil
}

/*
EnsureSystemAdmin creates the first system administrator when absent.

Description: Used on startup when bootstrap credentials are configured.
An existing account is left untouched.
*/
func (service *Service) EnsureSystemAdmin(context context.Context, account, password string) error {
	_, err := service.accounts.FindByLogin(context, "", account, sec.RoleSystemAdmin)
	if err == nil {
		return nil
	}
	if !apperr.IsCode(err, apperr.CodeNotFound) {
		return fmt.Errorf("auth_service_bootstrap_lookup_failed: %w", err)
	}

	hash, err := sec.HashPassword(password)
	if err != nil {
		return fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	admin := &Account{
		ID:           uuid.New(),
		Account:      account,
		Role:         sec.RoleSystemAdmin,
		Permissions:  []sec.Permission{},
		PasswordHash: hash,
		Status:       StatusActive,
	}
	if err := service.accounts.Create(context, admin); err != nil {
		return fmt.Errorf("auth_service_bootstrap_failed: %w", err)
	}

	service.logger.Info("auth_system_admin_bootstrapped", slog.String("account", account))
	return nil
}
