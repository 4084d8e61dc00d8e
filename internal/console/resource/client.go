// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package resource is the console's typed request layer over the MerchantDesk API.

Every response is decoded as the `{code, message, data}` envelope and
classified into the shared [apperr] taxonomy:

  - 0 or 200: success, data is unwrapped into the caller's value.
  - 401: the session is cleared and the OnUnauthorized hook fires.
  - 403, 404: Forbidden and NotFound; the session is kept.
  - 500 and above: ServerError. Nothing here retries.
  - Anything else: GenericFailure with the server message.

A call that never gets a response is NetworkUnavailable and never touches the
session. Callers use [Degrade] to render such failures as "no data".
*/
package resource

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/taibuivan/merchantdesk/internal/console/session"
	"github.com/taibuivan/merchantdesk/internal/platform/apperr"
	"github.com/taibuivan/merchantdesk/internal/platform/constants"
	"github.com/taibuivan/merchantdesk/pkg/pagination"
)

// DefaultTimeout bounds every call when the caller sets none.
const DefaultTimeout = 30 * time.Second

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 8 << 20

// Client issues authenticated calls against the API base URL.
type Client struct {
	baseURL        string
	http           *http.Client
	store          *session.Store
	token          string
	logger         zerolog.Logger
	onUnauthorized func()
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) { c.http = client }
}

// WithLogger attaches a request logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithOnUnauthorized registers the hook fired after a 401 cleared the session.
func WithOnUnauthorized(hook func()) Option {
	return func(c *Client) { c.onUnauthorized = hook }
}

// New returns a client for baseURL (for example http://localhost:8080/api).
func New(baseURL string, timeout time.Duration, store *session.Store, options ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		store:   store,
		logger:  zerolog.Nop(),
	}
	for _, option := range options {
		option(client)
	}
	return client
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Anonymous returns a copy of the client that sends no bearer token and
// never touches the session, for calls such as login.
func (c *Client) Anonymous() *Client {
	clone := *c
	clone.store = nil
	clone.onUnauthorized = nil
	return &clone
}

// WithToken returns a copy that authenticates with token instead of the
// session, for calls made after the session was cleared.
func (c *Client) WithToken(token string) *Client {
	clone := c.Anonymous()
	clone.token = token
	return clone
}

// envelope mirrors the server response body.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type failureData struct {
	Reason  string              `json:"reason"`
	Details []apperr.FieldError `json:"details"`
}

// # Verbs

// Get fetches path with optional query parameters.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

// Post sends body as JSON.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

// Put sends body as JSON.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

// Patch sends body as JSON.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, nil, body, out)
}

// Delete removes the resource at path.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, out)
}

/*
Do performs one call and classifies its outcome.

Description: The bearer token is read from the session on every call. On
success the envelope data is decoded into out (skipped when out is nil or
data is null). Context cancellation is returned as the context error, not as
NetworkUnavailable, so callers can tell "navigated away" from "offline".
*/
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	request, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}

	started := time.Now()
	response, err := c.http.Do(request)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Debug().Err(err).Str("method", method).Str("path", path).Msg("api_call_unreachable")
		return apperr.NetworkUnavailable(err)
	}
	defer func() { _ = response.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(response.Body, maxBodyBytes))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return apperr.NetworkUnavailable(err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", response.StatusCode).
		Dur("duration", time.Since(started)).
		Msg("api_call_finished")

	result := decodeEnvelope(response.StatusCode, raw)
	if err := c.classify(ctx, result); err != nil {
		return err
	}

	if out == nil || len(result.Data) == 0 || string(result.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(result.Data, out); err != nil {
		return apperr.GenericFailure(response.StatusCode, fmt.Sprintf("Unexpected response payload: %v", err))
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("resource: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("resource: build %s %s: %w", method, path, err)
	}

	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	token := c.token
	if c.store != nil {
		token = c.store.Token()
	}
	if token != "" {
		request.Header.Set(constants.HeaderAuthorization, "Bearer "+token)
	}
	return request, nil
}

// decodeEnvelope reads the body as an envelope. A body that is not an
// envelope is classified by its HTTP status instead.
func decodeEnvelope(status int, raw []byte) envelope {
	if status == http.StatusNoContent || (len(bytes.TrimSpace(raw)) == 0 && status < http.StatusBadRequest) {
		return envelope{}
	}

	var result envelope
	if err := json.Unmarshal(raw, &result); err != nil || (result.Code == 0 && status >= http.StatusBadRequest) {
		return envelope{Code: status, Message: strings.TrimSpace(http.StatusText(status))}
	}
	return result
}

// # Classification

// IsSuccess reports whether an envelope code means success.
func IsSuccess(code int) bool {
	return code == 0 || code == http.StatusOK
}

func (c *Client) classify(ctx context.Context, result envelope) error {
	if IsSuccess(result.Code) {
		return nil
	}

	var data failureData
	_ = json.Unmarshal(result.Data, &data)

	switch {
	case result.Code == http.StatusUnauthorized:
		c.expireSession(ctx)
		return apperr.Unauthorized(messageOr(result.Message, "Session expired, please log in again"))
	case result.Code == http.StatusForbidden:
		return apperr.Forbidden(messageOr(result.Message, "Access denied"))
	case result.Code == http.StatusNotFound:
		return &apperr.AppError{
			Code:       apperr.CodeNotFound,
			Message:    messageOr(result.Message, "Resource not found"),
			HTTPStatus: http.StatusNotFound,
		}
	case result.Code >= http.StatusInternalServerError:
		return apperr.ServerError(result.Code, result.Message)
	default:
		failure := apperr.GenericFailure(result.Code, result.Message)
		failure.Details = data.Details
		return failure
	}
}

func (c *Client) expireSession(ctx context.Context) {
	if c.store != nil {
		// The session is gone either way; a storage error only leaves a
		// stale file behind that the next Initialize will reject.
		if err := c.store.Clear(context.WithoutCancel(ctx)); err != nil {
			c.logger.Warn().Err(err).Msg("session_clear_failed")
		}
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}

func messageOr(message, fallback string) string {
	if strings.TrimSpace(message) == "" {
		return fallback
	}
	return message
}

// Degrade reports whether err means "no backend reachable", which screens
// render as empty data instead of an error.
func Degrade(err error) bool {
	return apperr.IsCode(err, apperr.CodeNetworkUnavailable)
}

// IsCanceled reports whether err comes from a cancelled or expired context.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// # Generic Helpers

// Do performs a request and decodes its data into a fresh T.
func Do[T any](ctx context.Context, client *Client, method, path string, body any) (T, error) {
	var out T
	err := client.Do(ctx, method, path, nil, body, &out)
	return out, err
}

// List fetches one page of path filtered by criteria.
func List[T any](ctx context.Context, client *Client, path string, criteria pagination.Criteria) (pagination.Page[T], error) {
	var page pagination.Page[T]
	err := client.Get(ctx, path, criteria.WithDefaults().Values(), &page)
	if err != nil {
		return pagination.Page[T]{}, err
	}
	if page.List == nil {
		page.List = []T{}
	}
	return page, nil
}
