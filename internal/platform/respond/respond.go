// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond provides HTTP response helpers used by all API handlers.
//
// # Architecture
//
// Every response, success or error, is written as the uniform envelope
// `{code, message, data}` that the console resource client classifies:
// code 0 on success, the HTTP status on failure.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/taibuivan/merchantdesk/internal/platform/apperr"
	"github.com/taibuivan/merchantdesk/internal/platform/ctxkey"
	"github.com/taibuivan/merchantdesk/pkg/pagination"
)

// CodeSuccess is the envelope code of every successful response.
const CodeSuccess = 0

// MessageSuccess is the envelope message of every successful response.
const MessageSuccess = "success"

// Envelope is the JSON body of every API response.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ErrorData is the data block attached to a failure envelope.
type ErrorData struct {
	Reason  string              `json:"reason"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes a 200 OK response with data wrapped in the success envelope.
func OK(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusOK, Envelope{Code: CodeSuccess, Message: MessageSuccess, Data: data})
}

// Created writes a 201 Created response with data wrapped in the success envelope.
func Created(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusCreated, Envelope{Code: CodeSuccess, Message: MessageSuccess, Data: data})
}

// Paginated writes a 200 OK response whose data is a [pagination.Page].
func Paginated[T any](writer http.ResponseWriter, page pagination.Page[T]) {
	OK(writer, page)
}

// NoContent writes a success envelope with null data.
//
// A 204 would carry no body, and the console expects an envelope for every
// call, so deletions answer 200 with `data: null`.
func NoContent(writer http.ResponseWriter) {
	OK(writer, nil)
}

// Error converts any Go error into a failure envelope.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	var appError *apperr.AppError
	if !errors.As(err, &appError) {
		// Unexpected internal error: log full details but hide them from the client.
		logger := getLoggerFromContext(request)
		logger.ErrorContext(request.Context(), "unhandled_error_swallowed",
			slog.String("error", err.Error()),
			slog.String("request_id", getRequestIDFromContext(request)),
		)
		appError = apperr.Internal(err)
	}

	// Always log 5xx errors as they indicate server-side issues.
	if appError.HTTPStatus >= 500 {
		logger := getLoggerFromContext(request)
		logger.ErrorContext(request.Context(), "api_server_error",
			slog.String("code", appError.Code),
			slog.String("request_id", getRequestIDFromContext(request)),
			slog.Any("cause", appError.Cause),
		)
	}

	Failure(writer, appError)
}

// Failure writes the envelope for an already classified [apperr.AppError].
func Failure(writer http.ResponseWriter, appError *apperr.AppError) {
	JSON(writer, appError.HTTPStatus, Envelope{
		Code:    appError.HTTPStatus,
		Message: appError.Message,
		Data: ErrorData{
			Reason:  appError.Code,
			Details: appError.Details,
		},
	})
}

// getLoggerFromContext extracts the per-request logger.
func getLoggerFromContext(request *http.Request) *slog.Logger {
	if logger, ok := request.Context().Value(ctxkey.KeyLogger).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// getRequestIDFromContext extracts the X-Request-ID for log correlation.
func getRequestIDFromContext(request *http.Request) string {
	if id, ok := request.Context().Value(ctxkey.KeyRequestID).(string); ok {
		return id
	}
	return ""
}
