// Package apierrors holds the error codes the mock backend answers with and the
// gin helpers that write them. Codes are namespaced, e.g. "core:not_found" or
// "auth:invalid_credentials".
package apierrors

import "net/http"

// Core codes.
const (
	CodeUnauthorized   = "core:unauthorized"
	CodeForbidden      = "core:forbidden"
	CodeInvalidRequest = "core:invalid_request"
	CodeNotFound       = "core:not_found"
	CodeInternalError  = "core:internal_error"
)

// Auth codes.
const (
	CodeInvalidCredentials = "auth:invalid_credentials"
	CodeMissingCredentials = "auth:missing_credentials"
	CodeAccountDisabled    = "auth:account_disabled"
	CodeInvalidToken       = "auth:invalid_token"
	CodeTokenExpired       = "auth:token_expired"
	CodeTokenRevoked       = "auth:token_revoked"
	CodeInvalidRefresh     = "auth:invalid_refresh_token"
	CodeWrongPassword      = "auth:wrong_password"
	CodeWeakPassword       = "auth:weak_password"
)

// Lookup and export codes.
const (
	CodeUnknownCategory = "lookup:unknown_category"
	CodeUnknownStatus   = "lookup:unknown_status"
	CodeUnknownFormat   = "export:unknown_format"
	CodeNoData          = "export:no_data"
	CodeExportFailed    = "export:failed"
)

var builtinErrors = []ErrorCode{
	{Code: CodeUnauthorized, Message: "Authentication required", HTTPStatus: http.StatusUnauthorized},
	{Code: CodeForbidden, Message: "Permission denied", HTTPStatus: http.StatusForbidden},
	{Code: CodeInvalidRequest, Message: "Invalid request body", HTTPStatus: http.StatusBadRequest},
	{Code: CodeNotFound, Message: "Resource not found", HTTPStatus: http.StatusNotFound},
	{Code: CodeInternalError, Message: "Internal server error", HTTPStatus: http.StatusInternalServerError},

	{Code: CodeInvalidCredentials, Message: "用户名或密码错误", HTTPStatus: http.StatusUnauthorized},
	{Code: CodeMissingCredentials, Message: "请输入用户名和密码", HTTPStatus: http.StatusBadRequest},
	{Code: CodeAccountDisabled, Message: "账号已被禁用", HTTPStatus: http.StatusForbidden},
	{Code: CodeInvalidToken, Message: "Invalid or malformed token", HTTPStatus: http.StatusUnauthorized},
	{Code: CodeTokenExpired, Message: "Token has expired", HTTPStatus: http.StatusUnauthorized},
	{Code: CodeTokenRevoked, Message: "Token has been revoked", HTTPStatus: http.StatusUnauthorized},
	{Code: CodeInvalidRefresh, Message: "Refresh token is invalid or expired", HTTPStatus: http.StatusUnauthorized},
	{Code: CodeWrongPassword, Message: "当前密码不正确", HTTPStatus: http.StatusBadRequest},
	{Code: CodeWeakPassword, Message: "新密码不符合要求", HTTPStatus: http.StatusBadRequest},

	{Code: CodeUnknownCategory, Message: "Unknown status category", HTTPStatus: http.StatusNotFound},
	{Code: CodeUnknownStatus, Message: "Unknown status code", HTTPStatus: http.StatusNotFound},
	{Code: CodeUnknownFormat, Message: "Unsupported export format", HTTPStatus: http.StatusBadRequest},
	{Code: CodeNoData, Message: "No data to export", HTTPStatus: http.StatusUnprocessableEntity},
	{Code: CodeExportFailed, Message: "Export failed", HTTPStatus: http.StatusInternalServerError},
}

func init() {
	for _, e := range builtinErrors {
		Registry.Register(e)
	}
}
