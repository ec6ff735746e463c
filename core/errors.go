package core

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	CredentialErrorBadInput        = "CREDENTIAL_BAD_INPUT"
	CredentialErrorSettingMissing  = "CREDENTIAL_SETTING_MISSING"
	CredentialErrorRealmNotFound   = "CREDENTIAL_REALM_NOT_FOUND"
	CredentialErrorRemoteFailed    = "CREDENTIAL_REMOTE_FAILED"
	CredentialErrorResponseInvalid = "CREDENTIAL_RESPONSE_INVALID"
	CredentialErrorInternal        = "CREDENTIAL_INTERNAL_ERROR"
)

// MapError normalizes any error into a go-errors envelope carrying a stable
// credential text code and an HTTP status derived from its category.
func MapError(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureCredentialErrorEnvelope(richErr)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "setting") && strings.Contains(msg, "missing"):
		return NewCredentialError(err.Error(), goerrors.CategoryValidation, CredentialErrorSettingMissing)
	case strings.Contains(msg, "realm") && (strings.Contains(msg, "not registered") || strings.Contains(msg, "not found")):
		return NewCredentialError(err.Error(), goerrors.CategoryNotFound, CredentialErrorRealmNotFound)
	case strings.Contains(msg, "decode") || strings.Contains(msg, "response"):
		return NewCredentialError(err.Error(), goerrors.CategoryExternal, CredentialErrorResponseInvalid)
	case strings.Contains(msg, "remote") || strings.Contains(msg, "call failed") || strings.Contains(msg, "api error"):
		return NewCredentialError(err.Error(), goerrors.CategoryExternal, CredentialErrorRemoteFailed)
	case strings.Contains(msg, "required") || strings.Contains(msg, "invalid"):
		return NewCredentialError(err.Error(), goerrors.CategoryBadInput, CredentialErrorBadInput)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureCredentialErrorEnvelope(mapped)
}

func NewCredentialError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureCredentialErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func ensureCredentialErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = credentialHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultCredentialTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultCredentialTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return CredentialErrorBadInput
	case goerrors.CategoryNotFound:
		return CredentialErrorRealmNotFound
	case goerrors.CategoryExternal:
		return CredentialErrorRemoteFailed
	default:
		return CredentialErrorInternal
	}
}

func credentialHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
