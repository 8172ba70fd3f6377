package errorx

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sentinela-gov/sentinela/internal/common/cnst"
)

// Code identifies an error class of the API.
type Code string

const (
	CodeAuthenticationFailure Code = "AUTHENTICATION_FAILURE"
	CodeAccessDenied          Code = "ACCESS_DENIED"
	CodeNotFound              Code = "NOT_FOUND"
	CodeConflict              Code = "CONFLICT"
	CodeValidationFailure     Code = "VALIDATION_FAILURE"
	CodeUpstreamFailure       Code = "UPSTREAM_FAILURE"
	CodeInternal              Code = "INTERNAL"
)

// APIError is a structured API error carrying the taxonomy code, the HTTP
// status to respond with and an i18n message id resolved at render time.
type APIError struct {
	Code       Code           `json:"code"`
	HTTPStatus int            `json:"-"`
	MessageID  string         `json:"-"`
	Data       map[string]any `json:"details,omitempty"`
	Message    string         `json:"message"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.MessageID)
}

// WithDetail attaches a detail to the error payload and template data.
func (e *APIError) WithDetail(key string, value any) *APIError {
	if e.Data == nil {
		e.Data = make(map[string]any)
	}
	e.Data[key] = value
	return e
}

// AuthenticationFailure builds an AUTHENTICATION_FAILURE error.
func AuthenticationFailure(messageID string) *APIError {
	return &APIError{Code: CodeAuthenticationFailure, HTTPStatus: http.StatusUnauthorized, MessageID: messageID}
}

// AccessDenied builds an ACCESS_DENIED error. Guard rejections are
// terminal for the request and never retried.
func AccessDenied(messageID string) *APIError {
	return &APIError{Code: CodeAccessDenied, HTTPStatus: http.StatusForbidden, MessageID: messageID}
}

// NotFound builds a NOT_FOUND error for the named resource.
func NotFound(messageID string) *APIError {
	return &APIError{Code: CodeNotFound, HTTPStatus: http.StatusNotFound, MessageID: messageID}
}

// Conflict builds a CONFLICT error for a uniqueness violation.
func Conflict(messageID string) *APIError {
	return &APIError{Code: CodeConflict, HTTPStatus: http.StatusConflict, MessageID: messageID}
}

// ValidationFailure builds a VALIDATION_FAILURE error.
func ValidationFailure(messageID string) *APIError {
	return &APIError{Code: CodeValidationFailure, HTTPStatus: http.StatusBadRequest, MessageID: messageID}
}

// UpstreamFailure builds an UPSTREAM_FAILURE error for remote lookup faults.
func UpstreamFailure(messageID string) *APIError {
	return &APIError{Code: CodeUpstreamFailure, HTTPStatus: http.StatusBadGateway, MessageID: messageID}
}

// Internal builds a generic internal error.
func Internal() *APIError {
	return &APIError{Code: CodeInternal, HTTPStatus: http.StatusInternalServerError, MessageID: "error.internal"}
}

// FromStore translates store sentinel errors into API errors. Conflicts
// are surfaced to the caller, never silently resolved.
func FromStore(err error) *APIError {
	switch {
	case errors.Is(err, cnst.ErrNotFound):
		return NotFound("error.not_found")
	case errors.Is(err, cnst.ErrDuplicateEntityCNPJ):
		return Conflict("error.conflict.entity_cnpj")
	case errors.Is(err, cnst.ErrDuplicateSupplierDocument):
		return Conflict("error.conflict.supplier_document")
	case errors.Is(err, cnst.ErrDuplicateContractNumber):
		return Conflict("error.conflict.contract_number")
	case errors.Is(err, cnst.ErrDuplicateUserDocument):
		return Conflict("error.conflict.user_document")
	case errors.Is(err, cnst.ErrDuplicateFiscalAssignment):
		return Conflict("error.conflict.fiscal_assignment")
	case errors.Is(err, cnst.ErrDuplicateCertificateTypeCode):
		return Conflict("error.conflict.certificate_type_code")
	default:
		return Internal()
	}
}
