package errors

import "net/http"

// ErrorCode is a string identifier of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	ErrCodeUnknown            ErrorCode = "COMMON_000"
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_004"
	ErrCodeTimeout            ErrorCode = "COMMON_005"
	ErrCodeSerialization      ErrorCode = "COMMON_006"
	ErrCodeValidation         ErrorCode = "COMMON_007"

	// CodeOK is the sentinel returned by GetCode for a nil error.
	CodeOK ErrorCode = "OK"
)

// Lookup collaborator error codes.
const (
	// ErrCodeLookupNotFound: the family-tree API answered but reported no
	// record for the queried document id.  Not a system fault.
	ErrCodeLookupNotFound ErrorCode = "LOOKUP_001"

	// ErrCodeLookupFailed: the family-tree API was unreachable, timed out,
	// or returned a non-success status.
	ErrCodeLookupFailed ErrorCode = "LOOKUP_002"

	// ErrCodeLookupDecode: the family-tree API returned a body that could
	// not be decoded as the expected JSON envelope.
	ErrCodeLookupDecode ErrorCode = "LOOKUP_003"

	// ErrCodeDNIInvalid: the inbound document id failed validation.
	ErrCodeDNIInvalid ErrorCode = "LOOKUP_004"
)

// Report generation error codes.
const (
	// ErrCodeRenderFailed: the PDF renderer failed while producing the
	// document.
	ErrCodeRenderFailed ErrorCode = "REPORT_001"
)

// Storage / cache collaborator error codes.  These are non-fatal by policy:
// the report service degrades to always-generate when the store or the
// response cache is unavailable.
const (
	ErrCodeStoreUnavailable ErrorCode = "STORE_001"
	ErrCodeCacheError       ErrorCode = "STORE_002"
)

// errorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var errorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeUnknown:            http.StatusInternalServerError,
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeValidation:         http.StatusBadRequest,

	ErrCodeLookupNotFound: http.StatusNotFound,
	ErrCodeLookupFailed:   http.StatusBadGateway,
	ErrCodeLookupDecode:   http.StatusBadGateway,
	ErrCodeDNIInvalid:     http.StatusBadRequest,

	ErrCodeRenderFailed: http.StatusInternalServerError,

	ErrCodeStoreUnavailable: http.StatusServiceUnavailable,
	ErrCodeCacheError:       http.StatusInternalServerError,
}

// errorCodeMessage maps ErrorCodes to default user-facing messages.
var errorCodeMessage = map[ErrorCode]string{
	ErrCodeUnknown:            "unknown error",
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeValidation:         "validation failed",

	ErrCodeLookupNotFound: "no record found for the requested document id",
	ErrCodeLookupFailed:   "family tree lookup service unavailable",
	ErrCodeLookupDecode:   "family tree lookup returned an unreadable response",
	ErrCodeDNIInvalid:     "invalid document id",

	ErrCodeRenderFailed: "failed to generate report document",

	ErrCodeStoreUnavailable: "report storage unavailable",
	ErrCodeCacheError:       "cache error",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := errorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError reports whether the ErrorCode maps to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError reports whether the ErrorCode maps to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}
