package azrm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is the error object returned by Azure Resource Manager.
type APIError struct {
	Code    string     `json:"code"              yaml:"code"`
	Message string     `json:"message"           yaml:"message"`
	Target  string     `json:"target,omitempty"  yaml:"target,omitempty"`
	Details []APIError `json:"details,omitempty" yaml:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return e.Code
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ResponseError is the error envelope returned by the API.
type ResponseError struct {
	Err *APIError `json:"error"`
}

// Error implements the error interface for ResponseError.
func (e *ResponseError) Error() string {
	if e.Err == nil {
		return "unknown error"
	}

	return e.Err.Error()
}

// Unwrap exposes the inner APIError.
func (e *ResponseError) Unwrap() error {
	if e.Err == nil {
		return nil
	}

	return e.Err
}

// ParseResponseError parses an error response from JSON.
func ParseResponseError(data []byte) (*ResponseError, error) {
	var errResp ResponseError

	err := json.Unmarshal(data, &errResp)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal response error: %w", err)
	}

	if errResp.Err == nil {
		return nil, ErrNoErrorObject
	}

	return &errResp, nil
}

// FetchError reports a transport failure for one page of a query: a non-2xx
// status, a network failure, or a malformed body. A query that hits a
// FetchError cannot say whether the resource exists.
type FetchError struct {
	Method     string
	URL        string
	StatusCode int
	Detail     string
	Err        error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	msg := fmt.Sprintf("%s %s", e.Method, e.URL)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": HTTP %d", e.StatusCode)
	}

	if e.Detail != "" {
		msg += ": " + e.Detail
	}

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Static errors for err113 compliance.
var (
	ErrMalformedEnvelope      = errors.New("malformed response envelope")
	ErrPaginationLoop         = errors.New("continuation link repeats a page already fetched")
	ErrUnknownColumn          = errors.New("unknown column")
	ErrRegistrySealed         = errors.New("column registry is already materialized")
	ErrNoErrorObject          = errors.New("response has no error object")
	ErrNoTransport            = errors.New("no transport configured")
	ErrUnsupportedMethod      = errors.New("unsupported HTTP method")
	ErrInvalidPredicate       = errors.New("invalid predicate")
	ErrConfigRequired         = errors.New("config is required")
	ErrSubscriptionIDRequired = errors.New("subscription ID is required")
)

// Common ARM error codes.
const (
	ErrorCodeResourceNotFound      = "ResourceNotFound"
	ErrorCodeResourceGroupNotFound = "ResourceGroupNotFound"
	ErrorCodeAuthorizationFailed   = "AuthorizationFailed"
	ErrorCodeInvalidAuthToken      = "InvalidAuthenticationToken"
)

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Code == ErrorCodeResourceNotFound || apiErr.Code == ErrorCodeResourceGroupNotFound
	}

	fetchErr := &FetchError{}
	if errors.As(err, &fetchErr) {
		return fetchErr.StatusCode == http.StatusNotFound
	}

	return false
}

// IsUnauthorized checks if the error is an authentication error.
func IsUnauthorized(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) && apiErr.Code == ErrorCodeInvalidAuthToken {
		return true
	}

	fetchErr := &FetchError{}
	if errors.As(err, &fetchErr) {
		return fetchErr.StatusCode == http.StatusUnauthorized
	}

	return false
}

// IsForbidden checks if the error is an authorization error.
func IsForbidden(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) && apiErr.Code == ErrorCodeAuthorizationFailed {
		return true
	}

	fetchErr := &FetchError{}
	if errors.As(err, &fetchErr) {
		return fetchErr.StatusCode == http.StatusForbidden
	}

	return false
}
