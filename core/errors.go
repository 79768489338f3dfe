package core

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ListingErrorBadInput       = "LISTING_BAD_INPUT"
	ListingErrorNotFound       = "LISTING_NOT_FOUND"
	ListingErrorGuardRejected  = "LISTING_GUARD_REJECTED"
	ListingErrorRemoteRejected = "LISTING_REMOTE_REJECTED"
	ListingErrorTransport      = "LISTING_TRANSPORT_FAILURE"
	ListingErrorAuth           = "LISTING_AUTH_FAILURE"
	ListingErrorRateLimited    = "LISTING_RATE_LIMITED"
	ListingErrorInternal       = "LISTING_INTERNAL_ERROR"
)

// NewBadInputError flags caller mistakes caught before any remote call.
func NewBadInputError(message string) *goerrors.Error {
	return goerrors.New(message, goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(ListingErrorBadInput)
}

// NewNotFoundError reports expected absence (no offer, listing, or policy
// for a key). Callers treat it as a warning-level outcome, not a failure.
func NewNotFoundError(message string) *goerrors.Error {
	return goerrors.New(message, goerrors.CategoryNotFound).
		WithCode(http.StatusNotFound).
		WithTextCode(ListingErrorNotFound)
}

// NewGuardRejectedError blocks a destructive operation; no remote writes
// have happened when it is returned.
func NewGuardRejectedError(message string, metadata map[string]any) *goerrors.Error {
	err := goerrors.New(message, goerrors.CategoryConflict).
		WithCode(http.StatusConflict).
		WithTextCode(ListingErrorGuardRejected)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

// NewRemoteRejectionError wraps a non-2xx marketplace response. The message
// is whatever the remote error body provided, longMessage preferred.
func NewRemoteRejectionError(message string, statusCode int, metadata map[string]any) *goerrors.Error {
	err := goerrors.New(message, goerrors.CategoryExternal).
		WithCode(statusCode).
		WithTextCode(ListingErrorRemoteRejected)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

// NewTransportError wraps connection-level failures. These are reported per
// call and never retried automatically.
func NewTransportError(source error, message string) *goerrors.Error {
	return goerrors.Wrap(source, goerrors.CategoryExternal, message).
		WithCode(http.StatusBadGateway).
		WithTextCode(ListingErrorTransport)
}

// NewAuthError wraps token acquisition and refresh failures.
func NewAuthError(source error, message string) *goerrors.Error {
	return goerrors.Wrap(source, goerrors.CategoryAuth, message).
		WithCode(http.StatusUnauthorized).
		WithTextCode(ListingErrorAuth)
}

func NewInternalError(message string) *goerrors.Error {
	return goerrors.New(message, goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(ListingErrorInternal)
}

func IsBadInput(err error) bool {
	return hasTextCode(err, ListingErrorBadInput)
}

func IsNotFound(err error) bool {
	return hasTextCode(err, ListingErrorNotFound)
}

func IsGuardRejected(err error) bool {
	return hasTextCode(err, ListingErrorGuardRejected)
}

func IsRemoteRejection(err error) bool {
	return hasTextCode(err, ListingErrorRemoteRejected)
}

// RemoteStatus extracts the remote HTTP status carried by a rejection, or 0.
func RemoteStatus(err error) int {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return 0
	}
	return rich.Code
}

func hasTextCode(err error, textCode string) bool {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(rich.TextCode), textCode)
}
