package service

import (
	"errors"
	"net/http"
)

// Sentinel errors for service layer
var (
	ErrValidation        = errors.New("validation error")
	ErrNotConfigured     = errors.New("not configured")
	ErrVerificationFault = errors.New("verification gateway error")
)

// Kind classifies why an enquiry submission failed
type Kind string

const (
	KindMissingVerification Kind = "MissingVerification"
	KindVerificationFailed  Kind = "VerificationFailed"
	KindInvalidFields       Kind = "InvalidFields"
	KindStorageFailure      Kind = "StorageFailure"
	KindNotificationFailure Kind = "NotificationFailure"
)

// HTTPStatus maps a failure kind to the response status
func (k Kind) HTTPStatus() int {
	switch k {
	case KindMissingVerification, KindVerificationFailed, KindInvalidFields:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// EnquiryError is returned by the intake pipeline for every rejected submission
type EnquiryError struct {
	Kind    Kind
	Message string
	// Fields holds per-field messages for KindInvalidFields
	Fields map[string]string
	Err    error
}

func (e *EnquiryError) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *EnquiryError) Unwrap() error {
	return e.Err
}

// KindOf returns the failure kind of err, or "" when err is not an EnquiryError
func KindOf(err error) Kind {
	var ee *EnquiryError
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return ""
}
