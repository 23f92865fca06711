package httperr

import (
	"errors"
	"net/http"
)

// Kind classifies a business error so transports can map it without
// inspecting codes.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindNoCandidateResource
	KindNoFeasibleSlot
	KindInvalidState
	KindConflict
)

type BusinessError struct {
	Kind Kind
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrValidation(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func ErrNotFound(code string) error {
	return BusinessError{Kind: KindNotFound, Code: code}
}

func ErrNoCandidateResource(code string) error {
	return BusinessError{Kind: KindNoCandidateResource, Code: code}
}

func ErrNoFeasibleSlot(code string) error {
	return BusinessError{Kind: KindNoFeasibleSlot, Code: code}
}

func ErrInvalidState(code string) error {
	return BusinessError{Kind: KindInvalidState, Code: code}
}

func ErrConflict(code string) error {
	return BusinessError{Kind: KindConflict, Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// KindOf returns the kind of a wrapped business error, or 0.
func KindOf(err error) Kind {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return 0
}

// StatusFor maps an error to the HTTP status the API answers with.
func StatusFor(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindNoCandidateResource, KindNoFeasibleSlot:
		return http.StatusUnprocessableEntity
	case KindInvalidState, KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
