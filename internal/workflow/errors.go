package workflow

import (
	"errors"
	"net/http"
)

// Business-rule rejections are plain return values, never panics. The
// handler layer maps them to HTTP statuses with HTTPStatus.
var (
	ErrNotFound            = errors.New("not found")
	ErrPaymentNotConfirmed = errors.New("payment must be confirmed first")
	ErrSchedulingConflict  = errors.New("trainer is already booked for an overlapping period")
	ErrInvalidTransition   = errors.New("invalid stage transition")
	ErrAlreadyConverted    = errors.New("lead was already converted")
	ErrAlreadyPaid         = errors.New("invoice was already paid")
	ErrAlreadyCertified    = errors.New("learner already holds a certificate")
	ErrProposalDecided     = errors.New("proposal was already accepted or rejected")
)

// HTTPStatus translates a workflow error into the status code the REST
// surface responds with.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrSchedulingConflict),
		errors.Is(err, ErrAlreadyConverted),
		errors.Is(err, ErrAlreadyPaid),
		errors.Is(err, ErrAlreadyCertified),
		errors.Is(err, ErrProposalDecided):
		return http.StatusConflict
	case errors.Is(err, ErrPaymentNotConfirmed),
		errors.Is(err, ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
