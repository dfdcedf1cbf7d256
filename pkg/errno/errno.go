package errno

import (
	"fmt"
	"net/http"
)

// Errno defines the error code logic
type Errno struct {
	Code       int
	HTTPStatus int
	Message    string
}

func (e Errno) Error() string {
	return e.Message
}

// WithMessage returns a copy of the Errno carrying a specific reason.
// Code and HTTP status are preserved so the boundary mapping stays stable.
func (e Errno) WithMessage(msg string) Errno {
	e.Message = msg
	return e
}

// WithMessagef is WithMessage with fmt-style formatting
func (e Errno) WithMessagef(format string, args ...interface{}) Errno {
	e.Message = fmt.Sprintf(format, args...)
	return e
}

// Decode tries to convert an error to Errno.
// Returns (http status, business code, message).
func Decode(err error) (int, int, string) {
	if err == nil {
		return OK.HTTPStatus, OK.Code, OK.Message
	}

	switch typed := err.(type) {
	case *Errno:
		return typed.HTTPStatus, typed.Code, typed.Message
	case Errno:
		return typed.HTTPStatus, typed.Code, typed.Message
	default:
		return InternalServerError.HTTPStatus, InternalServerError.Code, err.Error()
	}
}

// Is reports whether err carries the same business code as target
func Is(err error, target Errno) bool {
	switch typed := err.(type) {
	case *Errno:
		return typed.Code == target.Code
	case Errno:
		return typed.Code == target.Code
	default:
		return false
	}
}

// Common Errors
var (
	OK                  = Errno{Code: 0, HTTPStatus: http.StatusOK, Message: "Success"}
	InternalServerError = Errno{Code: 10001, HTTPStatus: http.StatusInternalServerError, Message: "Internal server error"}
	ErrBind             = Errno{Code: 10002, HTTPStatus: http.StatusBadRequest, Message: "Error occurred while binding the request body to the struct"}
	ErrTokenInvalid     = Errno{Code: 10003, HTTPStatus: http.StatusUnauthorized, Message: "Invalid or expired token"}
	ErrDatabase         = Errno{Code: 10004, HTTPStatus: http.StatusInternalServerError, Message: "Database error"}
	ErrTooManyRequests  = Errno{Code: 10005, HTTPStatus: http.StatusTooManyRequests, Message: "Too many requests, please try again later"}
	ErrTokenRequired    = Errno{Code: 10006, HTTPStatus: http.StatusUnauthorized, Message: "Access token required"}
)

// User / Auth Errors (201xx)
var (
	ErrUserNotFound       = Errno{Code: 20101, HTTPStatus: http.StatusNotFound, Message: "User not found"}
	ErrEmailTaken         = Errno{Code: 20102, HTTPStatus: http.StatusConflict, Message: "Email already registered"}
	ErrInvalidCredentials = Errno{Code: 20103, HTTPStatus: http.StatusUnauthorized, Message: "Invalid credentials"}
)

// Tontine / Membership Errors (202xx)
var (
	ErrTontineNotFound  = Errno{Code: 20201, HTTPStatus: http.StatusNotFound, Message: "Tontine not found"}
	ErrTontineClosed    = Errno{Code: 20202, HTTPStatus: http.StatusBadRequest, Message: "Tontine is closed"}
	ErrAlreadyMember    = Errno{Code: 20203, HTTPStatus: http.StatusConflict, Message: "Already a member of this tontine"}
	ErrNotMember        = Errno{Code: 20204, HTTPStatus: http.StatusForbidden, Message: "You are not a member of this tontine"}
	ErrNotOwner         = Errno{Code: 20205, HTTPStatus: http.StatusForbidden, Message: "Forbidden: you are not the owner"}
	ErrOwnerCannotLeave = Errno{Code: 20206, HTTPStatus: http.StatusForbidden, Message: "Tontine owner cannot leave the tontine"}
	ErrCannotLeave      = Errno{Code: 20207, HTTPStatus: http.StatusBadRequest, Message: "Cannot leave tontine"}
	ErrNotEnoughMembers = Errno{Code: 20208, HTTPStatus: http.StatusBadRequest, Message: "Minimum members requirement not met"}
	ErrInvalidAmount    = Errno{Code: 20209, HTTPStatus: http.StatusBadRequest, Message: "Amount must be a positive number"}
)

// Cycle / Payout Order Errors (203xx)
var (
	ErrCycleNotFound      = Errno{Code: 20301, HTTPStatus: http.StatusNotFound, Message: "Cycle not found"}
	ErrCycleConflict      = Errno{Code: 20302, HTTPStatus: http.StatusConflict, Message: "A cycle is already pending or active for this tontine"}
	ErrCycleNotPending    = Errno{Code: 20303, HTTPStatus: http.StatusBadRequest, Message: "Cycle is not pending"}
	ErrTontineNotClosed   = Errno{Code: 20304, HTTPStatus: http.StatusBadRequest, Message: "Tontine must be closed before starting a cycle"}
	ErrEmptyGroup         = Errno{Code: 20305, HTTPStatus: http.StatusBadRequest, Message: "No members in tontine"}
	ErrInvalidPolicy      = Errno{Code: 20306, HTTPStatus: http.StatusBadRequest, Message: "Invalid pickup policy"}
	ErrInvalidCustomOrder = Errno{Code: 20307, HTTPStatus: http.StatusBadRequest, Message: "Custom order must include all members"}
)

// Round Errors (204xx)
var (
	ErrRoundNotFound      = Errno{Code: 20401, HTTPStatus: http.StatusNotFound, Message: "Round not found"}
	ErrRoundNotOpen       = Errno{Code: 20402, HTTPStatus: http.StatusBadRequest, Message: "Round is not open"}
	ErrPaymentsIncomplete = Errno{Code: 20403, HTTPStatus: http.StatusBadRequest, Message: "All payments must be completed before closing"}
)

// Payment Errors (205xx)
var (
	ErrDuplicatePayment = Errno{Code: 20501, HTTPStatus: http.StatusConflict, Message: "Payment already made for this round"}
	ErrWrongAmount      = Errno{Code: 20502, HTTPStatus: http.StatusBadRequest, Message: "Payment amount does not match the tontine amount"}
)
