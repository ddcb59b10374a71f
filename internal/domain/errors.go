package domain

import (
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: 400,
	}

	ErrValidationFailed = &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "Request validation failed",
		StatusCode: 422,
	}

	ErrUnauthorized = &AppError{
		Code:       "UNAUTHORIZED",
		Message:    "Invalid or missing credentials",
		StatusCode: 401,
	}

	ErrForbidden = &AppError{
		Code:       "FORBIDDEN",
		Message:    "Access denied",
		StatusCode: 403,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: 404,
	}

	ErrVehicleNotFound = &AppError{
		Code:       "VEHICLE_NOT_FOUND",
		Message:    "Vehicle not found",
		StatusCode: 404,
	}

	ErrClientNotFound = &AppError{
		Code:       "CLIENT_NOT_FOUND",
		Message:    "Client not found",
		StatusCode: 404,
	}

	ErrClientExists = &AppError{
		Code:       "CLIENT_ALREADY_EXISTS",
		Message:    "A client with this document already exists",
		StatusCode: 409,
	}

	ErrClientInactive = &AppError{
		Code:       "CLIENT_INACTIVE",
		Message:    "Client account is inactive",
		StatusCode: 422,
	}

	ErrSessionNotFound = &AppError{
		Code:       "SESSION_NOT_FOUND",
		Message:    "Parking session not found",
		StatusCode: 404,
	}

	ErrNoActiveSession = &AppError{
		Code:       "NO_ACTIVE_SESSION",
		Message:    "No active parking session found for this vehicle",
		StatusCode: 404,
	}

	ErrSessionAlreadyOpen = &AppError{
		Code:       "SESSION_ALREADY_OPEN",
		Message:    "An active parking session already exists for this vehicle",
		StatusCode: 409,
	}

	ErrSessionNotActive = &AppError{
		Code:       "SESSION_NOT_ACTIVE",
		Message:    "Parking session is not active",
		StatusCode: 409,
	}

	ErrSessionNotCompleted = &AppError{
		Code:       "SESSION_NOT_COMPLETED",
		Message:    "Vehicle has not exited yet",
		StatusCode: 409,
	}

	ErrSessionStateConflict = &AppError{
		Code:       "SESSION_STATE_CONFLICT",
		Message:    "Multiple active sessions found for this vehicle",
		StatusCode: 409,
	}

	ErrExitBeforeEntry = &AppError{
		Code:       "EXIT_BEFORE_ENTRY",
		Message:    "Exit time precedes entry time",
		StatusCode: 422,
	}

	ErrInvoiceNotFound = &AppError{
		Code:       "INVOICE_NOT_FOUND",
		Message:    "Invoice not found",
		StatusCode: 404,
	}

	ErrInvoiceExists = &AppError{
		Code:       "INVOICE_ALREADY_EXISTS",
		Message:    "An invoice already exists for this parking session",
		StatusCode: 409,
	}

	ErrInvoicePaid = &AppError{
		Code:       "INVOICE_ALREADY_PAID",
		Message:    "Invoice has already been paid",
		StatusCode: 409,
	}

	ErrInvoiceCancelled = &AppError{
		Code:       "INVOICE_CANCELLED",
		Message:    "Invoice has been cancelled",
		StatusCode: 409,
	}

	ErrOperatorNotFound = &AppError{
		Code:       "OPERATOR_NOT_FOUND",
		Message:    "Operator account not found",
		StatusCode: 404,
	}

	ErrOperatorExists = &AppError{
		Code:       "OPERATOR_ALREADY_EXISTS",
		Message:    "An operator with this email already exists",
		StatusCode: 409,
	}

	ErrInvalidCredentials = &AppError{
		Code:       "INVALID_CREDENTIALS",
		Message:    "Invalid email or password",
		StatusCode: 401,
	}
)
