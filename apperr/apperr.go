// Package apperr defines the stable error taxonomy surfaced to callers and
// the boundary classifier that maps raw transport and bundler failures onto it.
package apperr

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeNotAuthenticated    Code = "NOT_AUTHENTICATED"
	CodeInsufficientBalance Code = "INSUFFICIENT_BALANCE"
	CodeSimulationFailed    Code = "SIMULATION_FAILED"
	CodeUserRejected        Code = "USER_REJECTED"
	CodeGasEstimation       Code = "GAS_ESTIMATION_FAILED"
	CodeBundler             Code = "BUNDLER_ERROR"
	CodeNetwork             Code = "NETWORK_ERROR"
)

// AppError carries a taxonomy code, the operation that failed and the
// underlying cause.
type AppError struct {
	Code Code
	Op   string
	Err  error
}

func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Op, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New builds an AppError around a fresh message.
func New(code Code, op, msg string) error {
	return &AppError{Code: code, Op: op, Err: errors.New(msg)}
}

// Wrap attaches a code and operation to an existing error. Returns nil for a
// nil error.
func Wrap(code Code, op string, err error) error {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Op: op, Err: err}
}

// CodeOf extracts the taxonomy code from err, if it carries one.
func CodeOf(err error) (Code, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code, true
	}
	return "", false
}
