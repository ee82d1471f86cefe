package model

import (
	"errors"
	"fmt"
)

// ValidationError reports an input field that violates its constraint.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// DateParseError reports a contract date that is not a calendar date.
type DateParseError struct {
	Field string
	Value string
	Err   error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("%s: invalid date %q (expected YYYY-MM-DD)", e.Field, e.Value)
}

func (e *DateParseError) Unwrap() error { return e.Err }

// DegenerateInputError is returned when neither cash nor burn is positive.
// There is nothing meaningful to forecast in that case and callers should ask
// the user for better numbers instead.
type DegenerateInputError struct {
	InitialCash float64
	MonthlyBurn float64
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("initial_cash (%.2f) and monthly_burn (%.2f) are both non-positive; nothing to analyze",
		e.InitialCash, e.MonthlyBurn)
}

// IsInputError reports whether err is one of the data-entry errors above.
func IsInputError(err error) bool {
	var ve *ValidationError
	var de *DateParseError
	var ge *DegenerateInputError
	return errors.As(err, &ve) || errors.As(err, &de) || errors.As(err, &ge)
}

// InputErrorCode maps a data-entry error to a stable machine-readable code.
// It returns "" for any other error.
func InputErrorCode(err error) string {
	var ve *ValidationError
	var de *DateParseError
	var ge *DegenerateInputError
	switch {
	case errors.As(err, &ge):
		return "DEGENERATE_INPUT"
	case errors.As(err, &de):
		return "DATE_PARSE_ERROR"
	case errors.As(err, &ve):
		return "VALIDATION_ERROR"
	default:
		return ""
	}
}
