package ledger

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrValidation       = errors.New("validation failed")
	ErrCapacityExceeded = errors.New("no availability for this date and time")
	ErrConflict         = errors.New("conflict")
)

// Code returns the machine-readable kind of a ledger error, or "" for
// errors that are not one of the ledger kinds.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrValidation):
		return "validation_failed"
	case errors.Is(err, ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, ErrConflict):
		return "conflict"
	default:
		return ""
	}
}
