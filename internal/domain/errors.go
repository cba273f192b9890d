package domain

import (
	"errors"
)

var (
	// ErrInvalidDuration indicates clock-out is not after clock-in, or the
	// computed hours are not a finite number.
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrMissingUserProfile indicates no profile exists for the user.
	ErrMissingUserProfile = errors.New("user profile not found")

	// ErrProfileExists indicates a registration for an email that already
	// has a profile.
	ErrProfileExists = errors.New("user profile already exists")

	// ErrDateBeforeStart indicates an entry dated before the user's week anchor.
	ErrDateBeforeStart = errors.New("entry date is before the week start date")

	// ErrInvalidInput indicates malformed caller input such as an empty email
	// or a negative pay rate.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStoreUnavailable indicates the ledger store could not be reached or
	// was busy. Callers may retry.
	ErrStoreUnavailable = errors.New("ledger store unavailable")

	// ErrWriteConflict indicates a concurrent writer changed a record between
	// read and conditional write. Callers may retry.
	ErrWriteConflict = errors.New("ledger write conflict")

	// ErrTimeout indicates the operation exceeded its deadline. Callers may retry.
	ErrTimeout = errors.New("ledger operation timed out")
)

// IsRetryable reports whether err is a transient failure that the caller may
// resolve by resubmitting the whole operation.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable) ||
		errors.Is(err, ErrWriteConflict) ||
		errors.Is(err, ErrTimeout)
}
