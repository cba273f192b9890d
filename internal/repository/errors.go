package repository

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/shiftledger/internal/db"
	"github.com/alexanderramin/shiftledger/internal/domain"
)

// ErrNotFound is returned by point reads when no record matches.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a conditional write loses to a concurrent
// writer: the version changed, or the key was inserted first.
var ErrConflict = fmt.Errorf("version mismatch: %w", domain.ErrWriteConflict)

// sqliteWriteErr maps driver failures on writes to the ledger taxonomy.
func sqliteWriteErr(op string, err error) error {
	switch {
	case db.IsUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, ErrConflict)
	case db.IsBusy(err):
		return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// sqliteReadErr maps driver failures on reads.
func sqliteReadErr(op string, err error) error {
	if db.IsBusy(err) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
