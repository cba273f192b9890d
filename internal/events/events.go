// Package events carries notifications about committed ledger changes to
// parties outside the ledger transaction.
package events

import (
	"context"
	"errors"
	"time"
)

// EntryRecorded describes one entry whose contribution was committed to the
// rollups. Observers receive it only after the commit succeeded.
type EntryRecorded struct {
	EntryID    string    `json:"entry_id"`
	Email      string    `json:"email"`
	Date       string    `json:"date"`
	WeekNumber int       `json:"week_number"`
	TotalHours float64   `json:"total_hours"`
	LegalHours float64   `json:"legal_hours"`
	CashHours  float64   `json:"cash_hours"`
	LegalPay   float64   `json:"legal_pay"`
	CashPay    float64   `json:"cash_pay"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Observer is notified of committed entries. The ledger owns no observer;
// the caller wires one in. An error does not undo the commit.
type Observer interface {
	EntryRecorded(ctx context.Context, e EntryRecorded) error
}

// NoopObserver ignores all events.
type NoopObserver struct{}

func (NoopObserver) EntryRecorded(context.Context, EntryRecorded) error { return nil }

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, e EntryRecorded) error

func (f ObserverFunc) EntryRecorded(ctx context.Context, e EntryRecorded) error {
	return f(ctx, e)
}

// Multi notifies every observer in order and joins their errors.
func Multi(observers ...Observer) Observer {
	return multiObserver(observers)
}

type multiObserver []Observer

func (m multiObserver) EntryRecorded(ctx context.Context, e EntryRecorded) error {
	var errs []error
	for _, o := range m {
		if o == nil {
			continue
		}
		if err := o.EntryRecorded(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
