package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alexanderramin/shiftledger/internal/domain"
	"github.com/alexanderramin/shiftledger/internal/events"
	"github.com/alexanderramin/shiftledger/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserver_CountsUseCasesByOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := NewObserver(reg)
	require.NoError(t, err)

	ctx := context.Background()
	obs.ObserveUseCase(ctx, service.UseCaseEvent{Name: "record-entry", Success: true, Duration: 3 * time.Millisecond})
	obs.ObserveUseCase(ctx, service.UseCaseEvent{Name: "record-entry", Success: true, Duration: 2 * time.Millisecond})
	obs.ObserveUseCase(ctx, service.UseCaseEvent{
		Name: "record-entry",
		Err:  fmt.Errorf("recording entry: %w", domain.ErrTimeout),
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(obs.useCases.WithLabelValues("record-entry", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.useCases.WithLabelValues("record-entry", "timeout")))
	assert.Equal(t, 1, testutil.CollectAndCount(obs.duration))
}

func TestObserver_AccumulatesHoursAndPay(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := NewObserver(reg)
	require.NoError(t, err)

	require.NoError(t, obs.EntryRecorded(context.Background(), events.EntryRecorded{
		LegalHours: 6, CashHours: 2, LegalPay: 120, CashPay: 30,
	}))
	require.NoError(t, obs.EntryRecorded(context.Background(), events.EntryRecorded{
		LegalHours: 1, LegalPay: 20,
	}))

	assert.Equal(t, 7.0, testutil.ToFloat64(obs.hours.WithLabelValues("legal")))
	assert.Equal(t, 2.0, testutil.ToFloat64(obs.hours.WithLabelValues("cash")))
	assert.Equal(t, 140.0, testutil.ToFloat64(obs.pay.WithLabelValues("legal")))
	assert.Equal(t, 30.0, testutil.ToFloat64(obs.pay.WithLabelValues("cash")))
}

func TestNewObserver_DuplicateRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewObserver(reg)
	require.NoError(t, err)
	_, err = NewObserver(reg)
	assert.Error(t, err)
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{domain.ErrInvalidDuration, "invalid"},
		{fmt.Errorf("x: %w", domain.ErrInvalidInput), "invalid"},
		{domain.ErrMissingUserProfile, "missing_profile"},
		{domain.ErrProfileExists, "exists"},
		{domain.ErrDateBeforeStart, "before_start"},
		{domain.ErrWriteConflict, "conflict"},
		{domain.ErrStoreUnavailable, "unavailable"},
		{errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Outcome(tt.err))
		})
	}
}
