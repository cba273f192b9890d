// Package metrics exports Prometheus collectors for ledger use cases and
// recorded hours.
package metrics

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/shiftledger/internal/domain"
	"github.com/alexanderramin/shiftledger/internal/events"
	"github.com/alexanderramin/shiftledger/internal/service"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "shiftledger"

// Observer records use-case outcomes and recorded hours. It satisfies both
// service.UseCaseObserver and events.Observer.
type Observer struct {
	useCases *prometheus.CounterVec
	duration *prometheus.HistogramVec
	hours    *prometheus.CounterVec
	pay      *prometheus.CounterVec
}

var (
	_ service.UseCaseObserver = (*Observer)(nil)
	_ events.Observer         = (*Observer)(nil)
)

// NewObserver registers its collectors with reg.
func NewObserver(reg prometheus.Registerer) (*Observer, error) {
	o := &Observer{
		useCases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "use_case_total",
			Help:      "Service use cases by name and outcome.",
		}, []string{"use_case", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "use_case_duration_seconds",
			Help:      "Service use case latency.",
			Buckets:   []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"use_case"}),
		hours: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recorded_hours_total",
			Help:      "Hours recorded by category.",
		}, []string{"category"}),
		pay: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recorded_pay_total",
			Help:      "Pay recorded by category.",
		}, []string{"category"}),
	}
	for _, c := range []prometheus.Collector{o.useCases, o.duration, o.hours, o.pay} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering collector: %w", err)
		}
	}
	return o, nil
}

func (o *Observer) ObserveUseCase(_ context.Context, event service.UseCaseEvent) {
	o.useCases.WithLabelValues(event.Name, Outcome(event.Err)).Inc()
	o.duration.WithLabelValues(event.Name).Observe(event.Duration.Seconds())
}

func (o *Observer) EntryRecorded(_ context.Context, e events.EntryRecorded) error {
	o.hours.WithLabelValues("legal").Add(e.LegalHours)
	o.hours.WithLabelValues("cash").Add(e.CashHours)
	o.pay.WithLabelValues("legal").Add(e.LegalPay)
	o.pay.WithLabelValues("cash").Add(e.CashPay)
	return nil
}

// Outcome maps an error to a low-cardinality label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidDuration):
		return "invalid"
	case errors.Is(err, domain.ErrMissingUserProfile):
		return "missing_profile"
	case errors.Is(err, domain.ErrProfileExists):
		return "exists"
	case errors.Is(err, domain.ErrDateBeforeStart):
		return "before_start"
	case errors.Is(err, domain.ErrWriteConflict):
		return "conflict"
	case errors.Is(err, domain.ErrTimeout):
		return "timeout"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}
