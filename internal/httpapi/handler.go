// Package httpapi exposes the ledger over JSON HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/alexanderramin/shiftledger/internal/domain"
	"github.com/alexanderramin/shiftledger/internal/logging"
	"github.com/alexanderramin/shiftledger/internal/service"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
)

// Handler serves every ledger route.
type Handler struct {
	log       *slog.Logger
	ledger    service.LedgerService
	profiles  service.ProfileService
	summaries service.SummaryService
	validate  *validator.Validate
	now       func() time.Time
	ping      func(ctx context.Context) error
}

type HandlerOption func(*Handler)

// WithHealthCheck makes /healthz report the result of ping.
func WithHealthCheck(ping func(ctx context.Context) error) HandlerOption {
	return func(h *Handler) { h.ping = ping }
}

// WithNow replaces the clock used for the dashboard and sweeps.
func WithNow(now func() time.Time) HandlerOption {
	return func(h *Handler) { h.now = now }
}

func NewHandler(log *slog.Logger, ledger service.LedgerService, profiles service.ProfileService, summaries service.SummaryService, opts ...HandlerOption) *Handler {
	h := &Handler{
		log:       log,
		ledger:    ledger,
		profiles:  profiles,
		summaries: summaries,
		validate:  validator.New(),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// decode reads and validates a JSON body, writing the error reply itself.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, log *slog.Logger, v any) bool {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		log.Warn("failed to decode request", logging.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, Error("invalid request body"))
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			log.Warn("validation failed", logging.Err(err))
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, ValidationError(verrs))
			return false
		}
		log.Error("validator failed", logging.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, Error("internal error"))
		return false
	}
	return true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", logging.Err(err), slog.Int("status", status))
	} else {
		log.Info("request rejected", logging.Err(err), slog.Int("status", status))
	}
	resp := Error(publicMessage(err, status))
	resp.Retryable = domain.IsRetryable(err)
	if resp.Retryable {
		w.Header().Set("Retry-After", "1")
	}
	render.Status(r, status)
	render.JSON(w, r, resp)
}

func userFrom(r *http.Request) (domain.UserContext, error) {
	return domain.NewUserContext(chi.URLParam(r, "email"))
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if h.ping != nil {
		if err := h.ping(r.Context()); err != nil {
			h.logger(r, "httpapi.health").Error("store ping failed", logging.Err(err))
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, Error("store unavailable"))
			return
		}
	}
	render.JSON(w, r, OK(map[string]string{"store": "up"}))
}

func (h *Handler) registerProfile(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "httpapi.profile.register")
	user, err := userFrom(r)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	var req profileRequest
	if !h.decode(w, r, log, &req) {
		return
	}
	p, err := h.profiles.Register(r.Context(), user, service.ProfileSettings{
		LegalRate:             *req.LegalRate,
		CashRate:              *req.CashRate,
		WeeklyLegalHoursLimit: *req.WeeklyLegalHoursLimit,
	})
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, OK(toProfile(p)))
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "httpapi.profile.get")
	user, err := userFrom(r)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	p, err := h.profiles.Get(r.Context(), user)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	render.JSON(w, r, OK(toProfile(p)))
}

func (h *Handler) updateRates(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "httpapi.profile.rates")
	user, err := userFrom(r)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	var req ratesRequest
	if !h.decode(w, r, log, &req) {
		return
	}
	p, err := h.profiles.UpdateRates(r.Context(), user, *req.LegalRate, *req.CashRate)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	render.JSON(w, r, OK(toProfile(p)))
}

func (h *Handler) updateLimit(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "httpapi.profile.limit")
	user, err := userFrom(r)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	var req limitRequest
	if !h.decode(w, r, log, &req) {
		return
	}
	p, err := h.profiles.UpdateWeeklyLimit(r.Context(), user, *req.WeeklyLegalHoursLimit)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	render.JSON(w, r, OK(toProfile(p)))
}

// recordEntry answers 201 for a new entry and 200 for a resubmission.
func (h *Handler) recordEntry(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "httpapi.entries.record")
	user, err := userFrom(r)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	var req entryRequest
	if !h.decode(w, r, log, &req) {
		return
	}
	entry, err := domain.ParseTimeEntry(req.Date, req.ClockIn, req.ClockOut)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	res, err := h.ledger.RecordEntry(r.Context(), user, entry)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	if !res.Duplicate {
		render.Status(r, http.StatusCreated)
	}
	render.JSON(w, r, OK(toRecord(res)))
}

func (h *Handler) getDay(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "httpapi.summary.day")
	user, err := userFrom(r)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	day, err := parseDate(chi.URLParam(r, "day"))
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	d, err := h.summaries.Day(r.Context(), user, day)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	render.JSON(w, r, OK(toDay(d)))
}

func (h *Handler) listDays(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "httpapi.summary.days")
	user, err := userFrom(r)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	from, err := parseDate(r.URL.Query().Get("from"))
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	to, err := parseDate(r.URL.Query().Get("to"))
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	days, err := h.summaries.DayRange(r.Context(), user, from, to)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	render.JSON(w, r, OK(toRange(from, to, days)))
}

func (h *Handler) getWeek(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "httpapi.summary.week")
	user, err := userFrom(r)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	week, err := parseInt("week", chi.URLParam(r, "week"))
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	wk, err := h.summaries.Week(r.Context(), user, week)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	render.JSON(w, r, OK(toWeek(wk)))
}

func (h *Handler) getMonth(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "httpapi.summary.month")
	user, err := userFrom(r)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	year, err := parseInt("year", chi.URLParam(r, "year"))
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	month, err := parseInt("month", chi.URLParam(r, "month"))
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	m, err := h.summaries.Month(r.Context(), user, year, time.Month(month))
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	render.JSON(w, r, OK(toMonth(m)))
}

func (h *Handler) getYear(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "httpapi.summary.year")
	user, err := userFrom(r)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	year, err := parseInt("year", chi.URLParam(r, "year"))
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	y, err := h.summaries.Year(r.Context(), user, year)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	render.JSON(w, r, OK(toYear(y)))
}

func (h *Handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "httpapi.summary.dashboard")
	user, err := userFrom(r)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	d, err := h.summaries.Dashboard(r.Context(), user, h.now())
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	render.JSON(w, r, OK(toDashboard(d)))
}

func (h *Handler) sweep(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "httpapi.sweep")
	res, err := h.ledger.Sweep(r.Context(), h.now())
	if err != nil && res == nil {
		h.fail(w, r, log, err)
		return
	}
	if err != nil {
		log.Error("sweep finished with failures", logging.Err(err))
	}
	render.JSON(w, r, OK(sweepDTO{
		Users:   res.Users,
		Skipped: res.Skipped,
		Failed:  res.Failed,
		Pruned:  res.Pruned.Total(),
	}))
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", domain.ErrInvalidInput, s)
	}
	return t, nil
}

func parseInt(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q must be an integer", domain.ErrInvalidInput, name, s)
	}
	return n, nil
}
