package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/shiftledger/internal/domain"
	"github.com/alexanderramin/shiftledger/internal/repository"
)

type profileService struct {
	store    repository.Store
	observer UseCaseObserver
}

func NewProfileService(store repository.Store, observers ...UseCaseObserver) ProfileService {
	return &profileService{store: store, observer: useCaseObserverOrNoop(observers)}
}

func (s *profileService) Register(ctx context.Context, user domain.UserContext, settings ProfileSettings) (p *domain.UserProfile, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"email": user.Email}
	defer observe(ctx, s.observer, "register-profile", startedAt, fields, &err)

	if err = user.Validate(); err != nil {
		return nil, err
	}
	p = &domain.UserProfile{
		Email:                 user.Email,
		LegalRate:             settings.LegalRate,
		CashRate:              settings.CashRate,
		WeeklyLegalHoursLimit: settings.WeeklyLegalHoursLimit,
	}
	if err = p.ValidateRates(); err != nil {
		return nil, err
	}

	err = s.store.Profiles().Create(ctx, p)
	if errors.Is(err, repository.ErrConflict) {
		err = fmt.Errorf("%w: %s", domain.ErrProfileExists, user.Email)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *profileService) Get(ctx context.Context, user domain.UserContext) (*domain.UserProfile, error) {
	if err := user.Validate(); err != nil {
		return nil, err
	}
	return loadProfile(ctx, s.store, user)
}

func (s *profileService) UpdateRates(ctx context.Context, user domain.UserContext, legalRate, cashRate float64) (*domain.UserProfile, error) {
	return s.update(ctx, user, "update-rates", func(p *domain.UserProfile) {
		p.LegalRate = legalRate
		p.CashRate = cashRate
	})
}

// UpdateWeeklyLimit changes the cap for entries recorded from now on. Committed
// weeks keep their split: a week already past the new cap stays as it is and
// any further hours in it are paid as cash.
func (s *profileService) UpdateWeeklyLimit(ctx context.Context, user domain.UserContext, hours float64) (*domain.UserProfile, error) {
	return s.update(ctx, user, "update-weekly-limit", func(p *domain.UserProfile) {
		p.WeeklyLegalHoursLimit = hours
	})
}

// update applies mutate to the stored profile under its version check. The
// start date is not reachable from here.
func (s *profileService) update(ctx context.Context, user domain.UserContext, name string, mutate func(*domain.UserProfile)) (updated *domain.UserProfile, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"email": user.Email}
	defer observe(ctx, s.observer, name, startedAt, fields, &err)

	if err = user.Validate(); err != nil {
		return nil, err
	}
	err = s.store.WithinTx(ctx, func(ctx context.Context, l repository.Ledger) error {
		p, err := loadProfile(ctx, l, user)
		if err != nil {
			return err
		}
		mutate(p)
		if err := p.ValidateRates(); err != nil {
			return err
		}
		if err := l.Profiles().Update(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
