package services

import (
	"context"
	"fmt"
	"maps"
	"time"

	"coinbot/domain/entities"
	"coinbot/domain/events"
	"coinbot/domain/interfaces"
	"coinbot/domain/utils"

	log "github.com/sirupsen/logrus"
)

type economyService struct {
	store          interfaces.LedgerStore
	eventPublisher interfaces.EventPublisher
	rng            interfaces.Randomizer
	cfg            entities.EconomyConfig
	locks          *accountLocks
	now            func() time.Time
}

// Option customizes the economy service
type Option func(*economyService)

// WithClock replaces the wall clock used for claim cooldowns
func WithClock(now func() time.Time) Option {
	return func(s *economyService) {
		s.now = now
	}
}

// NewEconomyService creates the economy engine. The configuration is validated and
// copied so later changes by the caller have no effect.
func NewEconomyService(store interfaces.LedgerStore, eventPublisher interfaces.EventPublisher, rng interfaces.Randomizer, cfg entities.EconomyConfig, opts ...Option) (interfaces.EconomyService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid economy config: %w", err)
	}
	cfg.ClaimRewards = maps.Clone(cfg.ClaimRewards)

	s := &economyService{
		store:          store,
		eventPublisher: eventPublisher,
		rng:            rng,
		cfg:            cfg,
		locks:          newAccountLocks(),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *economyService) Config() entities.EconomyConfig {
	cfg := s.cfg
	cfg.ClaimRewards = maps.Clone(s.cfg.ClaimRewards)
	return cfg
}

func (s *economyService) Balance(ctx context.Context, userID int64) (*entities.BalanceResult, error) {
	if userID == s.cfg.BotAccountID {
		return &entities.BalanceResult{
			UserID:   userID,
			Infinite: true,
			Label:    s.cfg.Currency.Plural,
		}, nil
	}

	account, err := s.getAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &entities.BalanceResult{
		UserID:  userID,
		Balance: account.Balance,
		Label:   s.cfg.Currency.Label(account.Balance),
	}, nil
}

// getAccount loads or creates the account and announces first-time creation
func (s *economyService) getAccount(ctx context.Context, userID int64) (*entities.Account, error) {
	account, created, err := s.store.GetOrCreateAccount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account %d: %w", userID, err)
	}
	if created {
		log.WithField("userID", userID).Debug("Created ledger account")
		utils.PublishEvent(s.eventPublisher, events.AccountCreatedEvent{UserID: userID})
	}
	return account, nil
}
