// Package collection manages the cards a user owns: committing finished
// reveals, buy-backs, shipping, and the expiry sweep that converts stale
// cards into credits.
package collection

import (
	"context"
	"fmt"
	"time"

	"github.com/packworks/packworks/internal/domain"
	"github.com/packworks/packworks/internal/event"
	"github.com/packworks/packworks/internal/ledger"
	"github.com/packworks/packworks/internal/logger"
	"github.com/packworks/packworks/internal/repository"
)

// SweepResult reports one expiry sweep for a user
type SweepResult struct {
	ConvertedCount int      `json:"converted_count"`
	CreditsGained  int      `json:"credits_gained"`
	ConvertedIDs   []string `json:"converted_ids,omitempty"`
}

// ShipResult reports an accepted shipping request
type ShipResult struct {
	ShippedIDs []string `json:"shipped_ids"`
	Fee        int      `json:"fee"`
	Balance    int      `json:"balance"` // credit balance after the fee
}

// Publisher defines the event publishing interface
type Publisher interface {
	PublishWithRetry(ctx context.Context, evt event.Event)
}

// Service defines the collection manager interface
type Service interface {
	// Get returns the user's collection, served from a short-TTL cache
	// when possible.
	Get(ctx context.Context, userID string) (*domain.Collection, error)
	// Commit merges a finished reveal's cards into the collection,
	// stamping each with an expiry date. Committing the same session
	// twice is a logged no-op; cards are never duplicated.
	Commit(ctx context.Context, userID, sessionID string, cards []domain.Card) error
	// Sell marks an available card sold and credits its full value.
	Sell(ctx context.Context, userID, cardID string) (int, error)
	// SweepExpired converts every expired available card into credits at
	// the fixed conversion rate and removes it from the collection.
	SweepExpired(ctx context.Context, userID string, now time.Time) (*SweepResult, error)
	// Ship marks cards as shipped and debits the flat shipping fee.
	Ship(ctx context.Context, userID string, cardIDs []string) (*ShipResult, error)
}

type service struct {
	repo         repository.Collection
	ledger       ledger.Service
	publisher    Publisher
	cache        *collectionCache
	expiryWindow time.Duration
	shippingFee  int
	now          func() time.Time
}

// Config holds the policy knobs for the collection manager
type Config struct {
	ExpiryWindow time.Duration
	ShippingFee  int
}

// NewService creates a new collection service
func NewService(repo repository.Collection, ledgerSvc ledger.Service, publisher Publisher, cfg Config) Service {
	return &service{
		repo:         repo,
		ledger:       ledgerSvc,
		publisher:    publisher,
		cache:        newCollectionCache(CacheSize, CacheTTL),
		expiryWindow: cfg.ExpiryWindow,
		shippingFee:  cfg.ShippingFee,
		now:          time.Now,
	}
}

// NewServiceWithClock creates a collection service with an injected clock for tests
func NewServiceWithClock(repo repository.Collection, ledgerSvc ledger.Service, publisher Publisher, cfg Config, now func() time.Time) Service {
	s := NewService(repo, ledgerSvc, publisher, cfg).(*service)
	s.now = now
	return s
}

func (s *service) Get(ctx context.Context, userID string) (*domain.Collection, error) {
	log := logger.FromContext(ctx)
	log.Debug(LogMsgGetCalled, "userID", userID)

	if cached, ok := s.cache.Get(userID); ok {
		log.Debug(LogMsgCacheHit, "userID", userID)
		return cached, nil
	}

	col, err := s.repo.GetCollection(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetCollectionFailed, err)
	}

	s.cache.Set(userID, col)
	return col, nil
}

func (s *service) Commit(ctx context.Context, userID, sessionID string, cards []domain.Card) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgCommitCalled, "userID", userID, "sessionID", sessionID, "cards", len(cards))

	if sessionID == "" {
		return fmt.Errorf("%w: empty session id", domain.ErrInvalidInput)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	committed, err := tx.IsSessionCommitted(ctx, sessionID)
	if err != nil {
		return fmt.Errorf(ErrMsgSessionCheckFailed, err)
	}
	if committed {
		// Retried call after a completed reveal: the guard error stays
		// internal, callers see success and cards are never duplicated
		log.Warn(LogMsgCommitDuplicate, "userID", userID, "sessionID", sessionID,
			"reason", domain.ErrDuplicateCommit)
		return nil
	}

	col, err := tx.GetCollectionForUpdate(ctx, userID)
	if err != nil {
		return fmt.Errorf(ErrMsgGetCollectionFailed, err)
	}

	// The expiry clock starts now, at collection time, not at generation
	expiry := s.now().Add(s.expiryWindow)
	for _, card := range cards {
		card.ExpiryDate = &expiry
		card.Status = domain.CardStatusOwned
		col.Cards = append(col.Cards, card)
	}
	col.LastUpdate = s.now().Unix()

	if err := tx.UpdateCollection(ctx, userID, *col); err != nil {
		return fmt.Errorf(ErrMsgUpdateCollectionFailed, err)
	}
	if err := tx.MarkSessionCommitted(ctx, sessionID, userID); err != nil {
		return fmt.Errorf(ErrMsgSessionMarkFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	s.cache.Invalidate(userID)
	log.Info(LogMsgCommitApplied, "userID", userID, "sessionID", sessionID, "total", len(col.Cards))
	return nil
}

func (s *service) Sell(ctx context.Context, userID, cardID string) (int, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgSellCalled, "userID", userID, "cardID", cardID)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	col, err := tx.GetCollectionForUpdate(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf(ErrMsgGetCollectionFailed, err)
	}

	idx := col.FindCard(cardID)
	if idx == -1 {
		return 0, fmt.Errorf("%w: card %s", domain.ErrCardNotFound, cardID)
	}

	card := col.Cards[idx]
	if !card.Available(s.now()) {
		return 0, fmt.Errorf("%w: card %s", domain.ErrCardNotAvailable, cardID)
	}

	// The record stays as SOLD rather than being removed: a repeat sell on
	// the same id must fail as unavailable, not unknown
	col.Cards[idx].Status = domain.CardStatusSold
	col.LastUpdate = s.now().Unix()

	if err := tx.UpdateCollection(ctx, userID, *col); err != nil {
		return 0, fmt.Errorf(ErrMsgUpdateCollectionFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	// Full buy-back, no discount
	if _, err := s.ledger.Credit(ctx, userID, card.Value, domain.LedgerReasonSell, card.ID); err != nil {
		return 0, fmt.Errorf(ErrMsgCreditFailed, err)
	}

	s.cache.Invalidate(userID)
	log.Info(LogMsgCardSold, "userID", userID, "cardID", cardID, "credits", card.Value)

	if s.publisher != nil {
		s.publisher.PublishWithRetry(ctx, event.NewCardSoldEvent(userID, card, card.Value))
	}

	return card.Value, nil
}

func (s *service) SweepExpired(ctx context.Context, userID string, now time.Time) (*SweepResult, error) {
	log := logger.FromContext(ctx)
	log.Debug(LogMsgSweepCalled, "userID", userID)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	col, err := tx.GetCollectionForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetCollectionFailed, err)
	}

	var (
		kept      []domain.Card
		converted []string
		credits   int
	)
	for _, card := range col.Cards {
		if card.Status == domain.CardStatusOwned && card.IsExpired(now) {
			converted = append(converted, card.ID)
			credits += int(float64(card.Value) * ConversionRate)
			continue
		}
		kept = append(kept, card)
	}

	if len(converted) == 0 {
		// Nothing expired: leave the collection untouched
		return &SweepResult{}, nil
	}

	col.Cards = kept
	col.LastUpdate = s.now().Unix()

	if err := tx.UpdateCollection(ctx, userID, *col); err != nil {
		return nil, fmt.Errorf(ErrMsgUpdateCollectionFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	if credits > 0 {
		if _, err := s.ledger.Credit(ctx, userID, credits, domain.LedgerReasonConversion, converted[0]); err != nil {
			return nil, fmt.Errorf(ErrMsgCreditFailed, err)
		}
	}

	s.cache.Invalidate(userID)
	log.Info(LogMsgSweepConverted, "userID", userID, "converted", len(converted), "credits", credits)

	if s.publisher != nil {
		s.publisher.PublishWithRetry(ctx, event.NewCardsConvertedEvent(userID, converted, credits))
	}

	return &SweepResult{
		ConvertedCount: len(converted),
		CreditsGained:  credits,
		ConvertedIDs:   converted,
	}, nil
}

func (s *service) Ship(ctx context.Context, userID string, cardIDs []string) (*ShipResult, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgShipCalled, "userID", userID, "cards", len(cardIDs))

	if len(cardIDs) == 0 {
		return nil, domain.ErrNothingToShip
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	col, err := tx.GetCollectionForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetCollectionFailed, err)
	}

	now := s.now()
	indices := make([]int, 0, len(cardIDs))
	for _, cardID := range cardIDs {
		idx := col.FindCard(cardID)
		if idx == -1 {
			return nil, fmt.Errorf("%w: card %s", domain.ErrCardNotFound, cardID)
		}
		if !col.Cards[idx].Available(now) {
			return nil, fmt.Errorf("%w: card %s", domain.ErrCardNotAvailable, cardID)
		}
		indices = append(indices, idx)
	}

	// Fee is charged before the status flips so a failed debit leaves the
	// collection unchanged
	balance, err := s.ledger.Debit(ctx, userID, s.shippingFee, domain.LedgerReasonShipping, cardIDs[0])
	if err != nil {
		return nil, fmt.Errorf(ErrMsgDebitFailed, err)
	}

	for _, idx := range indices {
		col.Cards[idx].Status = domain.CardStatusShipped
	}
	col.LastUpdate = now.Unix()

	if err := tx.UpdateCollection(ctx, userID, *col); err != nil {
		return nil, fmt.Errorf(ErrMsgUpdateCollectionFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	s.cache.Invalidate(userID)
	log.Info(LogMsgCardsShipped, "userID", userID, "cards", len(cardIDs), "fee", s.shippingFee)

	if s.publisher != nil {
		s.publisher.PublishWithRetry(ctx, event.NewCardsShippedEvent(userID, cardIDs, s.shippingFee))
	}

	return &ShipResult{
		ShippedIDs: cardIDs,
		Fee:        s.shippingFee,
		Balance:    balance,
	}, nil
}
