package shop

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/packworks/packworks/internal/domain"
	"github.com/packworks/packworks/internal/event"
	"github.com/packworks/packworks/internal/generator"
	"github.com/packworks/packworks/internal/ledger"
	"github.com/packworks/packworks/internal/logger"
)

// PurchaseResult is the payload returned for a completed pack purchase.
// Cards are in generation order; the reveal layer owns display ordering.
type PurchaseResult struct {
	Cards       []domain.Card      `json:"cards"`
	Transaction domain.Transaction `json:"transaction"`
}

// Publisher defines the event publishing interface
type Publisher interface {
	PublishWithRetry(ctx context.Context, evt event.Event)
}

// Service defines the shop interface
type Service interface {
	// ListPacks returns every purchasable pack.
	ListPacks(ctx context.Context) []domain.Pack
	// Purchase debits the pack price and generates its cards. The cards
	// are not yet in the user's collection; that happens when the reveal
	// session commits.
	Purchase(ctx context.Context, userID, packID string) (*PurchaseResult, error)
}

type service struct {
	packs     Packs
	generator generator.Service
	ledger    ledger.Service
	publisher Publisher
	now       func() time.Time
}

// NewService creates a new shop service
func NewService(packs Packs, gen generator.Service, ledgerSvc ledger.Service, publisher Publisher) Service {
	return &service{
		packs:     packs,
		generator: gen,
		ledger:    ledgerSvc,
		publisher: publisher,
		now:       time.Now,
	}
}

// NewServiceWithClock creates a shop service with an injected clock for tests
func NewServiceWithClock(packs Packs, gen generator.Service, ledgerSvc ledger.Service, publisher Publisher, now func() time.Time) Service {
	s := NewService(packs, gen, ledgerSvc, publisher).(*service)
	s.now = now
	return s
}

func (s *service) ListPacks(ctx context.Context) []domain.Pack {
	logger.FromContext(ctx).Debug(LogMsgListPacksCalled)
	return s.packs.List()
}

func (s *service) Purchase(ctx context.Context, userID, packID string) (*PurchaseResult, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgPurchaseCalled, "userID", userID, "packID", packID)

	pack, err := s.packs.Get(packID)
	if err != nil {
		return nil, err
	}

	// Generate before debiting: generation is pure, so a config fault
	// surfaces before any credits move.
	cards, err := s.generator.Generate(ctx, pack)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGenerateFailed, err)
	}

	balance, err := s.ledger.Debit(ctx, userID, pack.Price, domain.LedgerReasonPurchase, pack.ID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgDebitFailed, err)
	}

	transaction := domain.Transaction{
		ID:       uuid.NewString(),
		UserID:   userID,
		PackID:   pack.ID,
		Price:    pack.Price,
		Balance:  balance,
		DateUnix: s.now().Unix(),
	}

	log.Info(LogMsgPackPurchased, "userID", userID, "packID", pack.ID, "price", pack.Price, "balance", balance)

	if s.publisher != nil {
		s.publisher.PublishWithRetry(ctx, newPackOpenedEvent(userID, pack.ID, cards))
	}

	return &PurchaseResult{Cards: cards, Transaction: transaction}, nil
}

// newPackOpenedEvent summarizes a pull for announcers: the rarest card wins
// the headline.
func newPackOpenedEvent(userID, packID string, cards []domain.Card) event.Event {
	var (
		cardIDs    = make([]string, 0, len(cards))
		best       domain.Card
		totalValue int
	)
	for i, c := range cards {
		cardIDs = append(cardIDs, c.ID)
		totalValue += c.Value
		if i == 0 || c.Rarity.Rank() > best.Rarity.Rank() {
			best = c
		}
	}
	return event.NewPackOpenedEvent(userID, packID, cardIDs, best.Rarity, best.Name, totalValue)
}
