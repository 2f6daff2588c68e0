package collection

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/packworks/packworks/internal/domain"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testConfig() Config {
	return Config{
		ExpiryWindow: 14 * 24 * time.Hour,
		ShippingFee:  25,
	}
}

func newTestService(repo *MockRepository, led *MockLedger, pub Publisher) Service {
	return NewServiceWithClock(repo, led, pub, testConfig(), func() time.Time { return testNow })
}

func ownedCard(id string, value int) domain.Card {
	expiry := testNow.Add(7 * 24 * time.Hour)
	return domain.Card{
		ID:         id,
		Name:       "Storm Drake",
		Rarity:     domain.RarityRare,
		Finish:     domain.FinishNormal,
		Value:      value,
		PackID:     "starter",
		ExpiryDate: &expiry,
		Status:     domain.CardStatusOwned,
	}
}

func expiredCard(id string, value int) domain.Card {
	expiry := testNow.Add(-24 * time.Hour)
	c := ownedCard(id, value)
	c.ExpiryDate = &expiry
	return c
}

func closedRollback() error {
	return errors.New(domain.ErrMsgTxClosed)
}

func TestCommitStampsExpiryAndAppends(t *testing.T) {
	repo := new(MockRepository)
	tx := new(MockTx)
	led := new(MockLedger)

	cards := []domain.Card{
		{ID: "c1", Name: "Ember Sprite", Rarity: domain.RarityCommon, Value: 3, PackID: "starter"},
		{ID: "c2", Name: "Void Seraph", Rarity: domain.RarityLegendary, Value: 250, PackID: "starter"},
	}

	repo.On("BeginTx", mock.Anything).Return(tx, nil)
	tx.On("IsSessionCommitted", mock.Anything, "sess-1").Return(false, nil)
	tx.On("GetCollectionForUpdate", mock.Anything, "user-1").Return(&domain.Collection{}, nil)
	tx.On("UpdateCollection", mock.Anything, "user-1", mock.MatchedBy(func(col domain.Collection) bool {
		if len(col.Cards) != 2 {
			return false
		}
		wantExpiry := testNow.Add(14 * 24 * time.Hour)
		for _, c := range col.Cards {
			if c.ExpiryDate == nil || !c.ExpiryDate.Equal(wantExpiry) {
				return false
			}
			if c.Status != domain.CardStatusOwned {
				return false
			}
		}
		return true
	})).Return(nil)
	tx.On("MarkSessionCommitted", mock.Anything, "sess-1", "user-1").Return(nil)
	tx.On("Commit", mock.Anything).Return(nil)
	tx.On("Rollback", mock.Anything).Return(closedRollback())

	svc := newTestService(repo, led, nil)
	err := svc.Commit(context.Background(), "user-1", "sess-1", cards)

	require.NoError(t, err)
	tx.AssertExpectations(t)
}

func TestCommitDuplicateSessionIsNoOp(t *testing.T) {
	repo := new(MockRepository)
	tx := new(MockTx)
	led := new(MockLedger)

	repo.On("BeginTx", mock.Anything).Return(tx, nil)
	tx.On("IsSessionCommitted", mock.Anything, "sess-1").Return(true, nil)
	tx.On("Rollback", mock.Anything).Return(nil)

	svc := newTestService(repo, led, nil)
	err := svc.Commit(context.Background(), "user-1", "sess-1", []domain.Card{ownedCard("c1", 10)})

	require.NoError(t, err)
	tx.AssertNotCalled(t, "GetCollectionForUpdate", mock.Anything, mock.Anything)
	tx.AssertNotCalled(t, "UpdateCollection", mock.Anything, mock.Anything, mock.Anything)
	tx.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestCommitEmptySessionID(t *testing.T) {
	repo := new(MockRepository)
	led := new(MockLedger)

	svc := newTestService(repo, led, nil)
	err := svc.Commit(context.Background(), "user-1", "", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	repo.AssertNotCalled(t, "BeginTx", mock.Anything)
}

func TestSellCreditsFullValue(t *testing.T) {
	repo := new(MockRepository)
	tx := new(MockTx)
	led := new(MockLedger)
	pub := &capturePublisher{}

	card := ownedCard("c1", 100)
	repo.On("BeginTx", mock.Anything).Return(tx, nil)
	tx.On("GetCollectionForUpdate", mock.Anything, "user-1").
		Return(&domain.Collection{Cards: []domain.Card{card}}, nil)
	tx.On("UpdateCollection", mock.Anything, "user-1", mock.MatchedBy(func(col domain.Collection) bool {
		return len(col.Cards) == 1 && col.Cards[0].Status == domain.CardStatusSold
	})).Return(nil)
	tx.On("Commit", mock.Anything).Return(nil)
	tx.On("Rollback", mock.Anything).Return(closedRollback())
	led.On("Credit", mock.Anything, "user-1", 100, domain.LedgerReasonSell, "c1").Return(200, nil)

	svc := newTestService(repo, led, pub)
	credits, err := svc.Sell(context.Background(), "user-1", "c1")

	require.NoError(t, err)
	assert.Equal(t, 100, credits)
	led.AssertExpectations(t)
	require.Len(t, pub.events, 1)
	assert.Equal(t, domain.EventTypeCardSold, string(pub.events[0].Type))
}

func TestSellSameCardTwice(t *testing.T) {
	repo := new(MockRepository)
	tx := new(MockTx)
	led := new(MockLedger)

	// Same backing collection across both calls: the first sell marks the
	// card SOLD, the second must see it as unavailable
	col := &domain.Collection{Cards: []domain.Card{ownedCard("c1", 100)}}

	repo.On("BeginTx", mock.Anything).Return(tx, nil)
	tx.On("GetCollectionForUpdate", mock.Anything, "user-1").Return(col, nil)
	tx.On("UpdateCollection", mock.Anything, "user-1", mock.Anything).Return(nil)
	tx.On("Commit", mock.Anything).Return(nil)
	tx.On("Rollback", mock.Anything).Return(closedRollback())
	led.On("Credit", mock.Anything, "user-1", 100, domain.LedgerReasonSell, "c1").Return(100, nil)

	svc := newTestService(repo, led, nil)

	credits, err := svc.Sell(context.Background(), "user-1", "c1")
	require.NoError(t, err)
	assert.Equal(t, 100, credits)

	_, err = svc.Sell(context.Background(), "user-1", "c1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCardNotAvailable)
	led.AssertNumberOfCalls(t, "Credit", 1)
}

func TestSellMissingCard(t *testing.T) {
	repo := new(MockRepository)
	tx := new(MockTx)
	led := new(MockLedger)

	repo.On("BeginTx", mock.Anything).Return(tx, nil)
	tx.On("GetCollectionForUpdate", mock.Anything, "user-1").Return(&domain.Collection{}, nil)
	tx.On("Rollback", mock.Anything).Return(nil)

	svc := newTestService(repo, led, nil)
	_, err := svc.Sell(context.Background(), "user-1", "ghost")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCardNotFound)
	led.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSellExpiredCard(t *testing.T) {
	repo := new(MockRepository)
	tx := new(MockTx)
	led := new(MockLedger)

	repo.On("BeginTx", mock.Anything).Return(tx, nil)
	tx.On("GetCollectionForUpdate", mock.Anything, "user-1").
		Return(&domain.Collection{Cards: []domain.Card{expiredCard("c1", 100)}}, nil)
	tx.On("Rollback", mock.Anything).Return(nil)

	svc := newTestService(repo, led, nil)
	_, err := svc.Sell(context.Background(), "user-1", "c1")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCardNotAvailable)
	tx.AssertNotCalled(t, "UpdateCollection", mock.Anything, mock.Anything, mock.Anything)
	led.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSellShippedCard(t *testing.T) {
	repo := new(MockRepository)
	tx := new(MockTx)
	led := new(MockLedger)

	shipped := ownedCard("c1", 100)
	shipped.Status = domain.CardStatusShipped

	repo.On("BeginTx", mock.Anything).Return(tx, nil)
	tx.On("GetCollectionForUpdate", mock.Anything, "user-1").
		Return(&domain.Collection{Cards: []domain.Card{shipped}}, nil)
	tx.On("Rollback", mock.Anything).Return(nil)

	svc := newTestService(repo, led, nil)
	_, err := svc.Sell(context.Background(), "user-1", "c1")

	assert.ErrorIs(t, err, domain.ErrCardNotAvailable)
}

func TestSweepExpiredConvertsAtHalfValue(t *testing.T) {
	repo := new(MockRepository)
	tx := new(MockTx)
	led := new(MockLedger)
	pub := &capturePublisher{}

	col := &domain.Collection{Cards: []domain.Card{
		expiredCard("old", 40),
		ownedCard("fresh", 100),
	}}

	repo.On("BeginTx", mock.Anything).Return(tx, nil)
	tx.On("GetCollectionForUpdate", mock.Anything, "user-1").Return(col, nil)
	tx.On("UpdateCollection", mock.Anything, "user-1", mock.MatchedBy(func(c domain.Collection) bool {
		return len(c.Cards) == 1 && c.Cards[0].ID == "fresh"
	})).Return(nil)
	tx.On("Commit", mock.Anything).Return(nil)
	tx.On("Rollback", mock.Anything).Return(closedRollback())
	led.On("Credit", mock.Anything, "user-1", 20, domain.LedgerReasonConversion, "old").Return(120, nil)

	svc := newTestService(repo, led, pub)
	result, err := svc.SweepExpired(context.Background(), "user-1", testNow)

	require.NoError(t, err)
	assert.Equal(t, 1, result.ConvertedCount)
	assert.Equal(t, 20, result.CreditsGained)
	assert.Equal(t, []string{"old"}, result.ConvertedIDs)
	led.AssertExpectations(t)
	require.Len(t, pub.events, 1)
	assert.Equal(t, domain.EventTypeCardsConverted, string(pub.events[0].Type))
}

func TestSweepNoExpiredIsNoOp(t *testing.T) {
	repo := new(MockRepository)
	tx := new(MockTx)
	led := new(MockLedger)

	repo.On("BeginTx", mock.Anything).Return(tx, nil)
	tx.On("GetCollectionForUpdate", mock.Anything, "user-1").
		Return(&domain.Collection{Cards: []domain.Card{ownedCard("c1", 50)}}, nil)
	tx.On("Rollback", mock.Anything).Return(nil)

	svc := newTestService(repo, led, nil)
	result, err := svc.SweepExpired(context.Background(), "user-1", testNow)

	require.NoError(t, err)
	assert.Equal(t, 0, result.ConvertedCount)
	assert.Equal(t, 0, result.CreditsGained)
	tx.AssertNotCalled(t, "UpdateCollection", mock.Anything, mock.Anything, mock.Anything)
	led.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSweepSkipsShippedCards(t *testing.T) {
	repo := new(MockRepository)
	tx := new(MockTx)
	led := new(MockLedger)

	shippedExpired := expiredCard("shipped", 80)
	shippedExpired.Status = domain.CardStatusShipped

	repo.On("BeginTx", mock.Anything).Return(tx, nil)
	tx.On("GetCollectionForUpdate", mock.Anything, "user-1").
		Return(&domain.Collection{Cards: []domain.Card{shippedExpired}}, nil)
	tx.On("Rollback", mock.Anything).Return(nil)

	svc := newTestService(repo, led, nil)
	result, err := svc.SweepExpired(context.Background(), "user-1", testNow)

	require.NoError(t, err)
	assert.Equal(t, 0, result.ConvertedCount)
}

func TestShipDebitsFeeAndMarksShipped(t *testing.T) {
	repo := new(MockRepository)
	tx := new(MockTx)
	led := new(MockLedger)
	pub := &capturePublisher{}

	col := &domain.Collection{Cards: []domain.Card{
		ownedCard("c1", 100),
		ownedCard("c2", 50),
	}}

	repo.On("BeginTx", mock.Anything).Return(tx, nil)
	tx.On("GetCollectionForUpdate", mock.Anything, "user-1").Return(col, nil)
	led.On("Debit", mock.Anything, "user-1", 25, domain.LedgerReasonShipping, "c1").Return(75, nil)
	tx.On("UpdateCollection", mock.Anything, "user-1", mock.MatchedBy(func(c domain.Collection) bool {
		return len(c.Cards) == 2 &&
			c.Cards[0].Status == domain.CardStatusShipped &&
			c.Cards[1].Status == domain.CardStatusShipped
	})).Return(nil)
	tx.On("Commit", mock.Anything).Return(nil)
	tx.On("Rollback", mock.Anything).Return(closedRollback())

	svc := newTestService(repo, led, pub)
	result, err := svc.Ship(context.Background(), "user-1", []string{"c1", "c2"})

	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c2"}, result.ShippedIDs)
	assert.Equal(t, 25, result.Fee)
	assert.Equal(t, 75, result.Balance)
	require.Len(t, pub.events, 1)
	assert.Equal(t, domain.EventTypeCardsShipped, string(pub.events[0].Type))
}

func TestShipNothing(t *testing.T) {
	repo := new(MockRepository)
	led := new(MockLedger)

	svc := newTestService(repo, led, nil)
	_, err := svc.Ship(context.Background(), "user-1", nil)

	assert.ErrorIs(t, err, domain.ErrNothingToShip)
	repo.AssertNotCalled(t, "BeginTx", mock.Anything)
}

func TestShipInsufficientFundsLeavesCollectionUnchanged(t *testing.T) {
	repo := new(MockRepository)
	tx := new(MockTx)
	led := new(MockLedger)

	repo.On("BeginTx", mock.Anything).Return(tx, nil)
	tx.On("GetCollectionForUpdate", mock.Anything, "user-1").
		Return(&domain.Collection{Cards: []domain.Card{ownedCard("c1", 100)}}, nil)
	led.On("Debit", mock.Anything, "user-1", 25, domain.LedgerReasonShipping, "c1").
		Return(0, domain.ErrInsufficientFunds)
	tx.On("Rollback", mock.Anything).Return(nil)

	svc := newTestService(repo, led, nil)
	_, err := svc.Ship(context.Background(), "user-1", []string{"c1"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	tx.AssertNotCalled(t, "UpdateCollection", mock.Anything, mock.Anything, mock.Anything)
	tx.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestGetUsesCache(t *testing.T) {
	repo := new(MockRepository)
	led := new(MockLedger)

	col := &domain.Collection{Cards: []domain.Card{ownedCard("c1", 10)}}
	repo.On("GetCollection", mock.Anything, "user-1").Return(col, nil).Once()

	svc := newTestService(repo, led, nil)

	first, err := svc.Get(context.Background(), "user-1")
	require.NoError(t, err)
	second, err := svc.Get(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	repo.AssertExpectations(t)
}
