package shop

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/packworks/packworks/internal/domain"
)

func testPacks(t *testing.T) Packs {
	t.Helper()
	p, err := NewPacks(&PacksConfig{
		Version: "1.0",
		Packs: map[string]domain.Pack{
			"starter": {
				Name:      "Starter Pack",
				Price:     100,
				CardCount: 5,
				Guarantees: []domain.Guarantee{
					{Rarity: domain.RarityRare, Count: 1},
				},
			},
			"premium": {
				Name:      "Premium Pack",
				Price:     300,
				CardCount: 10,
				Guarantees: []domain.Guarantee{
					{Rarity: domain.RarityEpic, Count: 1},
				},
			},
		},
	})
	require.NoError(t, err)
	return p
}

func generatedCards() []domain.Card {
	return []domain.Card{
		{ID: "c1", Name: "Ember Sprite", Rarity: domain.RarityCommon, Value: 3, PackID: "starter"},
		{ID: "c2", Name: "Storm Drake", Rarity: domain.RarityRare, Value: 40, PackID: "starter"},
		{ID: "c3", Name: "Mud Golem", Rarity: domain.RarityCommon, Value: 2, PackID: "starter"},
	}
}

func fixedClock() func() time.Time {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestListPacks(t *testing.T) {
	svc := NewService(testPacks(t), new(MockGenerator), new(MockLedger), nil)

	packs := svc.ListPacks(context.Background())
	require.Len(t, packs, 2)
	assert.Equal(t, "premium", packs[0].ID) // sorted by id
	assert.Equal(t, "starter", packs[1].ID)
}

func TestPurchase(t *testing.T) {
	gen := new(MockGenerator)
	led := new(MockLedger)
	pub := &capturePublisher{}

	cards := generatedCards()
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(p domain.Pack) bool {
		return p.ID == "starter" && p.CardCount == 5
	})).Return(cards, nil)
	led.On("Debit", mock.Anything, "user-1", 100, domain.LedgerReasonPurchase, "starter").Return(400, nil)

	svc := NewServiceWithClock(testPacks(t), gen, led, pub, fixedClock())
	result, err := svc.Purchase(context.Background(), "user-1", "starter")

	require.NoError(t, err)
	assert.Equal(t, cards, result.Cards)
	assert.Equal(t, "user-1", result.Transaction.UserID)
	assert.Equal(t, "starter", result.Transaction.PackID)
	assert.Equal(t, 100, result.Transaction.Price)
	assert.Equal(t, 400, result.Transaction.Balance)
	assert.NotEmpty(t, result.Transaction.ID)

	require.Len(t, pub.events, 1)
	assert.Equal(t, domain.EventTypePackOpened, string(pub.events[0].Type))
	payload := pub.events[0].Payload.(domain.PackOpenedPayload)
	assert.Equal(t, domain.RarityRare, payload.BestRarity)
	assert.Equal(t, "Storm Drake", payload.BestName)
	assert.Equal(t, 45, payload.TotalValue)
	assert.Len(t, payload.CardIDs, 3)
}

func TestPurchaseUnknownPack(t *testing.T) {
	gen := new(MockGenerator)
	led := new(MockLedger)

	svc := NewService(testPacks(t), gen, led, nil)
	_, err := svc.Purchase(context.Background(), "user-1", "mystery")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownPack)
	led.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPurchaseInsufficientFunds(t *testing.T) {
	gen := new(MockGenerator)
	led := new(MockLedger)
	pub := &capturePublisher{}

	gen.On("Generate", mock.Anything, mock.Anything).Return(generatedCards(), nil)
	led.On("Debit", mock.Anything, "user-1", 100, domain.LedgerReasonPurchase, "starter").
		Return(0, domain.ErrInsufficientFunds)

	svc := NewService(testPacks(t), gen, led, pub)
	_, err := svc.Purchase(context.Background(), "user-1", "starter")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Empty(t, pub.events)
}

func TestPurchaseGenerationFailureSkipsDebit(t *testing.T) {
	gen := new(MockGenerator)
	led := new(MockLedger)

	gen.On("Generate", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidConfig)

	svc := NewService(testPacks(t), gen, led, nil)
	_, err := svc.Purchase(context.Background(), "user-1", "starter")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	led.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
