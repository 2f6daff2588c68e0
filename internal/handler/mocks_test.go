package handler

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/packworks/packworks/internal/collection"
	"github.com/packworks/packworks/internal/domain"
	"github.com/packworks/packworks/internal/shop"
)

type MockShopService struct {
	mock.Mock
}

func (m *MockShopService) ListPacks(ctx context.Context) []domain.Pack {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Pack)
}

func (m *MockShopService) Purchase(ctx context.Context, userID, packID string) (*shop.PurchaseResult, error) {
	args := m.Called(ctx, userID, packID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shop.PurchaseResult), args.Error(1)
}

type MockCollectionService struct {
	mock.Mock
}

func (m *MockCollectionService) Get(ctx context.Context, userID string) (*domain.Collection, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Collection), args.Error(1)
}

func (m *MockCollectionService) Commit(ctx context.Context, userID, sessionID string, cards []domain.Card) error {
	args := m.Called(ctx, userID, sessionID, cards)
	return args.Error(0)
}

func (m *MockCollectionService) Sell(ctx context.Context, userID, cardID string) (int, error) {
	args := m.Called(ctx, userID, cardID)
	return args.Int(0), args.Error(1)
}

func (m *MockCollectionService) SweepExpired(ctx context.Context, userID string, now time.Time) (*collection.SweepResult, error) {
	args := m.Called(ctx, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*collection.SweepResult), args.Error(1)
}

func (m *MockCollectionService) Ship(ctx context.Context, userID string, cardIDs []string) (*collection.ShipResult, error) {
	args := m.Called(ctx, userID, cardIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*collection.ShipResult), args.Error(1)
}

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Balance(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockLedgerService) Credit(ctx context.Context, userID string, amount int, reason, reference string) (int, error) {
	args := m.Called(ctx, userID, amount, reason, reference)
	return args.Int(0), args.Error(1)
}

func (m *MockLedgerService) Debit(ctx context.Context, userID string, amount int, reason, reference string) (int, error) {
	args := m.Called(ctx, userID, amount, reason, reference)
	return args.Int(0), args.Error(1)
}

func (m *MockLedgerService) History(ctx context.Context, userID string, limit int) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) UpsertUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
