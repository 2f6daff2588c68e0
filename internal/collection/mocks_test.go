package collection

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/packworks/packworks/internal/domain"
	"github.com/packworks/packworks/internal/event"
	"github.com/packworks/packworks/internal/repository"
)

// MockRepository implements repository.Collection for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) GetCollection(ctx context.Context, userID string) (*domain.Collection, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Collection), args.Error(1)
}

func (m *MockRepository) UpdateCollection(ctx context.Context, userID string, col domain.Collection) error {
	args := m.Called(ctx, userID, col)
	return args.Error(0)
}

func (m *MockRepository) BeginTx(ctx context.Context) (repository.CollectionTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.CollectionTx), args.Error(1)
}

// MockTx implements repository.CollectionTx for testing
type MockTx struct {
	mock.Mock
}

func (m *MockTx) GetCollectionForUpdate(ctx context.Context, userID string) (*domain.Collection, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Collection), args.Error(1)
}

func (m *MockTx) UpdateCollection(ctx context.Context, userID string, col domain.Collection) error {
	args := m.Called(ctx, userID, col)
	return args.Error(0)
}

func (m *MockTx) IsSessionCommitted(ctx context.Context, sessionID string) (bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTx) MarkSessionCommitted(ctx context.Context, sessionID, userID string) error {
	args := m.Called(ctx, sessionID, userID)
	return args.Error(0)
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockLedger implements ledger.Service for testing
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Balance(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockLedger) Credit(ctx context.Context, userID string, amount int, reason, reference string) (int, error) {
	args := m.Called(ctx, userID, amount, reason, reference)
	return args.Int(0), args.Error(1)
}

func (m *MockLedger) Debit(ctx context.Context, userID string, amount int, reason, reference string) (int, error) {
	args := m.Called(ctx, userID, amount, reason, reference)
	return args.Int(0), args.Error(1)
}

func (m *MockLedger) History(ctx context.Context, userID string, limit int) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

// capturePublisher records published events for assertions
type capturePublisher struct {
	events []event.Event
}

func (p *capturePublisher) PublishWithRetry(ctx context.Context, evt event.Event) {
	p.events = append(p.events, evt)
}
