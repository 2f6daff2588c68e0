package shop

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/packworks/packworks/internal/domain"
	"github.com/packworks/packworks/internal/event"
)

// MockGenerator implements generator.Service for testing
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, pack domain.Pack) ([]domain.Card, error) {
	args := m.Called(ctx, pack)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Card), args.Error(1)
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
