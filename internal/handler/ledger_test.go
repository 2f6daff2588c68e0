package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/packworks/packworks/internal/domain"
)

func TestHandleGetBalance(t *testing.T) {
	userID := uuid.NewString()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockLedgerService)
		h := NewLedgerHandler(mockService)
		mockService.On("Balance", mock.Anything, userID).Return(340, nil)

		req := httptest.NewRequest(http.MethodGet, "/credits?user_id="+userID, nil)
		rec := httptest.NewRecorder()
		h.HandleGetBalance(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp BalanceResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 340, resp.Balance)
	})

	t.Run("MissingUserID", func(t *testing.T) {
		h := NewLedgerHandler(new(MockLedgerService))

		req := httptest.NewRequest(http.MethodGet, "/credits", nil)
		rec := httptest.NewRecorder()
		h.HandleGetBalance(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleGetHistory(t *testing.T) {
	userID := uuid.NewString()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockLedgerService)
		h := NewLedgerHandler(mockService)
		entries := []domain.LedgerEntry{
			{ID: uuid.NewString(), UserID: userID, Amount: -100, Reason: domain.LedgerReasonPurchase, Balance: 240, CreatedAt: time.Now()},
			{ID: uuid.NewString(), UserID: userID, Amount: 340, Reason: domain.LedgerReasonGrant, Balance: 340, CreatedAt: time.Now().Add(-time.Hour)},
		}
		mockService.On("History", mock.Anything, userID, 0).Return(entries, nil)

		req := httptest.NewRequest(http.MethodGet, "/credits/history?user_id="+userID, nil)
		rec := httptest.NewRecorder()
		h.HandleGetHistory(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var got []domain.LedgerEntry
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, domain.LedgerReasonPurchase, got[0].Reason)
	})

	t.Run("CustomLimit", func(t *testing.T) {
		mockService := new(MockLedgerService)
		h := NewLedgerHandler(mockService)
		mockService.On("History", mock.Anything, userID, 5).Return([]domain.LedgerEntry{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/credits/history?user_id="+userID+"&limit=5", nil)
		rec := httptest.NewRecorder()
		h.HandleGetHistory(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("BadLimit", func(t *testing.T) {
		h := NewLedgerHandler(new(MockLedgerService))

		req := httptest.NewRequest(http.MethodGet, "/credits/history?user_id="+userID+"&limit=banana", nil)
		rec := httptest.NewRecorder()
		h.HandleGetHistory(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleGrantCredits(t *testing.T) {
	userID := uuid.NewString()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockLedgerService)
		h := NewLedgerHandler(mockService)
		mockService.On("Credit", mock.Anything, userID, 500, domain.LedgerReasonGrant, "promo").Return(500, nil)

		rec := postJSON(t, h.HandleGrantCredits, "/admin/credits/grant", GrantCreditsRequest{
			UserID: userID,
			Amount: 500,
			Reason: "promo",
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp BalanceResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 500, resp.Balance)
	})

	t.Run("NonPositiveAmount", func(t *testing.T) {
		h := NewLedgerHandler(new(MockLedgerService))

		rec := postJSON(t, h.HandleGrantCredits, "/admin/credits/grant", GrantCreditsRequest{
			UserID: userID,
			Amount: -5,
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
