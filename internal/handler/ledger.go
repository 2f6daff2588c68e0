package handler

import (
	"net/http"
	"strconv"

	"github.com/packworks/packworks/internal/domain"
	"github.com/packworks/packworks/internal/ledger"
	"github.com/packworks/packworks/internal/logger"
)

// LedgerHandler serves credit balances and transaction history
type LedgerHandler struct {
	service ledger.Service
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(service ledger.Service) *LedgerHandler {
	return &LedgerHandler{service: service}
}

// BalanceResponse reports a user's current credit balance
type BalanceResponse struct {
	UserID  string `json:"user_id"`
	Balance int    `json:"balance"`
}

// HandleGetBalance returns the user's current credit balance
func (h *LedgerHandler) HandleGetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetQueryParam(r, w, "user_id")
	if !ok {
		return
	}

	balance, err := h.service.Balance(r.Context(), userID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to get balance", "user_id", userID, "error", err)
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}

	respondJSON(w, http.StatusOK, BalanceResponse{UserID: userID, Balance: balance})
}

// HandleGetHistory returns recent ledger entries, newest first. The limit
// query parameter caps the page size.
func (h *LedgerHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetQueryParam(r, w, "user_id")
	if !ok {
		return
	}

	limit, err := strconv.Atoi(GetOptionalQueryParam(r, "limit", "0"))
	if err != nil || limit < 0 {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidInputError)
		return
	}

	entries, err := h.service.History(r.Context(), userID, limit)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to get ledger history", "user_id", userID, "error", err)
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}

	respondJSON(w, http.StatusOK, entries)
}

type GrantCreditsRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Amount int    `json:"amount" validate:"required,gt=0"`
	Reason string `json:"reason" validate:"max=255"`
}

// HandleGrantCredits credits a user's balance. Admin only; the reason lands
// in the ledger reference so grants stay auditable.
func (h *LedgerHandler) HandleGrantCredits(w http.ResponseWriter, r *http.Request) {
	var req GrantCreditsRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Grant credits"); err != nil {
		return
	}

	balance, err := h.service.Credit(r.Context(), req.UserID, req.Amount, domain.LedgerReasonGrant, req.Reason)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to grant credits", "user_id", req.UserID, "error", err)
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}

	respondJSON(w, http.StatusOK, BalanceResponse{UserID: req.UserID, Balance: balance})
}
