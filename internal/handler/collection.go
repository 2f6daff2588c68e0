package handler

import (
	"net/http"

	"github.com/packworks/packworks/internal/collection"
	"github.com/packworks/packworks/internal/logger"
)

// CollectionHandler serves a user's card collection and its mutations
type CollectionHandler struct {
	service collection.Service
}

// NewCollectionHandler creates a new CollectionHandler
func NewCollectionHandler(service collection.Service) *CollectionHandler {
	return &CollectionHandler{service: service}
}

// HandleGetCollection returns the user's full collection
func (h *CollectionHandler) HandleGetCollection(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetQueryParam(r, w, "user_id")
	if !ok {
		return
	}

	coll, err := h.service.Get(r.Context(), userID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to get collection", "user_id", userID, "error", err)
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}

	respondJSON(w, http.StatusOK, coll)
}

type SellCardRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	CardID string `json:"card_id" validate:"required"`
}

// SellCardResponse reports the credits gained from a sale
type SellCardResponse struct {
	Message string `json:"message"`
	Credits int    `json:"credits"`
}

// HandleSellCard sells one available card at full value
func (h *CollectionHandler) HandleSellCard(w http.ResponseWriter, r *http.Request) {
	var req SellCardRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Sell card"); err != nil {
		return
	}

	credits, err := h.service.Sell(r.Context(), req.UserID, req.CardID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to sell card", "card_id", req.CardID, "error", err)
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}

	respondJSON(w, http.StatusOK, SellCardResponse{Message: MsgCardSold, Credits: credits})
}

type ShipCardsRequest struct {
	UserID  string   `json:"user_id" validate:"required,uuid"`
	CardIDs []string `json:"card_ids" validate:"required,min=1"`
}

// HandleShipCards requests physical shipping for a set of cards
func (h *CollectionHandler) HandleShipCards(w http.ResponseWriter, r *http.Request) {
	var req ShipCardsRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Ship cards"); err != nil {
		return
	}

	result, err := h.service.Ship(r.Context(), req.UserID, req.CardIDs)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to ship cards", "user_id", req.UserID, "error", err)
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
