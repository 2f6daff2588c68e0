package handler

import (
	"net/http"

	"github.com/packworks/packworks/internal/shop"
)

// ShopHandler serves the pack storefront
type ShopHandler struct {
	service shop.Service
}

// NewShopHandler creates a new ShopHandler
func NewShopHandler(service shop.Service) *ShopHandler {
	return &ShopHandler{service: service}
}

// HandleListPacks returns every purchasable pack
func (h *ShopHandler) HandleListPacks(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.ListPacks(r.Context()))
}
