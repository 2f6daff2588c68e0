package domain

// Event type constants for the in-process event bus.
const (
	EventTypePackOpened     = "pack.opened"
	EventTypeCardSold       = "card.sold"
	EventTypeCardsConverted = "cards.converted"
	EventTypeCardsShipped   = "cards.shipped"
)

// PackOpenedPayload is published after a successful pack purchase.
type PackOpenedPayload struct {
	UserID     string   `json:"user_id"`
	PackID     string   `json:"pack_id"`
	CardIDs    []string `json:"card_ids"`
	BestRarity Rarity   `json:"best_rarity"`
	BestName   string   `json:"best_name"`
	TotalValue int      `json:"total_value"`
	Timestamp  int64    `json:"timestamp"`
}

// CardSoldPayload is published after a buy-back completes.
type CardSoldPayload struct {
	UserID    string `json:"user_id"`
	CardID    string `json:"card_id"`
	CardName  string `json:"card_name"`
	Rarity    Rarity `json:"rarity"`
	Credits   int    `json:"credits"`
	Timestamp int64  `json:"timestamp"`
}

// CardsConvertedPayload is published after an expiry sweep converts cards.
type CardsConvertedPayload struct {
	UserID         string   `json:"user_id"`
	ConvertedIDs   []string `json:"converted_ids"`
	ConvertedCount int      `json:"converted_count"`
	CreditsGained  int      `json:"credits_gained"`
	Timestamp      int64    `json:"timestamp"`
}

// CardsShippedPayload is published after a shipping request is accepted.
type CardsShippedPayload struct {
	UserID      string   `json:"user_id"`
	CardIDs     []string `json:"card_ids"`
	ShippingFee int      `json:"shipping_fee"`
	Timestamp   int64    `json:"timestamp"`
}
