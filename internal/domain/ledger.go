package domain

import "time"

// Ledger entry reasons.
const (
	LedgerReasonPurchase   = "purchase"
	LedgerReasonSell       = "sell"
	LedgerReasonConversion = "conversion"
	LedgerReasonShipping   = "shipping"
	LedgerReasonGrant      = "grant"
)

// LedgerEntry records one credit balance mutation. Amount is positive for
// credits and negative for debits; Balance is the balance after applying it.
type LedgerEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Amount    int       `json:"amount"`
	Reason    string    `json:"reason"`
	Reference string    `json:"reference,omitempty"` // card, pack, or session id
	Balance   int       `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}
