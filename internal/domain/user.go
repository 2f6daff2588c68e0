package domain

import "time"

// User represents an account in the storefront. Collections and ledgers
// are owned exclusively by one user; there is no sharing.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Collection is the set of cards a user owns. Append-only except for
// expiry conversion, which removes converted cards; sell and ship flip
// the card status in place. Stored as JSONB.
type Collection struct {
	Cards      []Card `json:"cards"`
	LastUpdate int64  `json:"last_update,omitempty"`
}

// FindCard returns the index of the card with the given id, or -1.
func (c *Collection) FindCard(cardID string) int {
	for i, card := range c.Cards {
		if card.ID == cardID {
			return i
		}
	}
	return -1
}

// TotalValue sums the value of all owned (not sold/shipped) cards.
func (c *Collection) TotalValue() int {
	total := 0
	for _, card := range c.Cards {
		if card.Status == CardStatusOwned {
			total += card.Value
		}
	}
	return total
}
