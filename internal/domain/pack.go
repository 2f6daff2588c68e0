package domain

// Guarantee is a minimum-count promise a pack makes for one rarity tier.
type Guarantee struct {
	Rarity Rarity `json:"rarity"`
	Count  int    `json:"count"`
}

// Pack is a purchasable product descriptor. CardCount cards are generated
// per opening and every guarantee must be satisfied.
type Pack struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Price      int         `json:"price"`
	CardCount  int         `json:"card_count"`
	Guarantees []Guarantee `json:"guarantees,omitempty"`
}

// GuaranteedTotal returns the number of slots consumed by guarantees.
func (p Pack) GuaranteedTotal() int {
	total := 0
	for _, g := range p.Guarantees {
		total += g.Count
	}
	return total
}

// Transaction records one completed pack purchase.
type Transaction struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	PackID   string `json:"pack_id"`
	Price    int    `json:"price"`
	Balance  int    `json:"balance"` // balance after the purchase
	DateUnix int64  `json:"date_unix"`
}
