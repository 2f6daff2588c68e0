package domain

import "time"

// Rarity is the ordered scarcity tier of a card. The ordering is
// significant: reveal order and skip-to-rare both depend on Rank.
type Rarity string

const (
	RarityCommon    Rarity = "COMMON"
	RarityUncommon  Rarity = "UNCOMMON"
	RarityRare      Rarity = "RARE"
	RarityEpic      Rarity = "EPIC"
	RarityLegendary Rarity = "LEGENDARY"
	RarityMythic    Rarity = "MYTHIC"
)

// rarityRanks fixes the tier ordering used for sorting and skip-to-rare.
var rarityRanks = map[Rarity]int{
	RarityCommon:    0,
	RarityUncommon:  1,
	RarityRare:      2,
	RarityEpic:      3,
	RarityLegendary: 4,
	RarityMythic:    5,
}

// Rarities lists all tiers in ascending order.
var Rarities = []Rarity{
	RarityCommon,
	RarityUncommon,
	RarityRare,
	RarityEpic,
	RarityLegendary,
	RarityMythic,
}

// Rank returns the numeric position of the rarity in the fixed ordering.
// Unknown rarities rank below common so bad data never passes an
// AtLeast check.
func (r Rarity) Rank() int {
	if rank, ok := rarityRanks[r]; ok {
		return rank
	}
	return -1
}

// AtLeast reports whether r is the given tier or a rarer one.
func (r Rarity) AtLeast(other Rarity) bool {
	return r.Rank() >= other.Rank()
}

// IsValid reports whether r is a known rarity tier.
func (r Rarity) IsValid() bool {
	_, ok := rarityRanks[r]
	return ok
}

// Finish is the cosmetic variant of a card. Independent of rarity.
type Finish string

const (
	FinishNormal      Finish = "NORMAL"
	FinishFoil        Finish = "FOIL"
	FinishHolographic Finish = "HOLOGRAPHIC"
	FinishReverseFoil Finish = "REVERSE_FOIL"
)

// CardStatus tracks the lifecycle of an owned card. Rarity and value are
// fixed at generation time; only the status (and the expiry stamp set at
// commit) ever change.
type CardStatus string

const (
	CardStatusOwned   CardStatus = "OWNED"
	CardStatusSold    CardStatus = "SOLD"
	CardStatusShipped CardStatus = "SHIPPED"
)

// Card is one drawn card instance. The JSON shape matches the record used
// by local storage and the mocked REST responses, so a backend-generated
// list can substitute for the local generator without translation.
type Card struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Image      string     `json:"image"`
	Rarity     Rarity     `json:"rarity"`
	Finish     Finish     `json:"finish"`
	Value      int        `json:"value"`
	PackID     string     `json:"packId"`
	ExpiryDate *time.Time `json:"expiryDate,omitempty"`
	Status     CardStatus `json:"status,omitempty"`
}

// IsExpired is derived, never stored: a card is expired once now reaches
// its expiry stamp. Cards that never entered a collection have no stamp
// and cannot expire.
func (c Card) IsExpired(now time.Time) bool {
	if c.ExpiryDate == nil {
		return false
	}
	return !now.Before(*c.ExpiryDate)
}

// Available reports whether the card can still be sold or shipped.
func (c Card) Available(now time.Time) bool {
	return c.Status == CardStatusOwned && !c.IsExpired(now)
}
