package generator

import "github.com/packworks/packworks/internal/domain"

// finishThreshold defines a mapping between a roll threshold and a finish.
type finishThreshold struct {
	threshold float64
	finish    domain.Finish
}

// finishThresholds defines the ordered list of thresholds for determining a
// card's finish. The order is critical: checks run from rarest (lowest roll)
// to most common. Rolls past the last threshold fall through to NORMAL.
var finishThresholds = []finishThreshold{
	{FinishHolographicThreshold, domain.FinishHolographic},
	{FinishFoilThreshold, domain.FinishFoil},
	{FinishReverseFoilThreshold, domain.FinishReverseFoil},
}

// rollFinish determines the cosmetic finish of a card based on a roll.
// Finish is independent of rarity and never affects rarity weighting.
func rollFinish(roll float64) domain.Finish {
	for _, ft := range finishThresholds {
		if roll <= ft.threshold {
			return ft.finish
		}
	}
	return domain.FinishNormal
}
