package generator

// ============================================================================
// Finish Thresholds
// ============================================================================

// FinishHolographicThreshold defines the maximum roll (<=2%) for HOLOGRAPHIC finish.
const FinishHolographicThreshold = 0.02

// FinishFoilThreshold defines the maximum roll (<=7%) for FOIL finish.
const FinishFoilThreshold = 0.07

// FinishReverseFoilThreshold defines the maximum roll (<=12%) for REVERSE_FOIL finish.
// Rolls above this land on NORMAL, the default finish.
const FinishReverseFoilThreshold = 0.12

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgPackGenerated = "Pack contents generated"
)

// Log field keys for structured logging
const (
	LogFieldPack   = "pack"
	LogFieldRarity = "rarity"
	LogFieldCards  = "cards"
)
