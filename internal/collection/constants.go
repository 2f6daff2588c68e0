package collection

import "time"

// ConversionRate is the fraction of a card's value credited when it expires
// and is converted. Fixed by policy, not configurable per card.
const ConversionRate = 0.5

// Cache configuration
const (
	CacheSize = 1024
	CacheTTL  = 30 * time.Second
)

// Log messages
const (
	LogMsgGetCalled          = "GetCollection called"
	LogMsgCommitCalled       = "Commit called"
	LogMsgCommitDuplicate    = "Session already committed, skipping"
	LogMsgCommitApplied      = "Session committed to collection"
	LogMsgSellCalled         = "Sell called"
	LogMsgCardSold           = "Card sold"
	LogMsgSweepCalled        = "SweepExpired called"
	LogMsgSweepConverted     = "Expired cards converted"
	LogMsgShipCalled         = "Ship called"
	LogMsgCardsShipped       = "Cards marked shipped"
	LogMsgCacheHit           = "Collection served from cache"
)

// Error message formats
const (
	ErrMsgBeginTransactionFailed  = "failed to begin transaction: %w"
	ErrMsgCommitTransactionFailed = "failed to commit transaction: %w"
	ErrMsgGetCollectionFailed     = "failed to get collection: %w"
	ErrMsgUpdateCollectionFailed  = "failed to update collection: %w"
	ErrMsgSessionCheckFailed      = "failed to check session commit state: %w"
	ErrMsgSessionMarkFailed       = "failed to mark session committed: %w"
	ErrMsgCreditFailed            = "failed to credit ledger: %w"
	ErrMsgDebitFailed             = "failed to debit ledger: %w"
)
