package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// User errors
	ErrMsgUserNotFound = "user not found"

	// Configuration errors (bad pack or rarity table data - fatal,
	// surfaced to logs, never shown raw to end users)
	ErrMsgInvalidConfig = "invalid configuration"
	ErrMsgUnknownPack   = "unknown pack"

	// Reveal errors
	ErrMsgEmptyPack       = "pack contains no cards"
	ErrMsgRevealComplete  = "reveal already complete"
	ErrMsgRevealNotActive = "reveal not active"

	// Collection errors
	ErrMsgCardNotFound     = "card not found"
	ErrMsgCardNotAvailable = "card not available"
	ErrMsgDuplicateCommit  = "session already committed"
	ErrMsgNothingToShip    = "no shippable cards"

	// Ledger errors
	ErrMsgInsufficientFunds = "insufficient funds"

	// Input errors
	ErrMsgInvalidInput = "invalid input"

	// Database/System errors
	ErrMsgTxClosed = "tx is closed"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// User errors
	ErrUserNotFound = errors.New(ErrMsgUserNotFound)

	// Configuration errors
	ErrInvalidConfig = errors.New(ErrMsgInvalidConfig)
	ErrUnknownPack   = errors.New(ErrMsgUnknownPack)

	// Reveal errors
	ErrEmptyPack       = errors.New(ErrMsgEmptyPack)
	ErrRevealComplete  = errors.New(ErrMsgRevealComplete)
	ErrRevealNotActive = errors.New(ErrMsgRevealNotActive)

	// Collection errors
	ErrCardNotFound     = errors.New(ErrMsgCardNotFound)
	ErrCardNotAvailable = errors.New(ErrMsgCardNotAvailable)
	ErrDuplicateCommit  = errors.New(ErrMsgDuplicateCommit)
	ErrNothingToShip    = errors.New(ErrMsgNothingToShip)

	// Ledger errors
	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
