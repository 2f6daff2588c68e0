package handler

// Request-level error messages
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Validation failed"
	ErrMsgMissingQueryParam     = "Missing %s query parameter"
	ErrMsgSessionNotFound       = "Reveal session not found"
)

// Success messages
const (
	MsgCardSold     = "Card sold"
	MsgCardsShipped = "Cards shipped"
)
