package shop

// PacksSchemaPath is the JSON schema used to validate the pack definitions file
const PacksSchemaPath = "configs/schemas/packs.schema.json"

// Log messages
const (
	LogMsgListPacksCalled = "ListPacks called"
	LogMsgPurchaseCalled  = "Purchase called"
	LogMsgPackPurchased   = "Pack purchased"
)

// Error message formats
const (
	ErrMsgDebitFailed    = "failed to debit pack price: %w"
	ErrMsgGenerateFailed = "failed to generate cards: %w"
)
