package ledger

// Log messages
const (
	LogMsgBalanceCalled = "Balance called"
	LogMsgCreditCalled  = "Credit called"
	LogMsgDebitCalled   = "Debit called"
	LogMsgHistoryCalled = "History called"
	LogMsgBalanceMoved  = "Balance updated"
)

// Error message formats
const (
	ErrMsgBeginTransactionFailed  = "failed to begin transaction: %w"
	ErrMsgCommitTransactionFailed = "failed to commit transaction: %w"
	ErrMsgGetBalanceFailed        = "failed to get balance: %w"
	ErrMsgUpdateBalanceFailed     = "failed to update balance: %w"
	ErrMsgInsertEntryFailed       = "failed to insert ledger entry: %w"
)

// DefaultHistoryLimit bounds History queries when the caller passes no limit
const DefaultHistoryLimit = 50
