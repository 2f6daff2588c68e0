package schema

// SchemaSQL contains the full database schema initialization script
const SchemaSQL = `
-- Core User Information
CREATE TABLE IF NOT EXISTS users (
    user_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    username VARCHAR(50) UNIQUE NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Card Collections (JSONB)
CREATE TABLE IF NOT EXISTS collections (
    user_id UUID PRIMARY KEY REFERENCES users(user_id) ON DELETE CASCADE,
    cards JSONB NOT NULL DEFAULT '[]',
    last_update BIGINT NOT NULL DEFAULT 0
);

-- Index for card lookups inside collections
CREATE INDEX IF NOT EXISTS idx_collections_cards ON collections USING GIN (cards);

-- Credit Balances
CREATE TABLE IF NOT EXISTS ledger_balances (
    user_id UUID PRIMARY KEY REFERENCES users(user_id) ON DELETE CASCADE,
    balance INTEGER NOT NULL DEFAULT 0,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Append-only audit trail of credit movements
CREATE TABLE IF NOT EXISTS ledger_entries (
    entry_id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
    amount INTEGER NOT NULL,
    reason VARCHAR(50) NOT NULL,
    reference VARCHAR(255),
    balance INTEGER NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_ledger_entries_user ON ledger_entries (user_id, created_at DESC);

-- Reveal sessions whose cards have already been committed to a collection.
-- Commit is idempotent: a session id present here is never applied twice.
CREATE TABLE IF NOT EXISTS committed_sessions (
    session_id VARCHAR(255) PRIMARY KEY,
    user_id UUID NOT NULL,
    committed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
