package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS transactions (
    id                   TEXT PRIMARY KEY,
    user_id              TEXT NOT NULL,
    description          TEXT NOT NULL,
    amount               REAL NOT NULL,
    date                 TEXT NOT NULL,
    category             TEXT,
    is_recurring         INTEGER NOT NULL DEFAULT 0,
    recurring_frequency  TEXT,
    is_anomaly           INTEGER NOT NULL DEFAULT 0,
    anomaly_score        REAL,
    notes                TEXT,
    created_at           TEXT NOT NULL,
    updated_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS recurring_payments (
    id                TEXT PRIMARY KEY,
    user_id           TEXT NOT NULL,
    name              TEXT NOT NULL,
    amount            REAL NOT NULL,
    category          TEXT,
    frequency         TEXT NOT NULL,
    due_day           INTEGER NOT NULL,
    start_date        TEXT NOT NULL,
    end_date          TEXT,
    is_active         INTEGER NOT NULL DEFAULT 1,
    auto_detected     INTEGER NOT NULL DEFAULT 0,
    confirmed_by_user INTEGER NOT NULL DEFAULT 0,
    created_at        TEXT NOT NULL,
    updated_at        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS pending_confirmations (
    id              TEXT PRIMARY KEY,
    user_id         TEXT NOT NULL,
    description     TEXT NOT NULL,
    amount          REAL NOT NULL,
    frequency       TEXT NOT NULL,
    confidence      REAL NOT NULL,
    transaction_ids TEXT NOT NULL,
    created_at      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_user_date ON transactions(user_id, date);
CREATE INDEX IF NOT EXISTS idx_transactions_user_recurring ON transactions(user_id, is_recurring);
CREATE INDEX IF NOT EXISTS idx_recurring_payments_user ON recurring_payments(user_id);
CREATE INDEX IF NOT EXISTS idx_pending_confirmations_user ON pending_confirmations(user_id);
`
