package db

// Schema is the DDL for the recapctl snapshot cache.
const Schema = `
CREATE TABLE IF NOT EXISTS profiles (
    id               TEXT PRIMARY KEY,
    email_account_id TEXT NOT NULL,
    recipient        TEXT NOT NULL,
    send_time        TEXT,
    status           TEXT NOT NULL DEFAULT 'active',
    audio_enabled    INTEGER DEFAULT 0,
    payload          TEXT NOT NULL,
    fetched_at       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS mailboxes (
    id          TEXT PRIMARY KEY,
    email       TEXT NOT NULL,
    provider    TEXT,
    status      TEXT,
    fetched_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS leads (
    id          TEXT PRIMARY KEY,
    email       TEXT NOT NULL,
    first_name  TEXT,
    company     TEXT,
    message     TEXT,
    source      TEXT,
    created_at  TEXT,
    fetched_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_profiles_account ON profiles(email_account_id);
CREATE INDEX IF NOT EXISTS idx_profiles_status ON profiles(status);
CREATE INDEX IF NOT EXISTS idx_leads_created ON leads(created_at DESC);
`
