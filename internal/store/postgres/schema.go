package postgres

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    email         TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    picture       TEXT NOT NULL DEFAULT '',
    bio           TEXT NOT NULL DEFAULT '',
    online        BOOLEAN NOT NULL DEFAULT FALSE,
    CONSTRAINT users_username_uq UNIQUE (username),
    CONSTRAINT users_email_uq UNIQUE (email)
);

CREATE TABLE IF NOT EXISTS friend_edges (
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    peer_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    status  TEXT NOT NULL CHECK (status IN ('request-sent', 'request-received', 'friend')),
    PRIMARY KEY (user_id, peer_id)
);

CREATE TABLE IF NOT EXISTS games (
    id           INTEGER PRIMARY KEY,
    title        TEXT NOT NULL,
    trending     BOOLEAN NOT NULL DEFAULT FALSE,
    release_date TEXT NOT NULL DEFAULT '',
    platforms    TEXT[] NOT NULL DEFAULT '{}',
    listings     JSONB NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS game_logs (
    user_id                INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    game_id                INTEGER NOT NULL,
    status                 TEXT NOT NULL,
    rating                 DOUBLE PRECISION,
    hours_played           DOUBLE PRECISION,
    hours_to_beat          DOUBLE PRECISION,
    start_date             TEXT,
    finish_date            TEXT,
    platform               TEXT,
    achievements_total     INTEGER,
    achievements_completed INTEGER,
    created_at             TIMESTAMPTZ NOT NULL DEFAULT now(),
    CONSTRAINT game_logs_user_game_uq PRIMARY KEY (user_id, game_id)
);

CREATE TABLE IF NOT EXISTS reviews (
    user_id       INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    game_id       INTEGER NOT NULL,
    text          TEXT NOT NULL,
    creation_date TEXT NOT NULL,
    public        BOOLEAN NOT NULL DEFAULT FALSE,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    CONSTRAINT reviews_user_game_uq PRIMARY KEY (user_id, game_id)
);

CREATE INDEX IF NOT EXISTS reviews_game_idx ON reviews (game_id);
`
