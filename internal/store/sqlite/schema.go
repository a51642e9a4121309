package sqlite

// Schema is applied at open time; statements are idempotent.
// creation/update times are stored as integer unix nanoseconds so ordering
// is exact even for rows created within the same millisecond.
const schema = `
CREATE TABLE IF NOT EXISTS profiles (
    user_id       TEXT PRIMARY KEY,
    username      TEXT,
    display_name  TEXT,
    creation_time INTEGER NOT NULL,
    update_time   INTEGER
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_profiles_username
    ON profiles(username) WHERE username IS NOT NULL;

CREATE TABLE IF NOT EXISTS notes (
    note_id       TEXT PRIMARY KEY,
    user_id       TEXT NOT NULL,
    title         TEXT NOT NULL,
    content       TEXT NOT NULL,
    language_code TEXT NOT NULL,
    image_urls    TEXT,
    creation_time INTEGER NOT NULL,
    update_time   INTEGER
);

CREATE INDEX IF NOT EXISTS idx_notes_user_lang
    ON notes(user_id, language_code, creation_time);

CREATE TABLE IF NOT EXISTS playlists (
    playlist_id   TEXT PRIMARY KEY,
    user_id       TEXT NOT NULL,
    name          TEXT NOT NULL,
    language_code TEXT NOT NULL,
    creation_time INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_playlists_user_lang
    ON playlists(user_id, language_code, creation_time);

CREATE TABLE IF NOT EXISTS playlist_notes (
    playlist_id   TEXT NOT NULL,
    note_id       TEXT NOT NULL,
    idx           INTEGER NOT NULL DEFAULT 0,
    creation_time INTEGER NOT NULL,
    PRIMARY KEY (playlist_id, note_id)
);

CREATE TABLE IF NOT EXISTS basic_notebooks (
    document_id   TEXT PRIMARY KEY,
    user_id       TEXT NOT NULL,
    language_code TEXT NOT NULL,
    doc           TEXT,
    plain         TEXT NOT NULL DEFAULT '',
    update_time   INTEGER,
    UNIQUE (user_id, language_code)
);
`
