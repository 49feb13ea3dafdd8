package storage

const schema = `
-- One row per completed scan; the cards table only ever holds the
-- newest scan's snapshot.
CREATE TABLE IF NOT EXISTS scans (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    scanned_at DATETIME NOT NULL,
    note_count INTEGER NOT NULL,
    card_count INTEGER NOT NULL
);

-- The flattened card records of the latest scan. 'id' is unique per deck
-- (a note mapped to several decks repeats its records); 'fingerprint' is a
-- content hash that stays stable across scans while a card is unedited.
CREATE TABLE IF NOT EXISTS cards (
    id TEXT NOT NULL,
    deck_path TEXT NOT NULL,
    file_path TEXT NOT NULL,
    line INTEGER NOT NULL,
    front TEXT NOT NULL,
    back TEXT NOT NULL,
    ease INTEGER NOT NULL,
    interval INTEGER,
    due TEXT,
    fingerprint TEXT NOT NULL,
    scan_id INTEGER NOT NULL,

    PRIMARY KEY (deck_path, id),
    FOREIGN KEY(scan_id) REFERENCES scans(id)
);
`
