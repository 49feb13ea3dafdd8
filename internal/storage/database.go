package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Registers the sqlite driver

	"deckscan/internal/card"
	"deckscan/internal/scan"
)

// DB wraps the SQL database holding the persisted scan snapshot.
type DB struct {
	conn *sql.DB
}

// Open creates a new database connection and ensures the schema is up to date.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{conn: db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// ScanInfo describes one persisted scan.
type ScanInfo struct {
	ID        int64
	ScannedAt time.Time
	NoteCount int
	CardCount int
}

// SaveScan replaces the persisted snapshot with the given scan result inside
// a single transaction, mirroring the in-memory rebuild-from-scratch
// semantics: the previous card rows are dropped wholesale, never patched.
func (db *DB) SaveScan(result *scan.Result) (int64, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO scans (scanned_at, note_count, card_count)
		VALUES (?, ?, ?)
	`, result.ScannedAt, result.Stats.Notes, len(result.Cards))
	if err != nil {
		return 0, fmt.Errorf("failed to insert scan row: %w", err)
	}
	scanID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get scan ID: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM cards`); err != nil {
		return 0, fmt.Errorf("failed to clear previous snapshot: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO cards (id, deck_path, file_path, line, front, back, ease, interval, due, fingerprint, scan_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare card insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range result.Cards {
		interval := sql.NullInt64{Int64: int64(c.Interval), Valid: c.Interval != 0}
		due := sql.NullString{String: c.Due, Valid: c.Due != ""}
		if _, err := stmt.Exec(
			c.ID, c.DeckPath, c.FilePath, c.Line, c.Front, c.Back,
			c.Ease, interval, due, card.Fingerprint(c), scanID,
		); err != nil {
			return 0, fmt.Errorf("failed to insert card %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return scanID, nil
}

// LatestScan returns the most recent persisted scan, or nil when the
// database has never seen one.
func (db *DB) LatestScan() (*ScanInfo, error) {
	var info ScanInfo
	row := db.conn.QueryRow(`
		SELECT id, scanned_at, note_count, card_count
		FROM scans ORDER BY id DESC LIMIT 1
	`)
	err := row.Scan(&info.ID, &info.ScannedAt, &info.NoteCount, &info.CardCount)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read latest scan: %w", err)
	}
	return &info, nil
}

// CountCards returns the number of card rows in the persisted snapshot.
func (db *DB) CountCards() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM cards`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return n, nil
}

// CardsByDeck returns the persisted records at the given deck path and every
// deck below it, in deterministic order.
func (db *DB) CardsByDeck(deckPath string) ([]card.Record, error) {
	rows, err := db.conn.Query(`
		SELECT id, deck_path, file_path, line, front, back, ease, interval, due
		FROM cards
		WHERE deck_path = ? OR deck_path LIKE ? || '/%'
		ORDER BY deck_path, file_path, line, id
	`, deckPath, deckPath)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards for deck %s: %w", deckPath, err)
	}
	defer rows.Close()

	var records []card.Record
	for rows.Next() {
		var (
			rec      card.Record
			interval sql.NullInt64
			due      sql.NullString
		)
		if err := rows.Scan(
			&rec.ID, &rec.DeckPath, &rec.FilePath, &rec.Line,
			&rec.Front, &rec.Back, &rec.Ease, &interval, &due,
		); err != nil {
			return nil, fmt.Errorf("failed to scan card row: %w", err)
		}
		rec.Interval = int(interval.Int64)
		rec.Due = due.String
		records = append(records, rec)
	}
	return records, rows.Err()
}
