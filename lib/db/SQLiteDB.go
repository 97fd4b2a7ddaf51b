package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/slidedeck/slidedeck-go/lib/models/deck"
	_ "modernc.org/sqlite"
)

type SQLiteDB struct {
	path  string
	sqlDB *sql.DB
}

func (d *SQLiteDB) LoadDeck(deckID string) (*deck.Deck, error) {
	resultedSQL, args, err := sq.
		Select("snapshot").
		From("deck").
		Where(sq.Eq{"id": deckID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var snapshot string
	err = d.sqlDB.QueryRow(resultedSQL, args...).Scan(&snapshot)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeckNotFound
		}
		return nil, err
	}

	var loaded deck.Deck
	if err := json.Unmarshal([]byte(snapshot), &loaded); err != nil {
		return nil, fmt.Errorf("error unmarshaling deck snapshot: %w", err)
	}
	return &loaded, nil
}

func (d *SQLiteDB) SaveDeck(deckID string, storedDeck deck.Deck) error {
	snapshot, err := json.Marshal(storedDeck)
	if err != nil {
		return fmt.Errorf("error marshaling deck snapshot: %w", err)
	}

	resultedSQL, args, err := sq.
		Insert("deck").
		Columns("id", "snapshot").
		Values(deckID, string(snapshot)).
		Suffix(`ON CONFLICT(id) DO UPDATE SET
			snapshot = excluded.snapshot,
			updated_at = CURRENT_TIMESTAMP`).
		ToSql()
	if err != nil {
		return err
	}

	_, err = d.sqlDB.Exec(resultedSQL, args...)
	return err
}

func (d *SQLiteDB) RemoveDeck(deckID string) error {
	resultedSQL, args, err := sq.
		Delete("deck").
		Where(sq.Eq{"id": deckID}).
		ToSql()
	if err != nil {
		return err
	}

	_, err = d.sqlDB.Exec(resultedSQL, args...)
	return err
}

func (d *SQLiteDB) ListDeckIDs() ([]string, error) {
	resultedSQL, _, err := sq.
		Select("id").
		From("deck").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := d.sqlDB.Query(resultedSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (d *SQLiteDB) Close() error {
	return d.sqlDB.Close()
}

// NewSQLiteDB creates a new SQLiteDB and returns a pointer to it.
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	if path == ":memory" {
		path = "file::memory:?cache=shared"
	}

	sqlDb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if strings.Contains(path, ":memory:") {
		sqlDb.SetMaxOpenConns(1)
	}

	if _, err = sqlDb.Exec("PRAGMA journal_mode = WAL"); err != nil {
		sqlDb.Close()
		return nil, err
	}
	if _, err = sqlDb.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		sqlDb.Close()
		return nil, err
	}

	_, err = sqlDb.Exec(`CREATE TABLE IF NOT EXISTS deck (
		id TEXT PRIMARY KEY,
		snapshot TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP)`)
	if err != nil {
		sqlDb.Close()
		return nil, err
	}

	return &SQLiteDB{
		path:  path,
		sqlDB: sqlDb,
	}, nil
}

var _ SnapshotStore = (*SQLiteDB)(nil)
