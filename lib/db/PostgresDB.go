package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/slidedeck/slidedeck-go/lib/models/deck"
	_ "github.com/lib/pq"
)

type PostgresOptions struct {
	Username string
	Password string
	Port     string
	Host     string
	Database string
}

type PostgresDB struct {
	options PostgresOptions
	sqlDB   *sql.DB
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (d *PostgresDB) LoadDeck(deckID string) (*deck.Deck, error) {
	resultedSQL, args, err := psql.
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

func (d *PostgresDB) SaveDeck(deckID string, storedDeck deck.Deck) error {
	snapshot, err := json.Marshal(storedDeck)
	if err != nil {
		return fmt.Errorf("error marshaling deck snapshot: %w", err)
	}

	resultedSQL, args, err := psql.
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

func (d *PostgresDB) RemoveDeck(deckID string) error {
	resultedSQL, args, err := psql.
		Delete("deck").
		Where(sq.Eq{"id": deckID}).
		ToSql()
	if err != nil {
		return err
	}

	_, err = d.sqlDB.Exec(resultedSQL, args...)
	return err
}

func (d *PostgresDB) ListDeckIDs() ([]string, error) {
	resultedSQL, _, err := psql.
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

func (d *PostgresDB) Close() error {
	return d.sqlDB.Close()
}

// NewPostgresDB creates a new PostgresDB and returns a pointer to it.
func NewPostgresDB(options PostgresOptions) (*PostgresDB, error) {
	dbUrl := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		options.Username, options.Password, options.Host, options.Port, options.Database)
	sqlDb, err := sql.Open("postgres", dbUrl)
	if err != nil {
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

	return &PostgresDB{
		options: options,
		sqlDB:   sqlDb,
	}, nil
}

var _ SnapshotStore = (*PostgresDB)(nil)
