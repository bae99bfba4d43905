package datastore

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresStore keeps values in the kv_store table created by migrations.
type PostgresStore struct {
	database *sql.DB
}

func NewPostgresStore(db *sql.DB) (PostgresStore, error) {
	var store PostgresStore
	store.database = db
	return store, nil
}

func (pgs PostgresStore) Get(key string) ([]byte, error) {
	db := pgs.database

	sqlStatement := `
		SELECT value
		FROM kv_store
		WHERE key = $1`

	var value []byte
	err := db.QueryRow(sqlStatement, key).Scan(&value)

	switch err {
	case sql.ErrNoRows:
		return nil, NoRowsError{true, fmt.Errorf("%w: %v", ErrKeyNotFound, err)}
	case nil:
		return value, nil
	default:
		return nil, err
	}
}

func (pgs PostgresStore) Set(key string, value []byte) error {
	db := pgs.database

	sqlStatement := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key)
		DO UPDATE SET value = $2, updated_at = NOW()`

	_, err := db.Exec(sqlStatement, key, string(value))
	if err != nil {
		return fmt.Errorf("failed to store %s: %v", key, err)
	}
	return nil
}

func (pgs PostgresStore) Delete(key string) error {
	db := pgs.database

	_, err := db.Exec(`DELETE FROM kv_store WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete failed: %v", err)
	}
	return nil
}
