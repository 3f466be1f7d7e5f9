package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/hoyolink/hoyolink/internal/models"
)

// PostgresStore implements Repository on a PostgreSQL database with
// one row per user. The record is stored as a JSONB document so
// credential shapes can be added without schema migrations.
type PostgresStore struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresStore creates a new PostgresStore with the given database
// connection. db must be a valid *sql.DB connected to a PostgreSQL
// instance.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

// Get loads the record stored for userID.
func (s *PostgresStore) Get(ctx context.Context, userID string) (models.UserRecord, bool, error) {
	var raw []byte
	err := s.DB.QueryRowContext(
		ctx,
		`SELECT record FROM user_records WHERE user_id = $1`,
		userID,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return models.UserRecord{}, false, nil
	}
	if err != nil {
		return models.UserRecord{}, false, err
	}

	var rec models.UserRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return models.UserRecord{}, false, fmt.Errorf("decode record: %w", err)
	}
	return rec, true, nil
}

// Put upserts the record for userID, replacing any previous row.
func (s *PostgresStore) Put(ctx context.Context, userID string, rec models.UserRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	_, err = s.DB.ExecContext(
		ctx,
		`INSERT INTO user_records (user_id, record) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET record = EXCLUDED.record`,
		userID, raw,
	)
	return err
}

// Delete destroys the row for userID. Deleting a missing row is not
// an error.
func (s *PostgresStore) Delete(ctx context.Context, userID string) error {
	_, err := s.DB.ExecContext(
		ctx,
		`DELETE FROM user_records WHERE user_id = $1`,
		userID,
	)
	return err
}

// Count returns the number of stored records.
func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_records`).Scan(&n)
	return n, err
}
