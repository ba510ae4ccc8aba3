package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/radardiario/radar-bridge/internal/biz/repo"
)

// ledgerRepo implements the processed-message ledger on SQLite
type ledgerRepo struct {
	db *sql.DB
}

// NewLedgerRepo opens (or creates) the ledger database
func NewLedgerRepo(dbPath string) (repo.LedgerRepo, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}
	return &ledgerRepo{db: db}, nil
}

// Seen reports whether the message was recorded
func (r *ledgerRepo) Seen(ctx context.Context, messageID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM processed_messages WHERE message_id = ?`, messageID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to query ledger: %w", err)
	}
	return n > 0, nil
}

// Record marks the message as registered. Recording twice is a no-op.
func (r *ledgerRepo) Record(ctx context.Context, messageID, chatID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO processed_messages (message_id, chat_id, processed_at)
		VALUES (?, ?, ?)
	`, messageID, chatID, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to record message: %w", err)
	}
	return nil
}

// CleanupOld removes entries recorded before the given time
func (r *ledgerRepo) CleanupOld(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM processed_messages WHERE processed_at < ?`, before.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup ledger: %w", err)
	}
	return result.RowsAffected()
}

// Close closes the database
func (r *ledgerRepo) Close() error {
	return r.db.Close()
}
