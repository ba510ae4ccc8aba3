package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/radardiario/radar-bridge/internal/biz/domain"
	"github.com/radardiario/radar-bridge/internal/biz/repo"
)

// sqliteDemandRepo stores demands in a local table with the same
// columns as the spreadsheet. Used when no sheet is configured.
type sqliteDemandRepo struct {
	db *sql.DB
}

// NewSQLiteDemandRepo opens (or creates) the demand table
func NewSQLiteDemandRepo(dbPath string) (repo.DemandRepo, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}
	return &sqliteDemandRepo{db: db}, nil
}

// Exists reports whether a demand with this message ID is stored
func (r *sqliteDemandRepo) Exists(ctx context.Context, messageID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM demands WHERE message_id = ?`, messageID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to query demand: %w", err)
	}
	return n > 0, nil
}

// Append stores a demand
func (r *sqliteDemandRepo) Append(ctx context.Context, d *domain.Demand) error {
	rec := d.Record
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO demands (
			received_at, origin, sender, original_text, summary, priority,
			deadline_iso, deadline_display, status, project, source, message_id, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, d.ReceivedAt.Unix(), d.Origin, d.Sender, rec.OriginalText, rec.Summary, string(rec.Priority),
		rec.DeadlineISO, rec.DeadlineDisplay, string(rec.Status), rec.Project, d.Source, d.MessageID, d.Notes)
	if err != nil {
		return fmt.Errorf("failed to insert demand: %w", err)
	}
	return nil
}

// List returns every stored demand in insertion order
func (r *sqliteDemandRepo) List(ctx context.Context) ([]domain.Demand, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT received_at, origin, sender, original_text, summary, priority,
			deadline_iso, deadline_display, status, project, source, message_id, notes
		FROM demands
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list demands: %w", err)
	}
	defer rows.Close()

	var result []domain.Demand
	for rows.Next() {
		var d domain.Demand
		var receivedAt int64
		var priority, status string
		if err := rows.Scan(&receivedAt, &d.Origin, &d.Sender, &d.Record.OriginalText, &d.Record.Summary, &priority,
			&d.Record.DeadlineISO, &d.Record.DeadlineDisplay, &status, &d.Record.Project, &d.Source, &d.MessageID, &d.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan demand: %w", err)
		}
		d.ReceivedAt = time.Unix(receivedAt, 0)
		d.Record.Priority = domain.Priority(priority)
		d.Record.Status = domain.Status(status)
		result = append(result, d)
	}
	return result, rows.Err()
}

// Ping checks the database is reachable
func (r *sqliteDemandRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database
func (r *sqliteDemandRepo) Close() error {
	return r.db.Close()
}
