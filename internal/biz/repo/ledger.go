package repo

import (
	"context"
	"time"
)

// LedgerRepo remembers which chat messages were already registered,
// so redelivered events are not appended twice.
type LedgerRepo interface {
	// Seen reports whether the message ID was recorded
	Seen(ctx context.Context, messageID string) (bool, error)

	// Record marks the message ID as registered
	Record(ctx context.Context, messageID, chatID string) error

	// CleanupOld removes entries recorded before the given time
	CleanupOld(ctx context.Context, before time.Time) (int64, error)

	// Close releases resources
	Close() error
}
