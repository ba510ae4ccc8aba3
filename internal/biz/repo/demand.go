package repo

import (
	"context"

	"github.com/radardiario/radar-bridge/internal/biz/domain"
)

// DemandRepo is the durable demand store
type DemandRepo interface {
	// Exists reports whether a demand with this message ID was already stored
	Exists(ctx context.Context, messageID string) (bool, error)

	// Append stores a demand
	Append(ctx context.Context, demand *domain.Demand) error

	// List returns every stored demand in insertion order
	List(ctx context.Context) ([]domain.Demand, error)

	// Ping checks the store is reachable
	Ping(ctx context.Context) error
}
