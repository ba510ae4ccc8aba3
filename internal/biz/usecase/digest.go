package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/radardiario/radar-bridge/internal/biz/domain"
)

// Digest is the daily overview sent to the owner
type Digest struct {
	Date            time.Time
	NewToday        int
	WithoutDeadline int
	Waiting         int
	Upcoming        []domain.Demand
}

// DigestUsecase builds daily digests from stored demands
type DigestUsecase struct {
	query *QueryUsecase
}

// NewDigestUsecase creates a new digest usecase
func NewDigestUsecase(query *QueryUsecase) *DigestUsecase {
	return &DigestUsecase{query: query}
}

// Build reads the store once and computes every digest section
func (uc *DigestUsecase) Build(ctx context.Context) (*Digest, error) {
	demands, err := uc.query.demandRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list demands: %w", err)
	}

	today := uc.query.Today()
	return &Digest{
		Date:            today,
		NewToday:        len(FilterDemands(demands, FilterReceivedToday, today)),
		WithoutDeadline: len(FilterDemands(demands, FilterNoDeadline, today)),
		Waiting:         len(FilterDemands(demands, FilterWaiting, today)),
		Upcoming:        FilterDemands(demands, FilterUpcoming, today),
	}, nil
}
