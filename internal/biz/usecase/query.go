package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/radardiario/radar-bridge/internal/biz/domain"
	"github.com/radardiario/radar-bridge/internal/biz/repo"
)

// UpcomingWindowDays is how far ahead "upcoming" deadlines look
const UpcomingWindowDays = 3

// DemandFilter selects a subset of stored demands
type DemandFilter string

const (
	FilterOpen          DemandFilter = "open"
	FilterDueToday      DemandFilter = "today"
	FilterNoDeadline    DemandFilter = "no_deadline"
	FilterWaiting       DemandFilter = "waiting"
	FilterUpcoming      DemandFilter = "upcoming"
	FilterOverdue       DemandFilter = "overdue"
	FilterReceivedToday DemandFilter = "received_today"
)

// DemandFilters lists every filter
var DemandFilters = []DemandFilter{
	FilterOpen, FilterDueToday, FilterNoDeadline, FilterWaiting,
	FilterUpcoming, FilterOverdue, FilterReceivedToday,
}

// ParseDemandFilter validates a filter name
func ParseDemandFilter(s string) (DemandFilter, error) {
	for _, f := range DemandFilters {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown filter: %s", s)
}

// QueryUsecase answers questions about stored demands
type QueryUsecase struct {
	demandRepo repo.DemandRepo
	loc        *time.Location
	now        func() time.Time
}

// NewQueryUsecase creates a new query usecase
func NewQueryUsecase(demandRepo repo.DemandRepo, loc *time.Location) *QueryUsecase {
	if loc == nil {
		loc = time.UTC
	}
	return &QueryUsecase{
		demandRepo: demandRepo,
		loc:        loc,
		now:        time.Now,
	}
}

// SetClock overrides the time source
func (uc *QueryUsecase) SetClock(now func() time.Time) {
	uc.now = now
}

// Location returns the zone "today" is computed in
func (uc *QueryUsecase) Location() *time.Location {
	return uc.loc
}

// Now returns the current time in the configured zone
func (uc *QueryUsecase) Now() time.Time {
	return uc.now().In(uc.loc)
}

// Today returns midnight of the current day in the configured zone
func (uc *QueryUsecase) Today() time.Time {
	y, m, d := uc.now().In(uc.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, uc.loc)
}

// List returns the demands matching filter
func (uc *QueryUsecase) List(ctx context.Context, filter DemandFilter) ([]domain.Demand, error) {
	demands, err := uc.demandRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list demands: %w", err)
	}
	return FilterDemands(demands, filter, uc.Today()), nil
}

// Health checks the store
func (uc *QueryUsecase) Health(ctx context.Context) error {
	return uc.demandRepo.Ping(ctx)
}

// FilterDemands applies filter relative to today (midnight in the desired zone).
// Upcoming results are sorted by deadline; others keep store order.
func FilterDemands(demands []domain.Demand, filter DemandFilter, today time.Time) []domain.Demand {
	var out []domain.Demand
	for _, d := range demands {
		if matches(&d, filter, today) {
			out = append(out, d)
		}
	}

	if filter == FilterUpcoming {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Record.DeadlineISO < out[j].Record.DeadlineISO
		})
	}
	return out
}

func matches(d *domain.Demand, filter DemandFilter, today time.Time) bool {
	status := d.Record.Status
	switch filter {
	case FilterOpen:
		return !status.IsClosed()
	case FilterNoDeadline:
		return !d.Record.HasDeadline()
	case FilterWaiting:
		return status == domain.StatusWaiting
	case FilterReceivedToday:
		return d.ReceivedOn(today)
	}

	deadline, ok := d.Record.DeadlineDate(today.Location())
	if !ok {
		return false
	}
	switch filter {
	case FilterDueToday:
		return deadline.Equal(today)
	case FilterUpcoming:
		return deadline.After(today) && !deadline.After(today.AddDate(0, 0, UpcomingWindowDays))
	case FilterOverdue:
		return deadline.Before(today) && status != domain.StatusDone
	}
	return false
}
