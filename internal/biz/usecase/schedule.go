package usecase

import (
	"fmt"
	"time"
)

// DailySchedule fires once a day at a fixed hour in a zone
type DailySchedule struct {
	Hour int
	Loc  *time.Location
}

// NewDailySchedule validates hour and creates a schedule
func NewDailySchedule(hour int, loc *time.Location) (*DailySchedule, error) {
	if hour < 0 || hour > 23 {
		return nil, fmt.Errorf("invalid schedule hour: %d (must be 0-23)", hour)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &DailySchedule{Hour: hour, Loc: loc}, nil
}

// NextRun returns the first run strictly after from
func (s *DailySchedule) NextRun(from time.Time) time.Time {
	local := from.In(s.Loc)
	y, m, d := local.Date()
	next := time.Date(y, m, d, s.Hour, 0, 0, 0, s.Loc)
	if !next.After(local) {
		next = time.Date(y, m, d+1, s.Hour, 0, 0, 0, s.Loc)
	}
	return next
}

// Due reports whether a run is owed at now, given the last run.
// A zero lastRun only fires inside the scheduled hour so restarts
// late in the day do not send a stale digest.
func (s *DailySchedule) Due(now, lastRun time.Time) bool {
	local := now.In(s.Loc)
	if lastRun.IsZero() {
		return local.Hour() == s.Hour
	}
	return !now.Before(s.NextRun(lastRun))
}
