package domain

import "time"

// Date layouts used by the tracking store and chat replies.
const (
	ISODateLayout     = "2006-01-02"
	DisplayDateLayout = "02-01-2006"
	ShortDateLayout   = "02-01"
	ReceivedAtLayout  = "02/01/2006 15:04:05"
)

// Priority is the urgency label stored with a demand
type Priority string

const (
	PriorityHigh   Priority = "Alta"
	PriorityMedium Priority = "Média"
	PriorityLow    Priority = "Baixa"
)

// Status is the workflow label stored with a demand
type Status string

const (
	StatusBacklog    Status = "Backlog"
	StatusInProgress Status = "Em andamento"
	StatusWaiting    Status = "Aguardando terceiros"

	// Terminal statuses are only ever set by hand in the store.
	StatusDone      Status = "Concluído"
	StatusCancelled Status = "Cancelado"
)

// IsClosed reports whether no further work is expected
func (s Status) IsClosed() bool {
	return s == StatusDone || s == StatusCancelled
}

// Deadline holds one calendar date in both stored representations.
// The zero value means no deadline.
type Deadline struct {
	ISO     string
	Display string
}

// NewDeadline builds both representations from the same date
func NewDeadline(t time.Time) Deadline {
	return Deadline{
		ISO:     t.Format(ISODateLayout),
		Display: t.Format(DisplayDateLayout),
	}
}

// IsZero reports whether no deadline was resolved
func (d Deadline) IsZero() bool {
	return d.ISO == ""
}

// ParsedRecord is the structured form of one inbound message
type ParsedRecord struct {
	Priority        Priority `json:"priority"`
	Status          Status   `json:"status"`
	Project         string   `json:"project"`
	DeadlineISO     string   `json:"deadline_iso"`
	DeadlineDisplay string   `json:"deadline_display"`
	Summary         string   `json:"summary"`
	OriginalText    string   `json:"original_text"`
}

// Deadline returns the record's deadline pair
func (r ParsedRecord) Deadline() Deadline {
	return Deadline{ISO: r.DeadlineISO, Display: r.DeadlineDisplay}
}

// HasDeadline reports whether a deadline was resolved
func (r ParsedRecord) HasDeadline() bool {
	return r.DeadlineISO != ""
}

// DeadlineDate parses the ISO deadline in loc.
// Returns false when the record has no deadline or it is malformed.
func (r ParsedRecord) DeadlineDate(loc *time.Location) (time.Time, bool) {
	if r.DeadlineISO == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(ISODateLayout, r.DeadlineISO, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
