package domain

import "time"

// Default values for the origin columns of a stored demand.
const (
	OriginFeishu = "Feishu"
	SourceBot    = "Bot"
)

// Demand is a parsed record together with its intake metadata,
// as one row of the tracking store.
type Demand struct {
	ReceivedAt time.Time    `json:"received_at"`
	Origin     string       `json:"origin"`
	Sender     string       `json:"sender"`
	MessageID  string       `json:"message_id"`
	Source     string       `json:"source"`
	Notes      string       `json:"notes,omitempty"`
	Record     ParsedRecord `json:"record"`
}

// ReceivedOn reports whether the demand arrived on the given calendar day
func (d *Demand) ReceivedOn(day time.Time) bool {
	if d.ReceivedAt.IsZero() {
		return false
	}
	r := d.ReceivedAt.In(day.Location())
	return r.Year() == day.Year() && r.YearDay() == day.YearDay()
}
