package domain

import (
	"testing"
	"time"
)

func TestNewDeadline(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	d := NewDeadline(time.Date(2025, 10, 5, 0, 0, 0, 0, loc))

	if d.ISO != "2025-10-05" {
		t.Errorf("Expected ISO 2025-10-05, got %s", d.ISO)
	}
	if d.Display != "05-10-2025" {
		t.Errorf("Expected display 05-10-2025, got %s", d.Display)
	}
	if d.IsZero() {
		t.Error("Expected non-zero deadline")
	}
	if !(Deadline{}).IsZero() {
		t.Error("Expected zero deadline")
	}
}

func TestParsedRecord_DeadlineDate(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)

	r := ParsedRecord{DeadlineISO: "2025-10-05", DeadlineDisplay: "05-10-2025"}
	got, ok := r.DeadlineDate(loc)
	if !ok {
		t.Fatal("Expected deadline to parse")
	}
	if !got.Equal(time.Date(2025, 10, 5, 0, 0, 0, 0, loc)) {
		t.Errorf("Unexpected deadline date: %v", got)
	}

	if _, ok := (ParsedRecord{}).DeadlineDate(loc); ok {
		t.Error("Expected no deadline for empty record")
	}
	if _, ok := (ParsedRecord{DeadlineISO: "05/10/2025"}).DeadlineDate(loc); ok {
		t.Error("Expected malformed deadline to be rejected")
	}
}

func TestStatus_IsClosed(t *testing.T) {
	if StatusBacklog.IsClosed() || StatusWaiting.IsClosed() || StatusInProgress.IsClosed() {
		t.Error("Expected open statuses not to be closed")
	}
	if !StatusDone.IsClosed() || !StatusCancelled.IsClosed() {
		t.Error("Expected terminal statuses to be closed")
	}
}

func TestDemand_ReceivedOn(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	d := Demand{ReceivedAt: time.Date(2025, 9, 29, 1, 0, 0, 0, time.UTC)}

	if !d.ReceivedOn(time.Date(2025, 9, 28, 0, 0, 0, 0, loc)) {
		t.Error("Expected 01:00 UTC to fall on the previous day in BRT")
	}
	if (&Demand{}).ReceivedOn(time.Date(2025, 9, 28, 0, 0, 0, 0, loc)) {
		t.Error("Expected zero timestamp not to match any day")
	}
}

func TestInboundMessage_Command(t *testing.T) {
	tests := []struct {
		text     string
		expected string
	}{
		{"/hoje", "hoje"},
		{"  /Sem_Prazo extra", "sem_prazo"},
		{"/resumo@radar", "resumo"},
		{"Enviar relatório", ""},
	}

	for _, tt := range tests {
		m := &InboundMessage{Text: tt.text}
		if got := m.Command(); got != tt.expected {
			t.Errorf("Command(%q): expected %q, got %q", tt.text, tt.expected, got)
		}
	}
}
