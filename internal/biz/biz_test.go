package biz

import (
	"context"
	"testing"
	"time"

	"github.com/radardiario/radar-bridge/internal/biz/domain"
	"github.com/radardiario/radar-bridge/internal/biz/parser"
)

type memStore struct {
	demands []domain.Demand
}

func (m *memStore) Exists(ctx context.Context, messageID string) (bool, error) { return false, nil }
func (m *memStore) Append(ctx context.Context, d *domain.Demand) error {
	m.demands = append(m.demands, *d)
	return nil
}
func (m *memStore) List(ctx context.Context) ([]domain.Demand, error) { return m.demands, nil }
func (m *memStore) Ping(ctx context.Context) error                     { return nil }

func TestUsecases_RegisterThenDigest(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	registry, err := parser.NewRegistry(parser.DefaultProjects())
	if err != nil {
		t.Fatalf("Failed to build registry: %v", err)
	}
	store := &memStore{}
	uc := NewUsecases(parser.New(registry, loc, parser.WithoutFallback()), store, nil)
	uc.SetClock(func() time.Time { return time.Date(2025, 9, 28, 9, 0, 0, 0, loc) })
	ctx := context.Background()

	msgs := []string{
		"enviar relatório amanhã [UGF]",
		"aguardando retorno do jurídico",
	}
	for i, text := range msgs {
		msg := &domain.InboundMessage{ID: string(rune('a' + i)), Text: text}
		if _, err := uc.Intake.Register(ctx, msg); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
	}

	d, err := uc.Digest.Build(ctx)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if d.NewToday != 2 {
		t.Errorf("Expected 2 new demands, got %d", d.NewToday)
	}
	if d.Waiting != 1 {
		t.Errorf("Expected 1 waiting demand, got %d", d.Waiting)
	}
	if d.WithoutDeadline != 1 {
		t.Errorf("Expected 1 demand without deadline, got %d", d.WithoutDeadline)
	}
	if len(d.Upcoming) != 1 || d.Upcoming[0].Record.DeadlineISO != "2025-09-29" {
		t.Errorf("Expected tomorrow's demand upcoming, got %+v", d.Upcoming)
	}
}
