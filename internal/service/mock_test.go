package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/radardiario/radar-bridge/internal/biz/domain"
	"github.com/radardiario/radar-bridge/internal/biz/parser"
	"github.com/radardiario/radar-bridge/internal/biz/usecase"
)

// Mock implementations

type mockMessageRepo struct {
	sent    []string
	chatIDs []string
	sendErr error
	mu      sync.Mutex
}

func (m *mockMessageRepo) SendText(ctx context.Context, chatID, text string) error {
	return m.SendMarkdown(ctx, chatID, text)
}

func (m *mockMessageRepo) SendMarkdown(ctx context.Context, chatID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, text)
	m.chatIDs = append(m.chatIDs, chatID)
	return nil
}

func (m *mockMessageRepo) GetSenderName(ctx context.Context, chatID, senderID string) (string, error) {
	return "", errors.New("not found")
}

func (m *mockMessageRepo) last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return ""
	}
	return m.sent[len(m.sent)-1]
}

type mockDemandRepo struct {
	demands []domain.Demand
	err     error
	mu      sync.Mutex
}

func (m *mockDemandRepo) Exists(ctx context.Context, messageID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.demands {
		if d.MessageID == messageID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockDemandRepo) Append(ctx context.Context, demand *domain.Demand) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.demands = append(m.demands, *demand)
	return nil
}

func (m *mockDemandRepo) List(ctx context.Context) ([]domain.Demand, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]domain.Demand(nil), m.demands...), nil
}

func (m *mockDemandRepo) Ping(ctx context.Context) error {
	return m.err
}

type mockLedgerRepo struct {
	cleanups int
}

func (m *mockLedgerRepo) Seen(ctx context.Context, messageID string) (bool, error) {
	return false, nil
}

func (m *mockLedgerRepo) Record(ctx context.Context, messageID, chatID string) error {
	return nil
}

func (m *mockLedgerRepo) CleanupOld(ctx context.Context, before time.Time) (int64, error) {
	m.cleanups++
	return 0, nil
}

func (m *mockLedgerRepo) Close() error {
	return nil
}

var testLoc = time.FixedZone("BRT", -3*60*60)

func fixedNow() time.Time {
	return time.Date(2025, 9, 28, 14, 30, 0, 0, testLoc)
}

type testBot struct {
	bot      *BotService
	demands  *mockDemandRepo
	messages *mockMessageRepo
}

func newTestBot(t *testing.T) *testBot {
	t.Helper()
	registry, err := parser.NewRegistry(parser.DefaultProjects())
	if err != nil {
		t.Fatalf("Failed to build registry: %v", err)
	}
	p := parser.New(registry, testLoc, parser.WithoutFallback())

	demands := &mockDemandRepo{}
	messages := &mockMessageRepo{}

	intake := usecase.NewIntakeUsecase(p, demands, nil)
	intake.SetClock(fixedNow)
	query := usecase.NewQueryUsecase(demands, testLoc)
	query.SetClock(fixedNow)
	digest := usecase.NewDigestUsecase(query)

	return &testBot{
		bot:      NewBotService(intake, query, digest, registry, messages, "America/Sao_Paulo"),
		demands:  demands,
		messages: messages,
	}
}

func demandAt(summary, deadlineISO string, status domain.Status, project string) domain.Demand {
	rec := domain.ParsedRecord{
		Priority: domain.PriorityMedium,
		Status:   status,
		Project:  project,
		Summary:  summary,
	}
	if deadlineISO != "" {
		t, _ := time.ParseInLocation(domain.ISODateLayout, deadlineISO, testLoc)
		dl := domain.NewDeadline(t)
		rec.DeadlineISO, rec.DeadlineDisplay = dl.ISO, dl.Display
	}
	return domain.Demand{
		ReceivedAt: fixedNow().AddDate(0, 0, -2),
		MessageID:  summary,
		Record:     rec,
	}
}
