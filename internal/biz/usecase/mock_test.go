package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/radardiario/radar-bridge/internal/biz/domain"
)

// Mock implementations

type mockDemandRepo struct {
	demands   []domain.Demand
	existsErr error
	appendErr error
	listErr   error
	mu        sync.Mutex
}

func (m *mockDemandRepo) Exists(ctx context.Context, messageID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.existsErr != nil {
		return false, m.existsErr
	}
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
	if m.appendErr != nil {
		return m.appendErr
	}
	m.demands = append(m.demands, *demand)
	return nil
}

func (m *mockDemandRepo) List(ctx context.Context) ([]domain.Demand, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]domain.Demand, len(m.demands))
	copy(out, m.demands)
	return out, nil
}

func (m *mockDemandRepo) Ping(ctx context.Context) error {
	return m.listErr
}

type mockLedgerRepo struct {
	seen    map[string]string
	seenErr error
}

func newMockLedgerRepo() *mockLedgerRepo {
	return &mockLedgerRepo{seen: make(map[string]string)}
}

func (m *mockLedgerRepo) Seen(ctx context.Context, messageID string) (bool, error) {
	if m.seenErr != nil {
		return false, m.seenErr
	}
	_, ok := m.seen[messageID]
	return ok, nil
}

func (m *mockLedgerRepo) Record(ctx context.Context, messageID, chatID string) error {
	m.seen[messageID] = chatID
	return nil
}

func (m *mockLedgerRepo) CleanupOld(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func (m *mockLedgerRepo) Close() error {
	return nil
}

var errStore = errors.New("store unavailable")
