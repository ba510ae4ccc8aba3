package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/radardiario/radar-bridge/internal/biz/domain"
	"github.com/radardiario/radar-bridge/internal/biz/parser"
)

var testLoc = time.FixedZone("BRT", -3*60*60)

func fixedClock() time.Time {
	return time.Date(2025, 9, 28, 14, 30, 0, 0, testLoc)
}

func newTestIntake(t *testing.T, demands *mockDemandRepo, ledger *mockLedgerRepo) *IntakeUsecase {
	t.Helper()
	registry, err := parser.NewRegistry(parser.DefaultProjects())
	if err != nil {
		t.Fatalf("Failed to create registry: %v", err)
	}
	p := parser.New(registry, testLoc, parser.WithoutFallback())

	var uc *IntakeUsecase
	if ledger == nil {
		uc = NewIntakeUsecase(p, demands, nil)
	} else {
		uc = NewIntakeUsecase(p, demands, ledger)
	}
	uc.SetClock(fixedClock)
	return uc
}

func TestIntakeUsecase_Register(t *testing.T) {
	demands := &mockDemandRepo{}
	ledger := newMockLedgerRepo()
	uc := newTestIntake(t, demands, ledger)
	ctx := context.Background()

	msg := &domain.InboundMessage{
		ID:         "om_1",
		ChatID:     "oc_1",
		SenderName: "Maria",
		Text:       "  Enviar relatório até 05/10 [UGF] #urgente ",
	}

	record, err := uc.Register(ctx, msg)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if record.Priority != domain.PriorityHigh {
		t.Errorf("Expected priority Alta, got %s", record.Priority)
	}
	if record.DeadlineISO != "2025-10-05" {
		t.Errorf("Expected deadline 2025-10-05, got %s", record.DeadlineISO)
	}
	if record.OriginalText != "Enviar relatório até 05/10 [UGF] #urgente" {
		t.Errorf("Expected trimmed original text, got %q", record.OriginalText)
	}

	if len(demands.demands) != 1 {
		t.Fatalf("Expected 1 stored demand, got %d", len(demands.demands))
	}
	stored := demands.demands[0]
	if stored.MessageID != "om_1" || stored.Sender != "Maria" {
		t.Errorf("Unexpected stored metadata: %+v", stored)
	}
	if stored.Origin != domain.OriginFeishu || stored.Source != domain.SourceBot {
		t.Errorf("Unexpected origin/source: %s/%s", stored.Origin, stored.Source)
	}
	if !stored.ReceivedAt.Equal(fixedClock()) {
		t.Errorf("Expected received at %v, got %v", fixedClock(), stored.ReceivedAt)
	}

	if ledger.seen["om_1"] != "oc_1" {
		t.Error("Expected message to be recorded in ledger")
	}
}

func TestIntakeUsecase_DuplicateFromLedger(t *testing.T) {
	demands := &mockDemandRepo{}
	ledger := newMockLedgerRepo()
	ledger.seen["om_1"] = "oc_1"
	uc := newTestIntake(t, demands, ledger)

	_, err := uc.Register(context.Background(), &domain.InboundMessage{ID: "om_1", Text: "Nova tarefa"})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}
	if len(demands.demands) != 0 {
		t.Errorf("Expected nothing stored, got %d", len(demands.demands))
	}
}

func TestIntakeUsecase_DuplicateFromStore(t *testing.T) {
	demands := &mockDemandRepo{demands: []domain.Demand{{MessageID: "om_1"}}}
	uc := newTestIntake(t, demands, nil)

	_, err := uc.Register(context.Background(), &domain.InboundMessage{ID: "om_1", Text: "Nova tarefa"})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}
}

func TestIntakeUsecase_LookupFailureStillRegisters(t *testing.T) {
	demands := &mockDemandRepo{existsErr: errStore}
	ledger := newMockLedgerRepo()
	ledger.seenErr = errStore
	uc := newTestIntake(t, demands, ledger)

	if _, err := uc.Register(context.Background(), &domain.InboundMessage{ID: "om_2", Text: "Nova tarefa"}); err != nil {
		t.Fatalf("Expected registration despite lookup failures, got %v", err)
	}
	if len(demands.demands) != 1 {
		t.Errorf("Expected 1 stored demand, got %d", len(demands.demands))
	}
}

func TestIntakeUsecase_Errors(t *testing.T) {
	uc := newTestIntake(t, &mockDemandRepo{}, nil)
	if _, err := uc.Register(context.Background(), &domain.InboundMessage{ID: "om_3", Text: "   "}); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("Expected ErrEmptyMessage, got %v", err)
	}

	failing := newTestIntake(t, &mockDemandRepo{appendErr: errStore}, newMockLedgerRepo())
	_, err := failing.Register(context.Background(), &domain.InboundMessage{ID: "om_4", Text: "Nova tarefa"})
	if !errors.Is(err, errStore) {
		t.Errorf("Expected wrapped store error, got %v", err)
	}
}

func TestIntakeUsecase_Preview(t *testing.T) {
	demands := &mockDemandRepo{}
	uc := newTestIntake(t, demands, nil)

	record := uc.Preview("Revisar minuta amanhã [UGOC]")
	if record.DeadlineISO != "2025-09-29" {
		t.Errorf("Expected deadline 2025-09-29, got %s", record.DeadlineISO)
	}
	if len(demands.demands) != 0 {
		t.Error("Expected preview not to store anything")
	}
}
