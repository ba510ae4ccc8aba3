package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/radardiario/radar-bridge/internal/biz/domain"
	"github.com/radardiario/radar-bridge/internal/biz/parser"
	"github.com/radardiario/radar-bridge/internal/biz/repo"
)

var (
	ErrEmptyMessage = errors.New("empty message")
	ErrDuplicate    = errors.New("message already registered")
)

// IntakeUsecase turns inbound chat messages into stored demands
type IntakeUsecase struct {
	parser     *parser.Parser
	demandRepo repo.DemandRepo
	ledgerRepo repo.LedgerRepo // optional
	origin     string
	now        func() time.Time
}

// NewIntakeUsecase creates a new intake usecase
func NewIntakeUsecase(p *parser.Parser, demandRepo repo.DemandRepo, ledgerRepo repo.LedgerRepo) *IntakeUsecase {
	return &IntakeUsecase{
		parser:     p,
		demandRepo: demandRepo,
		ledgerRepo: ledgerRepo,
		origin:     domain.OriginFeishu,
		now:        time.Now,
	}
}

// SetClock overrides the time source
func (uc *IntakeUsecase) SetClock(now func() time.Time) {
	uc.now = now
}

// Preview parses text without storing anything
func (uc *IntakeUsecase) Preview(text string) domain.ParsedRecord {
	return uc.parser.Parse(text, uc.now())
}

// Register parses and stores a message.
// Returns ErrDuplicate when the message ID was already registered.
func (uc *IntakeUsecase) Register(ctx context.Context, msg *domain.InboundMessage) (*domain.ParsedRecord, error) {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	if uc.isDuplicate(ctx, msg.ID) {
		return nil, ErrDuplicate
	}

	now := uc.now().In(uc.parser.Location())
	record := uc.parser.Parse(text, now)

	demand := &domain.Demand{
		ReceivedAt: now,
		Origin:     uc.origin,
		Sender:     msg.Sender(),
		MessageID:  msg.ID,
		Source:     domain.SourceBot,
		Record:     record,
	}
	if err := uc.demandRepo.Append(ctx, demand); err != nil {
		return nil, fmt.Errorf("failed to append demand: %w", err)
	}

	if uc.ledgerRepo != nil && msg.ID != "" {
		if err := uc.ledgerRepo.Record(ctx, msg.ID, msg.ChatID); err != nil {
			fmt.Printf("[Intake] Failed to record message %s in ledger: %v\n", msg.ID, err)
		}
	}

	fmt.Printf("[Intake] Registered %s: priority=%s status=%s project=%q deadline=%q\n",
		msg.ID, record.Priority, record.Status, record.Project, record.DeadlineISO)
	return &record, nil
}

// isDuplicate checks the local ledger first, then the store.
// Lookup failures are logged and treated as not registered.
func (uc *IntakeUsecase) isDuplicate(ctx context.Context, messageID string) bool {
	if messageID == "" {
		return false
	}

	if uc.ledgerRepo != nil {
		seen, err := uc.ledgerRepo.Seen(ctx, messageID)
		if err != nil {
			fmt.Printf("[Intake] Ledger lookup failed for %s: %v\n", messageID, err)
		} else if seen {
			return true
		}
	}

	exists, err := uc.demandRepo.Exists(ctx, messageID)
	if err != nil {
		fmt.Printf("[Intake] Store lookup failed for %s: %v\n", messageID, err)
		return false
	}
	return exists
}
