package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/radardiario/radar-bridge/internal/biz/domain"
	"github.com/radardiario/radar-bridge/internal/biz/parser"
	"github.com/radardiario/radar-bridge/internal/biz/repo"
	"github.com/radardiario/radar-bridge/internal/biz/usecase"
)

// Chat commands
const (
	cmdStart      = "start"
	cmdHelp       = "help"
	cmdPending    = "pendentes"
	cmdToday      = "hoje"
	cmdNoDeadline = "sem_prazo"
	cmdWaiting    = "aguardando"
	cmdOverdue    = "vencidos"
	cmdDigest     = "resumo"
	cmdClients    = "clientes"
	cmdHealth     = "health"
	cmdDebugLast  = "debug_last"
)

// BotService answers chat messages: commands are dispatched,
// everything else is registered as a demand
type BotService struct {
	intakeUC    *usecase.IntakeUsecase
	queryUC     *usecase.QueryUsecase
	digestUC    *usecase.DigestUsecase
	registry    *parser.Registry
	messageRepo repo.MessageRepo
	timezone    string

	mu      sync.Mutex
	lastErr *Failure
}

// Failure is a recorded error with the time it happened
type Failure struct {
	Err error
	At  time.Time
}

// NewBotService creates a new bot service
func NewBotService(
	intakeUC *usecase.IntakeUsecase,
	queryUC *usecase.QueryUsecase,
	digestUC *usecase.DigestUsecase,
	registry *parser.Registry,
	messageRepo repo.MessageRepo,
	timezone string,
) *BotService {
	return &BotService{
		intakeUC:    intakeUC,
		queryUC:     queryUC,
		digestUC:    digestUC,
		registry:    registry,
		messageRepo: messageRepo,
		timezone:    timezone,
	}
}

// HandleMessage processes one inbound message and sends the reply
func (s *BotService) HandleMessage(ctx context.Context, msg *domain.InboundMessage) error {
	var reply string
	if msg.IsCommand() {
		reply = s.HandleCommand(ctx, msg.Command())
	} else {
		reply = s.register(ctx, msg)
	}
	if reply == "" {
		return nil
	}

	if err := s.messageRepo.SendMarkdown(ctx, msg.ChatID, reply); err != nil {
		s.recordError(err)
		return fmt.Errorf("failed to send reply: %w", err)
	}
	return nil
}

func (s *BotService) register(ctx context.Context, msg *domain.InboundMessage) string {
	rec, err := s.intakeUC.Register(ctx, msg)
	switch {
	case errors.Is(err, usecase.ErrEmptyMessage):
		return ""
	case errors.Is(err, usecase.ErrDuplicate):
		fmt.Printf("[Bot] Duplicate message %s\n", msg.ID)
		return replyDuplicate
	case err != nil:
		fmt.Printf("[Bot] Failed to register %s: %v\n", msg.ID, err)
		s.recordError(err)
		return replyIntakeError
	}
	return RenderConfirmation(rec)
}

// HandleCommand returns the reply text for a command name
func (s *BotService) HandleCommand(ctx context.Context, cmd string) string {
	fmt.Printf("[Bot] Command /%s\n", cmd)

	switch cmd {
	case cmdStart, cmdHelp:
		return RenderHelp(s.registry)
	case cmdPending:
		return s.list(ctx, usecase.FilterOpen, "📋 **Tarefas Pendentes**",
			"✅ Nenhuma tarefa pendente encontrada!", "❌ Erro ao buscar tarefas pendentes.")
	case cmdToday:
		demands, err := s.queryUC.List(ctx, usecase.FilterDueToday)
		if err != nil {
			s.recordError(err)
			return "❌ Erro ao buscar vencimentos de hoje."
		}
		return RenderDueToday(demands, s.queryUC.Today())
	case cmdNoDeadline:
		return s.list(ctx, usecase.FilterNoDeadline, "⏳ **Tarefas Sem Prazo**",
			"✅ Nenhuma tarefa sem prazo encontrada!", "❌ Erro ao buscar tarefas sem prazo.")
	case cmdWaiting:
		return s.list(ctx, usecase.FilterWaiting, "⏳ **Tarefas Aguardando Terceiros**",
			"✅ Nenhuma tarefa aguardando terceiros!", "❌ Erro ao buscar tarefas aguardando.")
	case cmdOverdue:
		return s.list(ctx, usecase.FilterOverdue, "🚨 **Tarefas Vencidas**",
			"✅ Nenhuma tarefa vencida!", "❌ Erro ao buscar tarefas vencidas.")
	case cmdDigest:
		text, err := s.Digest(ctx)
		if err != nil {
			return "❌ Erro ao gerar resumo."
		}
		return text
	case cmdClients:
		return RenderClients(s.registry)
	case cmdHealth:
		now := s.queryUC.Now()
		err := s.queryUC.Health(ctx)
		if err != nil {
			s.recordError(err)
		}
		return RenderHealth(now, s.timezone, err)
	case cmdDebugLast:
		return RenderLastError(s.LastError(), s.queryUC.Location())
	default:
		return fmt.Sprintf("❓ Comando desconhecido: /%s\nUse /start para ver os comandos disponíveis.", cmd)
	}
}

func (s *BotService) list(ctx context.Context, filter usecase.DemandFilter, title, empty, failure string) string {
	demands, err := s.queryUC.List(ctx, filter)
	if err != nil {
		fmt.Printf("[Bot] Failed to list %s: %v\n", filter, err)
		s.recordError(err)
		return failure
	}
	return RenderDemandList(title, empty, demands)
}

// Digest builds and renders the daily overview
func (s *BotService) Digest(ctx context.Context) (string, error) {
	d, err := s.digestUC.Build(ctx)
	if err != nil {
		fmt.Printf("[Bot] Failed to build digest: %v\n", err)
		s.recordError(err)
		return "", err
	}
	return RenderDigest(d), nil
}

// SendDigest sends the daily overview to a chat
func (s *BotService) SendDigest(ctx context.Context, chatID string) error {
	if chatID == "" {
		err := errors.New("digest chat_id not configured")
		s.recordError(err)
		return err
	}
	text, err := s.Digest(ctx)
	if err != nil {
		return err
	}
	if err := s.messageRepo.SendMarkdown(ctx, chatID, text); err != nil {
		s.recordError(err)
		return fmt.Errorf("failed to send digest: %w", err)
	}
	return nil
}

// LastError returns the most recent failure, or nil
func (s *BotService) LastError() *Failure {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *BotService) recordError(err error) {
	s.mu.Lock()
	s.lastErr = &Failure{Err: err, At: time.Now()}
	s.mu.Unlock()
}
