package server

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/radardiario/radar-bridge/internal/biz/domain"
	"github.com/radardiario/radar-bridge/internal/biz/repo"
	"github.com/radardiario/radar-bridge/internal/infra/feishu"
)

// seenTTL is how long message IDs stay in the in-memory dedupe cache
const seenTTL = 5 * time.Minute

// messageSource delivers inbound chat messages
type messageSource interface {
	OnMessage(handler feishu.MessageHandler)
	Start() error
	Stop()
}

// messageHandler processes one inbound message
type messageHandler interface {
	HandleMessage(ctx context.Context, msg *domain.InboundMessage) error
}

// background is a component started and stopped with the server
type background interface {
	Start()
	Stop()
}

// FeishuServer handles Feishu message processing
type FeishuServer struct {
	source      messageSource
	messageRepo repo.MessageRepo
	handler     messageHandler
	runner      background // optional

	// Message deduplication cache
	seenMsgsMu sync.Mutex
	seenMsgs   map[string]time.Time // msgID -> timestamp
}

// NewFeishuServer creates a new Feishu server
func NewFeishuServer(
	source messageSource,
	messageRepo repo.MessageRepo,
	handler messageHandler,
	runner background,
) *FeishuServer {
	return &FeishuServer{
		source:      source,
		messageRepo: messageRepo,
		handler:     handler,
		runner:      runner,
		seenMsgs:    make(map[string]time.Time),
	}
}

// Start starts the server. Blocks while the event stream is connected.
func (s *FeishuServer) Start() error {
	if s.runner != nil {
		s.runner.Start()
	}

	s.source.OnMessage(s.handleMessage)
	return s.source.Start()
}

// Stop stops the server
func (s *FeishuServer) Stop() {
	if s.runner != nil {
		s.runner.Stop()
	}
	s.source.Stop()
}

// handleMessage handles Feishu messages
func (s *FeishuServer) handleMessage(msg *feishu.Message) {
	if !s.markMessageSeen(msg.MsgID) {
		fmt.Printf("[Server] Duplicate message ignored: %s\n", msg.MsgID)
		return
	}

	// In groups only messages addressed to the bot are demands
	if msg.ChatType == string(domain.ChatTypeGroup) && !msg.MentionsBot {
		return
	}

	ctx := context.Background()
	inbound := ToInboundMessage(msg)
	if inbound.SenderID != "" {
		name, err := s.messageRepo.GetSenderName(ctx, inbound.ChatID, inbound.SenderID)
		if err != nil {
			fmt.Printf("[Server] Failed to resolve sender %s: %v\n", inbound.SenderID, err)
		} else {
			inbound.SenderName = name
		}
	}

	if err := s.handler.HandleMessage(ctx, inbound); err != nil {
		fmt.Printf("[Server] Handle message error: %v\n", err)
	}
}

// ToInboundMessage converts a Feishu event message
func ToInboundMessage(msg *feishu.Message) *domain.InboundMessage {
	chatType := domain.ChatTypeP2P
	if msg.ChatType == string(domain.ChatTypeGroup) {
		chatType = domain.ChatTypeGroup
	}

	createTime := time.Now()
	if msg.CreateTime > 0 {
		createTime = time.UnixMilli(msg.CreateTime)
	}

	inbound := &domain.InboundMessage{
		ID:         msg.MsgID,
		ChatID:     msg.ChatID,
		ChatType:   chatType,
		Text:       strings.TrimSpace(msg.Content),
		CreateTime: createTime,
	}
	if msg.Sender != nil {
		inbound.SenderID = msg.Sender.SenderID
	}
	return inbound
}

// markMessageSeen records a message ID and drops expired entries.
// Returns false when the ID was already recorded.
func (s *FeishuServer) markMessageSeen(msgID string) bool {
	s.seenMsgsMu.Lock()
	defer s.seenMsgsMu.Unlock()
	if _, exists := s.seenMsgs[msgID]; exists {
		return false
	}
	s.seenMsgs[msgID] = time.Now()

	cutoff := time.Now().Add(-seenTTL)
	for id, ts := range s.seenMsgs {
		if ts.Before(cutoff) {
			delete(s.seenMsgs, id)
		}
	}
	return true
}
