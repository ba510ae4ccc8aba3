package data

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/radardiario/radar-bridge/internal/biz/repo"
	"github.com/radardiario/radar-bridge/internal/infra/feishu"
)

// feishuClient is the part of the Feishu client the repository uses
type feishuClient interface {
	SendText(ctx context.Context, chatID, text string) error
	SendMarkdown(ctx context.Context, chatID, text string) error
	GetChatMembers(ctx context.Context, chatID string) ([]*feishu.ChatMember, error)
}

// feishuRepo implements the outbound message repository
type feishuRepo struct {
	client feishuClient

	mu    sync.Mutex
	names map[string]map[string]string // chatID -> memberID -> name
}

// NewFeishuRepo creates a new Feishu repository
func NewFeishuRepo(client feishuClient) repo.MessageRepo {
	return &feishuRepo{
		client: client,
		names:  make(map[string]map[string]string),
	}
}

// SendText sends a text message
func (r *feishuRepo) SendText(ctx context.Context, chatID, text string) error {
	return r.client.SendText(ctx, chatID, text)
}

// SendMarkdown sends a formatted message, retrying as plain text
// with the markup stripped when the formatted send fails
func (r *feishuRepo) SendMarkdown(ctx context.Context, chatID, text string) error {
	err := r.client.SendMarkdown(ctx, chatID, text)
	if err == nil {
		return nil
	}
	fmt.Printf("[Feishu] Markdown send failed, falling back to text: %v\n", err)
	if err := r.client.SendText(ctx, chatID, stripMarkdown(text)); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// GetSenderName resolves a member name from the chat member list.
// Member lists are cached per chat; unknown members trigger a refresh.
func (r *feishuRepo) GetSenderName(ctx context.Context, chatID, senderID string) (string, error) {
	r.mu.Lock()
	if name, ok := r.names[chatID][senderID]; ok {
		r.mu.Unlock()
		return name, nil
	}
	r.mu.Unlock()

	members, err := r.client.GetChatMembers(ctx, chatID)
	if err != nil {
		return "", err
	}

	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.MemberID] = m.Name
	}

	r.mu.Lock()
	r.names[chatID] = names
	r.mu.Unlock()

	name, ok := names[senderID]
	if !ok {
		return "", fmt.Errorf("member %s not found in chat %s", senderID, chatID)
	}
	return name, nil
}

var markdownReplacer = strings.NewReplacer("*", "", "_", "", "`", "")

func stripMarkdown(text string) string {
	return markdownReplacer.Replace(text)
}
