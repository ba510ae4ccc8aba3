package data

import (
	"context"
	"errors"
	"testing"

	"github.com/radardiario/radar-bridge/internal/infra/feishu"
)

type mockFeishuClient struct {
	markdownErr error
	texts       []string
	markdowns   []string
	members     []*feishu.ChatMember
	memberCalls int
}

func (m *mockFeishuClient) SendText(ctx context.Context, chatID, text string) error {
	m.texts = append(m.texts, text)
	return nil
}

func (m *mockFeishuClient) SendMarkdown(ctx context.Context, chatID, text string) error {
	if m.markdownErr != nil {
		return m.markdownErr
	}
	m.markdowns = append(m.markdowns, text)
	return nil
}

func (m *mockFeishuClient) GetChatMembers(ctx context.Context, chatID string) ([]*feishu.ChatMember, error) {
	m.memberCalls++
	return m.members, nil
}

func TestFeishuRepo_SendMarkdownFallsBack(t *testing.T) {
	client := &mockFeishuClient{markdownErr: errors.New("invalid post")}
	r := NewFeishuRepo(client)

	if err := r.SendMarkdown(context.Background(), "oc_1", "📡 **Radar** _x_ `y`"); err != nil {
		t.Fatalf("SendMarkdown failed: %v", err)
	}
	if len(client.texts) != 1 {
		t.Fatalf("Expected 1 text fallback, got %d", len(client.texts))
	}
	if client.texts[0] != "📡 Radar x y" {
		t.Errorf("Expected stripped text, got %q", client.texts[0])
	}
}

func TestFeishuRepo_SendMarkdown(t *testing.T) {
	client := &mockFeishuClient{}
	r := NewFeishuRepo(client)

	r.SendMarkdown(context.Background(), "oc_1", "**ok**")
	if len(client.markdowns) != 1 || len(client.texts) != 0 {
		t.Errorf("Expected markdown only, got %d markdown %d text", len(client.markdowns), len(client.texts))
	}
}

func TestFeishuRepo_GetSenderName(t *testing.T) {
	client := &mockFeishuClient{members: []*feishu.ChatMember{
		{MemberID: "ou_1", Name: "Ana"},
		{MemberID: "ou_2", Name: "Bruno"},
	}}
	r := NewFeishuRepo(client)
	ctx := context.Background()

	name, err := r.GetSenderName(ctx, "oc_1", "ou_2")
	if err != nil || name != "Bruno" {
		t.Fatalf("Expected 'Bruno', got %q, %v", name, err)
	}
	name, _ = r.GetSenderName(ctx, "oc_1", "ou_1")
	if name != "Ana" {
		t.Errorf("Expected 'Ana', got %q", name)
	}
	if client.memberCalls != 1 {
		t.Errorf("Expected member list to be cached, got %d calls", client.memberCalls)
	}

	if _, err := r.GetSenderName(ctx, "oc_1", "ou_9"); err == nil {
		t.Error("Expected error for unknown member")
	}
}
