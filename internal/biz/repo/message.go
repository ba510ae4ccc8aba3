package repo

import "context"

// MessageRepo is the outbound chat interface
type MessageRepo interface {
	// SendText sends a plain text message
	SendText(ctx context.Context, chatID, text string) error

	// SendMarkdown sends a formatted message.
	// Implementations fall back to plain text when formatting is rejected.
	SendMarkdown(ctx context.Context, chatID, text string) error

	// GetSenderName resolves a member's display name in a chat
	GetSenderName(ctx context.Context, chatID, senderID string) (string, error)
}
