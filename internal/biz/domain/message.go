package domain

import (
	"strings"
	"time"
)

// ChatType represents chat type
type ChatType string

const (
	ChatTypeP2P   ChatType = "p2p"
	ChatTypeGroup ChatType = "group"
)

// InboundMessage is a chat message addressed to the bot
type InboundMessage struct {
	ID         string
	ChatID     string
	ChatType   ChatType
	SenderID   string
	SenderName string
	Text       string
	CreateTime time.Time
}

// IsCommand checks if the message is a slash command
func (m *InboundMessage) IsCommand() bool {
	return strings.HasPrefix(strings.TrimSpace(m.Text), "/")
}

// Command returns the lower-cased command name without the slash,
// or an empty string when the message is not a command.
// Suffixes such as "/hoje@radar" are dropped.
func (m *InboundMessage) Command() string {
	if !m.IsCommand() {
		return ""
	}
	fields := strings.Fields(m.Text)
	cmd := strings.TrimPrefix(fields[0], "/")
	if i := strings.Index(cmd, "@"); i >= 0 {
		cmd = cmd[:i]
	}
	return strings.ToLower(cmd)
}

// Sender returns the best available sender label
func (m *InboundMessage) Sender() string {
	if m.SenderName != "" {
		return m.SenderName
	}
	return m.SenderID
}
