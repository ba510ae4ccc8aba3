package feishu

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	lark "github.com/larksuite/oapi-sdk-go/v3"
	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
	"github.com/larksuite/oapi-sdk-go/v3/event/dispatcher"
	larkim "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"
	larkws "github.com/larksuite/oapi-sdk-go/v3/ws"
)

// Message represents a received Feishu message
type Message struct {
	ChatID      string
	MsgID       string
	MsgType     string // text, post
	ChatType    string // p2p (private), group
	Content     string // Text content with the bot mention removed
	Sender      *Sender
	MentionsBot bool
	CreateTime  int64 // Milliseconds Unix timestamp from Feishu
}

// Sender represents the message sender
type Sender struct {
	SenderID   string // open_id
	SenderType string // user, app
}

// ChatMember represents a member in a chat
type ChatMember struct {
	MemberID string `json:"member_id"`
	Name     string `json:"name"`
}

// MessageHandler is the callback for received messages
type MessageHandler func(msg *Message)

// Client is the Feishu API client
type Client struct {
	appID     string
	appSecret string
	larkCli   *lark.Client
	wsCli     *larkws.Client
	onMessage MessageHandler
	ctx       context.Context
	cancel    context.CancelFunc
	botOpenID string
}

// NewClient creates a new Feishu client
func NewClient(appID, appSecret string) *Client {
	return &Client{
		appID:     appID,
		appSecret: appSecret,
		larkCli:   lark.NewClient(appID, appSecret),
	}
}

// OnMessage sets the message handler
func (c *Client) OnMessage(handler MessageHandler) {
	c.onMessage = handler
}

// Start connects the event websocket. Blocks until Stop.
func (c *Client) Start() error {
	c.ctx, c.cancel = context.WithCancel(context.Background())

	if err := c.fetchBotOpenID(); err != nil {
		fmt.Printf("[Feishu] Warning: failed to fetch bot open_id: %v\n", err)
	}

	// Must return quickly so the SDK can ACK, otherwise Feishu redelivers
	eventHandler := dispatcher.NewEventDispatcher("", "").
		OnP2MessageReceiveV1(func(ctx context.Context, event *larkim.P2MessageReceiveV1) error {
			go c.handleMessage(event)
			return nil
		})

	c.wsCli = larkws.NewClient(c.appID, c.appSecret,
		larkws.WithEventHandler(eventHandler),
		larkws.WithLogLevel(larkcore.LogLevelInfo),
	)

	fmt.Println("[Feishu] Starting WebSocket connection...")
	return c.wsCli.Start(c.ctx)
}

// Stop stops the client
func (c *Client) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
}

func (c *Client) fetchBotOpenID() error {
	resp, err := c.larkCli.Get(c.ctx, "/open-apis/bot/v3/info", nil, larkcore.AccessTokenTypeTenant)
	if err != nil {
		return fmt.Errorf("get bot info: %w", err)
	}

	var info struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
		Bot  struct {
			OpenID  string `json:"open_id"`
			AppName string `json:"app_name"`
		} `json:"bot"`
	}
	if err := json.Unmarshal(resp.RawBody, &info); err != nil {
		return fmt.Errorf("decode bot info: %w", err)
	}
	if info.Code != 0 {
		return fmt.Errorf("bot info error: %s", info.Msg)
	}

	c.botOpenID = info.Bot.OpenID
	fmt.Printf("[Feishu] Bot open_id: %s (name=%s)\n", c.botOpenID, info.Bot.AppName)
	return nil
}

func (c *Client) handleMessage(event *larkim.P2MessageReceiveV1) {
	msg := toMessage(event, c.botOpenID)
	if msg == nil {
		return
	}
	fmt.Printf("[Feishu] Received %s from %s chat %s (%d chars)\n", msg.MsgType, msg.ChatType, msg.ChatID, len([]rune(msg.Content)))

	if c.onMessage != nil {
		c.onMessage(msg)
	}
}

// toMessage converts a receive event into a Message. Returns nil for the
// bot's own messages, non-text bodies and malformed events.
func toMessage(event *larkim.P2MessageReceiveV1, botOpenID string) *Message {
	if event == nil || event.Event == nil || event.Event.Message == nil {
		return nil
	}
	raw := event.Event.Message
	sender := event.Event.Sender
	if sender != nil && larkcore.StringValue(sender.SenderType) == "app" {
		return nil
	}

	msg := &Message{
		ChatID:   larkcore.StringValue(raw.ChatId),
		MsgID:    larkcore.StringValue(raw.MessageId),
		MsgType:  larkcore.StringValue(raw.MessageType),
		ChatType: larkcore.StringValue(raw.ChatType),
	}
	if ts, err := strconv.ParseInt(larkcore.StringValue(raw.CreateTime), 10, 64); err == nil {
		msg.CreateTime = ts
	}
	if sender != nil {
		msg.Sender = &Sender{SenderType: larkcore.StringValue(sender.SenderType)}
		if sender.SenderId != nil {
			msg.Sender.SenderID = larkcore.StringValue(sender.SenderId.OpenId)
		}
	}

	// @_user_N placeholders become names; the bot's own mention is removed
	mentions := make(map[string]string, len(raw.Mentions))
	for _, m := range raw.Mentions {
		key := larkcore.StringValue(m.Key)
		if key == "" {
			continue
		}
		if botOpenID != "" && m.Id != nil && larkcore.StringValue(m.Id.OpenId) == botOpenID {
			msg.MentionsBot = true
			mentions[key] = ""
			continue
		}
		mentions[key] = "@" + larkcore.StringValue(m.Name)
	}

	body := larkcore.StringValue(raw.Content)
	switch msg.MsgType {
	case larkim.MsgTypeText:
		msg.Content = ParseTextContent(body, mentions)
	case larkim.MsgTypePost:
		msg.Content = ParsePostContent(body, mentions)
	default:
		fmt.Printf("[Feishu] Ignoring %s message %s\n", msg.MsgType, msg.MsgID)
		return nil
	}
	return msg
}

// ParseTextContent extracts the text of a "text" message body
func ParseTextContent(content string, mentionMap map[string]string) string {
	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return ""
	}
	return strings.TrimSpace(replaceMentions(parsed.Text, mentionMap))
}

// ParsePostContent flattens a rich text "post" body into plain lines
func ParsePostContent(content string, mentionMap map[string]string) string {
	var post struct {
		Title   string `json:"title"`
		Content [][]struct {
			Tag  string `json:"tag"`
			Text string `json:"text"`
			Href string `json:"href"`
		} `json:"content"`
	}
	if err := json.Unmarshal([]byte(content), &post); err != nil {
		return ""
	}

	var lines []string
	if post.Title != "" {
		lines = append(lines, post.Title)
	}
	for _, paragraph := range post.Content {
		var sb strings.Builder
		for _, el := range paragraph {
			switch el.Tag {
			case "text", "a", "md":
				sb.WriteString(el.Text)
			}
		}
		if line := strings.TrimSpace(sb.String()); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.TrimSpace(replaceMentions(strings.Join(lines, "\n"), mentionMap))
}

func replaceMentions(text string, mentionMap map[string]string) string {
	for key, name := range mentionMap {
		text = strings.ReplaceAll(text, key, name)
	}
	return text
}

// SendText sends a plain text message
func (c *Client) SendText(ctx context.Context, chatID, text string) error {
	content := map[string]string{"text": text}
	contentJSON, _ := json.Marshal(content)
	return c.send(ctx, chatID, larkim.MsgTypeText, string(contentJSON))
}

// SendMarkdown sends a post message with a single markdown element
func (c *Client) SendMarkdown(ctx context.Context, chatID, text string) error {
	post := map[string]interface{}{
		"zh_cn": map[string]interface{}{
			"content": [][]map[string]interface{}{
				{{"tag": "md", "text": text}},
			},
		},
	}
	contentJSON, _ := json.Marshal(post)
	return c.send(ctx, chatID, larkim.MsgTypePost, string(contentJSON))
}

func (c *Client) send(ctx context.Context, chatID, msgType, content string) error {
	req := larkim.NewCreateMessageReqBuilder().
		ReceiveIdType(larkim.ReceiveIdTypeChatId).
		Body(larkim.NewCreateMessageReqBodyBuilder().
			ReceiveId(chatID).
			MsgType(msgType).
			Content(content).
			Build()).
		Build()

	resp, err := c.larkCli.Im.Message.Create(ctx, req)
	if err != nil {
		return fmt.Errorf("send message failed: %w", err)
	}
	if !resp.Success() {
		return fmt.Errorf("send message error: %s", resp.Msg)
	}

	fmt.Printf("[Feishu] %s message sent to %s\n", msgType, chatID)
	return nil
}

// GetChatMembers gets all members of a chat
func (c *Client) GetChatMembers(ctx context.Context, chatID string) ([]*ChatMember, error) {
	var members []*ChatMember
	var pageToken string

	for {
		reqBuilder := larkim.NewGetChatMembersReqBuilder().
			MemberIdType("open_id").
			ChatId(chatID).
			PageSize(100)
		if pageToken != "" {
			reqBuilder = reqBuilder.PageToken(pageToken)
		}

		resp, err := c.larkCli.Im.ChatMembers.Get(ctx, reqBuilder.Build())
		if err != nil {
			return nil, fmt.Errorf("get chat members failed: %w", err)
		}
		if !resp.Success() {
			return nil, fmt.Errorf("get chat members error: %s", resp.Msg)
		}

		for _, item := range resp.Data.Items {
			members = append(members, &ChatMember{
				MemberID: larkcore.StringValue(item.MemberId),
				Name:     larkcore.StringValue(item.Name),
			})
		}

		if resp.Data.PageToken == nil || *resp.Data.PageToken == "" {
			break
		}
		pageToken = *resp.Data.PageToken
	}

	return members, nil
}
