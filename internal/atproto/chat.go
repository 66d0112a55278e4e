package atproto

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// Chat send throttle defaults. This is a pre-emptive local throttle to
// avoid triggering server-side 429s on bursty sends; it is not a retry
// mechanism. 429s that still occur flow through the normal retry path.
const (
	chatSendPerSecond = 1
	chatSendBurst     = 3

	// chatProxyHeader routes chat calls to the chat service appview.
	chatProxyHeader = "did:web:api.bsky.chat#bsky_chat"
)

// ChatClient wraps a Client with the chat endpoints and the local
// send throttle.
type ChatClient struct {
	client  *Client
	limiter *rate.Limiter
}

// NewChatClient creates a chat client over an authenticated client.
func NewChatClient(c *Client) *ChatClient {
	return &ChatClient{
		client:  c.Proxied(chatProxyHeader),
		limiter: rate.NewLimiter(rate.Limit(chatSendPerSecond), chatSendBurst),
	}
}

// Convo is one chat conversation summary.
type Convo struct {
	ID          string `json:"id"`
	UnreadCount int    `json:"unreadCount"`
	Members     []struct {
		DID    string `json:"did"`
		Handle string `json:"handle"`
	} `json:"members"`
	LastMessage struct {
		Text   string    `json:"text"`
		SentAt time.Time `json:"sentAt"`
	} `json:"lastMessage"`
}

// ListConvos returns the caller's conversations.
func (cc *ChatClient) ListConvos(ctx context.Context, limit int) ([]Convo, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	var out struct {
		Convos []Convo `json:"convos"`
	}
	if err := cc.client.Query(ctx, "chat.bsky.convo.listConvos", params, &out); err != nil {
		return nil, err
	}
	return out.Convos, nil
}

// Message is one sent chat message.
type Message struct {
	ID     string    `json:"id"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sentAt"`
}

// SendMessage sends a text message into a conversation, waiting on the
// local throttle first. The wait respects context cancellation.
func (cc *ChatClient) SendMessage(ctx context.Context, convoID, text string) (*Message, error) {
	if err := cc.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	in := map[string]any{
		"convoId": convoID,
		"message": map[string]string{"text": text},
	}
	var out Message
	if err := cc.client.Procedure(ctx, "chat.bsky.convo.sendMessage", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
