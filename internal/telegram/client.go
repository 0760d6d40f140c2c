// Package telegram holds the Bot API types for inbound webhook updates and
// a fire-and-forget outbound sender. Delivery failures are logged, never
// retried and never rolled back into session state.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/leabeefollowme/chat-widget-backend/pkg/pacing"
)

// Update is the subset of a Bot API update the widget backend consumes.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

// Message is an inbound Telegram message.
type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

type User struct {
	ID    int64  `json:"id"`
	IsBot bool   `json:"is_bot"`
	Name  string `json:"first_name"`
}

type Chat struct {
	ID int64 `json:"id"`
}

// Client sends messages through the Bot API.
type Client struct {
	token   string
	baseURL string
	client  *http.Client
	limiter *pacing.AdaptiveLimiter
}

// NewClient creates a sender for the given bot token.
func NewClient(token string) *Client {
	return &Client{
		token:   token,
		baseURL: "https://api.telegram.org",
		client:  &http.Client{Timeout: 10 * time.Second},
		limiter: pacing.NewAdaptiveLimiter(20, 1, 30, 1, 0.5),
	}
}

// NewClientWithBaseURL is used by tests to point at a stub server.
func NewClientWithBaseURL(token, baseURL string) *Client {
	c := NewClient(token)
	c.baseURL = baseURL
	return c
}

// SendMessage delivers text to a chat. One shot: an error is returned for
// logging but the message is not queued again.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]interface{}{
		"chat_id": chatID,
		"text":    text,
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.limiter.RateLimited()
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			c.limiter.RateLimited()
		}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("telegram sendMessage http %d: %s", resp.StatusCode, body)
	}

	c.limiter.Success()
	return nil
}
