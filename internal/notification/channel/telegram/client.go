// Package telegram delivers notifications through the Telegram Bot API.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"bizsuite/internal/notification/channel"
	"bizsuite/internal/notification/models"
)

// DefaultBaseURL is the public Bot API endpoint.
const DefaultBaseURL = "https://api.telegram.org"

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Client sends messages with the tenant's own bot token (Setting.Credentials)
// to the tenant's chat (Setting.Destination).
type Client struct {
	baseURL string
	http    *http.Client
	guard   *channel.Guard
}

// Option configures a Client.
type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithGuard(g *channel.Guard) Option {
	return func(c *Client) {
		if g != nil {
			c.guard = g
		}
	}
}

func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		guard:   channel.NewGuard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.guard.Timeout()}
	}
	return c
}

func (c *Client) Send(ctx context.Context, setting models.Setting, message string) error {
	if setting.Credentials == "" || setting.Destination == "" {
		return fmt.Errorf("%w: telegram needs bot token and chat id", channel.ErrMisconfigured)
	}
	return c.guard.Do(ctx, models.ChannelTelegram, setting, func(ctx context.Context) error {
		endpoint := c.baseURL + "/bot" + setting.Credentials + "/sendMessage"
		status, body, err := channel.PostJSON(ctx, c.http, endpoint, sendMessageRequest{
			ChatID: setting.Destination,
			Text:   message,
		})
		if err != nil {
			return fmt.Errorf("telegram sendMessage: %w", err)
		}

		var resp apiResponse
		_ = json.Unmarshal(body, &resp)
		if status < 200 || status >= 300 || !resp.OK {
			return fmt.Errorf("%w: telegram status %d: %s", channel.ErrRejected, status, resp.Description)
		}
		return nil
	})
}
