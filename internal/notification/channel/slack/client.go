// Package slack delivers notifications to Slack incoming webhooks.
package slack

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"bizsuite/internal/notification/channel"
	"bizsuite/internal/notification/models"
)

type webhookRequest struct {
	Text string `json:"text"`
}

// Client posts to the webhook URL stored as Setting.Destination.
type Client struct {
	http  *http.Client
	guard *channel.Guard
}

// Option configures a Client.
type Option func(*Client)

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
	c := &Client{guard: channel.NewGuard()}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.guard.Timeout()}
	}
	return c
}

func (c *Client) Send(ctx context.Context, setting models.Setting, message string) error {
	if !validWebhook(setting.Destination) {
		return fmt.Errorf("%w: slack needs an http(s) webhook url", channel.ErrMisconfigured)
	}
	return c.guard.Do(ctx, models.ChannelSlack, setting, func(ctx context.Context) error {
		status, body, err := channel.PostJSON(ctx, c.http, setting.Destination, webhookRequest{Text: message})
		if err != nil {
			return fmt.Errorf("slack webhook: %w", err)
		}
		if status < 200 || status >= 300 {
			return fmt.Errorf("%w: slack status %d: %s", channel.ErrRejected, status, strings.TrimSpace(string(body)))
		}
		return nil
	})
}

func validWebhook(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "https" || u.Scheme == "http") && u.Host != ""
}
