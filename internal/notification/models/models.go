// Package models holds the notification data model shared by the template
// registry, the settings resolver, the handlers and the dispatcher.
package models

import (
	"time"

	id "bizsuite/pkg/domain"
)

// Key names a class of outgoing notification independent of the event that
// triggers it. Values are stable: settings rows and templates reference them.
type Key string

// Channel names an outbound messaging transport.
type Channel string

const (
	ChannelTelegram Channel = "telegram"
	ChannelSlack    Channel = "slack"
)

// Channels lists every supported channel in resolution order.
var Channels = []Channel{ChannelTelegram, ChannelSlack}

// ParseChannel accepts a channel name from configuration or storage.
func ParseChannel(s string) (Channel, bool) {
	for _, ch := range Channels {
		if string(ch) == s {
			return ch, true
		}
	}
	return "", false
}

// Vars is the flat variable map a handler extracts and a template consumes.
// Variable names are the handler/template contract.
type Vars map[string]string

// Setting is a tenant's configuration for one (channel, key) pair. Absence of
// a setting is equivalent to Enabled=false.
type Setting struct {
	TenantID  id.TenantID
	Channel   Channel
	Key       Key
	Enabled   bool
	UpdatedAt time.Time

	// Destination is channel specific: a Telegram chat id or a Slack webhook URL.
	Destination string

	// Credentials is channel specific: the Telegram bot token. Never logged.
	Credentials string
}

// Status is the terminal state of one (handler, channel) attempt.
type Status string

const (
	StatusSent            Status = "sent"
	StatusDisabled        Status = "disabled"
	StatusIncomplete      Status = "incomplete"
	StatusTemplateMissing Status = "template_missing"
	StatusSendFailed      Status = "send_failed"
	StatusHandlerPanic    Status = "handler_panic"
)

// Outcome records what happened to one handler on one channel. It exists for
// logs and metrics only and never reaches the publishing module.
type Outcome struct {
	EventID   id.EventID
	EventType string
	TenantID  id.TenantID
	Key       Key
	Channel   Channel
	Status    Status
	Err       error
}

// Sent reports whether the message was handed to the transport successfully.
func (o Outcome) Sent() bool { return o.Status == StatusSent }
