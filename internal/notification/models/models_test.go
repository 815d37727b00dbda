package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseChannel(t *testing.T) {
	ch, ok := ParseChannel("telegram")
	assert.True(t, ok)
	assert.Equal(t, ChannelTelegram, ch)

	ch, ok = ParseChannel("slack")
	assert.True(t, ok)
	assert.Equal(t, ChannelSlack, ch)

	_, ok = ParseChannel("Telegram")
	assert.False(t, ok, "channel names are case sensitive")
	_, ok = ParseChannel("")
	assert.False(t, ok)
}

func TestOutcomeSent(t *testing.T) {
	assert.True(t, Outcome{Status: StatusSent}.Sent())
	for _, st := range []Status{StatusDisabled, StatusIncomplete, StatusTemplateMissing, StatusSendFailed, StatusHandlerPanic} {
		assert.False(t, Outcome{Status: st}.Sent(), st)
	}
}
