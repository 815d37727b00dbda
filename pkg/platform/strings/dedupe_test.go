package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		want []string
	}{
		{name: "unset", csv: "", want: nil},
		{name: "blank", csv: "  ,  ", want: []string{}},
		{name: "channels keep first-seen order", csv: " Telegram,slack,,telegram ", want: []string{"telegram", "slack"}},
		{name: "brokers", csv: "redpanda-0:9092, redpanda-1:9092,redpanda-0:9092", want: []string{"redpanda-0:9092", "redpanda-1:9092"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitList(tt.csv))
		})
	}
}

func TestDedupeAndTrim_KeepsCase(t *testing.T) {
	assert.Equal(t, []string{"Slack", "slack"}, DedupeAndTrim([]string{" Slack", "slack ", "Slack"}))
	assert.Nil(t, DedupeAndTrim(nil))
}
