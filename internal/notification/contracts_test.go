package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizsuite/internal/notification/handlers"
	"bizsuite/internal/notification/models"
	"bizsuite/internal/notification/subscription"
	"bizsuite/internal/notification/template"
)

func defaultTable() *subscription.Table {
	return subscription.NewTable(handlers.Defaults(handlers.NewInMemoryLookup())...).Freeze()
}

func TestCheckContracts_DefaultsLineUp(t *testing.T) {
	problems := CheckContracts(defaultTable(), template.NewDefaultRegistry(), models.Channels)
	assert.Empty(t, problems)
	assert.NoError(t, Err(problems))
}

func TestCheckContracts_ReportsDrift(t *testing.T) {
	reg := template.NewDefaultRegistry().Overlay(map[models.Channel]template.Set{
		models.ChannelSlack: {models.KeyNewDeal: "Deal {deal_name} worth {deal_price}"},
	})
	sparse := template.NewRegistry(map[models.Channel]template.Set{
		models.ChannelTelegram: {models.KeyNewEmployee: "Welcome {employee_name}"},
	})

	t.Run("unknown placeholders", func(t *testing.T) {
		problems := CheckContracts(defaultTable(), reg, []models.Channel{models.ChannelSlack})
		require.Len(t, problems, 1)
		assert.Equal(t, models.KeyNewDeal, problems[0].Key)
		assert.ElementsMatch(t, []string{"deal_name", "deal_price"}, problems[0].Unknown)
		assert.ErrorContains(t, Err(problems), "slack/New Deal")
	})

	t.Run("missing templates", func(t *testing.T) {
		problems := CheckContracts(defaultTable(), sparse, []models.Channel{models.ChannelTelegram})
		assert.NotEmpty(t, problems)
		for _, p := range problems {
			assert.True(t, p.Missing)
			assert.NotEqual(t, models.KeyNewEmployee, p.Key)
		}
	})
}
