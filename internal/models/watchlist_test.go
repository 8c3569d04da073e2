package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRuleValidate(t *testing.T) {
	valid := NotificationRule{Direction: DirectionAtOrAbove, Threshold: decimal.NewFromFloat(0.01)}
	assert.NoError(t, valid.Validate())

	invalid := []NotificationRule{
		{Direction: DirectionAtOrAbove, Threshold: decimal.Zero},
		{Direction: DirectionAtOrBelow, Threshold: decimal.NewFromInt(-1)},
		{Direction: "above", Threshold: decimal.NewFromInt(10)},
		{Direction: "", Threshold: decimal.NewFromInt(10)},
	}
	for _, rule := range invalid {
		assert.ErrorIs(t, rule.Validate(), ErrInvalidRule)
	}
}

func TestNotificationRuleSatisfied(t *testing.T) {
	above := NotificationRule{Direction: DirectionAtOrAbove, Threshold: decimal.NewFromInt(100)}
	assert.True(t, above.Satisfied(100), "boundary is inclusive")
	assert.True(t, above.Satisfied(100.01))
	assert.False(t, above.Satisfied(99.99))

	below := NotificationRule{Direction: DirectionAtOrBelow, Threshold: decimal.NewFromInt(50)}
	assert.True(t, below.Satisfied(50), "boundary is inclusive")
	assert.True(t, below.Satisfied(49.5))
	assert.False(t, below.Satisfied(51))
}

func TestNotificationRuleJSON(t *testing.T) {
	t.Run("marshals to a [direction, number] tuple", func(t *testing.T) {
		rule := NotificationRule{Direction: DirectionAtOrBelow, Threshold: decimal.NewFromFloat(42.5)}
		data, err := json.Marshal(rule)
		require.NoError(t, err)
		assert.JSONEq(t, `["<=",42.5]`, string(data))
	})

	t.Run("unmarshals the tuple form", func(t *testing.T) {
		var rule NotificationRule
		require.NoError(t, json.Unmarshal([]byte(`[">=",100]`), &rule))
		assert.Equal(t, DirectionAtOrAbove, rule.Direction)
		assert.True(t, rule.Threshold.Equal(decimal.NewFromInt(100)))
	})

	t.Run("rejects malformed tuples", func(t *testing.T) {
		cases := []string{`[">="]`, `[">=",100,1]`, `{"direction":">="}`, `[100,">="]`}
		for _, c := range cases {
			var rule NotificationRule
			assert.Error(t, json.Unmarshal([]byte(c), &rule), "input: %s", c)
		}
	})
}

func TestWatchlistContains(t *testing.T) {
	wl := NewWatchlist()
	wl.Stocks = append(wl.Stocks, "AAPL", "MSFT")

	assert.True(t, wl.Contains("AAPL"))
	assert.False(t, wl.Contains("NVDA"))
}
