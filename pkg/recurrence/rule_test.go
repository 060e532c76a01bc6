package recurrence

import (
	"encoding/json"
	"testing"

	"github.com/kalendo/kalendo/pkg/caldate"
	"github.com/stretchr/testify/assert"
)

func TestParseFrequency(t *testing.T) {
	for _, name := range []string{"none", "daily", "weekly", "monthly", "yearly"} {
		f, err := ParseFrequency(name)
		assert.NoError(t, err)
		assert.Equal(t, name, f.String())
	}

	_, err := ParseFrequency("fortnightly")
	assert.ErrorIs(t, err, ErrUnknownFrequency)
}

func TestFrequencyJSON(t *testing.T) {
	data, err := json.Marshal(Monthly)
	assert.NoError(t, err)
	assert.Equal(t, `"monthly"`, string(data))

	var f Frequency
	assert.NoError(t, json.Unmarshal([]byte(`"weekly"`), &f))
	assert.Equal(t, Weekly, f)
	assert.Error(t, json.Unmarshal([]byte(`"sometimes"`), &f))
}

func TestRuleVariants(t *testing.T) {
	plain := NonRecurring()
	assert.False(t, plain.IsRecurring())
	assert.False(t, plain.InGroup())

	rule := Recurring(Daily, caldate.MustParse("2025-12-31"))
	assert.True(t, rule.IsRecurring())
	assert.False(t, rule.InGroup(), "unmaterialized rule has no group")

	stamped := rule.WithGroup("group-1")
	assert.True(t, stamped.InGroup())
	assert.Equal(t, "group-1", stamped.GroupID)
	// WithGroup copies; the original rule is untouched
	assert.Empty(t, rule.GroupID)
}
