package trips

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExpand(t *testing.T) {
	cases := []struct {
		in   string
		want Expand
	}{
		{"", 0},
		{"stops", ExpandStops},
		{"stops,activities", ExpandStops | ExpandActivities},
		{"activities", ExpandStops | ExpandActivities},
		{" Expenses , stops ,", ExpandStops | ExpandExpenses},
		{"stops,activities,expenses", ExpandAll},
	}
	for _, tc := range cases {
		got, err := ParseExpand(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseExpand_Unknown(t *testing.T) {
	_, err := ParseExpand("stops,photos")
	assert.ErrorContains(t, err, `"photos"`)
}

func TestExpandHas(t *testing.T) {
	assert.True(t, ExpandActivities.Has(ExpandStops))
	assert.False(t, ExpandStops.Has(ExpandActivities))
	assert.True(t, ExpandAll.Has(ExpandExpenses|ExpandStops))
	assert.False(t, Expand(0).Has(ExpandExpenses))
}
