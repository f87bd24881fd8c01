package payroll

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/qhamayedwa/altron-wfm-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConditions_Valid(t *testing.T) {
	cs, err := ParseConditions([]byte(`{
		"day_of_week": [0, 6, 6],
		"time_range": {"start": 22, "end": 6},
		"overtime_threshold": "8",
		"employee_ids": ["e1"],
		"roles": ["nurse"]
	}`))
	require.NoError(t, err)
	require.Len(t, cs, 5)

	assert.Equal(t, DayOfWeekCondition{Days: []time.Weekday{time.Sunday, time.Saturday}}, cs[0])
	assert.Equal(t, TimeRangeCondition{Start: 22, End: 6}, cs[1])
	assert.True(t, cs.Has(ConditionOvertimeThreshold))
}

func TestParseConditions_EmptyMatchesEverything(t *testing.T) {
	for _, raw := range []string{``, `null`, `{}`, `{"employee_ids": [], "roles": []}`} {
		cs, err := ParseConditions([]byte(raw))
		require.NoError(t, err, raw)
		assert.Empty(t, cs, raw)
		assert.True(t, cs.Matches(MatchInput{EmployeeID: "x", Weekday: time.Wednesday, Hour: 3}), raw)
	}
}

func TestParseConditions_Invalid(t *testing.T) {
	cases := map[string]string{
		"empty days":        `{"day_of_week": []}`,
		"day out of range":  `{"day_of_week": [7]}`,
		"missing end":       `{"time_range": {"start": 9}}`,
		"hour out of range": `{"time_range": {"start": 9, "end": 24}}`,
		"zero width range":  `{"time_range": {"start": 9, "end": 9}}`,
		"negative":          `{"overtime_threshold": -1}`,
		"unknown key":       `{"weekday": [1]}`,
		"not an object":     `[1, 2]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConditions([]byte(raw))
			var verrs validator.ValidationErrors
			assert.ErrorAs(t, err, &verrs)
		})
	}
}

func TestTimeRangeCondition_Matches(t *testing.T) {
	day := TimeRangeCondition{Start: 9, End: 17}
	assert.True(t, day.Matches(MatchInput{Hour: 9}))
	assert.True(t, day.Matches(MatchInput{Hour: 16}))
	assert.False(t, day.Matches(MatchInput{Hour: 17}))

	night := TimeRangeCondition{Start: 22, End: 6}
	assert.True(t, night.Matches(MatchInput{Hour: 23}))
	assert.True(t, night.Matches(MatchInput{Hour: 0}))
	assert.True(t, night.Matches(MatchInput{Hour: 5}))
	assert.False(t, night.Matches(MatchInput{Hour: 6}))
	assert.False(t, night.Matches(MatchInput{Hour: 21}))
}

func TestOvertimeThreshold_IsStrict(t *testing.T) {
	c := OvertimeThresholdCondition{Threshold: decimal.NewFromInt(8)}
	assert.False(t, c.Matches(MatchInput{Hours: decimal.NewFromInt(8)}))
	assert.True(t, c.Matches(MatchInput{Hours: decimal.RequireFromString("8.0001")}))
	assert.False(t, c.Matches(MatchInput{Hours: decimal.Zero}))
}

func TestWeekdayIndependence(t *testing.T) {
	cs, err := ParseConditions([]byte(`{"time_range": {"start": 8, "end": 12}}`))
	require.NoError(t, err)
	for d := time.Sunday; d <= time.Saturday; d++ {
		assert.True(t, cs.Matches(MatchInput{Weekday: d, Hour: 10}))
	}
}

func TestRolesCondition_AnyOf(t *testing.T) {
	c := RolesCondition{Roles: []string{"nurse", "doctor"}}
	assert.True(t, c.Matches(MatchInput{Roles: []string{"cleaner", "doctor"}}))
	assert.False(t, c.Matches(MatchInput{Roles: []string{"cleaner"}}))
	assert.False(t, c.Matches(MatchInput{}))
}

func TestConditions_JSONRoundTrip(t *testing.T) {
	input := `{"day_of_week": [1, 2], "time_range": {"start": 18, "end": 2}, "overtime_threshold": 40.5}`
	cs, err := ParseConditions([]byte(input))
	require.NoError(t, err)

	data, err := json.Marshal(cs)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(data))
	assert.Contains(t, string(data), `"overtime_threshold":40.5`)

	again, err := ParseConditions(data)
	require.NoError(t, err)
	assert.Equal(t, cs, again)
}

func TestConditions_AcceptsQuotedThreshold(t *testing.T) {
	cs, err := ParseConditions([]byte(`{"overtime_threshold": "8"}`))
	require.NoError(t, err)

	data, err := json.Marshal(cs)
	require.NoError(t, err)
	assert.JSONEq(t, `{"overtime_threshold": 8}`, string(data))
}
