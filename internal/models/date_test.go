package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_DatesAsCalendarDays(t *testing.T) {
	end := NewDate(time.Date(2025, 3, 1, 15, 4, 5, 0, time.FixedZone("MSK", 3*3600)))
	u := User{UserID: 101, EndDate: &end}

	data, err := json.Marshal(u)
	require.NoError(t, err)
	assert.JSONEq(t, `{"user_id":101,"username":null,"end_date":"2025-03-01","trial_end":null}`, string(data))

	var back User
	require.NoError(t, json.Unmarshal(data, &back))
	require.NotNil(t, back.EndDate)
	assert.True(t, end.Equal(back.EndDate.Time))
	assert.Nil(t, back.EndTrialPeriod)
}

func TestDate_UnmarshalInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "timestamp", input: `"2025-03-01T00:00:00Z"`},
		{name: "not a string", input: `20250301`},
		{name: "garbage", input: `"tomorrow"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			assert.Error(t, json.Unmarshal([]byte(tt.input), &d))
		})
	}
}
