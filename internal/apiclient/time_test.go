package apiclient

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTime_UnmarshalJSON(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "rfc3339",
			input: `"2024-03-05T10:20:30Z"`,
			want:  time.Date(2024, 3, 5, 10, 20, 30, 0, time.UTC),
		},
		{
			name:  "zone-less with fraction",
			input: `"2024-03-05T10:20:30.1234567"`,
			want:  time.Date(2024, 3, 5, 10, 20, 30, 123456700, time.UTC),
		},
		{
			name:  "zone-less",
			input: `"2024-03-05T10:20:30"`,
			want:  time.Date(2024, 3, 5, 10, 20, 30, 0, time.UTC),
		},
		{
			name:  "null",
			input: `null`,
		},
		{
			name:  "empty string",
			input: `""`,
		},
		{
			name:    "garbage",
			input:   `"yesterday"`,
			wantErr: true,
		},
		{
			name:    "number",
			input:   `12345`,
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var ts Time
			err := json.Unmarshal([]byte(tc.input), &ts)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(ts.Time), "want %s, got %s", tc.want, ts.Time)
		})
	}
}

func TestTime_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Time{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))

	b, err = json.Marshal(NewTime(time.Date(2024, 3, 5, 10, 20, 30, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-05T10:20:30Z"`, string(b))
}

func TestTime_Display(t *testing.T) {
	assert.Equal(t, "", Time{}.Display())
	assert.Equal(t, "05 Mar 2024 10:20", NewTime(time.Date(2024, 3, 5, 10, 20, 30, 0, time.UTC)).Display())
}
