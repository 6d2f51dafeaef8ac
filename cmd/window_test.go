package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWindow(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	testCases := []struct {
		name      string
		from, to  string
		start     string
		end       string
		wantStart time.Time
		wantEnd   time.Time
		wantErr   string
	}{
		{
			name:      "defaults to yesterday",
			wantStart: time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 3, 9, 23, 59, 59, 999000000, time.UTC),
		},
		{
			name:      "date range",
			from:      "2025/03/01",
			to:        "2025/03/07",
			wantStart: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 3, 7, 23, 59, 59, 999000000, time.UTC),
		},
		{
			name:      "explicit instants",
			start:     "2025-03-01T10:00:00Z",
			end:       "2025-03-01T11:00:00Z",
			wantStart: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 3, 1, 11, 0, 0, 0, time.UTC),
		},
		{name: "bad date", from: "2025-03-01", wantErr: "invalid --from"},
		{name: "half instant", start: "2025-03-01T10:00:00Z", wantErr: "must be given together"},
		{name: "reversed", from: "2025/03/07", to: "2025/03/01", wantErr: "is after end"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w, err := parseWindow(tc.from, tc.to, tc.start, tc.end, now)
			if tc.wantErr != "" {
				assert.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.wantStart.Equal(w.Start), "start %s", w.Start)
			assert.True(t, tc.wantEnd.Equal(w.End), "end %s", w.End)
		})
	}
}
