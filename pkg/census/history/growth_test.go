package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		input   string
		want    Period
		wantErr bool
	}{
		{input: "", want: Period30D},
		{input: "7d", want: Period7D},
		{input: "30D", want: Period30D},
		{input: " 90d ", want: Period90D},
		{input: "all", want: PeriodAll},
		{input: "1y", want: Period1Y},
		{input: "2Y", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePeriod(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSeries(t *testing.T) {
	now := time.Date(2026, 3, 20, 18, 0, 0, 0, time.UTC) // Friday
	rec := func(daysAgo, hour int, size int64) Record {
		at := time.Date(2026, 3, 20-daysAgo, hour, 0, 0, 0, time.UTC)
		return Record{ScannedAt: at, TotalSize: size}
	}

	records := []Record{
		rec(120, 9, 10),
		rec(40, 9, 20),
		rec(12, 9, 30),
		rec(3, 9, 40),
		rec(3, 15, 45),
		rec(1, 9, 50),
	}

	t.Run("7D buckets by day and keeps the latest scan", func(t *testing.T) {
		points := Series(records, Period7D, now)
		require.Len(t, points, 2)
		assert.Equal(t, int64(45), points[0].Size)
		assert.Equal(t, "Tue 17", points[0].Label)
		assert.Equal(t, int64(50), points[1].Size)
	})

	t.Run("30D buckets by week", func(t *testing.T) {
		points := Series(records, Period30D, now)
		require.Len(t, points, 2)
		assert.Equal(t, int64(30), points[0].Size)
		assert.Equal(t, "Week of Mar 02", points[0].Label)
		assert.Equal(t, int64(50), points[1].Size)
		assert.Equal(t, "Week of Mar 16", points[1].Label)
	})

	t.Run("90D buckets by month", func(t *testing.T) {
		points := Series(records, Period90D, now)
		require.Len(t, points, 2)
		assert.Equal(t, "Feb 2026", points[0].Label)
		assert.Equal(t, "Mar 2026", points[1].Label)
	})

	t.Run("1Y covers 365 days by month", func(t *testing.T) {
		older := append([]Record{rec(400, 9, 5)}, records...)
		points := Series(older, Period1Y, now)
		require.Len(t, points, 3)
		assert.Equal(t, "Nov 2025", points[0].Label)
		assert.Equal(t, int64(10), points[0].Size)
	})

	t.Run("ALL includes everything", func(t *testing.T) {
		points := Series(records, PeriodAll, now)
		require.Len(t, points, 3)
		assert.Equal(t, "Nov 2025", points[0].Label)
	})

	t.Run("no records", func(t *testing.T) {
		assert.Empty(t, Series(nil, Period7D, now))
	})
}
