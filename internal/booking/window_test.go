package booking

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTimeOfDay(t *testing.T, s string) TimeOfDay {
	t.Helper()
	tod, err := ParseTimeOfDay(s)
	require.NoError(t, err)
	return tod
}

func TestParseTimeOfDay(t *testing.T) {
	t.Run("Accepts HH:MM", func(t *testing.T) {
		tod, err := ParseTimeOfDay("19:30")
		require.NoError(t, err)
		assert.Equal(t, TimeOfDay{Hour: 19, Minute: 30}, tod)
	})

	t.Run("Accepts HH:MM:SS", func(t *testing.T) {
		tod, err := ParseTimeOfDay("07:05:09")
		require.NoError(t, err)
		assert.Equal(t, TimeOfDay{Hour: 7, Minute: 5, Second: 9}, tod)
	})

	t.Run("Rejects Malformed Input", func(t *testing.T) {
		for _, in := range []string{"", "7pm", "25:00", "19:60", "19-00"} {
			_, err := ParseTimeOfDay(in)
			assert.True(t, errors.Is(err, ErrInvalidTimeOfDay), "input %q should be rejected", in)
		}
	})
}

func TestComputeWindow(t *testing.T) {
	today := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)

	t.Run("Same Day Window", func(t *testing.T) {
		w, err := ComputeWindow(today, 7, mustTimeOfDay(t, "19:00"), mustTimeOfDay(t, "21:00"))
		require.NoError(t, err)

		assert.Equal(t, time.Date(2026, 10, 23, 0, 0, 0, 0, time.UTC), w.TargetDate)
		assert.Equal(t, time.Date(2026, 10, 23, 19, 0, 0, 0, time.UTC), w.Start)
		assert.Equal(t, time.Date(2026, 10, 23, 21, 0, 0, 0, time.UTC), w.End)
		assert.Equal(t, 1, w.Days)
		assert.Equal(t, time.Date(2026, 10, 24, 0, 0, 0, 0, time.UTC), w.FetchEnd())
	})

	t.Run("Window Crossing Midnight", func(t *testing.T) {
		w, err := ComputeWindow(today, 0, mustTimeOfDay(t, "22:00"), mustTimeOfDay(t, "01:00"))
		require.NoError(t, err)

		assert.Equal(t, time.Date(2026, 10, 16, 22, 0, 0, 0, time.UTC), w.Start)
		assert.Equal(t, time.Date(2026, 10, 17, 1, 0, 0, 0, time.UTC), w.End)
		assert.Equal(t, 2, w.Days, "Fetch must cover the following day")
		assert.True(t, w.Contains(time.Date(2026, 10, 17, 0, 30, 0, 0, time.UTC)))
		assert.False(t, w.Contains(time.Date(2026, 10, 16, 0, 30, 0, 0, time.UTC)))
	})

	t.Run("Equal Bounds Span A Full Day", func(t *testing.T) {
		w, err := ComputeWindow(today, 1, mustTimeOfDay(t, "09:00"), mustTimeOfDay(t, "09:00"))
		require.NoError(t, err)
		assert.Equal(t, 24*time.Hour, w.End.Sub(w.Start))
		assert.Equal(t, 2, w.Days)
	})

	t.Run("End Never Precedes Start", func(t *testing.T) {
		for h := 0; h < 24; h++ {
			for _, end := range []int{0, 6, 12, 18, 23} {
				w, err := ComputeWindow(today, 3, TimeOfDay{Hour: h}, TimeOfDay{Hour: end})
				require.NoError(t, err)
				assert.True(t, w.End.After(w.Start), "start %02d end %02d", h, end)
				if end <= h {
					assert.Equal(t, 2, w.Days)
				} else {
					assert.Equal(t, 1, w.Days)
				}
			}
		}
	})

	t.Run("Clock Of Today Is Ignored", func(t *testing.T) {
		late := time.Date(2026, 10, 16, 23, 59, 0, 0, time.UTC)
		w, err := ComputeWindow(late, 0, mustTimeOfDay(t, "08:00"), mustTimeOfDay(t, "09:00"))
		require.NoError(t, err)
		assert.Equal(t, today, w.TargetDate)
	})

	t.Run("Negative Days Ahead", func(t *testing.T) {
		_, err := ComputeWindow(today, -1, mustTimeOfDay(t, "08:00"), mustTimeOfDay(t, "09:00"))
		assert.ErrorIs(t, err, ErrNegativeDaysAhead)
	})
}

func TestWindowContainsBounds(t *testing.T) {
	w, err := ComputeWindow(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), 0, TimeOfDay{Hour: 10}, TimeOfDay{Hour: 11})
	require.NoError(t, err)

	assert.True(t, w.Contains(w.Start), "Start bound is inclusive")
	assert.True(t, w.Contains(w.End), "End bound is inclusive")
	assert.False(t, w.Contains(w.Start.Add(-time.Second)))
	assert.False(t, w.Contains(w.End.Add(time.Second)))
}

func TestWindowJSON(t *testing.T) {
	w, err := ComputeWindow(time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), 0, TimeOfDay{Hour: 22}, TimeOfDay{Hour: 1})
	require.NoError(t, err)

	data, err := json.Marshal(w)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"2026-10-16T22:00:00","end":"2026-10-17T01:00:00","days":2}`, string(data))
}
