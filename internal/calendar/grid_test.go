package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthGridAlwaysFortyTwo(t *testing.T) {
	refs := []time.Time{
		time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),  // Feb 2026 starts on Sunday
		time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),   // Aug 2026 starts on Saturday, 31 days
		time.Date(2026, 9, 15, 12, 30, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), // leap February
		time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	for _, ref := range refs {
		t.Run(ref.Format("2006-01"), func(t *testing.T) {
			grid := MonthGrid(ref)
			require.Len(t, grid, GridSize)

			first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
			startDay := int(first.Weekday())

			for i := 0; i < startDay; i++ {
				assert.True(t, grid[i].OutsideMonth, "leading day %d should be outside month", i)
			}
			inMonth := 0
			for _, d := range grid {
				if !d.OutsideMonth {
					inMonth++
					assert.Equal(t, ref.Month(), d.Date.Month())
				}
			}
			lastDay := first.AddDate(0, 1, -1).Day()
			assert.Equal(t, lastDay, inMonth, "in-month cell count should match month length")

			// Cells are consecutive calendar days.
			for i := 1; i < len(grid); i++ {
				assert.Equal(t, grid[i-1].Date.AddDate(0, 0, 1), grid[i].Date)
			}
		})
	}
}

func TestMonthGridSaturdayStart(t *testing.T) {
	// August 2026: starts Saturday, 31 days -> 6 leading + 31 + 5 trailing.
	grid := MonthGrid(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	require.Len(t, grid, GridSize)
	assert.True(t, grid[5].OutsideMonth)
	assert.False(t, grid[6].OutsideMonth)
	assert.Equal(t, 1, grid[6].Date.Day())
	assert.False(t, grid[36].OutsideMonth)
	assert.Equal(t, 31, grid[36].Date.Day())
	assert.True(t, grid[37].OutsideMonth)
}

func TestMonthGridSundayStart(t *testing.T) {
	// February 2026 starts on Sunday: zero leading outside-month days.
	grid := MonthGrid(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	require.Len(t, grid, GridSize)
	assert.False(t, grid[0].OutsideMonth)
	assert.Equal(t, 1, grid[0].Date.Day())
}

func TestMonthBounds(t *testing.T) {
	first, last := MonthBounds(time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), first)
	assert.Equal(t, time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC), last)
}
