package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"opsdesk/schedule"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseRecurrence(t *testing.T) {
	assert.Equal(t, schedule.RecurrenceDaily, schedule.ParseRecurrence("daily"))
	assert.Equal(t, schedule.RecurrenceWeekly, schedule.ParseRecurrence("weekly"))
	assert.Equal(t, schedule.RecurrenceMonthly, schedule.ParseRecurrence("monthly"))
	assert.Equal(t, schedule.RecurrenceNone, schedule.ParseRecurrence("none"))

	// malformed values degrade instead of failing
	assert.Equal(t, schedule.RecurrenceNone, schedule.ParseRecurrence(""))
	assert.Equal(t, schedule.RecurrenceNone, schedule.ParseRecurrence("fortnightly"))
	assert.Equal(t, schedule.RecurrenceNone, schedule.ParseRecurrence("DAILY"))
}

func TestDayStripsTimeOfDay(t *testing.T) {
	noon := time.Date(2024, time.March, 15, 12, 34, 56, 789, time.UTC)
	assert.Equal(t, date(2024, time.March, 15), schedule.Day(noon))
}

func TestOccursOnNeverBeforeAnchor(t *testing.T) {
	anchor := date(2024, time.June, 10)
	before := date(2024, time.June, 9)
	for _, rec := range []schedule.Recurrence{
		schedule.RecurrenceNone,
		schedule.RecurrenceDaily,
		schedule.RecurrenceWeekly,
		schedule.RecurrenceMonthly,
	} {
		assert.False(t, schedule.OccursOn(anchor, rec, before), "recurrence %s", rec)
		assert.True(t, schedule.OccursOn(anchor, rec, anchor), "recurrence %s fires on its anchor", rec)
	}
}

func TestOccursOnNone(t *testing.T) {
	anchor := date(2024, time.June, 10)
	assert.True(t, schedule.OccursOn(anchor, schedule.RecurrenceNone, anchor))
	assert.False(t, schedule.OccursOn(anchor, schedule.RecurrenceNone, date(2024, time.June, 11)))
	assert.False(t, schedule.OccursOn(anchor, schedule.RecurrenceNone, date(2025, time.June, 10)))
}

func TestOccursOnDaily(t *testing.T) {
	anchor := date(2024, time.June, 10)
	for i := 0; i < 40; i++ {
		assert.True(t, schedule.OccursOn(anchor, schedule.RecurrenceDaily, anchor.AddDate(0, 0, i)))
	}
	assert.False(t, schedule.OccursOn(anchor, schedule.RecurrenceDaily, anchor.AddDate(0, 0, -1)))
}

func TestOccursOnWeekly(t *testing.T) {
	// 2024-06-10 is a Monday
	anchor := date(2024, time.June, 10)
	for n := 0; n < 10; n++ {
		monday := anchor.AddDate(0, 0, 7*n)
		assert.True(t, schedule.OccursOn(anchor, schedule.RecurrenceWeekly, monday))
		tuesday := monday.AddDate(0, 0, 1)
		assert.False(t, schedule.OccursOn(anchor, schedule.RecurrenceWeekly, tuesday))
	}
}

func TestOccursOnMonthly(t *testing.T) {
	anchor := date(2024, time.March, 15)
	assert.True(t, schedule.OccursOn(anchor, schedule.RecurrenceMonthly, date(2024, time.April, 15)))
	assert.True(t, schedule.OccursOn(anchor, schedule.RecurrenceMonthly, date(2025, time.January, 15)))
	assert.False(t, schedule.OccursOn(anchor, schedule.RecurrenceMonthly, date(2024, time.April, 16)))
	assert.False(t, schedule.OccursOn(anchor, schedule.RecurrenceMonthly, date(2024, time.February, 15)))
}

func TestOccursOnMonthlyMissingDayOfMonth(t *testing.T) {
	anchor := date(2024, time.January, 31)

	// February 2024 has 29 days, so the 31st simply never happens there
	assert.False(t, schedule.OccursOn(anchor, schedule.RecurrenceMonthly, date(2024, time.February, 29)))
	assert.False(t, schedule.OccursOn(anchor, schedule.RecurrenceMonthly, date(2024, time.April, 30)))
	assert.True(t, schedule.OccursOn(anchor, schedule.RecurrenceMonthly, date(2024, time.March, 31)))
	assert.True(t, schedule.OccursOn(anchor, schedule.RecurrenceMonthly, date(2024, time.May, 31)))
}

func TestOccursOnIgnoresTimeOfDay(t *testing.T) {
	anchor := time.Date(2024, time.June, 10, 23, 59, 0, 0, time.UTC)
	day := time.Date(2024, time.June, 10, 0, 1, 0, 0, time.UTC)
	assert.True(t, schedule.OccursOn(anchor, schedule.RecurrenceNone, day))
}
