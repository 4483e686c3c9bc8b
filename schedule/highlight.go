package schedule

import (
	"sort"
	"time"
)

// Entry is the slice of an event the expander cares about.
type Entry struct {
	Anchor     time.Time
	Recurrence Recurrence
}

// HighlightDates expands a set of events into the concrete calendar dates
// between today and today+horizonMonths (inclusive) on which at least one
// event fires, for calendar decoration. Dates are deduplicated across events
// and returned ascending, at UTC midnight.
//
// The expansion iterates forward instead of probing OccursOn per day, but
// agrees with it exactly: the monthly step skips months that lack the
// anchor's day-of-month rather than rolling into a neighboring day.
func HighlightDates(entries []Entry, today time.Time, horizonMonths int) []time.Time {
	today = Day(today)
	windowEnd := today.AddDate(0, horizonMonths, 0)

	seen := make(map[time.Time]struct{})
	emit := func(d time.Time) {
		if d.Before(today) || d.After(windowEnd) {
			return
		}
		seen[d] = struct{}{}
	}

	for _, entry := range entries {
		anchor := Day(entry.Anchor)
		if anchor.After(windowEnd) {
			continue
		}

		switch entry.Recurrence {
		case RecurrenceDaily:
			cursor := anchor
			if cursor.Before(today) {
				cursor = today
			}
			for !cursor.After(windowEnd) {
				emit(cursor)
				cursor = cursor.AddDate(0, 0, 1)
			}
		case RecurrenceWeekly:
			cursor := anchor
			// skip whole weeks that end before the window opens
			if cursor.Before(today) {
				weeks := int(today.Sub(cursor)/(24*time.Hour)) / 7
				cursor = cursor.AddDate(0, 0, weeks*7)
			}
			for !cursor.After(windowEnd) {
				emit(cursor)
				cursor = cursor.AddDate(0, 0, 7)
			}
		case RecurrenceMonthly:
			for months := 0; ; months++ {
				// candidate in the unclamped month; time.Date normalizes
				// overflow (Feb 31 -> Mar 2/3), which flags the month as
				// lacking the anchor's day-of-month
				monthStart := time.Date(anchor.Year(), anchor.Month()+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
				if monthStart.After(windowEnd) {
					break
				}
				candidate := time.Date(anchor.Year(), anchor.Month()+time.Month(months), anchor.Day(), 0, 0, 0, 0, time.UTC)
				if candidate.Day() != anchor.Day() {
					continue
				}
				emit(candidate)
			}
		default:
			emit(anchor)
		}
	}

	dates := make([]time.Time, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
