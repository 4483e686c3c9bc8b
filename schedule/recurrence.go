// The recurrence engine behind the dashboard calendar. Given an event's
// anchor date and recurrence kind it decides which calendar days the event
// fires on. Everything in here is pure; dates are compared at day
// granularity in UTC.
package schedule

import "time"

// Recurrence is the closed set of repeat kinds an event can have.
type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

// ParseRecurrence maps a raw string onto the closed set. Anything it doesn't
// recognize (including the empty string) degrades to RecurrenceNone instead
// of failing.
func ParseRecurrence(s string) Recurrence {
	switch Recurrence(s) {
	case RecurrenceDaily:
		return RecurrenceDaily
	case RecurrenceWeekly:
		return RecurrenceWeekly
	case RecurrenceMonthly:
		return RecurrenceMonthly
	default:
		return RecurrenceNone
	}
}

// Day strips the time-of-day component, leaving UTC midnight of t's calendar
// date.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// OccursOn reports whether an event anchored on anchor with the given
// recurrence fires on day. An event never fires before its anchor date; the
// first instance is the anchor date itself.
//
// Monthly events fire on the anchor's day-of-month numeral. When a month has
// no such day (anchor on the 31st checked against a 30-day month) that month
// simply never matches; there is no clamping to month-end.
func OccursOn(anchor time.Time, rec Recurrence, day time.Time) bool {
	anchor = Day(anchor)
	day = Day(day)
	if day.Before(anchor) {
		return false
	}

	switch rec {
	case RecurrenceDaily:
		return true
	case RecurrenceWeekly:
		// both sides sit at UTC midnight, so the delta is a whole number
		// of 24h days
		days := int(day.Sub(anchor) / (24 * time.Hour))
		return days%7 == 0
	case RecurrenceMonthly:
		return day.Day() == anchor.Day()
	default:
		return day.Equal(anchor)
	}
}
