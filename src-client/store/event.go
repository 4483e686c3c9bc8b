// The in-memory event store behind the dashboard calendar. It mirrors the
// backend's event list, reconciles it against confirmed mutation responses
// and derives the per-day occurrence view through the schedule package.
package store

import (
	"time"

	"opsdesk/schedule"
)

// Event is the wire shape of one calendar event record.
type Event struct {
	ID         string              `json:"id"`
	Title      string              `json:"title"`
	TimeSpec   string              `json:"timeSpec"` // "" means all day; opaque to the engine
	AnchorDate string              `json:"anchorDate"`
	Recurrence schedule.Recurrence `json:"recurrence"`
}

// Anchor parses the ISO-8601 anchor date at UTC midnight.
func (e Event) Anchor() (time.Time, error) {
	return time.Parse(time.DateOnly, e.AnchorDate)
}

// Occurs reports whether the event fires on the given calendar day. An
// unparseable anchor date never fires.
func (e Event) Occurs(day time.Time) bool {
	anchor, err := e.Anchor()
	if err != nil {
		return false
	}
	return schedule.OccursOn(anchor, schedule.ParseRecurrence(string(e.Recurrence)), day)
}

// Draft is the payload for creating an event; the backend assigns the ID.
type Draft struct {
	Title      string              `json:"title"`
	TimeSpec   string              `json:"timeSpec"`
	AnchorDate string              `json:"anchorDate"`
	Recurrence schedule.Recurrence `json:"recurrence"`
}

// Patch is a partial update; nil fields are left untouched by the backend.
type Patch struct {
	Title      *string              `json:"title,omitempty"`
	TimeSpec   *string              `json:"timeSpec,omitempty"`
	AnchorDate *string              `json:"anchorDate,omitempty"`
	Recurrence *schedule.Recurrence `json:"recurrence,omitempty"`
}
