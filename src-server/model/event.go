package model

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"opsdesk/schedule"
)

// Event is one dashboard calendar event. AnchorDate is stored at UTC
// midnight; TimeSpec ("HH:MM-HH:MM", blank for all day) is display metadata
// and never participates in occurrence computation.
type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID       string `bun:"id,pk"`              // required
	Title    string `bun:"title,notnull"`      // required
	TimeSpec string `bun:"time_spec"`

	AnchorDateUnixUTC int64               `bun:"anchor_date,notnull"` // required
	Recurrence        schedule.Recurrence `bun:"recurrence,notnull"`

	CreatedAt int64 `bun:"created_at,notnull"`
	UpdatedAt int64 `bun:"updated_at"`
}

func (e *Event) Anchor() time.Time {
	return time.Unix(e.AnchorDateUnixUTC, 0).UTC()
}

// OccursOn reports whether this event fires on the given calendar day.
func (e *Event) OccursOn(day time.Time) bool {
	return schedule.OccursOn(e.Anchor(), e.Recurrence, day)
}

func (e *Event) Upsert(ctx context.Context, db bun.IDB) error {
	switch {
	case e.ID == "":
		return fmt.Errorf("(*Event).Upsert: event id is blank")
	case e.Title == "":
		return fmt.Errorf("(*Event).Upsert: title is blank")
	case e.AnchorDateUnixUTC == 0:
		return fmt.Errorf("(*Event).Upsert: anchor date is blank")
	}
	if err := ValidateTimeSpec(e.TimeSpec); err != nil {
		return fmt.Errorf("(*Event).Upsert: %w", err)
	}

	// malformed recurrence degrades to none instead of failing
	e.Recurrence = schedule.ParseRecurrence(string(e.Recurrence))
	e.AnchorDateUnixUTC = schedule.Day(e.Anchor()).Unix()
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().UTC().Unix()
	}

	exists, err := db.NewSelect().
		Model((*Event)(nil)).
		Where("id = ?", e.ID).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("(*Event).Upsert: %w", err)
	}

	switch exists {
	case true:
		e.UpdatedAt = time.Now().UTC().Unix()
		if _, err := db.NewUpdate().
			Model(e).
			WherePK().
			Exec(ctx); err != nil {
			return fmt.Errorf("(*Event).Upsert: %w", err)
		}
	case false:
		if _, err := db.NewInsert().
			Model(e).
			Exec(ctx); err != nil {
			return fmt.Errorf("(*Event).Upsert: %w", err)
		}
	}

	return nil
}

// ValidateTimeSpec accepts a blank spec (all day) or "HH:MM-HH:MM".
func ValidateTimeSpec(spec string) error {
	if spec == "" {
		return nil
	}
	parts := strings.Split(spec, "-")
	if len(parts) != 2 {
		return fmt.Errorf("ValidateTimeSpec: %q is not of the form HH:MM-HH:MM", spec)
	}
	for _, part := range parts {
		if _, err := time.Parse("15:04", part); err != nil {
			return fmt.Errorf("ValidateTimeSpec: %q is not of the form HH:MM-HH:MM", spec)
		}
	}
	return nil
}
