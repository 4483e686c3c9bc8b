package utils

import (
	"fmt"
	"time"

	"opsdesk/schedule"
)

// ParseDay turns user input into a calendar date at UTC midnight. ISO-8601
// dates ("2006-01-02") are tried first; anything else goes through the
// natural-language parser ("next friday", "tomorrow").
func (as *AppState) ParseDay(input string) (time.Time, error) {
	if input == "" {
		return time.Time{}, fmt.Errorf("ParseDay: input is blank")
	}

	if t, err := time.Parse(time.DateOnly, input); err == nil {
		return schedule.Day(t), nil
	}

	result, err := as.When.Parse(input, time.Now().In(as.Config.GetLocation()))
	if err != nil {
		return time.Time{}, fmt.Errorf("ParseDay: %w", err)
	}
	if result == nil {
		return time.Time{}, fmt.Errorf("ParseDay: can't make sense of %q", input)
	}
	t := result.Time
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
