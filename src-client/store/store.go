package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"opsdesk/schedule"
)

// Store owns the session-local copy of the event list. The backend stays the
// source of truth: every mutation hits the backend first and touches local
// state only after the call resolves. A failed call leaves the list exactly
// as it was.
//
// Concurrent mutations against the same record are not coalesced; whichever
// response lands last wins.
type Store struct {
	client *Client

	mu     sync.Mutex
	events []Event
}

func NewStore(client *Client) *Store {
	return &Store{
		client: client,
		events: make([]Event, 0),
	}
}

// Load replaces local state with the backend's full event list.
func (s *Store) Load(ctx context.Context) error {
	events, err := s.client.List(ctx)
	if err != nil {
		return fmt.Errorf("(*Store).Load: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = events
	return nil
}

// Create persists a draft and appends the confirmed record.
func (s *Store) Create(ctx context.Context, draft Draft) (Event, error) {
	created, err := s.client.Create(ctx, draft)
	if err != nil {
		return Event{}, fmt.Errorf("(*Store).Create: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, created)
	return created, nil
}

// Update persists a partial change and replaces the matching local record.
// When no local record carries the ID the confirmed record is appended
// instead of being dropped.
func (s *Store) Update(ctx context.Context, id string, patch Patch) (Event, error) {
	updated, err := s.client.Update(ctx, id, patch)
	if err != nil {
		return Event{}, fmt.Errorf("(*Store).Update: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if s.events[i].ID == id {
			s.events[i] = updated
			return updated, nil
		}
	}
	s.events = append(s.events, updated)
	return updated, nil
}

// Remove deletes the event on the backend and drops the matching local
// record. A confirmed delete for an ID the store never held is a no-op.
func (s *Store) Remove(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, id); err != nil {
		return fmt.Errorf("(*Store).Remove: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if s.events[i].ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			return nil
		}
	}
	return nil
}

// Events returns a snapshot of the local list.
func (s *Store) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make([]Event, len(s.events))
	copy(snapshot, s.events)
	return snapshot
}

// EventsOn filters the local list down to the events firing on the given
// calendar day. Recomputed from current state on every call.
func (s *Store) EventsOn(day time.Time) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]Event, 0)
	for _, event := range s.events {
		if event.Occurs(day) {
			matched = append(matched, event)
		}
	}
	return matched
}

// HighlightDates expands the local list into the calendar dates to decorate,
// from today through today+horizonMonths.
func (s *Store) HighlightDates(horizonMonths int) []time.Time {
	s.mu.Lock()
	entries := make([]schedule.Entry, 0, len(s.events))
	for _, event := range s.events {
		anchor, err := event.Anchor()
		if err != nil {
			continue
		}
		entries = append(entries, schedule.Entry{
			Anchor:     anchor,
			Recurrence: schedule.ParseRecurrence(string(event.Recurrence)),
		})
	}
	s.mu.Unlock()

	return schedule.HighlightDates(entries, time.Now(), horizonMonths)
}
