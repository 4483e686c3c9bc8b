package store_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsdesk/schedule"
	"opsdesk/src-client/store"
)

// fakeBackend is an in-memory stand-in for the /events endpoints.
type fakeBackend struct {
	mu     sync.Mutex
	nextID int
	events []store.Event
	fail   bool // when set, every request answers 500
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /events", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(b.events)
	})
	mux.HandleFunc("POST /events", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var draft store.Draft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		b.nextID++
		created := store.Event{
			ID:         fmt.Sprintf("evt-%d", b.nextID),
			Title:      draft.Title,
			TimeSpec:   draft.TimeSpec,
			AnchorDate: draft.AnchorDate,
			Recurrence: draft.Recurrence,
		}
		b.events = append(b.events, created)
		json.NewEncoder(w).Encode(created)
	})
	mux.HandleFunc("PATCH /events/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var patch store.Patch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		id := r.PathValue("id")
		for i := range b.events {
			if b.events[i].ID != id {
				continue
			}
			if patch.Title != nil {
				b.events[i].Title = *patch.Title
			}
			if patch.TimeSpec != nil {
				b.events[i].TimeSpec = *patch.TimeSpec
			}
			if patch.AnchorDate != nil {
				b.events[i].AnchorDate = *patch.AnchorDate
			}
			if patch.Recurrence != nil {
				b.events[i].Recurrence = *patch.Recurrence
			}
			json.NewEncoder(w).Encode(b.events[i])
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("DELETE /events/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		id := r.PathValue("id")
		for i := range b.events {
			if b.events[i].ID == id {
				b.events = append(b.events[:i], b.events[i+1:]...)
				break
			}
		}
		// deleting an unknown id still succeeds
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func testStore(t *testing.T) (*store.Store, *fakeBackend) {
	t.Helper()
	backend := &fakeBackend{}
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)
	return store.NewStore(store.NewClient(server.URL)), backend
}

func TestStoreLoad(t *testing.T) {
	s, backend := testStore(t)
	backend.events = []store.Event{
		{ID: "evt-1", Title: "Standup", AnchorDate: "2024-06-10", Recurrence: schedule.RecurrenceDaily},
		{ID: "evt-2", Title: "Audit", AnchorDate: "2024-06-12", Recurrence: schedule.RecurrenceNone},
	}

	require.NoError(t, s.Load(context.Background()))
	assert.Len(t, s.Events(), 2)
}

func TestStoreLoadFailureKeepsLocalState(t *testing.T) {
	s, backend := testStore(t)
	backend.events = []store.Event{{ID: "evt-1", Title: "Standup", AnchorDate: "2024-06-10"}}
	require.NoError(t, s.Load(context.Background()))

	backend.fail = true
	err := s.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")

	// previous list survives the failed refresh
	assert.Len(t, s.Events(), 1)
}

func TestStoreCreateAppendsConfirmedRecord(t *testing.T) {
	s, _ := testStore(t)

	created, err := s.Create(context.Background(), store.Draft{
		Title:      "Laptop return",
		TimeSpec:   "09:00-09:30",
		AnchorDate: "2024-06-10",
		Recurrence: schedule.RecurrenceNone,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	events := s.Events()
	require.Len(t, events, 1)
	assert.Equal(t, created.ID, events[0].ID)

	// the fresh record is immediately visible on its anchor day
	onAnchor := s.EventsOn(time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC))
	require.Len(t, onAnchor, 1)
	assert.Equal(t, created.ID, onAnchor[0].ID)
}

func TestStoreCreateFailureLeavesListUnchanged(t *testing.T) {
	s, backend := testStore(t)
	backend.fail = true

	_, err := s.Create(context.Background(), store.Draft{Title: "x", AnchorDate: "2024-06-10"})
	require.Error(t, err)
	assert.Empty(t, s.Events())
}

func TestStoreUpdateReplacesByID(t *testing.T) {
	s, _ := testStore(t)
	created, err := s.Create(context.Background(), store.Draft{Title: "Review", AnchorDate: "2024-06-10"})
	require.NoError(t, err)

	title := "Quarterly review"
	rec := schedule.RecurrenceMonthly
	updated, err := s.Update(context.Background(), created.ID, store.Patch{Title: &title, Recurrence: &rec})
	require.NoError(t, err)
	assert.Equal(t, "Quarterly review", updated.Title)

	events := s.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "Quarterly review", events[0].Title)
	assert.Equal(t, schedule.RecurrenceMonthly, events[0].Recurrence)
	// untouched fields survive the partial update
	assert.Equal(t, "2024-06-10", events[0].AnchorDate)
}

func TestStoreUpdateUnknownLocalIDAppends(t *testing.T) {
	s, backend := testStore(t)
	// record exists server-side but was never loaded locally
	backend.events = []store.Event{{ID: "evt-9", Title: "Ghost", AnchorDate: "2024-06-10"}}

	title := "Ghost (renamed)"
	_, err := s.Update(context.Background(), "evt-9", store.Patch{Title: &title})
	require.NoError(t, err)

	events := s.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "evt-9", events[0].ID)
	assert.Equal(t, "Ghost (renamed)", events[0].Title)
}

func TestStoreRemove(t *testing.T) {
	s, _ := testStore(t)
	created, err := s.Create(context.Background(), store.Draft{Title: "One-off", AnchorDate: "2024-06-10"})
	require.NoError(t, err)

	require.NoError(t, s.Remove(context.Background(), created.ID))
	assert.Empty(t, s.Events())
}

func TestStoreRemoveUnknownLocalIDIsNoOp(t *testing.T) {
	s, _ := testStore(t)
	_, err := s.Create(context.Background(), store.Draft{Title: "Keep me", AnchorDate: "2024-06-10"})
	require.NoError(t, err)

	// backend confirms the delete even though the store never held the id
	require.NoError(t, s.Remove(context.Background(), "evt-404"))
	assert.Len(t, s.Events(), 1)
}

func TestStoreRemoveFailureKeepsRecord(t *testing.T) {
	s, backend := testStore(t)
	created, err := s.Create(context.Background(), store.Draft{Title: "Sticky", AnchorDate: "2024-06-10"})
	require.NoError(t, err)

	backend.fail = true
	require.Error(t, s.Remove(context.Background(), created.ID))
	assert.Len(t, s.Events(), 1)
}

func TestStoreEventsOnRecurrence(t *testing.T) {
	s, backend := testStore(t)
	backend.events = []store.Event{
		{ID: "evt-1", Title: "Standup", AnchorDate: "2024-06-10", Recurrence: schedule.RecurrenceDaily},
		{ID: "evt-2", Title: "1:1", AnchorDate: "2024-06-10", Recurrence: schedule.RecurrenceWeekly},
		{ID: "evt-3", Title: "License renewal", AnchorDate: "2024-06-15", Recurrence: schedule.RecurrenceMonthly},
		{ID: "evt-4", Title: "Broken", AnchorDate: "not-a-date", Recurrence: schedule.RecurrenceDaily},
	}
	require.NoError(t, s.Load(context.Background()))

	ids := func(events []store.Event) []string {
		out := make([]string, 0, len(events))
		for _, e := range events {
			out = append(out, e.ID)
		}
		return out
	}

	// 2024-06-17 is a Monday one week after the anchors
	onMonday := s.EventsOn(time.Date(2024, time.June, 17, 0, 0, 0, 0, time.UTC))
	assert.ElementsMatch(t, []string{"evt-1", "evt-2"}, ids(onMonday))

	// 2024-08-15 is a Thursday, so only the daily and monthly events fire
	onFifteenth := s.EventsOn(time.Date(2024, time.August, 15, 0, 0, 0, 0, time.UTC))
	assert.ElementsMatch(t, []string{"evt-1", "evt-3"}, ids(onFifteenth))

	// before every anchor
	assert.Empty(t, s.EventsOn(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)))
}

func TestStoreEventsOnIsIdempotent(t *testing.T) {
	s, backend := testStore(t)
	backend.events = []store.Event{
		{ID: "evt-1", Title: "Standup", AnchorDate: "2024-06-10", Recurrence: schedule.RecurrenceDaily},
	}
	require.NoError(t, s.Load(context.Background()))

	day := time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC)
	first := s.EventsOn(day)
	second := s.EventsOn(day)
	assert.Equal(t, first, second)
}

func TestStoreHighlightDatesWithinWindow(t *testing.T) {
	s, backend := testStore(t)
	today := time.Now().UTC()
	backend.events = []store.Event{
		{ID: "evt-1", Title: "Standup", AnchorDate: today.Format(time.DateOnly), Recurrence: schedule.RecurrenceWeekly},
		{ID: "evt-2", Title: "Broken", AnchorDate: "nope", Recurrence: schedule.RecurrenceDaily},
	}
	require.NoError(t, s.Load(context.Background()))

	dates := s.HighlightDates(3)
	require.NotEmpty(t, dates)
	windowEnd := schedule.Day(today).AddDate(0, 3, 0)
	for _, d := range dates {
		assert.False(t, d.Before(schedule.Day(today)))
		assert.False(t, d.After(windowEnd))
		assert.Equal(t, today.Weekday(), d.Weekday())
	}
}

func TestClientErrorCarriesStatusAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Please provide a title"))
	}))
	t.Cleanup(server.Close)

	_, err := store.NewClient(server.URL).Create(context.Background(), store.Draft{})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "400"))
	assert.True(t, strings.Contains(err.Error(), "Please provide a title"))
}
