package route

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"opsdesk/schedule"
	"opsdesk/src-server/model"
	"opsdesk/src-server/utils"
)

// Events wires the calendar-event CRUD endpoints the dashboard's event store
// talks to.
func Events(muxer *http.ServeMux, as *utils.AppState) {
	type EventRespBody struct {
		ID         string `json:"id"`
		Title      string `json:"title"`
		TimeSpec   string `json:"timeSpec"`
		AnchorDate string `json:"anchorDate"`
		Recurrence string `json:"recurrence"`
	}

	toRespBody := func(eventModel model.Event) EventRespBody {
		return EventRespBody{
			ID:         eventModel.ID,
			Title:      eventModel.Title,
			TimeSpec:   eventModel.TimeSpec,
			AnchorDate: eventModel.Anchor().Format(time.DateOnly),
			Recurrence: string(eventModel.Recurrence),
		}
	}

	// list all events
	muxer.HandleFunc("GET /events", Observe(as, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		startTimer := time.Now()
		eventModels := make([]model.Event, 0)
		if err := as.BunDB.
			NewSelect().
			Model(&eventModels).
			Order("anchor_date ASC").
			Scan(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get events"))
			slog.Error("can't get events", "error", err)
			return
		}
		as.MetricChans.ReportDatabaseRead(float64(time.Since(startTimer).Microseconds()))

		respBody := make([]EventRespBody, 0, len(eventModels))
		for _, eventModel := range eventModels {
			respBody = append(respBody, toRespBody(eventModel))
		}
		respBodyJson, err := json.Marshal(respBody)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	}))

	type CreateEventReqBody struct {
		Title      string `json:"title"`
		TimeSpec   string `json:"timeSpec"`
		AnchorDate string `json:"anchorDate"`
		Recurrence string `json:"recurrence"`
	}

	// create a new event; the response echoes the persisted record
	muxer.HandleFunc("POST /events", Observe(as, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var reqBody CreateEventReqBody
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}
		if reqBody.Title == "" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Please provide a title"))
			return
		}

		// accepts ISO dates and natural language ("next friday")
		anchor, err := as.ParseDay(reqBody.AnchorDate)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Please provide a valid anchor date"))
			return
		}

		eventModel := model.Event{
			ID:                uuid.NewString(),
			Title:             reqBody.Title,
			TimeSpec:          reqBody.TimeSpec,
			AnchorDateUnixUTC: anchor.Unix(),
			Recurrence:        schedule.ParseRecurrence(reqBody.Recurrence),
		}
		startTimer := time.Now()
		if err := eventModel.Upsert(r.Context(), as.BunDB); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(err.Error()))
			return
		}
		as.MetricChans.ReportDatabaseWrite(float64(time.Since(startTimer).Microseconds()))

		respBodyJson, err := json.Marshal(toRespBody(eventModel))
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	}))

	type PatchEventReqBody struct {
		Title      *string `json:"title"`
		TimeSpec   *string `json:"timeSpec"`
		AnchorDate *string `json:"anchorDate"`
		Recurrence *string `json:"recurrence"`
	}

	// partially update an existing event; absent fields are left untouched
	muxer.HandleFunc("PATCH /events/{id}", Observe(as, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		id := r.PathValue("id")
		if id == "" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Please provide an event ID"))
			return
		}

		var reqBody PatchEventReqBody
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}

		eventModel := new(model.Event)
		err := as.BunDB.
			NewSelect().
			Model(eventModel).
			Where("id = ?", id).
			Scan(r.Context())
		switch {
		case errors.Is(err, sql.ErrNoRows):
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("Event not found"))
			return
		case err != nil:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get event"))
			slog.Error("can't get event", "error", err)
			return
		}

		if reqBody.Title != nil {
			eventModel.Title = *reqBody.Title
		}
		if reqBody.TimeSpec != nil {
			eventModel.TimeSpec = *reqBody.TimeSpec
		}
		if reqBody.AnchorDate != nil {
			// editing the anchor date re-bases all future recurrence
			anchor, err := as.ParseDay(*reqBody.AnchorDate)
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Please provide a valid anchor date"))
				return
			}
			eventModel.AnchorDateUnixUTC = anchor.Unix()
		}
		if reqBody.Recurrence != nil {
			eventModel.Recurrence = schedule.ParseRecurrence(*reqBody.Recurrence)
		}

		startTimer := time.Now()
		if err := eventModel.Upsert(r.Context(), as.BunDB); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(err.Error()))
			return
		}
		as.MetricChans.ReportDatabaseWrite(float64(time.Since(startTimer).Microseconds()))

		respBodyJson, err := json.Marshal(toRespBody(*eventModel))
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	}))

	// delete an event; succeeds even when nothing matches
	muxer.HandleFunc("DELETE /events/{id}", Observe(as, func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Please provide an event ID"))
			return
		}

		startTimer := time.Now()
		if _, err := as.BunDB.NewDelete().
			Model((*model.Event)(nil)).
			Where("id = ?", id).
			Exec(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't delete event"))
			slog.Error("can't delete event", "error", err)
			return
		}
		as.MetricChans.ReportDatabaseWrite(float64(time.Since(startTimer).Microseconds()))

		w.WriteHeader(http.StatusOK)
	}))
}
