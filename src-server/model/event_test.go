package model_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"opsdesk/schedule"
	"opsdesk/src-server/model"
)

func testBunDB(t *testing.T) *bun.DB {
	t.Helper()
	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	bundb := bun.NewDB(db, sqlitedialect.New())
	if err := model.CreateSchema(bundb); err != nil {
		t.Fatal(err)
	}
	return bundb
}

func TestEventUpsert(t *testing.T) {
	bundb := testBunDB(t)

	anchor := time.Date(2024, time.June, 10, 15, 30, 0, 0, time.UTC)
	eventModel := model.Event{
		ID:                uuid.NewString(),
		Title:             "Weekly sync",
		TimeSpec:          "10:00-10:30",
		AnchorDateUnixUTC: anchor.Unix(),
		Recurrence:        schedule.RecurrenceWeekly,
	}
	if err := eventModel.Upsert(context.Background(), bundb); err != nil {
		t.Error(err)
	}

	// case: anchor date normalized to midnight
	if got := eventModel.Anchor(); !got.Equal(schedule.Day(anchor)) {
		t.Error("anchor not normalized to midnight, got", got)
	}

	// case: update path bumps updated_at
	eventModel.Title = "Weekly sync (moved)"
	if err := eventModel.Upsert(context.Background(), bundb); err != nil {
		t.Error(err)
	}
	if eventModel.UpdatedAt == 0 {
		t.Error("updated_at not set on update")
	}

	count, err := bundb.NewSelect().
		Model((*model.Event)(nil)).
		Count(context.Background())
	if err != nil {
		t.Error(err)
	}
	if count != 1 {
		t.Error("expected one event, got", count)
	}
}

func TestEventUpsertValidation(t *testing.T) {
	bundb := testBunDB(t)

	// case: blank title
	eventModel := model.Event{
		ID:                uuid.NewString(),
		AnchorDateUnixUTC: time.Now().Unix(),
	}
	if err := eventModel.Upsert(context.Background(), bundb); err == nil {
		t.Error("expected blank title to be rejected")
	}

	// case: bad time spec
	eventModel = model.Event{
		ID:                uuid.NewString(),
		Title:             "Broken",
		TimeSpec:          "9am to 5pm",
		AnchorDateUnixUTC: time.Now().Unix(),
	}
	if err := eventModel.Upsert(context.Background(), bundb); err == nil {
		t.Error("expected malformed time spec to be rejected")
	}

	// case: unknown recurrence degrades to none instead of failing
	eventModel = model.Event{
		ID:                uuid.NewString(),
		Title:             "Permissive",
		AnchorDateUnixUTC: time.Now().Unix(),
		Recurrence:        schedule.Recurrence("every blue moon"),
	}
	if err := eventModel.Upsert(context.Background(), bundb); err != nil {
		t.Error(err)
	}
	if eventModel.Recurrence != schedule.RecurrenceNone {
		t.Error("unknown recurrence should degrade to none, got", eventModel.Recurrence)
	}
}

func TestEventOccursOn(t *testing.T) {
	eventModel := model.Event{
		ID:                uuid.NewString(),
		Title:             "License renewal",
		AnchorDateUnixUTC: time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC).Unix(),
		Recurrence:        schedule.RecurrenceMonthly,
	}

	if eventModel.OccursOn(time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)) {
		t.Error("should not fire in a month without a 31st")
	}
	if !eventModel.OccursOn(time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)) {
		t.Error("should fire on March 31st")
	}
}

func TestValidateTimeSpec(t *testing.T) {
	for _, spec := range []string{"", "09:00-17:30", "00:00-23:59"} {
		if err := model.ValidateTimeSpec(spec); err != nil {
			t.Error("valid spec rejected:", spec, err)
		}
	}
	for _, spec := range []string{"09:00", "9-17", "09:00-25:00", "09:00 - 17:00"} {
		if err := model.ValidateTimeSpec(spec); err == nil {
			t.Error("invalid spec accepted:", spec)
		}
	}
}
