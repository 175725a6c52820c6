package service

import (
	"context"
	"strings"
	"testing"

	"longevityhub/internal/apperr"
	"longevityhub/internal/model"
)

func TestWearableImportCSVAcceptsHeaderAndRows(t *testing.T) {
	db := newTestDB(t)
	svc := NewWearableService(db)

	csv := "day,hrv_ms,resting_hr,steps\n" +
		testDay(-1) + ",58.5,52,9100\n" +
		testDay(0) + ",61.2,50,10400\n"

	n, err := svc.ImportCSV(context.Background(), 1, "garmin", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("import csv: %v", err)
	}
	if n != 2 {
		t.Fatalf("imported %d rows, want 2", n)
	}

	readings, err := svc.List(context.Background(), 1, "7d", testToday())
	if err != nil {
		t.Fatalf("list readings: %v", err)
	}
	if len(readings) != 2 {
		t.Fatalf("listed %d readings, want 2", len(readings))
	}
	if readings[0].Day < readings[1].Day {
		t.Fatalf("list not descending: %s before %s", readings[0].Day, readings[1].Day)
	}
	// day strings must round-trip bare, no time component from the column type
	if readings[0].Day != testDay(0) || readings[1].Day != testDay(-1) {
		t.Fatalf("days = %s, %s; want %s, %s", readings[0].Day, readings[1].Day, testDay(0), testDay(-1))
	}
}

func TestWearableImportCSVBadRowRejectsWholeFile(t *testing.T) {
	db := newTestDB(t)
	svc := NewWearableService(db)

	csv := testDay(0) + ",58.5,52,9100\n" +
		"not-a-date,60,50,8000\n"

	_, err := svc.ImportCSV(context.Background(), 1, "csv", strings.NewReader(csv))
	if apperr.KindOf(err) != apperr.Validation {
		t.Fatalf("err kind = %v, want validation", apperr.KindOf(err))
	}

	var count int64
	db.Model(&model.WearableReading{}).Count(&count)
	if count != 0 {
		t.Fatalf("%d readings written after rejected import", count)
	}
}

func TestWearableUpsertReplacesSameDayReading(t *testing.T) {
	db := newTestDB(t)
	svc := NewWearableService(db)
	ctx := context.Background()

	if _, err := svc.Upsert(ctx, 1, model.WearableRequest{Day: testDay(0), HRVMs: 55, RestingHR: 54, Steps: 7000}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if _, err := svc.Upsert(ctx, 1, model.WearableRequest{Day: testDay(0), HRVMs: 58, RestingHR: 52, Steps: 9000}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	var readings []model.WearableReading
	db.Where("user_id = ?", 1).Find(&readings)
	if len(readings) != 1 {
		t.Fatalf("%d readings for same day, want 1", len(readings))
	}
	if readings[0].Steps != 9000 {
		t.Fatalf("steps = %d, want replacement value 9000", readings[0].Steps)
	}
}
