package service

import (
	"context"
	"testing"

	"longevityhub/internal/apperr"
	"longevityhub/internal/model"
)

func TestSleepCreateDerivesHoursFromTimestamps(t *testing.T) {
	db := newTestDB(t)
	svc := NewSleepService(db)

	sess, err := svc.Create(context.Background(), 1, model.SleepRequest{
		Day:     testDay(0),
		StartAt: "2026-03-14T23:30:00Z",
		EndAt:   "2026-03-15T07:15:00Z",
		Quality: 8,
	})
	if err != nil {
		t.Fatalf("create sleep: %v", err)
	}
	if sess.Hours != 7.8 {
		t.Fatalf("derived hours = %v, want 7.8", sess.Hours)
	}
}

func TestSleepCreateValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewSleepService(db)
	ctx := context.Background()

	cases := []struct {
		name string
		req  model.SleepRequest
	}{
		{"bad day", model.SleepRequest{Day: "15/03/2026", Hours: 8}},
		{"zero hours without timestamps", model.SleepRequest{Day: testDay(0)}},
		{"hours over a day", model.SleepRequest{Day: testDay(0), Hours: 25}},
		{"quality out of range", model.SleepRequest{Day: testDay(0), Hours: 8, Quality: 11}},
		{"end before start", model.SleepRequest{
			Day: testDay(0), StartAt: "2026-03-15T07:00:00Z", EndAt: "2026-03-15T06:00:00Z",
		}},
	}
	for _, tc := range cases {
		if _, err := svc.Create(ctx, 1, tc.req); apperr.KindOf(err) != apperr.Validation {
			t.Fatalf("%s: kind = %v, want validation", tc.name, apperr.KindOf(err))
		}
	}
}

func TestSleepListWindowsAndOrdersDescending(t *testing.T) {
	db := newTestDB(t)
	svc := NewSleepService(db)
	ctx := context.Background()

	for _, offset := range []int{0, -3, -10} {
		if _, err := svc.Create(ctx, 1, model.SleepRequest{Day: testDay(offset), Hours: 7, Quality: 7}); err != nil {
			t.Fatalf("create sleep at %d: %v", offset, err)
		}
	}

	sessions, err := svc.List(ctx, 1, "7d", testToday())
	if err != nil {
		t.Fatalf("list sleep: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("7d window has %d sessions, want 2", len(sessions))
	}
	if sessions[0].Day != testDay(0) || sessions[1].Day != testDay(-3) {
		t.Fatalf("order = %s, %s; want newest first", sessions[0].Day, sessions[1].Day)
	}
}

func TestSleepDeleteUnknownIDIsNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewSleepService(db)

	if err := svc.Delete(context.Background(), 1, 42); apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("kind = %v, want not_found", apperr.KindOf(err))
	}
}
