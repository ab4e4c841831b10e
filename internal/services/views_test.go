package services

import (
	"context"
	"testing"
	"time"

	"lovespace/internal/core"
)

func TestSummary(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	seed := []core.AccountingEntry{
		{Description: "dinner", Amount: 30, Category: core.CategoryFood, Author: core.RoleBoy, SecretCode: "code"},
		{Description: "bus", Amount: 5, Category: core.CategoryTransport, Author: core.RoleGirl, SecretCode: "code"},
		{Description: "snacks", Amount: 5, Category: core.CategoryFood, Author: core.RoleGirl, SecretCode: "code"},
	}
	for _, e := range seed {
		if _, err := svc.AddAccountingEntry(ctx, e); err != nil {
			t.Fatalf("AddAccountingEntry: %v", err)
		}
	}
	now := time.Date(2026, time.January, 7, 12, 0, 0, 0, time.UTC)
	if _, err := svc.AddMoodEntry(ctx, core.MoodEntry{Mood: core.MoodHappy, Author: core.RoleBoy, RecordDate: "2026-01-07", SecretCode: "code"}, nil); err != nil {
		t.Fatalf("AddMoodEntry: %v", err)
	}

	sum, err := svc.Summary(ctx, "code", now)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.Totals.Boy != 30 || sum.Totals.Girl != 10 {
		t.Errorf("totals = %+v", sum.Totals)
	}
	if sum.Settlement.Debtor != core.RoleGirl || sum.Settlement.Difference != 20 {
		t.Errorf("settlement = %+v", sum.Settlement)
	}
	if len(sum.ByCategory) != 2 {
		t.Errorf("byCategory = %+v", sum.ByCategory)
	}
	if len(sum.MoodTrend) != 7 {
		t.Fatalf("mood trend length = %d", len(sum.MoodTrend))
	}
	last := sum.MoodTrend[6]
	if last.Date != "2026-01-07" || last.Average != 5 || last.Count != 1 {
		t.Errorf("trend last day = %+v", last)
	}
	// 2025-07-04 to 2026-01-07 12:00 is 187 days and a half, rounded up.
	if sum.DaysTogether != 188 {
		t.Errorf("daysTogether = %d, want 188", sum.DaysTogether)
	}
}

func TestCalendarMonth(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.AddDiaryEntry(ctx, core.DiaryEntry{Text: "a", Mood: core.MoodHappy, Author: core.RoleBoy, SecretCode: "code"}); err != nil {
		t.Fatalf("AddDiaryEntry: %v", err)
	}
	if _, err := svc.AddDiaryEntry(ctx, core.DiaryEntry{Text: "b", Mood: core.MoodGood, Author: core.RoleGirl, SecretCode: "code"}); err != nil {
		t.Fatalf("AddDiaryEntry: %v", err)
	}

	view, err := svc.CalendarMonth(ctx, "code", 2025, time.April)
	if err != nil {
		t.Fatalf("CalendarMonth: %v", err)
	}
	if view.Year != 2025 || view.Month != 4 {
		t.Errorf("view header = %d-%d", view.Year, view.Month)
	}
	if len(view.Grid) != 32 { // 2 leading placeholders + 30 days
		t.Errorf("grid length = %d, want 32", len(view.Grid))
	}
	// Both partners wrote today, so today's status is "both".
	today := core.FormatDate(time.Now())
	if view.Days[today] != core.DayBoth {
		t.Errorf("status for %s = %q, want both", today, view.Days[today])
	}
}

func TestWeek(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	seed := []core.PlanTask{
		{Description: "a", Author: core.RoleBoy, TargetDate: "2026-01-05", SecretCode: "code"},
		{Description: "b", Author: core.RoleGirl, TargetDate: "2026-01-05", SecretCode: "code"},
		{Description: "c", Author: core.RoleBoy, TargetDate: "2026-01-06", SecretCode: "code"},
		{Description: "old", Author: core.RoleBoy, TargetDate: "2025-12-01", SecretCode: "code"},
	}
	var ids []string
	for _, task := range seed {
		saved, err := svc.AddPlanTask(ctx, task)
		if err != nil {
			t.Fatalf("AddPlanTask: %v", err)
		}
		ids = append(ids, saved.ID)
	}
	if _, err := svc.ToggleTask(ctx, "code", ids[0]); err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	if _, err := svc.ToggleTask(ctx, "code", ids[2]); err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}

	anchor := time.Date(2026, time.January, 7, 0, 0, 0, 0, time.UTC)
	week, err := svc.Week(ctx, "code", anchor)
	if err != nil {
		t.Fatalf("Week: %v", err)
	}
	if len(week.Days) != 7 {
		t.Fatalf("days = %d", len(week.Days))
	}
	monday := week.Days[1]
	if monday.Date != "2026-01-05" || monday.Completed != 1 || monday.Total != 2 {
		t.Errorf("monday = %+v", monday)
	}
	// 2 of the 3 in-window tasks are done; the December task is excluded.
	if week.Rate != 67 {
		t.Errorf("rate = %d, want 67", week.Rate)
	}
}

func TestOverview(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.AddDiaryEntry(ctx, core.DiaryEntry{Text: "a", Mood: core.MoodHappy, Author: core.RoleBoy, SecretCode: "code"}); err != nil {
		t.Fatalf("AddDiaryEntry: %v", err)
	}
	if _, err := svc.AddAccountingEntry(ctx, core.AccountingEntry{Description: "x", Amount: 12, Category: core.CategoryOther, Author: core.RoleBoy, SecretCode: "code"}); err != nil {
		t.Fatalf("AddAccountingEntry: %v", err)
	}

	ov, err := svc.Overview(ctx, "code", time.Now())
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if ov.DiaryCount != 1 || ov.ExpenseCount != 1 || ov.TaskCount != 0 {
		t.Errorf("counts = %+v", ov)
	}
	if ov.TodayStatus != core.DayBoyOnly {
		t.Errorf("todayStatus = %q", ov.TodayStatus)
	}
	if ov.Settlement.Debtor != core.RoleGirl {
		t.Errorf("settlement = %+v", ov.Settlement)
	}
}

func TestPhotoWall(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	photos := []core.PhotoEntry{
		{URL: "https://example.com/a.jpg", Caption: "a", Author: core.RoleBoy, UploadDate: "2026-01-05", SecretCode: "code"},
		{URL: "https://example.com/b.jpg", Caption: "b", Author: core.RoleGirl, UploadDate: "2026-01-05", SecretCode: "code"},
		{URL: "https://example.com/c.jpg", Caption: "c", Author: core.RoleBoy, UploadDate: "2026-01-06", SecretCode: "code"},
	}
	for _, p := range photos {
		if _, err := svc.AddPhoto(ctx, p, nil); err != nil {
			t.Fatalf("AddPhoto: %v", err)
		}
	}
	wall, err := svc.PhotoWall(ctx, "code")
	if err != nil {
		t.Fatalf("PhotoWall: %v", err)
	}
	if len(wall["2026-01-05"]) != 2 || len(wall["2026-01-06"]) != 1 {
		t.Errorf("wall = %+v", wall)
	}
}
