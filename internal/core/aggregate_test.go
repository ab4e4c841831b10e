package core

import (
	"testing"
	"time"
)

func TestGroupByDay(t *testing.T) {
	entries := []DiaryEntry{
		{ID: "a", CreatedAt: "2026-01-04 09:00:00"},
		{ID: "b", CreatedAt: "2026-01-04 21:30:00"},
		{ID: "c", CreatedAt: "2026-01-05 08:00:00"},
	}
	byDay := GroupByDay(entries, DiaryEntry.Day)
	if len(byDay) != 2 {
		t.Fatalf("expected 2 days, got %d", len(byDay))
	}
	if got := len(byDay["2026-01-04"]); got != 2 {
		t.Errorf("2026-01-04 has %d entries, want 2", got)
	}
	if byDay["2026-01-04"][0].ID != "a" || byDay["2026-01-04"][1].ID != "b" {
		t.Error("bucket should preserve input order")
	}
}

func TestDayStatusOf(t *testing.T) {
	author := func(e DiaryEntry) Role { return e.Author }
	cases := []struct {
		name    string
		entries []DiaryEntry
		want    DayStatus
	}{
		{"none", nil, DayEmpty},
		{"boy only", []DiaryEntry{{Author: RoleBoy}, {Author: RoleBoy}}, DayBoyOnly},
		{"girl only", []DiaryEntry{{Author: RoleGirl}}, DayGirlOnly},
		{"both", []DiaryEntry{{Author: RoleBoy}, {Author: RoleGirl}}, DayBoth},
		{"both reversed", []DiaryEntry{{Author: RoleGirl}, {Author: RoleBoy}}, DayBoth},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DayStatusOf(tc.entries, author); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCompletionRate(t *testing.T) {
	cases := []struct {
		name  string
		done  []bool
		want  int
	}{
		{"empty", nil, 0},
		{"none done", []bool{false, false}, 0},
		{"all done", []bool{true, true, true}, 100},
		{"two of three", []bool{true, true, false}, 67},
		{"one of three", []bool{true, false, false}, 33},
		{"half", []bool{true, false}, 50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tasks := make([]PlanTask, len(tc.done))
			for i, d := range tc.done {
				tasks[i].Completed = d
			}
			if got := CompletionRate(tasks); got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestPerAuthorTotal(t *testing.T) {
	// Amounts round-trip the codec so the wire forms "12.50" and 7 both
	// land in the sum as numbers.
	a, ok := DecodeAccountingEntry("1", "2026-01-04 10:00:00", map[string]any{
		"amount": "12.50", "author": "boy",
	})
	if !ok {
		t.Fatal("string amount should decode")
	}
	b, ok := DecodeAccountingEntry("2", "2026-01-04 11:00:00", map[string]any{
		"amount": 7, "author": "boy",
	})
	if !ok {
		t.Fatal("numeric amount should decode")
	}
	c, ok := DecodeAccountingEntry("3", "2026-01-04 12:00:00", map[string]any{
		"amount": "3.25", "author": "girl",
	})
	if !ok {
		t.Fatal("string amount should decode")
	}
	got := PerAuthorTotal([]AccountingEntry{a, b, c})
	if got.Boy != 19.5 {
		t.Errorf("boy total = %v, want 19.5", got.Boy)
	}
	if got.Girl != 3.25 {
		t.Errorf("girl total = %v, want 3.25", got.Girl)
	}
}

func TestPerAuthorTotalSkipsBadAmount(t *testing.T) {
	bad, ok := DecodeAccountingEntry("1", "2026-01-04 10:00:00", map[string]any{
		"amount": "lots", "author": "boy",
	})
	if ok {
		t.Fatal("unparseable amount should report !ok")
	}
	got := PerAuthorTotal([]AccountingEntry{bad, {Author: RoleBoy, Amount: 5}})
	if got.Boy != 5 {
		t.Errorf("boy total = %v, want 5", got.Boy)
	}
}

func TestSettle(t *testing.T) {
	cases := []struct {
		name string
		in   Totals
		want Settlement
	}{
		{"boy ahead", Totals{Boy: 30, Girl: 10}, Settlement{Total: 40, Difference: 20, Debtor: RoleGirl}},
		{"girl ahead", Totals{Boy: 5, Girl: 12.5}, Settlement{Total: 17.5, Difference: 7.5, Debtor: RoleBoy}},
		{"even", Totals{Boy: 8, Girl: 8}, Settlement{Total: 16, Difference: 0, Debtor: ""}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Settle(tc.in); got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestCategoryBreakdown(t *testing.T) {
	entries := []AccountingEntry{
		{Category: CategoryFood, Amount: 10},
		{Category: CategoryTransport, Amount: 4},
		{Category: CategoryFood, Amount: 6},
	}
	got := CategoryBreakdown(entries)
	want := []CategoryAmount{
		{Category: CategoryFood, Amount: 16},
		{Category: CategoryTransport, Amount: 4},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d categories, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("breakdown[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestWeekWindow(t *testing.T) {
	// 2026-01-07 is a Wednesday; its week starts Sunday 2026-01-04.
	anchor := time.Date(2026, time.January, 7, 15, 30, 0, 0, time.UTC)
	got := WeekWindow(anchor)
	want := [7]string{
		"2026-01-04", "2026-01-05", "2026-01-06", "2026-01-07",
		"2026-01-08", "2026-01-09", "2026-01-10",
	}
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestWeekWindowOnSunday(t *testing.T) {
	sunday := time.Date(2026, time.January, 4, 0, 0, 0, 0, time.UTC)
	got := WeekWindow(sunday)
	if got[0] != "2026-01-04" {
		t.Fatalf("a Sunday anchor starts its own week, got %q", got[0])
	}
}

func TestMonthGrid(t *testing.T) {
	cases := []struct {
		year     int
		month    time.Month
		leading  int
		lastDay  int
	}{
		{2025, time.April, 2, 30},    // Apr 1 2025 is a Tuesday
		{2026, time.January, 4, 31},  // Jan 1 2026 is a Thursday
		{2026, time.February, 0, 28}, // Feb 1 2026 is a Sunday
		{2024, time.February, 4, 29}, // leap year
	}
	for _, tc := range cases {
		grid := MonthGrid(tc.year, tc.month)
		if len(grid) != tc.leading+tc.lastDay {
			t.Errorf("%d-%02d: len = %d, want %d", tc.year, tc.month, len(grid), tc.leading+tc.lastDay)
			continue
		}
		for i := 0; i < tc.leading; i++ {
			if grid[i] != 0 {
				t.Errorf("%d-%02d: cell %d = %d, want placeholder", tc.year, tc.month, i, grid[i])
			}
		}
		if grid[tc.leading] != 1 {
			t.Errorf("%d-%02d: first day cell = %d, want 1", tc.year, tc.month, grid[tc.leading])
		}
		if grid[len(grid)-1] != tc.lastDay {
			t.Errorf("%d-%02d: last cell = %d, want %d", tc.year, tc.month, grid[len(grid)-1], tc.lastDay)
		}
	}
}

func TestAverageMoodValue(t *testing.T) {
	cases := []struct {
		name    string
		weights []int
		want    int
	}{
		{"empty", nil, 0},
		{"single", []int{5}, 5},
		{"rounds up", []int{5, 4}, 5}, // 4.5 rounds to 5
		{"rounds down", []int{4, 3, 3}, 3},
		{"all angry", []int{1, 1}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			moods := make([]MoodEntry, len(tc.weights))
			for i, w := range tc.weights {
				moods[i].Weight = w
			}
			if got := AverageMoodValue(moods); got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestWeekTaskSeries(t *testing.T) {
	anchor := time.Date(2026, time.January, 7, 12, 0, 0, 0, time.UTC)
	tasks := []PlanTask{
		{TargetDate: "2026-01-05", Completed: true},
		{TargetDate: "2026-01-05", Completed: false},
		{TargetDate: "2026-01-05", Completed: true},
		{TargetDate: "2026-01-09", Completed: false},
		{TargetDate: "2025-12-30", Completed: true}, // outside the window
	}
	series := WeekTaskSeries(tasks, anchor)
	if len(series) != 7 {
		t.Fatalf("series length = %d, want 7", len(series))
	}
	monday := series[1]
	if monday.Date != "2026-01-05" || monday.Completed != 2 || monday.Total != 3 || monday.Rate != 67 {
		t.Errorf("monday = %+v", monday)
	}
	friday := series[5]
	if friday.Date != "2026-01-09" || friday.Total != 1 || friday.Rate != 0 {
		t.Errorf("friday = %+v", friday)
	}
	if series[0].Total != 0 || series[0].Rate != 0 {
		t.Errorf("empty day = %+v", series[0])
	}
}

func TestTrailingMoodSeries(t *testing.T) {
	end := time.Date(2026, time.January, 7, 23, 0, 0, 0, time.UTC)
	moods := []MoodEntry{
		{RecordDate: "2026-01-07", Weight: 5},
		{RecordDate: "2026-01-07", Weight: 2},
		{RecordDate: "2026-01-05", Weight: 3},
	}
	series := TrailingMoodSeries(moods, end, 7)
	if len(series) != 7 {
		t.Fatalf("series length = %d, want 7", len(series))
	}
	if series[0].Date != "2026-01-01" {
		t.Errorf("oldest date = %q, want 2026-01-01", series[0].Date)
	}
	last := series[6]
	if last.Date != "2026-01-07" || last.Average != 4 || last.Count != 2 {
		t.Errorf("last day = %+v", last)
	}
	if series[4].Average != 3 || series[4].Count != 1 {
		t.Errorf("2026-01-05 = %+v", series[4])
	}
	if series[1].Average != 0 || series[1].Count != 0 {
		t.Errorf("empty day = %+v", series[1])
	}
}

func TestDaysTogether(t *testing.T) {
	anniversary := time.Date(2025, time.July, 4, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		now  time.Time
		want int
	}{
		{"same moment", anniversary, 0},
		{"partial day rounds up", anniversary.Add(6 * time.Hour), 1},
		{"exactly one day", anniversary.Add(24 * time.Hour), 1},
		{"ten and a bit", anniversary.Add(10*24*time.Hour + time.Minute), 11},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DaysTogether(anniversary, tc.now); got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}
