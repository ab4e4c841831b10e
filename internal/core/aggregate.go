package core

import (
	"math"
	"time"
)

// Derived read-only views over record collections. Everything in this file
// is pure: no clock, no store, no mutation of inputs.

type (
	// DayStatus classifies a calendar day by which partners contributed.
	DayStatus string

	// Totals carries one summed value per partner.
	Totals struct {
		Boy  float64
		Girl float64
	}

	// Settlement is the running expense balance between the partners.
	// Debtor is empty when the totals are even.
	Settlement struct {
		Total      float64
		Difference float64
		Debtor     Role
	}

	CategoryAmount struct {
		Category Category
		Amount   float64
	}

	// DayCompletion is one day of the weekly task chart.
	DayCompletion struct {
		Date      string
		Completed int
		Total     int
		Rate      int
	}

	// DayMood is one day of the mood trend chart. Average is 0 when the day
	// has no entries, which is distinct from the weight 1 ("angry").
	DayMood struct {
		Date    string
		Average int
		Count   int
	}
)

const (
	DayEmpty    DayStatus = "empty"
	DayBoyOnly  DayStatus = "boy"
	DayGirlOnly DayStatus = "girl"
	DayBoth     DayStatus = "both"
)

// GroupByDay buckets records by the calendar date produced by day.
// Insertion order within a bucket follows input order.
func GroupByDay[T any](records []T, day func(T) string) map[string][]T {
	out := make(map[string][]T)
	for _, r := range records {
		d := day(r)
		out[d] = append(out[d], r)
	}
	return out
}

// DayStatusOf classifies a day's records by author presence. The result is a
// set union, so record order and counts do not matter.
func DayStatusOf[T any](records []T, author func(T) Role) DayStatus {
	var boy, girl bool
	for _, r := range records {
		switch author(r) {
		case RoleBoy:
			boy = true
		case RoleGirl:
			girl = true
		}
	}
	switch {
	case boy && girl:
		return DayBoth
	case boy:
		return DayBoyOnly
	case girl:
		return DayGirlOnly
	}
	return DayEmpty
}

// CompletionRate returns round(100*completed/total) as an int in [0,100].
// An empty list rates 0.
func CompletionRate(tasks []PlanTask) int {
	if len(tasks) == 0 {
		return 0
	}
	completed := 0
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(tasks)) * 100))
}

// PerAuthorTotal sums entry amounts per partner. Amounts were already
// coerced at the decode boundary, so unparseable values contribute 0.
func PerAuthorTotal(entries []AccountingEntry) Totals {
	var t Totals
	for _, e := range entries {
		switch e.Author {
		case RoleBoy:
			t.Boy += e.Amount
		case RoleGirl:
			t.Girl += e.Amount
		}
	}
	return t
}

// Settle computes who owes whom to even out the totals.
func Settle(t Totals) Settlement {
	s := Settlement{
		Total:      t.Boy + t.Girl,
		Difference: math.Abs(t.Boy - t.Girl),
	}
	switch {
	case t.Boy > t.Girl:
		s.Debtor = RoleGirl
	case t.Girl > t.Boy:
		s.Debtor = RoleBoy
	}
	return s
}

// CategoryBreakdown totals amounts per category in first-seen order.
func CategoryBreakdown(entries []AccountingEntry) []CategoryAmount {
	byCat := map[Category]float64{}
	var order []Category
	for _, e := range entries {
		if _, seen := byCat[e.Category]; !seen {
			order = append(order, e.Category)
		}
		byCat[e.Category] += e.Amount
	}
	out := make([]CategoryAmount, 0, len(order))
	for _, c := range order {
		out = append(out, CategoryAmount{Category: c, Amount: byCat[c]})
	}
	return out
}

// WeekWindow returns the 7 consecutive dates of the week containing anchor,
// starting on the Sunday on or before it. The Sunday start is a fixed policy
// shared by every weekly view; it is deliberately not locale-aware.
func WeekWindow(anchor time.Time) [7]string {
	start := anchor.AddDate(0, 0, -int(anchor.Weekday()))
	var days [7]string
	for i := range days {
		days[i] = FormatDate(start.AddDate(0, 0, i))
	}
	return days
}

// MonthGrid returns the month's flat calendar sequence: one 0 placeholder
// per weekday preceding day 1, then 1..daysInMonth. Callers reshape it into
// 7-column rows for display.
func MonthGrid(year int, month time.Month) []int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	grid := make([]int, 0, int(first.Weekday())+daysInMonth)
	for i := 0; i < int(first.Weekday()); i++ {
		grid = append(grid, 0)
	}
	for d := 1; d <= daysInMonth; d++ {
		grid = append(grid, d)
	}
	return grid
}

// AverageMoodValue returns the rounded mean of the day's mood weights, or 0
// for a day with no entries.
func AverageMoodValue(dayMoods []MoodEntry) int {
	if len(dayMoods) == 0 {
		return 0
	}
	sum := 0
	for _, m := range dayMoods {
		sum += m.Weight
	}
	return int(math.Round(float64(sum) / float64(len(dayMoods))))
}

// WeekTaskSeries builds the weekly completion chart for the week containing
// anchor. Tasks bucket by their target date, never by creation time.
func WeekTaskSeries(tasks []PlanTask, anchor time.Time) []DayCompletion {
	byDay := GroupByDay(tasks, func(t PlanTask) string { return t.TargetDate })
	window := WeekWindow(anchor)
	out := make([]DayCompletion, 0, len(window))
	for _, date := range window {
		day := byDay[date]
		completed := 0
		for _, t := range day {
			if t.Completed {
				completed++
			}
		}
		out = append(out, DayCompletion{
			Date:      date,
			Completed: completed,
			Total:     len(day),
			Rate:      CompletionRate(day),
		})
	}
	return out
}

// TrailingMoodSeries builds the mood trend for the `days` dates ending at
// end, oldest first. Moods bucket by their record date.
func TrailingMoodSeries(moods []MoodEntry, end time.Time, days int) []DayMood {
	byDay := GroupByDay(moods, func(m MoodEntry) string { return m.RecordDate })
	out := make([]DayMood, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := FormatDate(end.AddDate(0, 0, -i))
		day := byDay[date]
		out = append(out, DayMood{
			Date:    date,
			Average: AverageMoodValue(day),
			Count:   len(day),
		})
	}
	return out
}

// DaysTogether counts days elapsed since the anniversary, rounding any
// partial day up, so the counter ticks over at midnight.
func DaysTogether(anniversary, now time.Time) int {
	d := now.Sub(anniversary)
	if d < 0 {
		d = -d
	}
	return int(math.Ceil(d.Hours() / 24))
}
