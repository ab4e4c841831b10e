package services

import (
	"context"
	"time"

	"lovespace/internal/core"
)

// moodTrendDays is the length of the mood chart on the summary view.
const moodTrendDays = 7

type MonthView struct {
	Year  int                       `json:"year"`
	Month int                       `json:"month"`
	Grid  []int                     `json:"grid"`
	Days  map[string]core.DayStatus `json:"days"`
}

type WeekView struct {
	Days []core.DayCompletion `json:"days"`
	Rate int                  `json:"rate"`
}

type SummaryView struct {
	Totals       core.Totals           `json:"totals"`
	Settlement   core.Settlement       `json:"settlement"`
	ByCategory   []core.CategoryAmount `json:"byCategory"`
	MoodTrend    []core.DayMood        `json:"moodTrend"`
	DaysTogether int                   `json:"daysTogether"`
}

type OverviewView struct {
	DiaryCount   int             `json:"diaryCount"`
	TaskCount    int             `json:"taskCount"`
	ExpenseCount int             `json:"expenseCount"`
	MoodCount    int             `json:"moodCount"`
	PhotoCount   int             `json:"photoCount"`
	TodayStatus  core.DayStatus  `json:"todayStatus"`
	Settlement   core.Settlement `json:"settlement"`
	DaysTogether int             `json:"daysTogether"`
}

// CalendarMonth builds the diary calendar: the month's cell grid plus a
// per-day author status for the days that have entries.
func (s *SpaceService) CalendarMonth(ctx context.Context, partition string, year int, month time.Month) (MonthView, error) {
	entries, err := s.Diary(ctx, partition)
	if err != nil {
		return MonthView{}, err
	}
	byDay := core.GroupByDay(entries, core.DiaryEntry.Day)
	days := make(map[string]core.DayStatus, len(byDay))
	for date, dayEntries := range byDay {
		days[date] = core.DayStatusOf(dayEntries, func(e core.DiaryEntry) core.Role { return e.Author })
	}
	return MonthView{
		Year:  year,
		Month: int(month),
		Grid:  core.MonthGrid(year, month),
		Days:  days,
	}, nil
}

// Week builds the task chart for the week containing anchor.
func (s *SpaceService) Week(ctx context.Context, partition string, anchor time.Time) (WeekView, error) {
	tasks, err := s.Tasks(ctx, partition)
	if err != nil {
		return WeekView{}, err
	}
	series := core.WeekTaskSeries(tasks, anchor)
	window := core.WeekWindow(anchor)
	var inWindow []core.PlanTask
	for _, t := range tasks {
		for _, date := range window {
			if t.TargetDate == date {
				inWindow = append(inWindow, t)
				break
			}
		}
	}
	return WeekView{Days: series, Rate: core.CompletionRate(inWindow)}, nil
}

// Summary builds the accounting and mood dashboard.
func (s *SpaceService) Summary(ctx context.Context, partition string, now time.Time) (SummaryView, error) {
	entries, err := s.Accounting(ctx, partition)
	if err != nil {
		return SummaryView{}, err
	}
	moods, err := s.Moods(ctx, partition)
	if err != nil {
		return SummaryView{}, err
	}
	totals := core.PerAuthorTotal(entries)
	return SummaryView{
		Totals:       totals,
		Settlement:   core.Settle(totals),
		ByCategory:   core.CategoryBreakdown(entries),
		MoodTrend:    core.TrailingMoodSeries(moods, now, moodTrendDays),
		DaysTogether: core.DaysTogether(s.anniversary, now),
	}, nil
}

// Overview is the landing view: record counts, today's diary status and the
// running balance.
func (s *SpaceService) Overview(ctx context.Context, partition string, now time.Time) (OverviewView, error) {
	diary, err := s.Diary(ctx, partition)
	if err != nil {
		return OverviewView{}, err
	}
	tasks, err := s.Tasks(ctx, partition)
	if err != nil {
		return OverviewView{}, err
	}
	expenses, err := s.Accounting(ctx, partition)
	if err != nil {
		return OverviewView{}, err
	}
	moods, err := s.Moods(ctx, partition)
	if err != nil {
		return OverviewView{}, err
	}
	photos, err := s.Photos(ctx, partition)
	if err != nil {
		return OverviewView{}, err
	}

	today := core.FormatDate(now)
	var todayEntries []core.DiaryEntry
	for _, e := range diary {
		if e.Day() == today {
			todayEntries = append(todayEntries, e)
		}
	}

	return OverviewView{
		DiaryCount:   len(diary),
		TaskCount:    len(tasks),
		ExpenseCount: len(expenses),
		MoodCount:    len(moods),
		PhotoCount:   len(photos),
		TodayStatus:  core.DayStatusOf(todayEntries, func(e core.DiaryEntry) core.Role { return e.Author }),
		Settlement:   core.Settle(core.PerAuthorTotal(expenses)),
		DaysTogether: core.DaysTogether(s.anniversary, now),
	}, nil
}

// PhotoWall groups a partition's photos by day for the gallery view.
func (s *SpaceService) PhotoWall(ctx context.Context, partition string) (map[string][]core.PhotoEntry, error) {
	photos, err := s.Photos(ctx, partition)
	if err != nil {
		return nil, err
	}
	return core.GroupByDay(photos, core.PhotoEntry.Day), nil
}
