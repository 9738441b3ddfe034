package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/regimen/internal/domain"
	"github.com/alexanderramin/regimen/internal/repository"
	"github.com/alexanderramin/regimen/internal/tracker"
)

// CSVHeader is the column layout of ExportCSV.
var CSVHeader = []string{"Date", "Session", "Completed Exercises", "Exercise IDs"}

type historyService struct {
	completions repository.CompletionRepo
	logs        repository.SessionLogRepo
	events      repository.EventRepo
	clock       tracker.Clock
	observer    UseCaseObserver
}

func NewHistoryService(
	completions repository.CompletionRepo,
	logs repository.SessionLogRepo,
	events repository.EventRepo,
	clock tracker.Clock,
	observers ...UseCaseObserver,
) HistoryService {
	if clock == nil {
		clock = tracker.SystemClock{}
	}
	return &historyService{
		completions: completions,
		logs:        logs,
		events:      events,
		clock:       clock,
		observer:    useCaseObserverOrNoop(observers),
	}
}

// window returns the inclusive date range covering the last days days,
// today included.
func (s *historyService) window(days int) (string, string) {
	if days <= 0 {
		days = 7
	}
	today := s.clock.Now()
	from := today.AddDate(0, 0, -(days - 1))
	return from.Format(domain.DateLayout), today.Format(domain.DateLayout)
}

func (s *historyService) History(ctx context.Context, days int) ([]domain.HistoryDay, error) {
	from, to := s.window(days)
	return s.completions.History(ctx, from, to)
}

// Stats builds daily totals, per-session-type series and streaks. Streaks
// count consecutive calendar days with at least one completion; the
// current streak may end yesterday when nothing is done yet today.
func (s *historyService) Stats(ctx context.Context, days int) (stats *domain.CompletionStats, err error) {
	startedAt := time.Now()
	defer func() {
		fields := map[string]any{"days": days}
		if stats != nil {
			fields["longest_streak"] = stats.LongestStreak
		}
		observe(ctx, s.observer, "completion-stats", "", startedAt, err, fields)
	}()

	history, err := s.History(ctx, days)
	if err != nil {
		return nil, err
	}

	stats = &domain.CompletionStats{BySessionType: make(map[domain.SessionType][]domain.DailyCompletion)}
	active := make(map[string]bool)
	for i := len(history) - 1; i >= 0; i-- {
		day := history[i]
		total := day.TotalCompleted()
		stats.Daily = append(stats.Daily, domain.DailyCompletion{Date: day.Date, Completed: total})
		if total > 0 {
			active[day.Date] = true
		}
		for _, st := range sortedSessionTypes(day.Sessions) {
			stats.BySessionType[st] = append(stats.BySessionType[st],
				domain.DailyCompletion{Date: day.Date, Completed: len(day.Sessions[st])})
		}
	}

	var prev time.Time
	run := 0
	for _, d := range stats.Daily {
		if !active[d.Date] {
			continue
		}
		date, perr := time.Parse(domain.DateLayout, d.Date)
		if perr != nil {
			return nil, fmt.Errorf("parsing history date %q: %w", d.Date, perr)
		}
		if !prev.IsZero() && date.Sub(prev) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		prev = date
		if run > stats.LongestStreak {
			stats.LongestStreak = run
		}
	}

	today, _ := time.Parse(domain.DateLayout, s.clock.Now().Format(domain.DateLayout))
	cursor := today
	if !active[cursor.Format(domain.DateLayout)] {
		cursor = cursor.AddDate(0, 0, -1)
	}
	for active[cursor.Format(domain.DateLayout)] {
		stats.CurrentStreak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return stats, nil
}

// ExportCSV writes one row per (date, session type), newest date first, and
// returns the number of data rows written.
func (s *historyService) ExportCSV(ctx context.Context, w io.Writer, days int) (rows int, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "export-csv", "", startedAt, err, map[string]any{"days": days, "rows": rows})
	}()

	history, err := s.History(ctx, days)
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return 0, fmt.Errorf("writing csv header: %w", err)
	}
	for _, day := range history {
		for _, st := range sortedSessionTypes(day.Sessions) {
			keys := day.Sessions[st]
			record := []string{day.Date, string(st), strconv.Itoa(len(keys)), strings.Join(keys, ",")}
			if err := cw.Write(record); err != nil {
				return rows, fmt.Errorf("writing csv row: %w", err)
			}
			rows++
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return rows, fmt.Errorf("flushing csv: %w", err)
	}
	return rows, nil
}

func (s *historyService) RecentSessions(ctx context.Context, t domain.SessionType, limit int) ([]*domain.SessionLog, error) {
	return s.logs.ListRecent(ctx, t, limit)
}

func (s *historyService) Events(ctx context.Context, t domain.SessionType, date string) ([]*domain.CompletionEvent, error) {
	if date == "" {
		date = s.clock.Now().Format(domain.DateLayout)
	}
	return s.events.ListByDate(ctx, t, date)
}

func sortedSessionTypes(m map[domain.SessionType][]string) []domain.SessionType {
	out := make([]domain.SessionType, 0, len(m))
	for st := range m {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
