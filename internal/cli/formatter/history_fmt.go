package formatter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/regimen/internal/domain"
)

const statsBarWidth = 24

// FormatHistory renders completed items per day and session type, newest first.
func FormatHistory(days []domain.HistoryDay, now time.Time) string {
	if len(days) == 0 {
		return Dim("No completions recorded yet.") + "\n"
	}
	headers := []string{"DATE", "SESSION", "DONE", "ITEMS"}
	var rows [][]string
	for _, d := range days {
		types := make([]string, 0, len(d.Sessions))
		for t := range d.Sessions {
			types = append(types, string(t))
		}
		sort.Strings(types)
		for i, t := range types {
			keys := d.Sessions[domain.SessionType(t)]
			date := ""
			if i == 0 {
				date = Bold(HumanDay(d.Date, now))
			}
			rows = append(rows, []string{
				date,
				StylePurple.Render(t),
				StyleGreen.Render(fmt.Sprintf("%d", len(keys))),
				Dim(strings.Join(keys, ", ")),
			})
		}
	}
	return RenderTable(headers, rows)
}

// FormatStats renders the daily completion series with streak counts.
func FormatStats(stats *domain.CompletionStats) string {
	var b strings.Builder

	maxDaily := 0
	for _, d := range stats.Daily {
		if d.Completed > maxDaily {
			maxDaily = d.Completed
		}
	}

	b.WriteString(Header("Daily completions"))
	b.WriteString("\n")
	if len(stats.Daily) == 0 {
		b.WriteString(Dim("No data.") + "\n")
	}
	for _, d := range stats.Daily {
		pct := 0.0
		if maxDaily > 0 {
			pct = float64(d.Completed) / float64(maxDaily)
		}
		b.WriteString(fmt.Sprintf("%-10s %s %s\n",
			d.Date,
			RenderCompactBar(pct, statsBarWidth, d.Completed == 0),
			StyleFg.Render(fmt.Sprintf("%d", d.Completed)),
		))
	}

	if len(stats.BySessionType) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("By session"))
		b.WriteString("\n")
		types := make([]string, 0, len(stats.BySessionType))
		for t := range stats.BySessionType {
			types = append(types, string(t))
		}
		sort.Strings(types)
		rows := make([][]string, 0, len(types))
		for _, t := range types {
			total, active := 0, 0
			for _, d := range stats.BySessionType[domain.SessionType(t)] {
				total += d.Completed
				if d.Completed > 0 {
					active++
				}
			}
			rows = append(rows, []string{
				StylePurple.Render(t),
				fmt.Sprintf("%d items", total),
				Dim(fmt.Sprintf("%d active days", active)),
			})
		}
		b.WriteString(RenderTable([]string{"SESSION", "TOTAL", "DAYS"}, rows))
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s   %s %s\n",
		Dim("Current streak:"), StyleGreen.Render(pluralDays(stats.CurrentStreak)),
		Dim("Longest streak:"), StyleYellow.Render(pluralDays(stats.LongestStreak)),
	))
	return RenderBox("Stats", b.String())
}

// FormatSessionLogs renders finished sessions, most recent first.
func FormatSessionLogs(logs []*domain.SessionLog, now time.Time) string {
	if len(logs) == 0 {
		return Dim("No finished sessions.") + "\n"
	}
	headers := []string{"ID", "ENDED", "DURATION", "DONE"}
	rows := make([][]string, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, []string{
			TruncID(l.ID),
			HumanTimestamp(l.EndedAt, now),
			FormatDuration(l.Duration()),
			fmt.Sprintf("%d/%d", l.CompletedCount, l.TotalCount),
		})
	}
	return RenderTable(headers, rows)
}

// FormatEvents renders one day's event log.
func FormatEvents(events []*domain.CompletionEvent) string {
	if len(events) == 0 {
		return Dim("No events.") + "\n"
	}
	headers := []string{"TIME", "EVENT", "ITEM"}
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		item := e.ItemKey
		if item == "" {
			item = "--"
		}
		rows = append(rows, []string{
			Dim(e.At.Local().Format("15:04:05")),
			eventStyle(e.Kind),
			item,
		})
	}
	return RenderTable(headers, rows)
}

func eventStyle(k domain.EventKind) string {
	switch k {
	case domain.EventComplete, domain.EventExpire, domain.EventToggleOn:
		return StyleGreen.Render(string(k))
	case domain.EventPause, domain.EventToggleOff:
		return StyleYellow.Render(string(k))
	case domain.EventReset:
		return StyleRed.Render(string(k))
	default:
		return StyleBlue.Render(string(k))
	}
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
