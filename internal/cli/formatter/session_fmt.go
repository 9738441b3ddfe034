package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/regimen/internal/domain"
	"github.com/alexanderramin/regimen/internal/service"
	"github.com/alexanderramin/regimen/internal/tracker"
)

const (
	sessionProgressBarWidth = 20
	countdownBarWidth       = 20
)

// FormatSession renders the checklist, the active timer and session progress.
func FormatSession(v *service.SessionView) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s  %s  %s\n",
		StylePurple.Render(string(v.SessionType)),
		Dim(v.Date),
		TimerIndicator(v.Status),
	))
	b.WriteString(fmt.Sprintf("%s %s\n",
		RenderProgress(v.Progress.Percent(), sessionProgressBarWidth),
		Dim(fmt.Sprintf("%d/%d complete", v.Progress.Completed, v.Progress.Total)),
	))
	if v.Progress.Started {
		b.WriteString(Dim("Session time: "+FormatDuration(v.Progress.Elapsed)) + "\n")
	}

	if v.Active != nil {
		b.WriteString("\n")
		b.WriteString(FormatActive(v))
	}

	b.WriteString("\n")
	b.WriteString(RenderTree(ChecklistTree(v.Items)))

	if v.Extra > 0 {
		b.WriteString(Dim(fmt.Sprintf("+%d completed item(s) no longer in this protocol", v.Extra)) + "\n")
	}

	if len(v.Notes) > 0 {
		b.WriteString("\n")
		for _, n := range v.Notes {
			b.WriteString(Dim("• "+n) + "\n")
		}
	}

	return RenderBox(v.Title, b.String())
}

// FormatActive renders the active item's timer block.
func FormatActive(v *service.SessionView) string {
	if v.Active == nil {
		return ""
	}
	var b strings.Builder
	item := v.Active
	clock := TimerColor(v.Status).Bold(true).Render(v.TimerDisplay)
	remaining := int(v.Remaining.Seconds())
	b.WriteString(fmt.Sprintf("%s  %s  %s\n",
		StyleYellowBold.Render(item.Name),
		clock,
		RenderCountdown(remaining, v.DurationSeconds, countdownBarWidth),
	))
	b.WriteString(Dim(fmt.Sprintf("%s  ·  %s", item.DurationText, item.DisplayEquipment())) + "\n")
	if reps, ok := tracker.NewRepCounter(item.DurationText); ok {
		b.WriteString(StyleBlue.Render(reps.Display()) + "\n")
	}
	if item.Intensity != "" {
		b.WriteString(Dim("Intensity: "+item.Intensity) + "\n")
	}
	for i, step := range item.Steps {
		b.WriteString(fmt.Sprintf("  %s %s\n", Dim(fmt.Sprintf("%d.", i+1)), step))
	}
	if item.Notes != "" {
		b.WriteString(Dim(item.Notes) + "\n")
	}
	return b.String()
}

// ChecklistTree maps checklist rows onto tree lines with duration badges.
func ChecklistTree(items []service.ItemView) []TreeItem {
	out := make([]TreeItem, 0, len(items))
	for i, it := range items {
		out = append(out, TreeItem{
			Title:     it.Name,
			Seq:       i + 1,
			Completed: it.Completed,
			Active:    it.Active,
			Detail:    it.DurationText,
		})
	}
	return out
}

// FormatStatusLine is the single-line summary printed after a mutation.
func FormatStatusLine(v *service.SessionView) string {
	parts := []string{
		StylePurple.Render(string(v.SessionType)),
		fmt.Sprintf("%d/%d", v.Progress.Completed, v.Progress.Total),
	}
	if v.Active != nil {
		parts = append(parts, StyleYellowBold.Render(v.Active.Name), TimerColor(v.Status).Render(v.TimerDisplay))
	}
	if v.Status != domain.TimerIdle {
		parts = append(parts, TimerIndicator(v.Status))
	}
	return strings.Join(parts, "  ")
}
