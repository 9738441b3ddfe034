package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/regimen/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// HumanDay renders a YYYY-MM-DD key relative to now ("Today", "Yesterday",
// or "Mon Jan 2"). Unparseable keys are returned unchanged.
func HumanDay(date string, now time.Time) string {
	d, err := time.ParseInLocation(domain.DateLayout, date, now.Location())
	if err != nil {
		return date
	}
	today := now.Format(domain.DateLayout)
	switch date {
	case today:
		return "Today"
	case now.AddDate(0, 0, -1).Format(domain.DateLayout):
		return "Yesterday"
	}
	return d.Format("Mon Jan 2")
}

// HumanTimestamp returns a human-friendly relative timestamp string.
func HumanTimestamp(t, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < 0:
		return t.Format("Jan 2 15:04")
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return t.Format("Jan 2 15:04")
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// FormatSeconds converts raw seconds into a short human form: "45s",
// "2m", "2m 30s", "1h 5m".
func FormatSeconds(sec int) string {
	if sec <= 0 {
		return "0s"
	}
	h := sec / 3600
	m := (sec % 3600) / 60
	s := sec % 60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	case m > 0 && s > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%ds", s)
}

// FormatDuration renders an elapsed duration with FormatSeconds.
func FormatDuration(d time.Duration) string {
	return FormatSeconds(int(d / time.Second))
}

// CheckMark returns the checklist glyph for an item.
func CheckMark(completed, active bool) string {
	switch {
	case completed:
		return StyleGreen.Render("✔")
	case active:
		return StyleYellowBold.Render("▶")
	default:
		return StyleDim.Render("○")
	}
}
