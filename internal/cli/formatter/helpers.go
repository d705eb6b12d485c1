package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/canteiro/internal/domain"
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
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// RelativeDateFrom returns a human-friendly distance between two calendar
// days, e.g. "In 3d" or "2w ago".
func RelativeDateFrom(t time.Time, now time.Time) string {
	days := daysBetween(now, t)

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// RelativeDateStyled colors RelativeDateFrom by urgency.
func RelativeDateStyled(t time.Time, now time.Time) string {
	text := RelativeDateFrom(t, now)
	days := daysBetween(now, t)

	switch {
	case days < 0, days <= 2:
		return StyleRed.Render(text)
	case days <= 7:
		return StyleYellow.Render(text)
	default:
		return StyleFg.Render(text)
	}
}

func daysBetween(from, to time.Time) int {
	return int(math.Round(domain.DateOnly(to).Sub(domain.DateOnly(from)).Hours() / 24))
}

// DisplayDate renders a calendar date as dd/mm/yyyy, or "--" when unset.
func DisplayDate(t time.Time) string {
	if t.IsZero() {
		return "--"
	}
	return t.Format(domain.DisplayDateLayout)
}

// HumanTimestamp returns a relative timestamp for recent moments and the
// display date otherwise.
func HumanTimestamp(t time.Time, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < 0:
		return DisplayDate(t)
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return DisplayDate(t)
	}
}

// StatusPill returns a colored indicator for project status.
func StatusPill(status domain.ProjectStatus) string {
	switch status {
	case domain.ProjectActive:
		return StyleGreen.Render("● Active")
	case domain.ProjectPaused:
		return StyleYellow.Render("○ Paused")
	case domain.ProjectDone:
		return StyleDim.Render("✔ Done")
	case domain.ProjectArchived:
		return StyleDim.Render("✖ Archived")
	default:
		return StyleDim.Render(string(status))
	}
}

// TaskStatusPill returns a colored indicator for task status.
func TaskStatusPill(status domain.TaskStatus) string {
	switch status {
	case domain.StatusNotStarted:
		return StyleBlue.Render("○ " + status.Label())
	case domain.StatusInProgress:
		return StyleGreen.Render("● " + status.Label())
	case domain.StatusDelayed:
		return StyleRed.Render("▲ " + status.Label())
	case domain.StatusCompleted:
		return StyleDim.Render("✔ " + status.Label())
	default:
		return StyleDim.Render(string(status))
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Truncate shortens s to max runes, marking the cut with an ellipsis.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max || max < 2 {
		return s
	}
	return string(r[:max-1]) + "…"
}
