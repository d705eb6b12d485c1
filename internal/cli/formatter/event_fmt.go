package formatter

import (
	"strings"

	"github.com/alexanderramin/canteiro/internal/domain"
)

const delayMarker = "▲"

// FormatEvents renders an event feed, newest first, as stored.
func FormatEvents(events []domain.TimelineEvent) string {
	if len(events) == 0 {
		return Dim("No events recorded.") + "\n"
	}

	var b strings.Builder
	for i := range events {
		b.WriteString(formatEvent(&events[i]))
	}
	return b.String()
}

func formatEvent(e *domain.TimelineEvent) string {
	marker := StyleDim.Render("•")
	title := StyleFg.Render(e.Title)
	if e.IsDelayed {
		marker = StyleRed.Render(delayMarker)
		title = StyleRed.Render(e.Title)
	}

	var b strings.Builder
	b.WriteString(marker + " " + Dim(e.DisplayDate()) + "  " + title)
	if e.Source != "" && e.Source != domain.SourceManual {
		b.WriteString(" " + StylePurple.Render("["+string(e.Source)+"]"))
	}
	b.WriteString("\n")
	for _, line := range strings.Split(e.Description, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.WriteString("    " + Dim(line) + "\n")
	}
	return b.String()
}
