package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/canteiro/internal/app"
)

const statusProgressBarWidth = 10

// FormatStatus renders the cross-project dashboard.
func FormatStatus(resp *app.StatusResponse) string {
	var b strings.Builder

	headers := []string{"ID", "NAME", "PROGRESS", "DELAYED", "RISK", "FORECAST"}
	rows := make([][]string, 0, len(resp.Projects))
	now := resp.Summary.GeneratedAt

	for _, p := range resp.Projects {
		delayed := fmt.Sprintf("%d/%d (%d%%)", p.DelayedTasks, p.TotalTasks, p.DelayedPct)
		if p.DelayedTasks > 0 {
			delayed = RiskColor(p.RiskLevel).Render(delayed)
		} else {
			delayed = Dim(delayed)
		}

		forecast := Dim("--")
		if !p.Forecast.IsZero() {
			forecast = DisplayDate(p.Forecast) + " " + RelativeDateStyled(p.Forecast, now)
			if p.SlipDays > 0 {
				forecast += " " + StyleRed.Render(fmt.Sprintf("+%dd", p.SlipDays))
			}
		}

		rows = append(rows, []string{
			StyleBlue.Render(p.ShortID),
			Bold(Truncate(p.ProjectName, 32)),
			RenderProgress(p.AvgProgressPct, statusProgressBarWidth),
			delayed,
			RiskIndicator(p.RiskLevel),
			forecast,
		})
	}

	b.WriteString(RenderTable(headers, rows))

	summary := resp.Summary
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s, %s, %s\n",
		StyleRed.Render(fmt.Sprintf("%d Critical", summary.CountsCritical)),
		StyleYellow.Render(fmt.Sprintf("%d At Risk", summary.CountsAtRisk)),
		StyleGreen.Render(fmt.Sprintf("%d On Track", summary.CountsOnTrack))))

	if summary.PolicyMessage != "" {
		b.WriteString("\n" + Dim(summary.PolicyMessage) + "\n")
	}

	var notes []string
	for _, p := range resp.Projects {
		for _, n := range p.Notes {
			notes = append(notes, fmt.Sprintf("  %s: %s", p.ShortID, n))
		}
	}
	if len(notes) > 0 {
		b.WriteString("\n" + strings.Join(notes, "\n") + "\n")
	}

	if len(resp.Warnings) > 0 {
		b.WriteString("\n")
		for _, w := range resp.Warnings {
			b.WriteString(StyleYellow.Render("  WARNING: "+w) + "\n")
		}
	}

	return RenderBox("Status", b.String())
}
