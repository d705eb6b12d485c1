package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/canteiro/internal/domain"
)

// FormatAdherence renders a schedule adherence snapshot as a detail block.
func FormatAdherence(a domain.ScheduleAdherence, planned time.Time) string {
	slip := StyleGreen.Render("0 days")
	if a.PlannedVsActualDifference > 0 {
		slip = StyleRed.Render(fmt.Sprintf("+%d days", a.PlannedVsActualDifference))
	}

	delayed := fmt.Sprintf("%d%% (%d of %d tasks)", a.DelayedTasksPercentage, a.DelayedTasks, a.TotalTasks)
	switch {
	case a.DelayedTasks == 0:
		delayed = StyleGreen.Render(delayed)
	case !a.OnTrack:
		delayed = StyleRed.Render(delayed)
	default:
		delayed = StyleYellow.Render(delayed)
	}

	return RenderKeyValues([]KV{
		{"Verdict", OnTrackBadge(a.OnTrack)},
		{"Delayed", delayed},
		{"Planned", DisplayDate(planned)},
		{"Forecast", DisplayDate(a.DynamicCompletionForecast)},
		{"Slip", slip},
	})
}

// FormatAdherenceLine is the one-line summary printed after a write.
func FormatAdherenceLine(a domain.ScheduleAdherence) string {
	parts := []string{
		OnTrackBadge(a.OnTrack),
		fmt.Sprintf("%d%% delayed", a.DelayedTasksPercentage),
		"forecast " + DisplayDate(a.DynamicCompletionForecast),
	}
	if a.PlannedVsActualDifference > 0 {
		parts = append(parts, StyleRed.Render(fmt.Sprintf("+%dd", a.PlannedVsActualDifference)))
	}
	return strings.Join(parts, Dim(" · "))
}
