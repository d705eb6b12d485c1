package adherence

import (
	"sort"
	"time"

	"github.com/alexanderramin/canteiro/internal/domain"
)

// CriticalDelayedPct is the delayed share at which a project is critical.
const CriticalDelayedPct = 25

type RiskInput struct {
	Snapshot  domain.ScheduleAdherence
	Now       time.Time
	OpenTasks int // tasks not yet completed
}

// Risk classifies a snapshot for the dashboard.
func Risk(input RiskInput) domain.RiskLevel {
	s := input.Snapshot

	// Past the forecast with work still open.
	if input.OpenTasks > 0 && !s.DynamicCompletionForecast.IsZero() &&
		domain.DateOnly(input.Now).After(s.DynamicCompletionForecast) {
		return domain.RiskCritical
	}

	switch {
	case s.DelayedTasksPercentage >= CriticalDelayedPct:
		return domain.RiskCritical
	case !s.OnTrack:
		return domain.RiskAtRisk
	case s.PlannedVsActualDifference > 0:
		return domain.RiskAtRisk
	default:
		return domain.RiskOnTrack
	}
}

// RiskPriority returns a sort priority (lower = more urgent).
func RiskPriority(r domain.RiskLevel) int {
	switch r {
	case domain.RiskCritical:
		return 0
	case domain.RiskAtRisk:
		return 1
	default:
		return 2
	}
}

// Ranked pairs a project with its computed risk for sorting.
type Ranked struct {
	ProjectID string
	Name      string
	Risk      domain.RiskLevel
	Snapshot  domain.ScheduleAdherence
}

// SortByRisk orders by risk, then delayed share (higher first), then name.
func SortByRisk(items []Ranked) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if pa, pb := RiskPriority(a.Risk), RiskPriority(b.Risk); pa != pb {
			return pa < pb
		}
		if a.Snapshot.DelayedTasksPercentage != b.Snapshot.DelayedTasksPercentage {
			return a.Snapshot.DelayedTasksPercentage > b.Snapshot.DelayedTasksPercentage
		}
		return a.Name < b.Name
	})
}
