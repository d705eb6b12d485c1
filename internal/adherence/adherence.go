package adherence

import (
	"math"
	"time"

	"github.com/alexanderramin/canteiro/internal/domain"
)

// Default heuristic constants. The slip is not derived from real task
// durations: each delayed task is assumed to cost a fixed number of days.
const (
	DefaultSlipDaysPerDelayedTask = 2.5
	DefaultOnTrackThresholdPct    = 10
)

// Policy tunes the adherence heuristic.
type Policy struct {
	SlipDaysPerDelayedTask float64
	OnTrackThresholdPct    int
}

func DefaultPolicy() Policy {
	return Policy{
		SlipDaysPerDelayedTask: DefaultSlipDaysPerDelayedTask,
		OnTrackThresholdPct:    DefaultOnTrackThresholdPct,
	}
}

func (p Policy) orDefault() Policy {
	d := DefaultPolicy()
	if p.SlipDaysPerDelayedTask > 0 {
		d.SlipDaysPerDelayedTask = p.SlipDaysPerDelayedTask
	}
	if p.OnTrackThresholdPct > 0 {
		d.OnTrackThresholdPct = p.OnTrackThresholdPct
	}
	return d
}

// Compute derives a ScheduleAdherence snapshot from the full task list.
// It has no side effects; planned is the project's original planned
// completion date and now only stamps ComputedAt.
func Compute(tasks []domain.TimelineTask, planned time.Time, policy Policy, now time.Time) domain.ScheduleAdherence {
	policy = policy.orDefault()

	total := len(tasks)
	delayed := 0
	for i := range tasks {
		if tasks[i].Status == domain.StatusDelayed {
			delayed++
		}
	}

	pct := 0
	if total > 0 {
		pct = int(math.Round(100 * float64(delayed) / float64(total)))
	}

	diff := SlipDays(delayed, policy)

	forecast := domain.DateOnly(planned)
	if diff > 0 {
		forecast = domain.AddDays(forecast, diff)
	}

	return domain.ScheduleAdherence{
		DelayedTasksPercentage:    pct,
		PlannedVsActualDifference: diff,
		DynamicCompletionForecast: forecast,
		OnTrack:                   pct < policy.OnTrackThresholdPct,
		TotalTasks:                total,
		DelayedTasks:              delayed,
		ComputedAt:                now,
	}
}

// SlipDays is max(1, round(delayed*slip)) for delayed > 0, else 0.
func SlipDays(delayed int, policy Policy) int {
	if delayed <= 0 {
		return 0
	}
	policy = policy.orDefault()
	days := int(math.Round(float64(delayed) * policy.SlipDaysPerDelayedTask))
	if days < 1 {
		return 1
	}
	return days
}
