package adherence

import (
	"testing"
	"time"

	"github.com/alexanderramin/canteiro/internal/domain"
	"github.com/stretchr/testify/assert"
)

var (
	planned = time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	now     = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
)

func tasksWithStatuses(statuses ...domain.TaskStatus) []domain.TimelineTask {
	tasks := make([]domain.TimelineTask, len(statuses))
	for i, s := range statuses {
		tasks[i] = domain.TimelineTask{ID: string(rune('a' + i)), Status: s}
	}
	return tasks
}

func TestCompute_EmptyStore(t *testing.T) {
	got := Compute(nil, planned, DefaultPolicy(), now)

	assert.Equal(t, 0, got.DelayedTasksPercentage)
	assert.Equal(t, 0, got.PlannedVsActualDifference)
	assert.True(t, got.OnTrack)
	assert.Equal(t, planned, got.DynamicCompletionForecast)
	assert.Equal(t, now, got.ComputedAt)
}

func TestCompute_OneOfFourDelayed(t *testing.T) {
	tasks := tasksWithStatuses(
		domain.StatusCompleted,
		domain.StatusInProgress,
		domain.StatusDelayed,
		domain.StatusNotStarted,
	)
	got := Compute(tasks, planned, DefaultPolicy(), now)

	assert.Equal(t, 25, got.DelayedTasksPercentage)
	assert.Equal(t, 3, got.PlannedVsActualDifference) // round(2.5) half away from zero
	assert.Equal(t, time.Date(2025, 12, 4, 0, 0, 0, 0, time.UTC), got.DynamicCompletionForecast)
	assert.False(t, got.OnTrack)
	assert.Equal(t, 4, got.TotalTasks)
	assert.Equal(t, 1, got.DelayedTasks)
}

func TestCompute_AllDelayed(t *testing.T) {
	tasks := tasksWithStatuses(domain.StatusDelayed, domain.StatusDelayed, domain.StatusDelayed)
	got := Compute(tasks, planned, DefaultPolicy(), now)

	assert.Equal(t, 100, got.DelayedTasksPercentage)
	assert.Equal(t, 8, got.PlannedVsActualDifference) // round(7.5)
	assert.False(t, got.OnTrack)
}

func TestCompute_BelowThresholdStillSlips(t *testing.T) {
	statuses := make([]domain.TaskStatus, 20)
	for i := range statuses {
		statuses[i] = domain.StatusInProgress
	}
	statuses[7] = domain.StatusDelayed
	got := Compute(tasksWithStatuses(statuses...), planned, DefaultPolicy(), now)

	assert.Equal(t, 5, got.DelayedTasksPercentage)
	assert.True(t, got.OnTrack)
	assert.Equal(t, 3, got.PlannedVsActualDifference)
}

func TestCompute_PercentageRounding(t *testing.T) {
	// 1 of 3 = 33.33 -> 33; 2 of 3 = 66.67 -> 67
	got := Compute(tasksWithStatuses(domain.StatusDelayed, domain.StatusInProgress, domain.StatusInProgress), planned, DefaultPolicy(), now)
	assert.Equal(t, 33, got.DelayedTasksPercentage)

	got = Compute(tasksWithStatuses(domain.StatusDelayed, domain.StatusDelayed, domain.StatusInProgress), planned, DefaultPolicy(), now)
	assert.Equal(t, 67, got.DelayedTasksPercentage)
}

func TestCompute_PercentageAlwaysInRange(t *testing.T) {
	all := domain.AllTaskStatuses()
	for n := 0; n <= 12; n++ {
		for delayed := 0; delayed <= n; delayed++ {
			statuses := make([]domain.TaskStatus, n)
			for i := range statuses {
				if i < delayed {
					statuses[i] = domain.StatusDelayed
				} else {
					statuses[i] = all[i%len(all)]
					if statuses[i] == domain.StatusDelayed {
						statuses[i] = domain.StatusCompleted
					}
				}
			}
			got := Compute(tasksWithStatuses(statuses...), planned, DefaultPolicy(), now)
			assert.GreaterOrEqual(t, got.DelayedTasksPercentage, 0)
			assert.LessOrEqual(t, got.DelayedTasksPercentage, 100)
			assert.Equal(t, delayed, got.DelayedTasks, "n=%d", n)
		}
	}
}

func TestCompute_ForecastMonotoneInDelayedCount(t *testing.T) {
	const n = 10
	prevDiff := -1
	prevForecast := time.Time{}
	for delayed := 0; delayed <= n; delayed++ {
		statuses := make([]domain.TaskStatus, n)
		for i := range statuses {
			statuses[i] = domain.StatusInProgress
			if i < delayed {
				statuses[i] = domain.StatusDelayed
			}
		}
		got := Compute(tasksWithStatuses(statuses...), planned, DefaultPolicy(), now)

		assert.GreaterOrEqual(t, got.PlannedVsActualDifference, prevDiff, "delayed=%d", delayed)
		assert.False(t, got.DynamicCompletionForecast.Before(prevForecast), "delayed=%d", delayed)
		prevDiff = got.PlannedVsActualDifference
		prevForecast = got.DynamicCompletionForecast
	}
}

func TestSlipDays_MinimumOneDay(t *testing.T) {
	assert.Equal(t, 0, SlipDays(0, DefaultPolicy()))
	assert.Equal(t, 1, SlipDays(1, Policy{SlipDaysPerDelayedTask: 0.2}))
	assert.Equal(t, 5, SlipDays(2, DefaultPolicy()))
}

func TestCompute_CustomPolicy(t *testing.T) {
	tasks := tasksWithStatuses(domain.StatusDelayed, domain.StatusInProgress, domain.StatusInProgress, domain.StatusInProgress,
		domain.StatusInProgress, domain.StatusInProgress, domain.StatusInProgress, domain.StatusInProgress)
	got := Compute(tasks, planned, Policy{SlipDaysPerDelayedTask: 4, OnTrackThresholdPct: 20}, now)

	assert.Equal(t, 13, got.DelayedTasksPercentage) // 12.5 -> 13
	assert.Equal(t, 4, got.PlannedVsActualDifference)
	assert.True(t, got.OnTrack)
}
