package domain

import "time"

// ScheduleAdherence is the derived snapshot of how a project's timeline is
// tracking. It is recomputed from the full task list on every write.
type ScheduleAdherence struct {
	DelayedTasksPercentage    int
	PlannedVsActualDifference int
	DynamicCompletionForecast time.Time
	OnTrack                   bool
	TotalTasks                int
	DelayedTasks              int
	ComputedAt                time.Time
}
