package app

import (
	"github.com/alexanderramin/canteiro/internal/domain"
	"github.com/alexanderramin/canteiro/internal/interpreter"
)

// TaskResult is returned by every single-task write.
type TaskResult struct {
	Task      domain.TimelineTask
	Adherence domain.ScheduleAdherence
	Events    []domain.TimelineEvent // recorded by this call, oldest first
}

type ImportResult struct {
	ProjectID string
	Tasks     []domain.TimelineTask
	Adherence domain.ScheduleAdherence
}

// ReportResult describes what one field report did. Outcome is nil when
// the report matched nothing and the timeline is unchanged.
type ReportResult struct {
	Outcome   *interpreter.Outcome
	Adherence domain.ScheduleAdherence
}

func (r *ReportResult) Applied() bool {
	return r != nil && r.Outcome != nil
}

// ChatImportResult summarises a batch of reports applied in one
// transaction.
type ChatImportResult struct {
	Total     int
	Applied   int
	Ignored   int
	Outcomes  []interpreter.Outcome
	Adherence domain.ScheduleAdherence
}
