package formatter

import (
	"strings"
	"time"

	"github.com/alexanderramin/canteiro/internal/domain"
)

// FormatProjectList renders projects as a table.
func FormatProjectList(projects []*domain.Project, now time.Time) string {
	if len(projects) == 0 {
		return Dim("No projects found.") + "\n"
	}

	headers := []string{"ID", "NAME", "LOCATION", "STATUS", "START", "COMPLETION"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			StyleBlue.Render(p.DisplayID()),
			Bold(Truncate(p.Name, 36)),
			orDash(p.Location),
			StatusPill(p.Status),
			DisplayDate(p.StartDate),
			DisplayDate(p.PlannedCompletion) + " " + Dim("("+RelativeDateFrom(p.PlannedCompletion, now)+")"),
		})
	}
	return RenderTable(headers, rows)
}

// ProjectInspection is everything `project inspect` shows.
type ProjectInspection struct {
	Project   *domain.Project
	Tasks     []domain.TimelineTask
	Adherence domain.ScheduleAdherence
	Events    []domain.TimelineEvent
}

// FormatProjectInspect renders a project with its adherence, timeline and
// recent events.
func FormatProjectInspect(in ProjectInspection, now time.Time) string {
	p := in.Project

	var b strings.Builder
	b.WriteString(RenderKeyValues([]KV{
		{"Project", Bold(p.Name) + " " + StyleBlue.Render(p.DisplayID())},
		{"Location", orDash(p.Location)},
		{"Status", StatusPill(p.Status)},
		{"Start", DisplayDate(p.StartDate)},
		{"Completion", DisplayDate(p.PlannedCompletion)},
	}))

	b.WriteString("\n" + Header("Adherence") + "\n")
	b.WriteString(FormatAdherence(in.Adherence, p.PlannedCompletion))

	b.WriteString("\n" + Header("Timeline") + "\n")
	b.WriteString(FormatTaskList(in.Tasks, now))

	b.WriteString("\n" + Header("Recent events") + "\n")
	b.WriteString(FormatEvents(in.Events))

	return RenderBox("", b.String())
}
