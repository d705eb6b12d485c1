package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/canteiro/internal/domain"
)

const taskProgressBarWidth = 10

// FormatTaskList renders the timeline as a table. Tasks past their end
// date and not completed get a red end date.
func FormatTaskList(tasks []domain.TimelineTask, now time.Time) string {
	if len(tasks) == 0 {
		return Dim("No tasks on the timeline.") + "\n"
	}

	headers := []string{"#", "TASK", "STATUS", "PROGRESS", "START", "END", "OWNER"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		end := DisplayDate(t.EndDate)
		if t.Status != domain.StatusCompleted && domain.DateOnly(now).After(t.EndDate) {
			end = StyleRed.Render(end)
		}
		owner := t.ResponsiblePerson
		if owner == "" {
			owner = Dim("--")
		}
		rows = append(rows, []string{
			Dim(fmt.Sprintf("%d", t.Seq)),
			Bold(Truncate(t.Name, 40)),
			TaskStatusPill(t.Status),
			RenderProgress(t.Progress, taskProgressBarWidth),
			DisplayDate(t.StartDate),
			end,
			owner,
		})
	}
	return RenderTable(headers, rows)
}

// FormatTaskDetail renders one task with its notes.
func FormatTaskDetail(t domain.TimelineTask, now time.Time) string {
	var b strings.Builder
	b.WriteString(RenderKeyValues([]KV{
		{"Task", Bold(t.Name) + " " + Dim(fmt.Sprintf("#%d", t.Seq))},
		{"ID", TruncID(t.ID)},
		{"Status", TaskStatusPill(t.Status)},
		{"Progress", RenderProgress(t.Progress, 20)},
		{"Start", DisplayDate(t.StartDate)},
		{"End", DisplayDate(t.EndDate) + " " + Dim("("+RelativeDateFrom(t.EndDate, now)+")")},
		{"Owner", orDash(t.ResponsiblePerson)},
		{"Updated", HumanTimestamp(t.UpdatedAt, now)},
	}))
	if strings.TrimSpace(t.Description) != "" {
		b.WriteString("\n" + Header("Notes") + "\n")
		b.WriteString(t.Description + "\n")
	}
	return RenderBox("", b.String())
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return Dim("--")
	}
	return s
}
