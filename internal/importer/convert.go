package importer

import (
	"fmt"

	"github.com/alexanderramin/canteiro/internal/domain"
)

// Convert turns a validated schema into task drafts in file order.
// Call ValidateImportSchema first; Convert assumes the schema is valid.
func Convert(schema *ImportSchema) ([]domain.TaskDraft, error) {
	drafts := make([]domain.TaskDraft, 0, len(schema.Tasks))
	for i, t := range schema.Tasks {
		start, err := domain.ParseDate(t.StartDate)
		if err != nil {
			return nil, fmt.Errorf("tasks[%d].start_date: %w", i, err)
		}
		end, err := domain.ParseDate(t.EndDate)
		if err != nil {
			return nil, fmt.Errorf("tasks[%d].end_date: %w", i, err)
		}

		d := domain.TaskDraft{
			Name:              t.Name,
			StartDate:         start,
			EndDate:           end,
			ResponsiblePerson: t.ResponsiblePerson,
			Description:       t.Description,
		}
		if t.Progress != nil {
			p := *t.Progress
			d.Progress = &p
		}
		if t.Status != "" {
			st := domain.TaskStatus(t.Status)
			d.Status = &st
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}
