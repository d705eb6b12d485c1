package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/canteiro/internal/domain"
)

// ValidateImportSchema checks every row before conversion and returns all
// problems found, each prefixed with the row it belongs to.
func ValidateImportSchema(schema *ImportSchema) []error {
	if len(schema.Tasks) == 0 {
		return []error{fmt.Errorf("tasks: at least one task is required")}
	}

	var errs []error
	for i := range schema.Tasks {
		errs = append(errs, validateTask(i, &schema.Tasks[i])...)
	}
	return errs
}

func validateTask(i int, t *TaskImport) []error {
	var errs []error
	prefix := fmt.Sprintf("tasks[%d]", i)

	if strings.TrimSpace(t.Name) == "" {
		errs = append(errs, fmt.Errorf("%s.name is required", prefix))
	}
	if strings.TrimSpace(t.ResponsiblePerson) == "" {
		errs = append(errs, fmt.Errorf("%s.responsible_person is required", prefix))
	}

	start, startErr := validateDate(prefix+".start_date", t.StartDate)
	if startErr != nil {
		errs = append(errs, startErr)
	}
	end, endErr := validateDate(prefix+".end_date", t.EndDate)
	if endErr != nil {
		errs = append(errs, endErr)
	}
	if startErr == nil && endErr == nil && end.Before(start) {
		errs = append(errs, fmt.Errorf("%s.end_date %q must not be before start_date %q", prefix, t.EndDate, t.StartDate))
	}

	if t.Progress != nil && (*t.Progress < domain.MinProgress || *t.Progress > domain.MaxProgress) {
		errs = append(errs, fmt.Errorf("%s.progress must be between 0 and 100, got %d", prefix, *t.Progress))
	}
	if t.Status != "" {
		if _, err := domain.ParseTaskStatus(t.Status); err != nil {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, t.Status))
		}
	}

	return errs
}

func validateDate(field, value string) (date time.Time, err error) {
	if strings.TrimSpace(value) == "" {
		return date, fmt.Errorf("%s is required", field)
	}
	date, err = domain.ParseDate(value)
	if err != nil {
		return date, fmt.Errorf("%s: %w", field, err)
	}
	return date, nil
}
