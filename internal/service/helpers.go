package service

import (
	"fmt"

	"github.com/alexanderramin/canteiro/internal/domain"
)

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return &domain.ValidationError{Message: msg, Err: domain.ValidationErrors(errs)}
}

// filterProjectsByScope returns only projects whose ID is in scope.
// If scope is empty, all projects are returned unchanged.
func filterProjectsByScope(projects []*domain.Project, scope []string) []*domain.Project {
	if len(scope) == 0 {
		return projects
	}
	scopeSet := make(map[string]bool, len(scope))
	for _, id := range scope {
		scopeSet[id] = true
	}
	var filtered []*domain.Project
	for _, p := range projects {
		if scopeSet[p.ID] {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func derefTasks(ptrs []*domain.TimelineTask) []domain.TimelineTask {
	out := make([]domain.TimelineTask, 0, len(ptrs))
	for _, t := range ptrs {
		out = append(out, *t)
	}
	return out
}

func derefEvents(ptrs []*domain.TimelineEvent) []domain.TimelineEvent {
	out := make([]domain.TimelineEvent, 0, len(ptrs))
	for _, e := range ptrs {
		out = append(out, *e)
	}
	return out
}

// taskChanged reports whether a persisted row needs rewriting.
func taskChanged(a, b domain.TimelineTask) bool {
	return a.Name != b.Name ||
		!a.StartDate.Equal(b.StartDate) ||
		!a.EndDate.Equal(b.EndDate) ||
		a.ResponsiblePerson != b.ResponsiblePerson ||
		a.Progress != b.Progress ||
		a.Status != b.Status ||
		a.Description != b.Description ||
		!a.UpdatedAt.Equal(b.UpdatedAt)
}
