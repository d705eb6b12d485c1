package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	MinProgress = 0
	MaxProgress = 100
)

// TimelineTask is one schedulable unit of construction work.
type TimelineTask struct {
	ID                string
	ProjectID         string
	Seq               int // project-scoped display number, also the insertion order
	Name              string
	StartDate         time.Time
	EndDate           time.Time
	ResponsiblePerson string
	Progress          int
	Status            TaskStatus
	Description       string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TaskDraft is the candidate passed to AddTask. Progress and Status are
// optional overrides of the not_started/0 defaults.
type TaskDraft struct {
	Name              string
	StartDate         time.Time
	EndDate           time.Time
	ResponsiblePerson string
	Description       string
	Progress          *int
	Status            *TaskStatus
}

// TaskPatch is a shallow merge over an existing task; nil fields are kept.
type TaskPatch struct {
	Name              *string
	StartDate         *time.Time
	EndDate           *time.Time
	ResponsiblePerson *string
	Description       *string
	Progress          *int
	Status            *TaskStatus
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Name == nil && p.StartDate == nil && p.EndDate == nil &&
		p.ResponsiblePerson == nil && p.Description == nil &&
		p.Progress == nil && p.Status == nil
}

// Validate checks required fields in the order a form shows them.
func (d TaskDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if d.StartDate.IsZero() {
		return &ValidationError{Field: "start_date", Message: "is required"}
	}
	if d.EndDate.IsZero() {
		return &ValidationError{Field: "end_date", Message: "is required"}
	}
	if strings.TrimSpace(d.ResponsiblePerson) == "" {
		return &ValidationError{Field: "responsible_person", Message: "is required"}
	}
	if d.EndDate.Before(d.StartDate) {
		return &ValidationError{Field: "end_date", Message: "must not be before start_date"}
	}
	return nil
}

// NewTask builds a task from a validated draft.
func NewTask(id, projectID string, d TaskDraft, now time.Time) (*TimelineTask, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	progress, status, err := resolveProgressAndStatus(StatusNotStarted, 0, d.Progress, d.Status)
	if err != nil {
		return nil, err
	}
	if err := Advance(id, StatusNotStarted, status); err != nil {
		return nil, err
	}
	return &TimelineTask{
		ID:                id,
		ProjectID:         projectID,
		Name:              strings.TrimSpace(d.Name),
		StartDate:         DateOnly(d.StartDate),
		EndDate:           DateOnly(d.EndDate),
		ResponsiblePerson: strings.TrimSpace(d.ResponsiblePerson),
		Progress:          progress,
		Status:            status,
		Description:       d.Description,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// ApplyPatch merges p into t. On error t is left untouched.
func (t *TimelineTask) ApplyPatch(p TaskPatch, now time.Time) error {
	next := *t

	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			return &ValidationError{Field: "name", Message: "must not be empty"}
		}
		next.Name = strings.TrimSpace(*p.Name)
	}
	if p.ResponsiblePerson != nil {
		if strings.TrimSpace(*p.ResponsiblePerson) == "" {
			return &ValidationError{Field: "responsible_person", Message: "must not be empty"}
		}
		next.ResponsiblePerson = strings.TrimSpace(*p.ResponsiblePerson)
	}
	if p.StartDate != nil {
		next.StartDate = DateOnly(*p.StartDate)
	}
	if p.EndDate != nil {
		next.EndDate = DateOnly(*p.EndDate)
	}
	if next.EndDate.Before(next.StartDate) {
		return &ValidationError{Field: "end_date", Message: "must not be before start_date"}
	}
	if p.Description != nil {
		next.Description = *p.Description
	}

	// A requested status must be reachable before progress rules apply.
	if p.Status != nil && p.Status.IsValid() {
		if err := Advance(t.ID, t.Status, *p.Status); err != nil {
			return err
		}
	}
	progress, status, err := resolveProgressAndStatus(t.Status, t.Progress, p.Progress, p.Status)
	if err != nil {
		return err
	}
	if err := Advance(t.ID, t.Status, status); err != nil {
		return err
	}
	next.Progress = progress
	next.Status = status
	next.UpdatedAt = now

	*t = next
	return nil
}

// AppendNote adds a line to the description without discarding history.
func (t *TimelineTask) AppendNote(note string) {
	if t.Description == "" {
		t.Description = note
		return
	}
	t.Description = t.Description + "\n" + note
}

// resolveProgressAndStatus merges requested progress/status over the
// current values and enforces completed <=> 100 and not_started => 0.
// When only progress is given the status follows it.
func resolveProgressAndStatus(curStatus TaskStatus, curProgress int, reqProgress *int, reqStatus *TaskStatus) (int, TaskStatus, error) {
	progress := curProgress
	if reqProgress != nil {
		progress = *reqProgress
	}
	if progress < MinProgress || progress > MaxProgress {
		return 0, "", &ValidationError{
			Field:   "progress",
			Message: fmt.Sprintf("must be between %d and %d, got %d", MinProgress, MaxProgress, progress),
		}
	}

	if reqStatus == nil {
		status := curStatus
		switch {
		case progress == MaxProgress:
			status = StatusCompleted
		case curStatus == StatusCompleted:
			return 0, "", &ValidationError{
				Field:   "progress",
				Message: "of a completed task is fixed at 100",
				Err:     ErrInvalidTransition,
			}
		case curStatus == StatusNotStarted && progress > MinProgress:
			status = StatusInProgress
		}
		return progress, status, nil
	}

	status := *reqStatus
	if !status.IsValid() {
		return 0, "", &ValidationError{Field: "status", Message: fmt.Sprintf("invalid value %q", status)}
	}

	switch status {
	case StatusCompleted:
		if reqProgress == nil {
			progress = MaxProgress
		}
		if progress != MaxProgress {
			return 0, "", &ValidationError{Field: "progress", Message: "must be 100 for a completed task"}
		}
	case StatusNotStarted:
		if progress != MinProgress {
			return 0, "", &ValidationError{Field: "progress", Message: "must be 0 for a task that has not started"}
		}
	default:
		if progress == MaxProgress {
			return 0, "", &ValidationError{Field: "progress", Message: fmt.Sprintf("of 100 requires status completed, not %s", status)}
		}
	}
	return progress, status, nil
}
