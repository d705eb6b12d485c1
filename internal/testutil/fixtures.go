package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/canteiro/internal/domain"
	"github.com/google/uuid"
)

var (
	testShortIDCounter atomic.Int64
	testTaskSeqCounter atomic.Int64
)

// Project options
type ProjectOption func(*domain.Project)

func WithPlannedCompletion(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.PlannedCompletion = d
	}
}

func WithProjectStart(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.StartDate = d
	}
}

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithShortID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ShortID = id
	}
}

func WithLocation(loc string) ProjectOption {
	return func(p *domain.Project) {
		p.Location = loc
	}
}

func defaultShortID(name string) string {
	upper := strings.ToUpper(name)
	var letters []byte
	for i := 0; i < len(upper) && len(letters) < 3; i++ {
		if upper[i] >= 'A' && upper[i] <= 'Z' {
			letters = append(letters, upper[i])
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	n := testShortIDCounter.Add(1)
	return fmt.Sprintf("%s%02d", string(letters), n)
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC().Truncate(time.Second)
	start := domain.DateOnly(now.AddDate(0, -1, 0))
	p := &domain.Project{
		ID:                uuid.New().String(),
		ShortID:           defaultShortID(name),
		Name:              name,
		Location:          "São Paulo",
		StartDate:         start,
		PlannedCompletion: start.AddDate(0, 10, 0),
		Status:            domain.ProjectActive,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Task options
type TaskOption func(*domain.TimelineTask)

// WithStatus sets the status and, for the two statuses that pin progress,
// the matching progress.
func WithStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.TimelineTask) {
		t.Status = s
		switch s {
		case domain.StatusCompleted:
			t.Progress = domain.MaxProgress
		case domain.StatusNotStarted:
			t.Progress = domain.MinProgress
		}
	}
}

func WithProgress(p int) TaskOption {
	return func(t *domain.TimelineTask) {
		t.Progress = p
	}
}

func WithDates(start, end time.Time) TaskOption {
	return func(t *domain.TimelineTask) {
		t.StartDate = domain.DateOnly(start)
		t.EndDate = domain.DateOnly(end)
	}
}

func WithResponsible(name string) TaskOption {
	return func(t *domain.TimelineTask) {
		t.ResponsiblePerson = name
	}
}

func WithSeq(seq int) TaskOption {
	return func(t *domain.TimelineTask) {
		t.Seq = seq
	}
}

func WithDescription(d string) TaskOption {
	return func(t *domain.TimelineTask) {
		t.Description = d
	}
}

func NewTestTask(projectID, name string, opts ...TaskOption) *domain.TimelineTask {
	now := time.Now().UTC().Truncate(time.Second)
	start := domain.DateOnly(now)
	t := &domain.TimelineTask{
		ID:                uuid.New().String(),
		ProjectID:         projectID,
		Seq:               int(testTaskSeqCounter.Add(1)),
		Name:              name,
		StartDate:         start,
		EndDate:           start.AddDate(0, 0, 14),
		ResponsiblePerson: "João",
		Status:            domain.StatusNotStarted,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Event options
type EventOption func(*domain.TimelineEvent)

func WithEventTask(taskID string) EventOption {
	return func(e *domain.TimelineEvent) {
		e.TaskID = &taskID
	}
}

func WithDelayed() EventOption {
	return func(e *domain.TimelineEvent) {
		e.IsDelayed = true
	}
}

func WithSource(s domain.EventSource) EventOption {
	return func(e *domain.TimelineEvent) {
		e.Source = s
	}
}

func WithOccurredAt(at time.Time) EventOption {
	return func(e *domain.TimelineEvent) {
		e.OccurredAt = at
	}
}

func NewTestEvent(projectID, title string, opts ...EventOption) *domain.TimelineEvent {
	e := &domain.TimelineEvent{
		ID:         uuid.Must(uuid.NewV7()).String(),
		ProjectID:  projectID,
		OccurredAt: time.Now().UTC().Truncate(time.Second),
		Title:      title,
		Source:     domain.SourceManual,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
