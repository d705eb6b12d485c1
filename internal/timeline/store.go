package timeline

import (
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/canteiro/internal/domain"
)

// TaskStore is the ordered task list of one project. Order is insertion
// order; it never sorts itself.
type TaskStore struct {
	projectID string
	tasks     []domain.TimelineTask
	nextSeq   int
	newID     func() string
	now       func() time.Time
}

func newTaskStore(projectID string, tasks []domain.TimelineTask, nextSeq int, newID func() string, now func() time.Time) *TaskStore {
	s := &TaskStore{
		projectID: projectID,
		tasks:     append([]domain.TimelineTask(nil), tasks...),
		nextSeq:   nextSeq,
		newID:     newID,
		now:       now,
	}
	for _, t := range s.tasks {
		if t.Seq >= s.nextSeq {
			s.nextSeq = t.Seq + 1
		}
	}
	if s.nextSeq < 1 {
		s.nextSeq = 1
	}
	return s
}

// AddTask validates the candidate, assigns a fresh id and appends it.
// On error the store is unchanged.
func (s *TaskStore) AddTask(d domain.TaskDraft) (domain.TimelineTask, error) {
	t, err := s.build(d)
	if err != nil {
		return domain.TimelineTask{}, err
	}
	s.nextSeq++
	s.tasks = append(s.tasks, *t)
	return *t, nil
}

// BulkImport adds every draft or none of them. Validation errors of all
// rows are reported together.
func (s *TaskStore) BulkImport(drafts []domain.TaskDraft) ([]domain.TimelineTask, error) {
	if len(drafts) == 0 {
		return nil, &domain.ValidationError{Field: "tasks", Message: "import contains no tasks"}
	}

	seq := s.nextSeq
	built := make([]domain.TimelineTask, 0, len(drafts))
	var errs domain.ValidationErrors
	for i, d := range drafts {
		t, err := s.build(d)
		if err != nil {
			errs = append(errs, fmt.Errorf("task[%d]: %w", i, err))
			continue
		}
		t.Seq = seq
		seq++
		built = append(built, *t)
	}
	if len(errs) > 0 {
		return nil, errs
	}

	s.nextSeq = seq
	s.tasks = append(s.tasks, built...)
	return append([]domain.TimelineTask(nil), built...), nil
}

func (s *TaskStore) build(d domain.TaskDraft) (*domain.TimelineTask, error) {
	t, err := domain.NewTask(s.newID(), s.projectID, d, s.now())
	if err != nil {
		return nil, err
	}
	t.Seq = s.nextSeq
	return t, nil
}

// UpdateTask shallow-merges patch over the task with the given id.
func (s *TaskStore) UpdateTask(id string, patch domain.TaskPatch) (domain.TimelineTask, error) {
	i := s.indexOf(id)
	if i < 0 {
		return domain.TimelineTask{}, &domain.NotFoundError{Entity: "task", ID: id}
	}
	if err := s.tasks[i].ApplyPatch(patch, s.now()); err != nil {
		return domain.TimelineTask{}, err
	}
	return s.tasks[i], nil
}

// DeleteTask removes the task and returns it.
func (s *TaskStore) DeleteTask(id string) (domain.TimelineTask, error) {
	i := s.indexOf(id)
	if i < 0 {
		return domain.TimelineTask{}, &domain.NotFoundError{Entity: "task", ID: id}
	}
	removed := s.tasks[i]
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	return removed, nil
}

// ListTasks returns a copy in insertion order.
func (s *TaskStore) ListTasks() []domain.TimelineTask {
	return append([]domain.TimelineTask(nil), s.tasks...)
}

func (s *TaskStore) Get(id string) (domain.TimelineTask, error) {
	i := s.indexOf(id)
	if i < 0 {
		return domain.TimelineTask{}, &domain.NotFoundError{Entity: "task", ID: id}
	}
	return s.tasks[i], nil
}

func (s *TaskStore) Len() int {
	return len(s.tasks)
}

// NextSeq is the display number the next added task will get.
func (s *TaskStore) NextSeq() int {
	return s.nextSeq
}

func (s *TaskStore) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// SortByStart returns a copy ordered by start date, then end date, then
// insertion order. It is a view helper and leaves the store alone.
func SortByStart(tasks []domain.TimelineTask) []domain.TimelineTask {
	out := append([]domain.TimelineTask(nil), tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.Before(b.StartDate)
		}
		return a.EndDate.Before(b.EndDate)
	})
	return out
}
