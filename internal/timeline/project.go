package timeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/canteiro/internal/adherence"
	"github.com/alexanderramin/canteiro/internal/domain"
	"github.com/alexanderramin/canteiro/internal/interpreter"
	"github.com/google/uuid"
)

// DefaultMaxEvents caps a project's event log unless configured otherwise.
const DefaultMaxEvents = 500

// Project is the aggregate: one task store, one adherence snapshot and one
// event log. It is not safe for concurrent use; hosts serialise access.
type Project struct {
	meta      domain.Project
	store     *TaskStore
	log       *EventLog
	adherence domain.ScheduleAdherence

	// events appended since the last DrainEvents, oldest first
	pending []domain.TimelineEvent

	opts options
}

type options struct {
	now         func() time.Time
	newTaskID   func() string
	newEventID  func() string
	policy      adherence.Policy
	interpreter *interpreter.Interpreter
	maxEvents   int
}

type Option func(*options)

// WithClock sets the time source used for timestamps and the adherence
// snapshot.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithTaskIDs(gen func() string) Option {
	return func(o *options) { o.newTaskID = gen }
}

func WithEventIDs(gen func() string) Option {
	return func(o *options) { o.newEventID = gen }
}

func WithPolicy(p adherence.Policy) Option {
	return func(o *options) { o.policy = p }
}

func WithInterpreter(in *interpreter.Interpreter) Option {
	return func(o *options) { o.interpreter = in }
}

// WithMaxEvents caps the event log; zero disables the cap.
func WithMaxEvents(n int) Option {
	return func(o *options) { o.maxEvents = n }
}

func defaultOptions() options {
	return options{
		now:        time.Now,
		newTaskID:  uuid.NewString,
		newEventID: newEventID,
		policy:     adherence.DefaultPolicy(),
		maxEvents:  DefaultMaxEvents,
	}
}

// newEventID returns a time-ordered UUIDv7, falling back to v4.
func newEventID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// New creates an empty aggregate for a project.
func New(meta domain.Project, opts ...Option) *Project {
	return Restore(meta, nil, nil, 1, opts...)
}

// Restore rebuilds an aggregate from persisted state. Tasks are in
// insertion order, events newest first. nextSeq is the display number the
// next task will get.
func Restore(meta domain.Project, tasks []domain.TimelineTask, events []domain.TimelineEvent, nextSeq int, opts ...Option) *Project {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.interpreter == nil {
		o.interpreter = interpreter.New(interpreter.DefaultRules())
	}

	p := &Project{
		meta: meta,
		log:  NewEventLog(events, o.maxEvents),
		opts: o,
	}
	p.store = newTaskStore(meta.ID, tasks, nextSeq, o.newTaskID, o.now)
	p.recompute()
	return p
}

func (p *Project) ID() string {
	return p.meta.ID
}

// AddTask appends a validated task and logs it.
func (p *Project) AddTask(d domain.TaskDraft) (domain.TimelineTask, error) {
	t, err := p.store.AddTask(d)
	if err != nil {
		return domain.TimelineTask{}, err
	}
	p.recompute()
	p.record(domain.TimelineEvent{
		TaskID:      ptr(t.ID),
		Title:       fmt.Sprintf("Task added: %s", t.Name),
		Description: fmt.Sprintf("%s to %s, responsible %s", domain.FormatDate(t.StartDate), domain.FormatDate(t.EndDate), t.ResponsiblePerson),
		IsDelayed:   t.Status == domain.StatusDelayed,
		Source:      domain.SourceManual,
	})
	return t, nil
}

// UpdateTask merges patch over the task. An empty patch changes nothing
// and logs nothing.
func (p *Project) UpdateTask(id string, patch domain.TaskPatch) (domain.TimelineTask, error) {
	before, err := p.store.Get(id)
	if err != nil {
		return domain.TimelineTask{}, err
	}
	if patch.IsEmpty() {
		return before, nil
	}

	after, err := p.store.UpdateTask(id, patch)
	if err != nil {
		return domain.TimelineTask{}, err
	}
	p.recompute()
	p.record(domain.TimelineEvent{
		TaskID:      ptr(after.ID),
		Title:       updateTitle(before, after),
		Description: updateDescription(before, after),
		IsDelayed:   after.Status == domain.StatusDelayed && before.Status != domain.StatusDelayed,
		Source:      domain.SourceManual,
	})
	return after, nil
}

// DeleteTask removes the task and logs it.
func (p *Project) DeleteTask(id string) (domain.TimelineTask, error) {
	removed, err := p.store.DeleteTask(id)
	if err != nil {
		return domain.TimelineTask{}, err
	}
	p.recompute()
	p.record(domain.TimelineEvent{
		TaskID: ptr(removed.ID),
		Title:  fmt.Sprintf("Task removed: %s", removed.Name),
		Source: domain.SourceManual,
	})
	return removed, nil
}

// BulkImport adds all drafts or none and logs a single entry.
func (p *Project) BulkImport(drafts []domain.TaskDraft) ([]domain.TimelineTask, error) {
	created, err := p.store.BulkImport(drafts)
	if err != nil {
		return nil, err
	}
	p.recompute()
	p.record(domain.TimelineEvent{
		Title:       fmt.Sprintf("Imported %d tasks", len(created)),
		Description: importSummary(created),
		Source:      domain.SourceImport,
	})
	return created, nil
}

// ApplyReport runs the interpreter over the current tasks and, on a match,
// updates the task, recomputes adherence and logs one event. A nil outcome
// means nothing was changed.
func (p *Project) ApplyReport(report domain.FieldReport) (*interpreter.Outcome, error) {
	if report.SentAt.IsZero() {
		report.SentAt = p.opts.now()
	}

	out := p.opts.interpreter.Interpret(report, p.store.ListTasks())
	if out == nil {
		return nil, nil
	}

	current, err := p.store.Get(out.TaskID)
	if err != nil {
		return nil, err
	}
	desc := current.Description
	if desc == "" {
		desc = out.Note
	} else {
		desc = desc + "\n" + out.Note
	}

	if _, err := p.store.UpdateTask(out.TaskID, domain.TaskPatch{
		Status:      &out.NewStatus,
		Progress:    &out.NewProgress,
		Description: &desc,
	}); err != nil {
		return nil, fmt.Errorf("apply report to task %s: %w", out.TaskID, err)
	}
	p.recompute()
	p.record(domain.TimelineEvent{
		TaskID:      ptr(out.TaskID),
		OccurredAt:  report.SentAt,
		Title:       out.EventTitle,
		Description: out.EventDescription,
		IsDelayed:   out.IsDelayed,
		Source:      domain.SourceReport,
	})
	return out, nil
}

// ListTasks returns the tasks in insertion order.
func (p *Project) ListTasks() []domain.TimelineTask {
	return p.store.ListTasks()
}

func (p *Project) Task(id string) (domain.TimelineTask, error) {
	return p.store.Get(id)
}

func (p *Project) NextSeq() int {
	return p.store.NextSeq()
}

// Adherence returns the snapshot computed after the last mutation.
func (p *Project) Adherence() domain.ScheduleAdherence {
	return p.adherence
}

// Events returns the log newest first.
func (p *Project) Events() []domain.TimelineEvent {
	return p.log.List()
}

// DrainEvents returns the events recorded since the previous call,
// oldest first, and forgets them.
func (p *Project) DrainEvents() []domain.TimelineEvent {
	out := p.pending
	p.pending = nil
	return out
}

func (p *Project) recompute() {
	p.adherence = adherence.Compute(p.store.ListTasks(), p.meta.PlannedCompletion, p.opts.policy, p.opts.now())
}

func (p *Project) record(e domain.TimelineEvent) {
	e.ID = p.opts.newEventID()
	e.ProjectID = p.meta.ID
	if e.OccurredAt.IsZero() {
		e.OccurredAt = p.opts.now()
	}
	p.log.Append(e)
	p.pending = append(p.pending, e)
}

func updateTitle(before, after domain.TimelineTask) string {
	switch {
	case before.Status != after.Status && after.Status == domain.StatusCompleted:
		return fmt.Sprintf("%s completed", after.Name)
	case before.Status != after.Status:
		return fmt.Sprintf("%s is now %s", after.Name, after.Status.Label())
	case before.Progress != after.Progress:
		return fmt.Sprintf("%s advanced to %d%%", after.Name, after.Progress)
	default:
		return fmt.Sprintf("%s updated", after.Name)
	}
}

func updateDescription(before, after domain.TimelineTask) string {
	var changes []string
	if before.Name != after.Name {
		changes = append(changes, fmt.Sprintf("renamed from %q", before.Name))
	}
	if !before.StartDate.Equal(after.StartDate) || !before.EndDate.Equal(after.EndDate) {
		changes = append(changes, fmt.Sprintf("dates %s to %s", domain.FormatDate(after.StartDate), domain.FormatDate(after.EndDate)))
	}
	if before.ResponsiblePerson != after.ResponsiblePerson {
		changes = append(changes, fmt.Sprintf("responsible %s", after.ResponsiblePerson))
	}
	if before.Progress != after.Progress {
		changes = append(changes, fmt.Sprintf("progress %d%% -> %d%%", before.Progress, after.Progress))
	}
	return strings.Join(changes, "; ")
}

func importSummary(tasks []domain.TimelineTask) string {
	if len(tasks) == 0 {
		return ""
	}
	first, last := tasks[0].StartDate, tasks[0].EndDate
	for _, t := range tasks[1:] {
		if t.StartDate.Before(first) {
			first = t.StartDate
		}
		if t.EndDate.After(last) {
			last = t.EndDate
		}
	}
	return fmt.Sprintf("spanning %s to %s", domain.FormatDate(first), domain.FormatDate(last))
}

func ptr[T any](v T) *T {
	return &v
}
