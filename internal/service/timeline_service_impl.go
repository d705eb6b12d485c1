package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/canteiro/internal/adherence"
	"github.com/alexanderramin/canteiro/internal/app"
	"github.com/alexanderramin/canteiro/internal/db"
	"github.com/alexanderramin/canteiro/internal/domain"
	"github.com/alexanderramin/canteiro/internal/importer"
	"github.com/alexanderramin/canteiro/internal/interpreter"
	"github.com/alexanderramin/canteiro/internal/repository"
	"github.com/alexanderramin/canteiro/internal/timeline"
)

// TimelineConfig carries the tunables the aggregate is rebuilt with on
// every call.
type TimelineConfig struct {
	Policy    adherence.Policy
	Rules     interpreter.Rules
	MaxEvents int
	Now       func() time.Time
}

func DefaultTimelineConfig() TimelineConfig {
	return TimelineConfig{
		Policy:    adherence.DefaultPolicy(),
		Rules:     interpreter.DefaultRules(),
		MaxEvents: timeline.DefaultMaxEvents,
		Now:       time.Now,
	}
}

type timelineService struct {
	tasks       repository.TaskRepo
	events      repository.EventRepo
	adherence   repository.AdherenceRepo
	uow         db.UnitOfWork
	cfg         TimelineConfig
	interpreter *interpreter.Interpreter
	observer    UseCaseObserver
}

func NewTimelineService(
	tasks repository.TaskRepo,
	events repository.EventRepo,
	adherenceRepo repository.AdherenceRepo,
	uow db.UnitOfWork,
	cfg TimelineConfig,
	observers ...UseCaseObserver,
) TimelineService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &timelineService{
		tasks:       tasks,
		events:      events,
		adherence:   adherenceRepo,
		uow:         uow,
		cfg:         cfg,
		interpreter: interpreter.New(cfg.Rules),
		observer:    useCaseObserverOrNoop(observers),
	}
}

// txRepos are the repositories bound to one transaction.
type txRepos struct {
	projects  *repository.SQLiteProjectRepo
	tasks     *repository.SQLiteTaskRepo
	events    *repository.SQLiteEventRepo
	adherence *repository.SQLiteAdherenceRepo
	seqs      *repository.SQLiteProjectSequenceRepo
}

func newTxRepos(tx db.DBTX) txRepos {
	return txRepos{
		projects:  repository.NewSQLiteProjectRepo(tx),
		tasks:     repository.NewSQLiteTaskRepo(tx),
		events:    repository.NewSQLiteEventRepo(tx),
		adherence: repository.NewSQLiteAdherenceRepo(tx),
		seqs:      repository.NewSQLiteProjectSequenceRepo(tx),
	}
}

// mutate loads the project's aggregate, runs fn against it and writes back
// whatever changed, all in one transaction. If fn records no event the
// transaction writes nothing.
func (s *timelineService) mutate(ctx context.Context, projectID string, fn func(p *timeline.Project) error) (*timeline.Project, []domain.TimelineEvent, error) {
	var (
		agg      *timeline.Project
		recorded []domain.TimelineEvent
	)
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := newTxRepos(tx)

		meta, err := repos.projects.GetByID(ctx, projectID)
		if err != nil {
			return err
		}
		if meta.Status == domain.ProjectArchived {
			return &domain.ValidationError{Field: "project", Message: fmt.Sprintf("%s is archived (unarchive it first)", meta.DisplayID())}
		}

		stored, err := repos.tasks.ListByProject(ctx, projectID)
		if err != nil {
			return err
		}
		events, err := repos.events.ListByProject(ctx, projectID, s.cfg.MaxEvents)
		if err != nil {
			return err
		}
		nextSeq, err := repos.seqs.PeekNextSeq(ctx, projectID)
		if err != nil {
			return err
		}

		before := derefTasks(stored)
		agg = timeline.Restore(*meta, before, derefEvents(events), nextSeq, s.options()...)
		if err := fn(agg); err != nil {
			return err
		}

		recorded = agg.DrainEvents()
		if len(recorded) == 0 {
			return nil
		}
		return s.persist(ctx, repos, agg, before, recorded)
	})
	if err != nil {
		return nil, nil, err
	}
	return agg, recorded, nil
}

func (s *timelineService) persist(ctx context.Context, repos txRepos, agg *timeline.Project, before []domain.TimelineTask, recorded []domain.TimelineEvent) error {
	projectID := agg.ID()

	old := make(map[string]domain.TimelineTask, len(before))
	for _, t := range before {
		old[t.ID] = t
	}
	for _, t := range agg.ListTasks() {
		prev, existed := old[t.ID]
		delete(old, t.ID)
		switch {
		case !existed:
			if err := repos.tasks.Create(ctx, &t); err != nil {
				return err
			}
		case taskChanged(prev, t):
			if err := repos.tasks.Update(ctx, &t); err != nil {
				return err
			}
		}
	}
	for id := range old {
		if err := repos.tasks.Delete(ctx, id); err != nil {
			return err
		}
	}

	if err := repos.adherence.Upsert(ctx, projectID, agg.Adherence()); err != nil {
		return err
	}
	for i := range recorded {
		if err := repos.events.Append(ctx, &recorded[i]); err != nil {
			return err
		}
	}
	if _, err := repos.events.Prune(ctx, projectID, s.cfg.MaxEvents); err != nil {
		return err
	}
	return repos.seqs.AdvanceTo(ctx, projectID, agg.NextSeq())
}

func (s *timelineService) options() []timeline.Option {
	return []timeline.Option{
		timeline.WithClock(s.cfg.Now),
		timeline.WithPolicy(s.cfg.Policy),
		timeline.WithInterpreter(s.interpreter),
		timeline.WithMaxEvents(s.cfg.MaxEvents),
	}
}

func (s *timelineService) AddTask(ctx context.Context, projectID string, d domain.TaskDraft) (result *app.TaskResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"project_id": projectID}
	defer func() { finishUseCase(ctx, s.observer, "add-task", startedAt, fields, err) }()

	var task domain.TimelineTask
	agg, recorded, err := s.mutate(ctx, projectID, func(p *timeline.Project) error {
		var addErr error
		task, addErr = p.AddTask(d)
		return addErr
	})
	if err != nil {
		return nil, err
	}
	fields["task_id"] = task.ID
	fields["seq"] = task.Seq
	return &app.TaskResult{Task: task, Adherence: agg.Adherence(), Events: recorded}, nil
}

func (s *timelineService) UpdateTask(ctx context.Context, projectID, taskID string, patch domain.TaskPatch) (result *app.TaskResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"project_id": projectID, "task_id": taskID}
	defer func() { finishUseCase(ctx, s.observer, "update-task", startedAt, fields, err) }()

	var task domain.TimelineTask
	agg, recorded, err := s.mutate(ctx, projectID, func(p *timeline.Project) error {
		var updErr error
		task, updErr = p.UpdateTask(taskID, patch)
		return updErr
	})
	if err != nil {
		return nil, err
	}
	fields["status"] = string(task.Status)
	fields["progress"] = task.Progress
	return &app.TaskResult{Task: task, Adherence: agg.Adherence(), Events: recorded}, nil
}

func (s *timelineService) DeleteTask(ctx context.Context, projectID, taskID string) (result *app.TaskResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"project_id": projectID, "task_id": taskID}
	defer func() { finishUseCase(ctx, s.observer, "delete-task", startedAt, fields, err) }()

	var task domain.TimelineTask
	agg, recorded, err := s.mutate(ctx, projectID, func(p *timeline.Project) error {
		var delErr error
		task, delErr = p.DeleteTask(taskID)
		return delErr
	})
	if err != nil {
		return nil, err
	}
	return &app.TaskResult{Task: task, Adherence: agg.Adherence(), Events: recorded}, nil
}

// ListTasks returns insertion order, or start-date order when byStart is
// set.
func (s *timelineService) ListTasks(ctx context.Context, projectID string, byStart bool) ([]domain.TimelineTask, error) {
	stored, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	tasks := derefTasks(stored)
	if byStart {
		return timeline.SortByStart(tasks), nil
	}
	return tasks, nil
}

func (s *timelineService) GetTaskBySeq(ctx context.Context, projectID string, seq int) (*domain.TimelineTask, error) {
	tasks, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if t.Seq == seq {
			return t, nil
		}
	}
	return nil, &domain.NotFoundError{Entity: "task", ID: fmt.Sprintf("#%d", seq)}
}

func (s *timelineService) ImportTasks(ctx context.Context, projectID string, filePath string) (*app.ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportTasksFromSchema(ctx, projectID, schema)
}

func (s *timelineService) ImportTasksFromSchema(ctx context.Context, projectID string, schema *importer.ImportSchema) (result *app.ImportResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"project_id": projectID, "rows": len(schema.Tasks)}
	defer func() { finishUseCase(ctx, s.observer, "import-tasks", startedAt, fields, err) }()

	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	drafts, err := importer.Convert(schema)
	if err != nil {
		return nil, fmt.Errorf("converting import schema: %w", err)
	}

	var created []domain.TimelineTask
	agg, _, err := s.mutate(ctx, projectID, func(p *timeline.Project) error {
		var impErr error
		created, impErr = p.BulkImport(drafts)
		return impErr
	})
	if err != nil {
		return nil, err
	}
	fields["created"] = len(created)
	return &app.ImportResult{ProjectID: projectID, Tasks: created, Adherence: agg.Adherence()}, nil
}

// Interpret applies one field report. A report that matches nothing is not
// an error; the result then has a nil Outcome.
func (s *timelineService) Interpret(ctx context.Context, projectID string, report domain.FieldReport) (result *app.ReportResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"project_id": projectID, "author": report.AuthorName}
	defer func() { finishUseCase(ctx, s.observer, "interpret-report", startedAt, fields, err) }()

	var outcome *interpreter.Outcome
	agg, _, err := s.mutate(ctx, projectID, func(p *timeline.Project) error {
		var applyErr error
		outcome, applyErr = p.ApplyReport(report)
		return applyErr
	})
	if err != nil {
		return nil, err
	}
	fields["applied"] = outcome != nil
	if outcome != nil {
		fields["task_id"] = outcome.TaskID
		fields["kind"] = string(outcome.Kind)
	}
	return &app.ReportResult{Outcome: outcome, Adherence: agg.Adherence()}, nil
}

// ImportChat feeds reports through the interpreter in order, inside one
// transaction. Either every applicable report lands or none does.
func (s *timelineService) ImportChat(ctx context.Context, projectID string, reports []domain.FieldReport) (result *app.ChatImportResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"project_id": projectID, "reports": len(reports)}
	defer func() { finishUseCase(ctx, s.observer, "import-chat", startedAt, fields, err) }()

	var res *app.ChatImportResult
	agg, _, err := s.mutate(ctx, projectID, func(p *timeline.Project) error {
		// fresh counts per attempt; a busy database replays this callback
		res = &app.ChatImportResult{Total: len(reports)}
		for i, r := range reports {
			out, applyErr := p.ApplyReport(r)
			if applyErr != nil {
				return fmt.Errorf("report %d from %s: %w", i+1, r.AuthorName, applyErr)
			}
			if out == nil {
				res.Ignored++
				continue
			}
			res.Applied++
			res.Outcomes = append(res.Outcomes, *out)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Adherence = agg.Adherence()
	fields["applied"] = res.Applied
	fields["ignored"] = res.Ignored
	return res, nil
}

func (s *timelineService) GetAdherence(ctx context.Context, projectID string) (*domain.ScheduleAdherence, error) {
	return s.adherence.Get(ctx, projectID)
}

func (s *timelineService) ListEvents(ctx context.Context, projectID string, limit int) ([]*domain.TimelineEvent, error) {
	return s.events.ListByProject(ctx, projectID, limit)
}

func (s *timelineService) ListRecentEvents(ctx context.Context, limit int) ([]*domain.TimelineEvent, error) {
	return s.events.ListRecent(ctx, limit)
}
