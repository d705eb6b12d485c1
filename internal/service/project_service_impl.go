package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/canteiro/internal/adherence"
	"github.com/alexanderramin/canteiro/internal/db"
	"github.com/alexanderramin/canteiro/internal/domain"
	"github.com/alexanderramin/canteiro/internal/repository"
	"github.com/google/uuid"
)

type projectService struct {
	projects repository.ProjectRepo
	uow      db.UnitOfWork
	policy   adherence.Policy
	observer UseCaseObserver
}

func NewProjectService(projects repository.ProjectRepo, uow db.UnitOfWork, policy adherence.Policy, observers ...UseCaseObserver) ProjectService {
	return &projectService{
		projects: projects,
		uow:      uow,
		policy:   policy,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Create stores the project and seeds its adherence snapshot so the
// dashboard has a row before the first task is added.
func (s *projectService) Create(ctx context.Context, p *domain.Project) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"short_id": p.ShortID}
	defer func() { finishUseCase(ctx, s.observer, "create-project", startedAt, fields, err) }()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = domain.ProjectActive
	}
	p.ShortID = strings.ToUpper(strings.TrimSpace(p.ShortID))
	p.StartDate = domain.DateOnly(p.StartDate)
	p.PlannedCompletion = domain.DateOnly(p.PlannedCompletion)
	if err = p.Validate(); err != nil {
		return err
	}
	fields["project_id"] = p.ID

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txAdherence := repository.NewSQLiteAdherenceRepo(tx)

		if existing, err := txProjects.GetByShortID(ctx, p.ShortID); err == nil {
			return &domain.ValidationError{
				Field:   "short_id",
				Message: fmt.Sprintf("%q is already used by project %q", p.ShortID, existing.Name),
			}
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		if err := txProjects.Create(ctx, p); err != nil {
			return err
		}
		snap := adherence.Compute(nil, p.PlannedCompletion, s.policy, now)
		return txAdherence.Upsert(ctx, p.ID, snap)
	})
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) List(ctx context.Context, includeArchived bool) ([]*domain.Project, error) {
	return s.projects.List(ctx, includeArchived)
}

// Update saves metadata and recomputes adherence, since the forecast is
// anchored on the planned completion date.
func (s *projectService) Update(ctx context.Context, p *domain.Project) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"project_id": p.ID}
	defer func() { finishUseCase(ctx, s.observer, "update-project", startedAt, fields, err) }()

	now := time.Now().UTC()
	p.UpdatedAt = now
	p.ShortID = strings.ToUpper(strings.TrimSpace(p.ShortID))
	p.StartDate = domain.DateOnly(p.StartDate)
	p.PlannedCompletion = domain.DateOnly(p.PlannedCompletion)
	if err = p.Validate(); err != nil {
		return err
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txAdherence := repository.NewSQLiteAdherenceRepo(tx)

		if err := txProjects.Update(ctx, p); err != nil {
			return err
		}
		tasks, err := txTasks.ListByProject(ctx, p.ID)
		if err != nil {
			return err
		}
		snap := adherence.Compute(derefTasks(tasks), p.PlannedCompletion, s.policy, now)
		fields["delayed_pct"] = snap.DelayedTasksPercentage
		return txAdherence.Upsert(ctx, p.ID, snap)
	})
}

func (s *projectService) Archive(ctx context.Context, id string) error {
	return s.projects.Archive(ctx, id)
}

func (s *projectService) Unarchive(ctx context.Context, id string) error {
	return s.projects.Unarchive(ctx, id)
}

func (s *projectService) Delete(ctx context.Context, id string, force bool) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"project_id": id, "force": force}
	defer func() { finishUseCase(ctx, s.observer, "delete-project", startedAt, fields, err) }()

	if !force {
		p, err := s.projects.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p.Status != domain.ProjectArchived {
			return fmt.Errorf("project must be archived before deletion (use --force to override)")
		}
	}
	return s.projects.Delete(ctx, id)
}
