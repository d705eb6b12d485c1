package repository

import (
	"context"

	"github.com/alexanderramin/canteiro/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Archive(ctx context.Context, id string) error
	Unarchive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// TaskRepo stores timeline tasks. ListByProject returns insertion order.
type TaskRepo interface {
	Create(ctx context.Context, t *domain.TimelineTask) error
	GetByID(ctx context.Context, id string) (*domain.TimelineTask, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.TimelineTask, error)
	Update(ctx context.Context, t *domain.TimelineTask) error
	Delete(ctx context.Context, id string) error
}

// EventRepo stores the append-only event feed. Lists are newest first.
type EventRepo interface {
	Append(ctx context.Context, e *domain.TimelineEvent) error
	ListByProject(ctx context.Context, projectID string, limit int) ([]*domain.TimelineEvent, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.TimelineEvent, error)
	Prune(ctx context.Context, projectID string, keep int) (int, error)
}

type AdherenceRepo interface {
	Upsert(ctx context.Context, projectID string, s domain.ScheduleAdherence) error
	Get(ctx context.Context, projectID string) (*domain.ScheduleAdherence, error)
}

// SequenceRepo tracks the next task display number per project.
type SequenceRepo interface {
	PeekNextSeq(ctx context.Context, projectID string) (int, error)
	AdvanceTo(ctx context.Context, projectID string, next int) error
}
