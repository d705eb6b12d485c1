package service

import (
	"context"

	"github.com/alexanderramin/canteiro/internal/app"
	"github.com/alexanderramin/canteiro/internal/domain"
	"github.com/alexanderramin/canteiro/internal/importer"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Archive(ctx context.Context, id string) error
	Unarchive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string, force bool) error
}

// TimelineService runs every timeline operation of one project inside a
// single transaction.
type TimelineService interface {
	AddTask(ctx context.Context, projectID string, d domain.TaskDraft) (*app.TaskResult, error)
	UpdateTask(ctx context.Context, projectID, taskID string, patch domain.TaskPatch) (*app.TaskResult, error)
	DeleteTask(ctx context.Context, projectID, taskID string) (*app.TaskResult, error)
	ListTasks(ctx context.Context, projectID string, byStart bool) ([]domain.TimelineTask, error)
	GetTaskBySeq(ctx context.Context, projectID string, seq int) (*domain.TimelineTask, error)

	ImportTasks(ctx context.Context, projectID string, filePath string) (*app.ImportResult, error)
	ImportTasksFromSchema(ctx context.Context, projectID string, schema *importer.ImportSchema) (*app.ImportResult, error)

	Interpret(ctx context.Context, projectID string, report domain.FieldReport) (*app.ReportResult, error)
	ImportChat(ctx context.Context, projectID string, reports []domain.FieldReport) (*app.ChatImportResult, error)

	GetAdherence(ctx context.Context, projectID string) (*domain.ScheduleAdherence, error)
	ListEvents(ctx context.Context, projectID string, limit int) ([]*domain.TimelineEvent, error)
	ListRecentEvents(ctx context.Context, limit int) ([]*domain.TimelineEvent, error)
}

type StatusService interface {
	GetStatus(ctx context.Context, req app.StatusRequest) (*app.StatusResponse, error)
}
