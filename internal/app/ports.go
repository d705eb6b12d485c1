package app

import (
	"context"

	"github.com/alexanderramin/canteiro/internal/domain"
	"github.com/alexanderramin/canteiro/internal/importer"
)

type StatusUseCase interface {
	GetStatus(ctx context.Context, req StatusRequest) (*StatusResponse, error)
}

type InterpretReportUseCase interface {
	Interpret(ctx context.Context, projectID string, report domain.FieldReport) (*ReportResult, error)
}

type ImportChatUseCase interface {
	ImportChat(ctx context.Context, projectID string, reports []domain.FieldReport) (*ChatImportResult, error)
}

type ImportTasksUseCase interface {
	ImportTasks(ctx context.Context, projectID string, filePath string) (*ImportResult, error)
	ImportTasksFromSchema(ctx context.Context, projectID string, schema *importer.ImportSchema) (*ImportResult, error)
}
