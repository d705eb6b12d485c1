package app

import (
	"time"

	"github.com/alexanderramin/canteiro/internal/domain"
)

type StatusRequest struct {
	Now             *time.Time
	ProjectScope    []string
	IncludeArchived bool
}

func NewStatusRequest() StatusRequest {
	return StatusRequest{}
}

// ProjectStatusView is one dashboard row.
type ProjectStatusView struct {
	ProjectID         string
	ShortID           string
	ProjectName       string
	Location          string
	Status            domain.ProjectStatus
	RiskLevel         domain.RiskLevel
	PlannedCompletion time.Time
	Forecast          time.Time
	DaysLeft          int
	DelayedPct        int
	SlipDays          int
	OnTrack           bool
	TotalTasks        int
	DelayedTasks      int
	CompletedTasks    int
	OpenTasks         int
	AvgProgressPct    int
	Notes             []string
}

type GlobalStatusSummary struct {
	GeneratedAt    time.Time
	CountsTotal    int
	CountsOnTrack  int
	CountsAtRisk   int
	CountsCritical int
	PolicyMessage  string
}

type StatusResponse struct {
	Summary  GlobalStatusSummary
	Projects []ProjectStatusView
	Warnings []string
}

type StatusErrorCode string

const (
	StatusErrInvalidScope StatusErrorCode = "INVALID_SCOPE"
)

type StatusError struct {
	Code    StatusErrorCode
	Message string
}

func (e *StatusError) Error() string {
	return string(e.Code) + ": " + e.Message
}
