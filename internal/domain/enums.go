package domain

type RiskLevel string

const (
	RiskOnTrack  RiskLevel = "on_track"
	RiskAtRisk   RiskLevel = "at_risk"
	RiskCritical RiskLevel = "critical"
)

type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectPaused   ProjectStatus = "paused"
	ProjectDone     ProjectStatus = "done"
	ProjectArchived ProjectStatus = "archived"
)

// EventSource records which operation produced a timeline event.
type EventSource string

const (
	SourceManual EventSource = "manual"
	SourceReport EventSource = "report"
	SourceImport EventSource = "import"
)
