package domain

import (
	"fmt"
	"regexp"
	"time"
)

var shortIDPattern = regexp.MustCompile(`^[A-Z]{3,6}[0-9]{2,4}$`)

// Project is the catalogue entry for one building project. Its timeline
// (tasks, adherence, events) lives in the timeline aggregate.
type Project struct {
	ID                string
	ShortID           string
	Name              string
	Location          string
	StartDate         time.Time
	PlannedCompletion time.Time
	Status            ProjectStatus
	ArchivedAt        *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ValidateShortID checks that ShortID is non-empty and matches the required
// format: 3-6 uppercase letters followed by 2-4 digits (e.g. OBR01, TORRE12).
func (p *Project) ValidateShortID() error {
	if p.ShortID == "" {
		return &ValidationError{Field: "short_id", Message: "is required (use --id flag)"}
	}
	if !shortIDPattern.MatchString(p.ShortID) {
		return &ValidationError{
			Field:   "short_id",
			Message: fmt.Sprintf("%q must be 3-6 uppercase letters followed by 2-4 digits (e.g. OBR01)", p.ShortID),
		}
	}
	return nil
}

// Validate checks the fields every persisted project needs.
func (p *Project) Validate() error {
	if err := p.ValidateShortID(); err != nil {
		return err
	}
	if p.Name == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if p.StartDate.IsZero() {
		return &ValidationError{Field: "start_date", Message: "is required"}
	}
	if p.PlannedCompletion.IsZero() {
		return &ValidationError{Field: "planned_completion", Message: "is required"}
	}
	if p.PlannedCompletion.Before(p.StartDate) {
		return &ValidationError{Field: "planned_completion", Message: "must not be before start_date"}
	}
	return nil
}

// DisplayID returns the best short identifier for display.
// It prefers ShortID; if empty it truncates ID to 8 characters.
func (p *Project) DisplayID() string {
	if p.ShortID != "" {
		return p.ShortID
	}
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}
