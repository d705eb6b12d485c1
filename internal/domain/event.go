package domain

import "time"

// TimelineEvent is one immutable entry of a project's history feed.
type TimelineEvent struct {
	ID          string
	ProjectID   string
	TaskID      *string
	OccurredAt  time.Time
	Title       string
	Description string
	IsDelayed   bool
	Source      EventSource
}

// DisplayDate renders the event date the way field teams read it.
func (e *TimelineEvent) DisplayDate() string {
	return e.OccurredAt.Format(DisplayDateLayout)
}
