package domain

import "fmt"

// TaskStatus is the lifecycle state of a timeline task.
type TaskStatus string

const (
	StatusNotStarted TaskStatus = "not_started"
	StatusInProgress TaskStatus = "in_progress"
	StatusDelayed    TaskStatus = "delayed"
	StatusCompleted  TaskStatus = "completed"
)

// Transition events understood by the task state machine.
const (
	EventStart    = "start"
	EventDelay    = "delay"
	EventResume   = "resume"
	EventComplete = "complete"
)

// validTransitions maps currentStatus -> event -> targetStatus.
// completed has no outgoing transitions.
var validTransitions = map[TaskStatus]map[string]TaskStatus{
	StatusNotStarted: {
		EventStart:    StatusInProgress,
		EventDelay:    StatusDelayed,
		EventComplete: StatusCompleted,
	},
	StatusInProgress: {
		EventDelay:    StatusDelayed,
		EventComplete: StatusCompleted,
	},
	StatusDelayed: {
		EventResume:   StatusInProgress,
		EventComplete: StatusCompleted,
	},
	StatusCompleted: {},
}

// AllTaskStatuses returns every status in lifecycle order.
func AllTaskStatuses() []TaskStatus {
	return []TaskStatus{StatusNotStarted, StatusInProgress, StatusDelayed, StatusCompleted}
}

// ParseTaskStatus converts user input into a TaskStatus.
func ParseTaskStatus(s string) (TaskStatus, error) {
	st := TaskStatus(s)
	if !st.IsValid() {
		return "", &ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("invalid value %q (expected not_started, in_progress, delayed or completed)", s),
		}
	}
	return st, nil
}

func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusDelayed, StatusCompleted:
		return true
	default:
		return false
	}
}

func (s TaskStatus) String() string {
	return string(s)
}

// Label is the human-readable name of the status.
func (s TaskStatus) Label() string {
	switch s {
	case StatusNotStarted:
		return "Not started"
	case StatusInProgress:
		return "In progress"
	case StatusDelayed:
		return "Delayed"
	case StatusCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

// IsTerminal reports whether no further transitions are possible.
func (s TaskStatus) IsTerminal() bool {
	return s == StatusCompleted
}

// EventFor returns the event that moves s to target.
func (s TaskStatus) EventFor(target TaskStatus) (string, error) {
	for event, to := range validTransitions[s] {
		if to == target {
			return event, nil
		}
	}
	return "", &ValidationError{
		Field:   "status",
		Message: fmt.Sprintf("cannot change from %s to %s", s, target),
		Err:     ErrInvalidTransition,
	}
}

// CanTransitionTo reports whether target is reachable from s in one step.
func (s TaskStatus) CanTransitionTo(target TaskStatus) bool {
	_, err := s.EventFor(target)
	return err == nil
}

// ValidTransitions returns the statuses reachable from s.
func (s TaskStatus) ValidTransitions() []TaskStatus {
	var targets []TaskStatus
	for _, candidate := range AllTaskStatuses() {
		if s.CanTransitionTo(candidate) {
			targets = append(targets, candidate)
		}
	}
	return targets
}
