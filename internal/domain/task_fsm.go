package domain

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// Untyped state IDs for statekit; values mirror the TaskStatus constants.
const (
	stateNotStarted = "not_started"
	stateInProgress = "in_progress"
	stateDelayed    = "delayed"
	stateCompleted  = "completed"
)

func init() {
	stateMap := map[string]TaskStatus{
		stateNotStarted: StatusNotStarted,
		stateInProgress: StatusInProgress,
		stateDelayed:    StatusDelayed,
		stateCompleted:  StatusCompleted,
	}
	for fsmState, status := range stateMap {
		if fsmState != string(status) {
			panic(fmt.Sprintf("FSM state %q does not match TaskStatus %q", fsmState, status))
		}
	}
}

// TaskStateMachine drives a single status change through statekit so the
// machine definition and the transition table above stay in agreement.
type TaskStateMachine struct {
	interpreter *statekit.Interpreter[TaskFSMContext]
}

// TaskFSMContext carries the task identity through the machine.
type TaskFSMContext struct {
	TaskID string
}

// NewTaskStateMachine builds a machine positioned at initial.
func NewTaskStateMachine(taskID string, initial TaskStatus) (*TaskStateMachine, error) {
	if !initial.IsValid() {
		return nil, &ValidationError{Field: "status", Message: fmt.Sprintf("invalid value %q", initial)}
	}

	builder := statekit.NewMachine[TaskFSMContext]("timeline-task").
		WithInitial(statekit.StateID(initial)).
		WithContext(TaskFSMContext{TaskID: taskID})

	builder.State(stateNotStarted).
		On(EventStart).Target(stateInProgress).
		On(EventDelay).Target(stateDelayed).
		On(EventComplete).Target(stateCompleted).
		Done()

	builder.State(stateInProgress).
		On(EventDelay).Target(stateDelayed).
		On(EventComplete).Target(stateCompleted).
		Done()

	builder.State(stateDelayed).
		On(EventResume).Target(stateInProgress).
		On(EventComplete).Target(stateCompleted).
		Done()

	// Completed only loops onto itself, which Transition reports as refused.
	builder.State(stateCompleted).
		On(EventComplete).Target(stateCompleted).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("building task state machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &TaskStateMachine{interpreter: interpreter}, nil
}

// Transition sends event and fails when the state did not move.
func (sm *TaskStateMachine) Transition(event string) error {
	before := sm.Current()
	sm.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	if sm.Current() != before {
		return nil
	}
	return &ValidationError{
		Field:   "status",
		Message: fmt.Sprintf("%q is not allowed while the task is %s", event, before),
		Err:     ErrInvalidTransition,
	}
}

// Current returns the machine's state as a TaskStatus.
func (sm *TaskStateMachine) Current() TaskStatus {
	return TaskStatus(sm.interpreter.State().Value)
}

// Advance moves from one status to another, validating the step against
// both the transition table and the machine.
func Advance(taskID string, from, to TaskStatus) error {
	if from == to {
		return nil
	}
	event, err := from.EventFor(to)
	if err != nil {
		return err
	}
	sm, err := NewTaskStateMachine(taskID, from)
	if err != nil {
		return err
	}
	return sm.Transition(event)
}
