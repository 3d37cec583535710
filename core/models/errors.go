package models

import "fmt"

// MissingStateError indicates a required durable record is absent.
// Stages other than gen/pre cannot run before pre has created a job, and
// predict_cloud/set cannot run before publish has stored a version.
type MissingStateError struct {
	Key  string
	Hint string // which stage would create the record
}

func (e *MissingStateError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("no %s recorded yet (run %q first)", e.Key, e.Hint)
	}
	return fmt.Sprintf("no %s recorded yet", e.Key)
}

// UnknownStageError indicates an unrecognized stage name
type UnknownStageError struct {
	Name string
}

func (e *UnknownStageError) Error() string {
	return fmt.Sprintf("unknown stage %q", e.Name)
}

// MissingArgumentError indicates a required positional argument is absent
type MissingArgumentError struct {
	Stage    Stage
	Argument string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("%s: missing required %s argument", e.Stage, e.Argument)
}

// CollaboratorFailure indicates an external tool exited non-zero or could
// not be started. The pipeline halts immediately; durable state keeps its
// last successfully written value.
type CollaboratorFailure struct {
	Collaborator string
	ExitCode     int
	Err          error
}

func (e *CollaboratorFailure) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %v", e.Collaborator, e.Err)
	}
	return fmt.Sprintf("%s exited with code %d", e.Collaborator, e.ExitCode)
}

func (e *CollaboratorFailure) Unwrap() error {
	return e.Err
}
