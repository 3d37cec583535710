package executor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"

	"classifier-pipeline/core/models"
)

// Runner invokes external collaborators. The dispatcher depends on this
// interface so tests can substitute a recording fake.
type Runner interface {
	Run(ctx context.Context, inv models.Invocation) error
}

// ProcessRunner runs collaborators as local child processes, inheriting
// the pipeline's stdio. The call blocks until the collaborator completes:
// there is no timeout or retry at this layer.
type ProcessRunner struct{}

// NewProcessRunner creates a process-backed runner
func NewProcessRunner() *ProcessRunner {
	return &ProcessRunner{}
}

// Run executes one collaborator invocation. A non-zero exit or a failure
// to start is reported as a CollaboratorFailure; nothing is retried.
func (r *ProcessRunner) Run(ctx context.Context, inv models.Invocation) error {
	argv := inv.Argv()
	if len(argv) == 0 {
		return fmt.Errorf("empty command for %s", inv.Collaborator)
	}

	log.Printf("Running %s: %s", inv.Collaborator, strings.Join(argv, " "))

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &models.CollaboratorFailure{
				Collaborator: inv.Collaborator,
				ExitCode:     exitErr.ExitCode(),
			}
		}
		return &models.CollaboratorFailure{Collaborator: inv.Collaborator, Err: err}
	}
	return nil
}
