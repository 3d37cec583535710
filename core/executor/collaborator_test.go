package executor

import (
	"context"
	"errors"
	"testing"

	"classifier-pipeline/core/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessRunnerSuccess(t *testing.T) {
	runner := NewProcessRunner()
	err := runner.Run(context.Background(), models.Invocation{
		Collaborator: "trainer",
		Command:      []string{"true"},
	})
	assert.NoError(t, err)
}

func TestProcessRunnerNonZeroExit(t *testing.T) {
	runner := NewProcessRunner()
	err := runner.Run(context.Background(), models.Invocation{
		Collaborator: "trainer",
		Command:      []string{"sh", "-c"},
		Args:         []string{"exit 3"},
	})

	var failure *models.CollaboratorFailure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, "trainer", failure.Collaborator)
	assert.Equal(t, 3, failure.ExitCode)
}

func TestProcessRunnerStartFailure(t *testing.T) {
	runner := NewProcessRunner()
	err := runner.Run(context.Background(), models.Invocation{
		Collaborator: "predictor",
		Command:      []string{"no-such-binary-anywhere"},
	})

	var failure *models.CollaboratorFailure
	require.True(t, errors.As(err, &failure))
	assert.Error(t, failure.Err)
}

func TestProcessRunnerEmptyCommand(t *testing.T) {
	runner := NewProcessRunner()
	err := runner.Run(context.Background(), models.Invocation{Collaborator: "generator"})
	assert.Error(t, err)
}
