package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStage(t *testing.T) {
	for _, s := range Stages {
		parsed, err := ParseStage(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
}

func TestParseStageUnknown(t *testing.T) {
	_, err := ParseStage("deploy")

	var unknown *UnknownStageError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "deploy", unknown.Name)
	assert.Contains(t, err.Error(), "deploy")
}

func TestInvocationArgv(t *testing.T) {
	inv := Invocation{
		Command: []string{"gcloud", "ml-engine", "versions"},
		Args:    []string{"create", "v3"},
	}
	assert.Equal(t, []string{"gcloud", "ml-engine", "versions", "create", "v3"}, inv.Argv())
}
