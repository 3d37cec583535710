package hyperparams

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile()

	assert.Equal(t, "false", p["attention"])
	assert.Equal(t, "relu", p["activation"])
	assert.Equal(t, "cnn", p["username_type"])
	assert.Equal(t, "false", p["variational_dropout"])
	assert.Equal(t, "residual", p["rnn_cell_wrapper"])
	assert.Equal(t, "lstm", p["cell_type"])
	assert.Equal(t, "3", p["num_rnn_layers"])
	assert.Equal(t, "1", p["num_final_layers"])
}

func TestMergeOverridesWin(t *testing.T) {
	base := DefaultProfile()
	merged := Merge(base, Profile{
		"num_rnn_layers": "5",
		"learning_rate":  "0.001", // not in base, appended rather than rejected
	})

	assert.Equal(t, "5", merged["num_rnn_layers"])
	assert.Equal(t, "0.001", merged["learning_rate"])
	for k, v := range base {
		if k == "num_rnn_layers" {
			continue
		}
		assert.Equal(t, v, merged[k])
	}
}

func TestMergeEmptyOverridesRoundTrip(t *testing.T) {
	base := DefaultProfile()
	assert.Equal(t, base, Merge(base, Profile{}))
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	base := Profile{"a": "1"}
	overrides := Profile{"a": "2"}
	Merge(base, overrides)

	assert.Equal(t, "1", base["a"])
	assert.Equal(t, "2", overrides["a"])
}

func TestFlagsSortedAndStable(t *testing.T) {
	p := Profile{"cell_type": "lstm", "activation": "relu", "num_rnn_layers": "3"}

	want := []string{"--activation=relu", "--cell_type=lstm", "--num_rnn_layers=3"}
	assert.Equal(t, want, p.Flags())
	assert.Equal(t, want, p.Flags())
}
