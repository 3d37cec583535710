package hyperparams

import (
	"fmt"
	"sort"
)

// Profile is an immutable mapping from hyperparameter name to value
type Profile map[string]string

// DefaultProfile returns the fixed baseline applied to every training
// invocation unless overridden
func DefaultProfile() Profile {
	return Profile{
		"attention":           "false",
		"activation":          "relu",
		"username_type":       "cnn",
		"variational_dropout": "false",
		"rnn_cell_wrapper":    "residual",
		"cell_type":           "lstm",
		"num_rnn_layers":      "3",
		"num_final_layers":    "1",
	}
}

// Merge applies overrides over base, key by key. Overrides win; keys not
// present in base are added rather than rejected, since invocations
// forward arbitrary extra flags to the trainer. Neither input is mutated.
func Merge(base, overrides Profile) Profile {
	merged := make(Profile, len(base)+len(overrides))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}

// Flags renders the profile as --key=value arguments in sorted key order,
// so the assembled command line is stable across invocations
func (p Profile) Flags() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	flags := make([]string, 0, len(keys))
	for _, k := range keys {
		flags = append(flags, fmt.Sprintf("--%s=%s", k, p[k]))
	}
	return flags
}
