package builder

import (
	"fmt"

	"classifier-pipeline/core/hyperparams"
	"classifier-pipeline/core/models"
	"classifier-pipeline/core/spec"
)

// Builder assembles collaborator command lines per stage. Every method is
// a pure function of its inputs: no I/O, no stored state, so two stages
// holding the same identity always build identical invocations.
type Builder struct {
	pipeline *spec.Pipeline
}

// NewBuilder creates a builder for the given pipeline spec
func NewBuilder(pipeline *spec.Pipeline) *Builder {
	return &Builder{pipeline: pipeline}
}

// Gen builds the data-generation invocation. No job identity is involved;
// caller arguments pass through verbatim.
func (b *Builder) Gen(args []string) models.Invocation {
	return models.Invocation{
		Collaborator: "generator",
		Command:      b.pipeline.Collaborators.Gen,
		Args:         args,
	}
}

// Preprocess builds the preprocessing invocation for one raw shard. The
// output path carries the shard's numeric suffix so multiple shards land
// in distinct locations.
func (b *Builder) Preprocess(shard Shard, outputBase string) models.Invocation {
	return models.Invocation{
		Collaborator: "preprocessor",
		Command:      b.pipeline.Collaborators.Preprocess,
		Args: []string{
			"--input_dict=" + b.pipeline.Dictionary,
			"--input_path=" + shard.Path,
			"--output_path=" + outputBase + shard.Suffix,
		},
	}
}

// Train builds the training invocation. A full run trains on both the
// preprocessed train and eval shards; a test run restricts training input
// to the train shards. That difference is deliberate: train_test is the
// smoke-test run. Caller flags are appended last so they win.
func (b *Builder) Train(paths models.StoragePaths, profile hyperparams.Profile, testRun bool, extra []string) models.Invocation {
	trainPaths := paths.PreprocessedTrain + "*"
	if !testRun {
		trainPaths += "," + paths.PreprocessedEval + "*"
	}

	args := []string{
		"--train_data_paths=" + trainPaths,
		"--eval_data_paths=" + paths.PreprocessedEval + "*",
		"--input_dict=" + b.pipeline.Dictionary,
		"--output_path=" + paths.TrainingOutput,
	}
	args = append(args, profile.Flags()...)
	args = append(args, extra...)

	return models.Invocation{
		Collaborator: "trainer",
		Command:      b.pipeline.Collaborators.Trainer,
		Args:         args,
	}
}

// WritePredict builds the trainer invocation that writes predictions for
// a fixed number of evaluation samples instead of running a full cycle
func (b *Builder) WritePredict(paths models.StoragePaths, profile hyperparams.Profile, extra []string) models.Invocation {
	inv := b.Train(paths, profile, false, nil)
	inv.Args = append(inv.Args,
		"--write_predictions",
		fmt.Sprintf("--eval_set_size=%d", b.pipeline.EvalSetSize),
	)
	inv.Args = append(inv.Args, extra...)
	return inv
}

// Predict builds the local prediction invocation against the exported
// model of the current job
func (b *Builder) Predict(paths models.StoragePaths, instancesFile string) models.Invocation {
	return models.Invocation{
		Collaborator: "predictor",
		Command:      b.pipeline.Collaborators.LocalPredict,
		Args: []string{
			"--model-dir=" + paths.ModelDir(),
			"--json-instances=" + instancesFile,
		},
	}
}

// PredictCloud builds the remote prediction invocation keyed by the
// persisted model version
func (b *Builder) PredictCloud(version models.ModelVersion, extra []string) models.Invocation {
	args := []string{
		"--model=" + b.pipeline.Model,
		"--version=" + version.Name,
	}
	args = append(args, extra...)
	return models.Invocation{
		Collaborator: "cloud predictor",
		Command:      b.pipeline.Collaborators.CloudPredict,
		Args:         args,
	}
}

// Publish builds the registry invocation that creates a model version
// from the current job's exported model
func (b *Builder) Publish(version string, paths models.StoragePaths) models.Invocation {
	return models.Invocation{
		Collaborator: "model registry",
		Command:      b.pipeline.Collaborators.Versions,
		Args: []string{
			"create", version,
			"--model=" + b.pipeline.Model,
			"--origin=" + paths.ModelDir(),
		},
	}
}

// SetDefault builds the registry invocation that makes the persisted
// version the serving default
func (b *Builder) SetDefault(version models.ModelVersion) models.Invocation {
	return models.Invocation{
		Collaborator: "model registry",
		Command:      b.pipeline.Collaborators.Versions,
		Args: []string{
			"set-default", version.Name,
			"--model=" + b.pipeline.Model,
		},
	}
}
