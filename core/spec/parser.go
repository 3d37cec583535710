package spec

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Pipeline is the resolved pipeline specification: which external tools
// each stage invokes and how raw shards are discovered. Every field has a
// default matching the original tooling, so the YAML file only needs to
// name what it changes.
type Pipeline struct {
	Model         string            // model name in the registry
	Dictionary    string            // label dictionary handed to preprocess and train
	EvalSetSize   int               // fixed sample count for write_predict
	TrainPrefix   string            // raw train shard prefix, e.g. train_set
	EvalPrefix    string            // raw eval shard prefix, e.g. eval_set
	AllShards     bool              // preprocess every shard, not just the first
	Collaborators Collaborators     // command lines per external tool
	Overrides     map[string]string // hyperparameter overrides applied over the profile
}

// Collaborators holds the command line for each external tool
type Collaborators struct {
	Gen          []string `yaml:"gen"`
	Preprocess   []string `yaml:"preprocess"`
	Trainer      []string `yaml:"trainer"`
	LocalPredict []string `yaml:"local_predict"`
	CloudPredict []string `yaml:"cloud_predict"`
	Versions     []string `yaml:"versions"`
}

// pipelineSpec is the YAML shape of the spec file
type pipelineSpec struct {
	Model           string            `yaml:"model"`
	Dictionary      string            `yaml:"dictionary"`
	EvalSetSize     *int              `yaml:"eval_set_size,omitempty"`
	Shards          shardSpec         `yaml:"shards"`
	Collaborators   Collaborators     `yaml:"collaborators"`
	Hyperparameters map[string]string `yaml:"hyperparameters"`
}

type shardSpec struct {
	TrainPrefix string `yaml:"train_prefix"`
	EvalPrefix  string `yaml:"eval_prefix"`
	All         *bool  `yaml:"all,omitempty"`
}

// Default returns the pipeline spec with every field at its default.
// allShards comes from the environment config and may still be overridden
// by the spec file.
func Default(allShards bool) *Pipeline {
	return &Pipeline{
		Model:       "article_classifier",
		Dictionary:  "data/dict.txt",
		EvalSetSize: 20000,
		TrainPrefix: "train_set",
		EvalPrefix:  "eval_set",
		AllShards:   allShards,
		Collaborators: Collaborators{
			Gen:          []string{"python", "-m", "trainer.gen"},
			Preprocess:   []string{"python", "-m", "trainer.preprocess"},
			Trainer:      []string{"python", "-m", "trainer.task"},
			LocalPredict: []string{"gcloud", "ml-engine", "local", "predict"},
			CloudPredict: []string{"gcloud", "ml-engine", "predict"},
			Versions:     []string{"gcloud", "ml-engine", "versions"},
		},
		Overrides: map[string]string{},
	}
}

// Parse parses a YAML pipeline specification, applying defaults for any
// field the document leaves out
func Parse(specYAML []byte, allShards bool) (*Pipeline, error) {
	var s pipelineSpec
	if err := yaml.Unmarshal(specYAML, &s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	p := Default(allShards)

	if s.Model != "" {
		p.Model = s.Model
	}
	if s.Dictionary != "" {
		p.Dictionary = s.Dictionary
	}
	if s.EvalSetSize != nil {
		p.EvalSetSize = *s.EvalSetSize
	}
	if s.Shards.TrainPrefix != "" {
		p.TrainPrefix = s.Shards.TrainPrefix
	}
	if s.Shards.EvalPrefix != "" {
		p.EvalPrefix = s.Shards.EvalPrefix
	}
	if s.Shards.All != nil {
		p.AllShards = *s.Shards.All
	}
	if len(s.Collaborators.Gen) > 0 {
		p.Collaborators.Gen = s.Collaborators.Gen
	}
	if len(s.Collaborators.Preprocess) > 0 {
		p.Collaborators.Preprocess = s.Collaborators.Preprocess
	}
	if len(s.Collaborators.Trainer) > 0 {
		p.Collaborators.Trainer = s.Collaborators.Trainer
	}
	if len(s.Collaborators.LocalPredict) > 0 {
		p.Collaborators.LocalPredict = s.Collaborators.LocalPredict
	}
	if len(s.Collaborators.CloudPredict) > 0 {
		p.Collaborators.CloudPredict = s.Collaborators.CloudPredict
	}
	if len(s.Collaborators.Versions) > 0 {
		p.Collaborators.Versions = s.Collaborators.Versions
	}
	for k, v := range s.Hyperparameters {
		p.Overrides[k] = v
	}

	return p, nil
}

// LoadFile loads the pipeline spec from path. A missing file is not an
// error: the defaults apply.
func LoadFile(path string, allShards bool) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(allShards), nil
		}
		return nil, fmt.Errorf("failed to read pipeline spec %s: %w", path, err)
	}
	return Parse(data, allShards)
}
