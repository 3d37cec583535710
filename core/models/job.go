package models

// JobIdentity identifies one training cycle
type JobIdentity struct {
	Name      string
	Timestamp string
	ID        string // Name + "_" + Timestamp
}

// StoragePaths holds the storage locations derived from a job identity.
// Derived, never persisted: two stages holding the same JobIdentity must
// compute byte-identical paths.
type StoragePaths struct {
	Base              string
	PreprocessedTrain string
	PreprocessedEval  string
	TrainingOutput    string
}

// ModelDir is where the trainer exports the servable model under the
// training output path.
func (p StoragePaths) ModelDir() string {
	return p.TrainingOutput + "/model"
}

// ModelVersion represents a published model version
type ModelVersion struct {
	Name string
}

// Stage represents one named step of the job lifecycle
type Stage string

const (
	StageGen          Stage = "gen"
	StagePre          Stage = "pre"
	StageTrain        Stage = "train"
	StageTrainTest    Stage = "train_test"
	StageWritePredict Stage = "write_predict"
	StagePredict      Stage = "predict"
	StagePredictCloud Stage = "predict_cloud"
	StagePublish      Stage = "publish"
	StageSet          Stage = "set"
)

// Stages lists every dispatchable stage in lifecycle order
var Stages = []Stage{
	StageGen,
	StagePre,
	StageTrain,
	StageTrainTest,
	StageWritePredict,
	StagePredict,
	StagePredictCloud,
	StagePublish,
	StageSet,
}

// ParseStage maps a stage name to its Stage value
func ParseStage(name string) (Stage, error) {
	for _, s := range Stages {
		if string(s) == name {
			return s, nil
		}
	}
	return "", &UnknownStageError{Name: name}
}

// StageRequest is one parsed invocation of the pipeline tool
type StageRequest struct {
	Stage Stage
	Args  []string // stage-specific positionals and passthrough flags, in order
}

// Invocation is a fully assembled collaborator command line
type Invocation struct {
	Collaborator string   // which external tool this targets, for diagnostics
	Command      []string // executable and its leading arguments
	Args         []string // stage-assembled arguments
}

// Argv returns the complete command line
func (inv Invocation) Argv() []string {
	argv := make([]string, 0, len(inv.Command)+len(inv.Args))
	argv = append(argv, inv.Command...)
	argv = append(argv, inv.Args...)
	return argv
}
